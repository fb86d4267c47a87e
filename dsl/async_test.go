package dsl_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	g "github.com/reoring/goshape/dsl"
)

type ctxKey struct{}

func slowCheck(delay func(v string) time.Duration, bad func(v string) bool) *g.StringSchema {
	return g.RefineAsync(g.String(), "slow", func(ctx context.Context, v any) error {
		s := v.(string)
		time.Sleep(delay(s))
		if bad(s) {
			return fmt.Errorf("rejected %s", s)
		}
		return nil
	})
}

func TestAsync_FlagPropagates(t *testing.T) {
	async := g.RefineAsync(g.String(), "remote", func(context.Context, any) error { return nil })
	assert.True(t, async.IsAsync())
	assert.False(t, g.String().IsAsync())

	assert.True(t, g.Object(g.Field("a", g.Array(async))).IsAsync())
	assert.True(t, g.Or(g.Number(), async).IsAsync())
	assert.False(t, g.Object(g.Field("a", g.Array(g.String()))).IsAsync())

	var node *g.LazySchema
	node = g.Lazy(func() goshape.Shape {
		return g.Object(g.Field("self", g.Optional(node)), g.Field("s", async))
	})
	assert.True(t, node.IsAsync())

	var plain *g.LazySchema
	plain = g.Lazy(func() goshape.Shape { return g.Array(plain) })
	assert.False(t, plain.IsAsync())
}

func TestAsync_SyncEntryPanics(t *testing.T) {
	ctx := context.Background()
	s := g.Object(g.Field("a", g.RefineAsync(g.String(), "remote", func(context.Context, any) error { return nil })))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, goshape.ErrAsyncShape))
	}()
	goshape.Parse(ctx, s, map[string]any{"a": "x"})
	t.Fatal("expected a panic")
}

func TestAsync_MatchesSyncOnSyncShapes(t *testing.T) {
	ctx := context.Background()
	s := g.Object(
		g.Field("a", g.Array(g.Number().Int())),
		g.Field("b", g.Or(g.String(), g.Bool())),
	)
	for _, in := range []any{
		map[string]any{"a": []any{1, 2}, "b": true},
		map[string]any{"a": []any{1.5, "x"}, "b": 3},
		"nope",
	} {
		assert.Equal(t, goshape.Try(ctx, s, in), goshape.TryAsync(ctx, s, in))
	}
}

func TestAsync_RefineAndTransform(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "tenant-1")
	s := g.TransformAsync(g.String(), "tenant", func(ctx context.Context, v any) (any, error) {
		return fmt.Sprintf("%s/%s", ctx.Value(ctxKey{}), v), nil
	})
	out, err := goshape.ParseAsync(ctx, s, "x")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1/x", out)

	res := <-goshape.Go(ctx, s, 1)
	assert.False(t, res.OK())
	assert.Equal(t, []string{goshape.CodeInvalidType}, res.Issues.Codes())
}

func TestAsync_IssuesInDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	// later elements finish first
	s := g.Array(slowCheck(
		func(v string) time.Duration { return time.Duration(5-len(v)) * 5 * time.Millisecond },
		func(string) bool { return true },
	))
	in := []any{"a", "bb", "ccc", "dddd"}
	iss := goshape.ValidateAsync(ctx, s, in)
	require.Len(t, iss, 4)
	for i := range in {
		assert.Equal(t, goshape.Path{i}, iss[i].Path)
		assert.Equal(t, fmt.Sprintf("rejected %s", in[i]), iss[i].Message)
	}
}

func TestAsync_MaxConcurrency(t *testing.T) {
	ctx := context.Background()
	var running, peak atomic.Int32
	s := g.Array(g.RefineAsync(g.Number(), "track", func(context.Context, any) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return nil
	}))
	in := make([]any, 12)
	for i := range in {
		in[i] = i
	}
	_, err := goshape.ParseAsync(ctx, s, in, goshape.ParseOpt{MaxConcurrency: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestAsync_FailFastStopsSiblings(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	s := g.Array(g.RefineAsync(g.Number(), "count", func(context.Context, any) error {
		calls.Add(1)
		return errors.New("no")
	}))
	iss := goshape.ValidateAsync(ctx, s, []any{1, 2, 3}, goshape.ParseOpt{EarlyReturn: true})
	require.Len(t, iss, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAsync_SharedShapeAcrossCalls(t *testing.T) {
	ctx := context.Background()
	s := g.Object(g.Field("n", g.RefineAsync(g.Number(), "pos", func(_ context.Context, v any) error {
		if v.(float64) < 0 {
			return errors.New("negative")
		}
		return nil
	})))
	results := make([]<-chan goshape.Result, 20)
	for i := range results {
		results[i] = goshape.Go(ctx, s, map[string]any{"n": i - 10})
	}
	for i, ch := range results {
		r := <-ch
		assert.Equal(t, i >= 10, r.OK(), "call %d", i)
	}
}
