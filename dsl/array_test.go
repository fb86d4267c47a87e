package dsl_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	g "github.com/reoring/goshape/dsl"
)

func TestArray_IssuesPerElement(t *testing.T) {
	ctx := context.Background()
	iss := goshape.Validate(ctx, g.Array(g.String()), []any{"a", 1, "b", 2})
	require.Len(t, iss, 2)
	assert.Equal(t, goshape.Path{1}, iss[0].Path)
	assert.Equal(t, goshape.Path{3}, iss[1].Path)

	iss = goshape.Validate(ctx, g.Array(g.String()), []any{"a", 1, "b", 2}, goshape.ParseOpt{EarlyReturn: true})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.Path{1}, iss[0].Path)
}

func TestArray_LengthAtOwnPath(t *testing.T) {
	ctx := context.Background()
	iss := goshape.Validate(ctx, g.Array(g.String()).Min(2), []any{"a"})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.CodeTooShort, iss[0].Code)
	assert.Equal(t, 2, iss[0].Param)
	assert.Empty(t, iss[0].Path)

	iss = goshape.Validate(ctx, g.Array(nil).Max(1), []any{1, 2})
	assert.Equal(t, []string{goshape.CodeTooLong}, iss.Codes())

	// verbose mode still reports the elements
	iss = goshape.Validate(ctx, g.Array(g.String()).Min(3), []any{1})
	assert.Equal(t, []string{goshape.CodeTooShort, goshape.CodeInvalidType}, iss.Codes())
}

func TestArray_OutputIsACopy(t *testing.T) {
	ctx := context.Background()
	in := []any{1.0, 2.0}
	out, err := goshape.Parse(ctx, g.Array(nil), in)
	require.NoError(t, err)
	got := out.([]any)
	assert.Equal(t, in, got)
	got[0] = 9.0
	assert.Equal(t, 1.0, in[0])
}

func TestArray_TypedSlices(t *testing.T) {
	ctx := context.Background()
	out, err := goshape.Parse(ctx, g.Array(g.Number()), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, out)

	out, err = goshape.Parse(ctx, g.Array(g.String()), [2]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	assert.False(t, goshape.Is(ctx, g.Array(nil), "ab"))
}

func TestArray_Coerce(t *testing.T) {
	ctx := context.Background()
	s := g.Array(g.Number()).Coerce()

	out, err := goshape.Parse(ctx, s, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{3.0}, out)

	out, err = goshape.Parse(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestTuple(t *testing.T) {
	ctx := context.Background()
	pair := g.Tuple(g.String(), g.Number())

	out, err := goshape.Parse(ctx, pair, []any{"a", 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 1.0}, out)

	iss := goshape.Validate(ctx, pair, []any{"a"})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.CodeTooShort, iss[0].Code)
	assert.Equal(t, 2, iss[0].Param)

	iss = goshape.Validate(ctx, pair, []any{"a", 1, true})
	assert.Equal(t, []string{goshape.CodeTooLong}, iss.Codes())

	out, err = goshape.Parse(ctx, pair.Rest(g.Bool()), []any{"a", 1, true, false})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 1.0, true, false}, out)

	iss = goshape.Validate(ctx, pair.Rest(g.Bool()), []any{"a", 1, "x"})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.Path{2}, iss[0].Path)
}

func TestTuple_OptionalTrailingHeads(t *testing.T) {
	ctx := context.Background()

	out, err := goshape.Parse(ctx, g.Tuple(g.String(), g.Optional(g.Number())), []any{"a"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, out)

	out, err = goshape.Parse(ctx, g.Tuple(g.String(), g.Default(g.Number(), 5.0)), []any{"a"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 5.0}, out)
}

func TestTuple_CoercingHeadsAreRequired(t *testing.T) {
	ctx := context.Background()
	s := g.Tuple(g.Number().Coerce(), g.String().Coerce())

	iss := goshape.Validate(ctx, s, []any{})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.CodeTooShort, iss[0].Code)
	assert.Equal(t, 2, iss[0].Param)
	assert.Empty(t, iss[0].Path)

	out, err := goshape.Parse(ctx, s, []any{"1", 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "2"}, out)

	deep := g.Object(g.Field("t", s)).DeepPartial()
	out, err = goshape.Parse(ctx, deep, map[string]any{"t": []any{}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"t": []any{}}, out)
}

func TestSet(t *testing.T) {
	ctx := context.Background()
	out, err := goshape.Parse(ctx, g.Set(g.Number()), []any{1, 1.0, 2, int8(2)})
	require.NoError(t, err)
	if diff := cmp.Diff([]any{1.0, 2.0}, out); diff != "" {
		t.Fatalf("set output mismatch (-want +got):\n%s", diff)
	}

	iss := goshape.Validate(ctx, g.Set(g.Number()).Min(3), []any{1, 1, 2})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.CodeTooShort, iss[0].Code)
	assert.Equal(t, 3, iss[0].Param)

	iss = goshape.Validate(ctx, g.Set(g.String()), []any{"a", 2})
	require.Len(t, iss, 1)
	assert.Equal(t, goshape.Path{1}, iss[0].Path)
}
