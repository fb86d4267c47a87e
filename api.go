package goshape

import (
	"context"

	"github.com/reoring/goshape/internal/invariant"
)

// Result is the outcome of Try and TryAsync: either a value (Issues empty)
// or the issues of the failed call (Value nil).
type Result struct {
	Value  any
	Issues Issues
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return len(r.Issues) == 0 }

// Err returns a *ValidationError for a failed result and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return NewValidationError(r.Issues)
}

// Try applies s to v through the synchronous path. It never returns an
// error; failures are reported in Result.Issues. It panics (wrapping
// ErrAsyncShape) when s is asynchronous.
func Try(ctx context.Context, s Shape, v any, opts ...ParseOpt) Result {
	return run(ctx, "goshape.Try", s, v, false, opts)
}

// TryAsync applies s to v through the asynchronous path, awaiting every
// async refinement and transform. It works for every shape and yields the
// same result as Try on synchronous shapes.
func TryAsync(ctx context.Context, s Shape, v any, opts ...ParseOpt) Result {
	return run(ctx, "goshape.TryAsync", s, v, true, opts)
}

// Parse returns the transformed value or a *ValidationError carrying every
// issue.
func Parse(ctx context.Context, s Shape, v any, opts ...ParseOpt) (any, error) {
	r := Try(ctx, s, v, opts...)
	return r.Value, r.Err()
}

// ParseAsync is Parse through the asynchronous path.
func ParseAsync(ctx context.Context, s Shape, v any, opts ...ParseOpt) (any, error) {
	r := TryAsync(ctx, s, v, opts...)
	return r.Value, r.Err()
}

// Validate returns the issues of v against s; an empty result means v
// conforms.
func Validate(ctx context.Context, s Shape, v any, opts ...ParseOpt) Issues {
	return Try(ctx, s, v, opts...).Issues
}

// ValidateAsync is Validate through the asynchronous path.
func ValidateAsync(ctx context.Context, s Shape, v any, opts ...ParseOpt) Issues {
	return TryAsync(ctx, s, v, opts...).Issues
}

// Is reports whether v conforms to s, taking the async path when s needs
// it.
func Is(ctx context.Context, s Shape, v any, opts ...ParseOpt) bool {
	if s.IsAsync() {
		return TryAsync(ctx, s, v, opts...).OK()
	}
	return Try(ctx, s, v, opts...).OK()
}

// Go runs TryAsync in its own goroutine and delivers the result on the
// returned channel, which is closed afterwards. Callers that need a
// deadline select on the channel and a timer; the walk itself keeps running
// until it completes.
func Go(ctx context.Context, s Shape, v any, opts ...ParseOpt) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- TryAsync(ctx, s, v, opts...)
	}()
	return ch
}

func run(ctx context.Context, name string, s Shape, v any, async bool, opts []ParseOpt) Result {
	invariant.NotNil(s, "shape")
	if !async && s.IsAsync() {
		invariant.Violation(ErrAsyncShape, "%s on %T", name, s)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	opt := lastOpt(opts)
	ctx, obs := observe(ctx, opt, name, s, async)
	pc := NewParseContext(ctx, opt)
	out, ok := Apply(pc, s, v, async)
	iss := pc.Issues()
	obs.end(ctx, iss)
	invariant.Invariant(ok || len(iss) > 0, "%T produced no value without recording an issue", s)
	if len(iss) > 0 {
		return Result{Issues: iss}
	}
	return Result{Value: out}
}
