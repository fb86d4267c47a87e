package dsl

import (
	"context"
	"fmt"
	"reflect"

	goshape "github.com/reoring/goshape"
)

// lastIssueOpt returns the last IssueOptions or the zero value.
func lastIssueOpt(o []goshape.IssueOptions) goshape.IssueOptions {
	if len(o) > 0 {
		return o[len(o)-1]
	}
	return goshape.IssueOptions{}
}

// leaf provides Children for shapes without child shapes.
type leaf struct{}

func (leaf) Children() []goshape.Shape { return nil }

// Stepper is implemented by every shape of this package: Check returns a
// copy of the shape with st appended to its step list.
type Stepper[S any] interface {
	goshape.Shape
	Check(st goshape.Step) S
}

// Check appends st to the steps of s.
func Check[S Stepper[S]](s S, st goshape.Step) S { return s.Check(st) }

// Refine appends a named check. fn returns nil to accept the value, an
// error (reported as one custom issue) or goshape.Issues (reported as is,
// paths relative to the refined value).
func Refine[S Stepper[S]](s S, name string, fn func(v any) error, o ...goshape.IssueOptions) S {
	return s.Check(goshape.RefineStep(name, fn, lastIssueOpt(o)))
}

// RefineAsync appends a check that may block on I/O. The shape and every
// shape containing it become asynchronous.
func RefineAsync[S Stepper[S]](s S, name string, fn func(ctx context.Context, v any) error, o ...goshape.IssueOptions) S {
	return s.Check(goshape.RefineAsyncStep(name, fn, lastIssueOpt(o)))
}

// Transform appends a step replacing the value with fn's result.
func Transform[S Stepper[S]](s S, name string, fn func(v any) (any, error), o ...goshape.IssueOptions) S {
	return s.Check(goshape.TransformStep(name, fn, lastIssueOpt(o)))
}

// TransformAsync appends a transform that may block on I/O.
func TransformAsync[S Stepper[S]](s S, name string, fn func(ctx context.Context, v any) (any, error), o ...goshape.IssueOptions) S {
	return s.Check(goshape.TransformAsyncStep(name, fn, lastIssueOpt(o)))
}

// RefineOf is Refine for a typed predicate. The value handed to fn is the
// shape's canonical output (string, float64, bool, *big.Int, time.Time,
// []any, map[string]any, map[any]any); a value of another type fails the
// check with an invalid_type issue.
func RefineOf[T any, S Stepper[S]](s S, name string, fn func(v T) error, o ...goshape.IssueOptions) S {
	return Refine(s, name, func(v any) error {
		tv, ok := v.(T)
		if !ok {
			var zero T
			return goshape.Issues{{Code: goshape.CodeInvalidType, Input: v, Param: fmt.Sprintf("%T", zero)}}
		}
		return fn(tv)
	}, o...)
}

// TransformOf is Transform for a typed function.
func TransformOf[T, U any, S Stepper[S]](s S, name string, fn func(v T) (U, error), o ...goshape.IssueOptions) S {
	return Transform(s, name, func(v any) (any, error) {
		tv, ok := v.(T)
		if !ok {
			var zero T
			return nil, goshape.Issues{{Code: goshape.CodeInvalidType, Input: v, Param: fmt.Sprintf("%T", zero)}}
		}
		out, err := fn(tv)
		return out, err
	}, o...)
}

// anyLike marks shapes that accept every value unchanged. Intersections
// leave their outputs out of the merge.
type anyLike interface{ acceptsAll() bool }

// isNever reports whether s is a Never shape.
func isNever(s goshape.Shape) bool {
	_, ok := s.(*NeverSchema)
	return ok
}

// childrenAsync reports whether any of shapes is asynchronous.
func childrenAsync(shapes ...goshape.Shape) bool {
	for _, s := range shapes {
		if s != nil && s.IsAsync() {
			return true
		}
	}
	return false
}

// acceptsUndefined reports whether s is itself optional. Inputs is not
// consulted: coercing and still-resolving lazy shapes report every type
// without letting an absent value through.
func acceptsUndefined(s goshape.Shape) bool {
	switch t := s.(type) {
	case *OptionalSchema:
		return t.undefined
	case *AnySchema:
		return true
	}
	return false
}

// isHashable reports whether k can be used as a Go map key.
func isHashable(k any) bool {
	t := reflect.TypeOf(k)
	return t == nil || t.Comparable()
}
