package goshape

import (
	"context"
	"fmt"
)

// serviceKey is a unique key per type parameter T for context storage.
type serviceKey[T any] struct{}

// WithService stores a typed service instance in the context handed to
// async refinements and transforms (see ParseContext.Context).
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, any(svc))
}

// Service retrieves a typed service instance from context.
func Service[T any](ctx context.Context) (T, bool) {
	var zero T
	tv, ok := ctx.Value(serviceKey[T]{}).(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// RequireService returns the service, or Issues with
// CodeDependencyUnavailable that a refinement can return unchanged: the
// issue is then recorded at the refined value's path.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, Issues{Issue{
		Code:    CodeDependencyUnavailable,
		Param:   fmt.Sprintf("%T", (*T)(nil))[1:],
		Message: "service not provided",
	}}
}
