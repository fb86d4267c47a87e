package goshape

import (
	"context"

	"github.com/reoring/goshape/internal/invariant"
)

// Source yields one untyped input document. Package source provides JSON
// and YAML implementations.
type Source interface {
	Decode() (any, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (any, error)

func (f SourceFunc) Decode() (any, error) { return f() }

// ParseFrom decodes src and parses the document with s through the
// asynchronous path, so it accepts synchronous and asynchronous shapes
// alike. A decoding failure is reported as issues (CodeParseError unless
// the source reports its own issues). A nil shape panics like the other
// entry points.
func ParseFrom(ctx context.Context, s Shape, src Source, opts ...ParseOpt) (any, error) {
	invariant.NotNil(s, "shape")
	if ctx == nil {
		ctx = context.Background()
	}
	opt := lastOpt(opts)
	dctx, obs := observe(ctx, opt, "goshape.ParseFrom", src, false)
	v, err := src.Decode()
	if err != nil {
		iss := toIssues(err)
		obs.end(dctx, iss)
		return nil, NewValidationError(iss)
	}
	obs.end(dctx, nil)
	return ParseAsync(ctx, s, v, opt)
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Message: err.Error()})
}
