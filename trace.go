package goshape

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// callObserver wraps one top-level call with the optional span and debug
// record configured in ParseOpt.
type callObserver struct {
	opt   ParseOpt
	name  string
	shape string
	async bool
	span  trace.Span
}

func observe(ctx context.Context, opt ParseOpt, name string, s any, async bool) (context.Context, *callObserver) {
	o := &callObserver{opt: opt, name: name, shape: fmt.Sprintf("%T", s), async: async}
	if opt.Tracer != nil {
		ctx, o.span = opt.Tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("goshape.shape", o.shape),
			attribute.Bool("goshape.async", async),
		))
	}
	return ctx, o
}

func (o *callObserver) end(ctx context.Context, iss Issues) {
	if o.span != nil {
		o.span.SetAttributes(attribute.Int("goshape.issues", len(iss)))
		if len(iss) > 0 {
			o.span.SetStatus(codes.Error, iss.Error())
		}
		o.span.End()
	}
	if o.opt.Logger != nil {
		o.opt.Logger.DebugContext(ctx, o.name,
			"shape", o.shape,
			"async", o.async,
			"issues", len(iss),
		)
	}
}
