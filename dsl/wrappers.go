package dsl

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// OptionalSchema wraps a shape and lets absent (Undefined) and/or null
// values through without consulting it. Optional, Default, Nullable and
// Nullish build it.
type OptionalSchema struct {
	goshape.Node
	inner     goshape.Shape
	undefined bool
	null      bool
	def       any
	hasDef    bool
}

func newOptional(s goshape.Shape, undefined, null bool) *OptionalSchema {
	invariant.NotNil(s, "wrapped shape")
	return &OptionalSchema{Node: goshape.NewNode(), inner: s, undefined: undefined, null: null}
}

// Optional accepts Undefined in addition to what s accepts. With a default
// value an Undefined input yields the default instead, without applying s;
// a func() any default is called on every use.
func Optional(s goshape.Shape, def ...any) *OptionalSchema {
	o := newOptional(s, true, false)
	if len(def) > 0 {
		o.def, o.hasDef = def[len(def)-1], true
	}
	return o
}

// Default is Optional(s, v).
func Default(s goshape.Shape, v any) *OptionalSchema { return Optional(s, v) }

// Nullable accepts nil in addition to what s accepts.
func Nullable(s goshape.Shape) *OptionalSchema { return newOptional(s, false, true) }

// Nullish accepts nil and Undefined in addition to what s accepts.
func Nullish(s goshape.Shape) *OptionalSchema { return newOptional(s, true, true) }

// Check returns a copy with st appended. Steps run on values produced by
// the wrapped shape or the default.
func (s *OptionalSchema) Check(st goshape.Step) *OptionalSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Unwrap returns the wrapped shape.
func (s *OptionalSchema) Unwrap() goshape.Shape { return s.inner }

func (s *OptionalSchema) defaultValue() any {
	if fn, ok := s.def.(func() any); ok {
		return fn()
	}
	return s.def
}

func (s *OptionalSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *OptionalSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *OptionalSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	switch {
	case s.undefined && goshape.IsUndefined(v):
		if s.hasDef {
			return s.Run(pc, s.defaultValue(), async)
		}
		return goshape.Undefined, true
	case s.null && v == nil:
		return nil, true
	}
	out, ok := goshape.Apply(pc, s.inner, v, async)
	if !ok {
		return nil, false
	}
	return s.Run(pc, out, async)
}

func (s *OptionalSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *OptionalSchema) Inputs() goshape.TypeSet {
	ts := s.inner.Inputs()
	if s.undefined {
		ts = ts.Add(goshape.TypeUndefined)
	}
	if s.null {
		ts = ts.Add(goshape.TypeNull)
	}
	return ts
}

func (s *OptionalSchema) Children() []goshape.Shape { return []goshape.Shape{s.inner} }

// NonOptionalSchema rejects Undefined before delegating to the wrapped
// shape.
type NonOptionalSchema struct {
	goshape.Node
	inner goshape.Shape
	opt   goshape.IssueOptions
}

// NonOptional rejects absent values with a required issue even when s
// would accept them.
func NonOptional(s goshape.Shape, o ...goshape.IssueOptions) *NonOptionalSchema {
	invariant.NotNil(s, "wrapped shape")
	return &NonOptionalSchema{Node: goshape.NewNode(), inner: s, opt: lastIssueOpt(o)}
}

// Check returns a copy with st appended.
func (s *NonOptionalSchema) Check(st goshape.Step) *NonOptionalSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Unwrap returns the wrapped shape.
func (s *NonOptionalSchema) Unwrap() goshape.Shape { return s.inner }

func (s *NonOptionalSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *NonOptionalSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *NonOptionalSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	if goshape.IsUndefined(v) {
		pc.ReportType(s.Inputs().String(), v, s.opt)
		return nil, false
	}
	out, ok := goshape.Apply(pc, s.inner, v, async)
	if !ok {
		return nil, false
	}
	return s.Run(pc, out, async)
}

func (s *NonOptionalSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *NonOptionalSchema) Inputs() goshape.TypeSet {
	return s.inner.Inputs() &^ goshape.Types(goshape.TypeUndefined)
}

func (s *NonOptionalSchema) Children() []goshape.Shape { return []goshape.Shape{s.inner} }

// PipeSchema feeds the output of one shape into the next.
type PipeSchema struct {
	goshape.Node
	stages []goshape.Shape
}

// Pipe applies first, then each of rest to the previous output. It stops
// at the first stage that yields no value.
func Pipe(first goshape.Shape, rest ...goshape.Shape) *PipeSchema {
	stages := append([]goshape.Shape{first}, rest...)
	for _, st := range stages {
		invariant.NotNil(st, "pipe stage")
	}
	return &PipeSchema{Node: goshape.NewNode(), stages: stages}
}

// Check returns a copy with st appended.
func (s *PipeSchema) Check(st goshape.Step) *PipeSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

func (s *PipeSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *PipeSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *PipeSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	cur := v
	for _, st := range s.stages {
		out, ok := goshape.Apply(pc, st, cur, async)
		if !ok {
			return nil, false
		}
		cur = out
	}
	return s.Run(pc, cur, async)
}

func (s *PipeSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *PipeSchema) Inputs() goshape.TypeSet { return s.stages[0].Inputs() }

func (s *PipeSchema) Children() []goshape.Shape { return s.stages }
