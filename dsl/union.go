package dsl

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// UnionSchema accepts a value when at least one candidate does.
//
// Never candidates are ignored, and so are candidates whose Inputs exclude
// the value's runtime type (unless coercion is enabled for the whole parse).
// The remaining candidates are tried in order, each on a fork of the parse
// context; the first one that succeeds without issues wins. When all fail a
// single invalid_union issue is reported whose Param is a
// goshape.UnionParam holding every attempted candidate's issues.
type UnionSchema struct {
	goshape.Node
	options []goshape.Shape
	opt     goshape.IssueOptions
}

// Or returns a union of the given candidates.
func Or(candidates ...goshape.Shape) *UnionSchema {
	for _, c := range candidates {
		invariant.NotNil(c, "union candidate")
	}
	return &UnionSchema{Node: goshape.NewNode(), options: append([]goshape.Shape(nil), candidates...)}
}

// Check returns a copy with st appended.
func (u *UnionSchema) Check(st goshape.Step) *UnionSchema {
	c := *u
	c.Node = u.Node.With(st)
	return &c
}

// TypeIssue customizes the invalid_union issue.
func (u *UnionSchema) TypeIssue(o goshape.IssueOptions) *UnionSchema {
	c := *u
	c.Node = u.Node.Clone()
	c.opt = o
	return &c
}

// Options returns the candidates in declared order.
func (u *UnionSchema) Options() []goshape.Shape { return append([]goshape.Shape(nil), u.options...) }

func (u *UnionSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return u.apply(pc, v, false)
}

func (u *UnionSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return u.apply(pc, v, true)
}

func (u *UnionSchema) IsAsync() bool { return u.IsAsyncOf(u) }

func (u *UnionSchema) Inputs() goshape.TypeSet {
	var ts goshape.TypeSet
	for _, c := range u.options {
		if !isNever(c) {
			ts = ts.Union(c.Inputs())
		}
	}
	return ts
}

func (u *UnionSchema) Children() []goshape.Shape { return u.options }

func (u *UnionSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	t := goshape.TypeOf(v)
	narrow := !pc.Options().Coerce
	var groups []goshape.Issues
	for _, c := range u.options {
		if isNever(c) || (narrow && !c.Inputs().Has(t)) {
			continue
		}
		f := pc.Fork()
		out, ok := goshape.Apply(f, c, v, async)
		if ok && f.Len() == 0 {
			return u.Run(pc, out, async)
		}
		groups = append(groups, f.Issues())
	}
	pc.Report(goshape.Issue{
		Code:  goshape.CodeInvalidUnion,
		Input: v,
		Param: goshape.UnionParam{Inputs: u.Inputs().List(), IssueGroups: groups},
	}, u.opt)
	return nil, false
}

// DiscriminatedSchema is a union of object shapes told apart by the value
// of one string property. Only the variant selected by that value runs, so
// its issues are reported directly instead of as invalid_union.
type DiscriminatedSchema struct {
	goshape.Node
	key      string
	variants []*ObjectSchema
	byTag    map[string]*ObjectSchema
	typeOpt  goshape.IssueOptions
}

// Discriminated returns a union over variants keyed by property key. Each
// variant must declare key with a Const or Enum of strings; a tag claimed
// by two variants is a programming error.
func Discriminated(key string, variants ...*ObjectSchema) *DiscriminatedSchema {
	d := &DiscriminatedSchema{
		Node:     goshape.NewNode(),
		key:      key,
		variants: append([]*ObjectSchema(nil), variants...),
		byTag:    map[string]*ObjectSchema{},
	}
	for i, v := range variants {
		invariant.NotNil(v, "discriminated variant")
		s, ok := v.Shape(key)
		invariant.Precondition(ok, "variant %d does not declare discriminator %q", i, key)
		e, ok := s.(*EnumSchema)
		invariant.Precondition(ok, "discriminator %q of variant %d must be a Const or Enum, got %T", key, i, s)
		for _, tv := range e.values {
			tag, ok := tv.(string)
			invariant.Precondition(ok, "discriminator %q of variant %d has non-string value %v", key, i, tv)
			_, dup := d.byTag[tag]
			invariant.Precondition(!dup, "discriminator value %q is used by more than one variant", tag)
			d.byTag[tag] = v
		}
	}
	return d
}

// Check returns a copy with st appended.
func (d *DiscriminatedSchema) Check(st goshape.Step) *DiscriminatedSchema {
	c := *d
	c.Node = d.Node.With(st)
	return &c
}

// TypeIssue customizes the issue reported for non-object inputs.
func (d *DiscriminatedSchema) TypeIssue(o goshape.IssueOptions) *DiscriminatedSchema {
	c := *d
	c.Node = d.Node.Clone()
	c.typeOpt = o
	return &c
}

// Key returns the discriminator property.
func (d *DiscriminatedSchema) Key() string { return d.key }

// Variant returns the variant selected by tag.
func (d *DiscriminatedSchema) Variant(tag string) (*ObjectSchema, bool) {
	v, ok := d.byTag[tag]
	return v, ok
}

func (d *DiscriminatedSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return d.apply(pc, v, false)
}

func (d *DiscriminatedSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return d.apply(pc, v, true)
}

func (d *DiscriminatedSchema) IsAsync() bool { return d.IsAsyncOf(d) }

func (d *DiscriminatedSchema) Inputs() goshape.TypeSet { return goshape.Types(goshape.TypeObject) }

func (d *DiscriminatedSchema) Children() []goshape.Shape {
	out := make([]goshape.Shape, len(d.variants))
	for i, v := range d.variants {
		out[i] = v
	}
	return out
}

func (d *DiscriminatedSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var m map[string]any
	ok := goshape.TypeOf(v) == goshape.TypeObject
	if ok {
		m, ok = goshape.ToObject(v)
	}
	if !ok {
		pc.ReportType("object", v, d.typeOpt)
		return nil, false
	}
	raw, present := m[d.key]
	tag, isString := goshape.Unbox(raw).(string)
	if !present || !isString {
		pc.Enter(d.key)
		pc.Report(goshape.Issue{Code: goshape.CodeDiscriminatorMissing, Input: raw, Param: d.key})
		pc.Leave()
		return nil, false
	}
	variant, found := d.byTag[tag]
	if !found {
		pc.Enter(d.key)
		pc.Report(goshape.Issue{Code: goshape.CodeDiscriminatorUnknown, Input: raw, Param: tag})
		pc.Leave()
		return nil, false
	}
	out, ok := goshape.Apply(pc, variant, v, async)
	if !ok {
		return nil, false
	}
	return d.Run(pc, out, async)
}
