package dsl

import (
	"sort"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// Property is one declared key of an object shape.
type Property struct {
	Name  string
	Shape goshape.Shape
}

// Field declares property name with shape s.
func Field(name string, s goshape.Shape) Property {
	invariant.NotNil(s, "shape of field "+name)
	return Property{Name: name, Shape: s}
}

// ObjectSchema validates string-keyed maps against declared properties.
//
// Declared properties are applied in declaration order; a key missing from
// the input reaches its shape as goshape.Undefined. Keys without a declared
// shape go to the rest shape when one is set, otherwise the unknown-key
// policy decides: strip (default) drops them, passthrough copies them and
// strict reports one unknown_key issue per key. The output is always a new
// map[string]any; a property whose shape outputs Undefined is left out.
//
// Structural operations (Extend, Pick, Omit, Partial, ...) return new
// shapes built from the declared properties; steps added with Check are not
// carried over.
type ObjectSchema struct {
	goshape.Node
	fields   []Property
	policy   goshape.UnknownPolicy
	rest     goshape.Shape
	readonly bool
	typeOpt  goshape.IssueOptions
	keyOpt   goshape.IssueOptions
}

// Object returns an object shape with the given properties. A later
// property with the same name replaces the earlier one in place.
func Object(fields ...Property) *ObjectSchema {
	o := &ObjectSchema{Node: goshape.NewNode()}
	o.fields = mergeFields(nil, fields)
	return o
}

func mergeFields(base []Property, more []Property) []Property {
	out := append([]Property(nil), base...)
	for _, p := range more {
		replaced := false
		for i := range out {
			if out[i].Name == p.Name {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

func (o *ObjectSchema) clone() *ObjectSchema {
	c := *o
	c.Node = o.Node.Clone()
	return &c
}

// derive returns a copy with the given properties and no steps.
func (o *ObjectSchema) derive(fields []Property) *ObjectSchema {
	c := *o
	c.Node = goshape.NewNode()
	c.fields = fields
	return &c
}

// Check returns a copy with st appended. Steps run on the output map.
func (o *ObjectSchema) Check(st goshape.Step) *ObjectSchema {
	c := *o
	c.Node = o.Node.With(st)
	return &c
}

// Strip drops unknown keys from the output.
func (o *ObjectSchema) Strip() *ObjectSchema { return o.withPolicy(goshape.UnknownStrip) }

// Passthrough copies unknown keys to the output unchanged.
func (o *ObjectSchema) Passthrough() *ObjectSchema { return o.withPolicy(goshape.UnknownPassthrough) }

// Strict reports every unknown key as an unknown_key issue at that key.
func (o *ObjectSchema) Strict(opt ...goshape.IssueOptions) *ObjectSchema {
	c := o.withPolicy(goshape.UnknownStrict)
	c.keyOpt = lastIssueOpt(opt)
	return c
}

func (o *ObjectSchema) withPolicy(p goshape.UnknownPolicy) *ObjectSchema {
	c := o.clone()
	c.policy = p
	c.rest = nil
	return c
}

// Rest returns a copy applying s to every key without a declared shape.
// The unknown-key policy no longer applies.
func (o *ObjectSchema) Rest(s goshape.Shape) *ObjectSchema {
	c := o.clone()
	c.rest = s
	return c
}

// TypeIssue customizes the issue reported for non-object inputs.
func (o *ObjectSchema) TypeIssue(opt goshape.IssueOptions) *ObjectSchema {
	c := o.clone()
	c.typeOpt = opt
	return c
}

// Policy returns the unknown-key policy.
func (o *ObjectSchema) Policy() goshape.UnknownPolicy { return o.policy }

// RestShape returns the shape for undeclared keys, or nil.
func (o *ObjectSchema) RestShape() goshape.Shape { return o.rest }

// Fields returns the declared properties in order.
func (o *ObjectSchema) Fields() []Property { return append([]Property(nil), o.fields...) }

// Keys returns the declared property names in order.
func (o *ObjectSchema) Keys() []string {
	out := make([]string, len(o.fields))
	for i, p := range o.fields {
		out[i] = p.Name
	}
	return out
}

// KeyEnum returns an enum shape accepting the declared property names.
func (o *ObjectSchema) KeyEnum() *EnumSchema {
	names := make([]any, len(o.fields))
	for i, p := range o.fields {
		names[i] = p.Name
	}
	return Enum(names...)
}

// Shape returns the shape declared for name.
func (o *ObjectSchema) Shape(name string) (goshape.Shape, bool) {
	for _, p := range o.fields {
		if p.Name == name {
			return p.Shape, true
		}
	}
	return nil, false
}

// Extend returns an object with the properties of other added. Properties
// of other replace same-named ones.
func (o *ObjectSchema) Extend(other *ObjectSchema) *ObjectSchema {
	return o.derive(mergeFields(o.fields, other.fields))
}

// ExtendFields is Extend with properties given inline.
func (o *ObjectSchema) ExtendFields(fields ...Property) *ObjectSchema {
	return o.derive(mergeFields(o.fields, fields))
}

// Pick keeps only the named properties.
func (o *ObjectSchema) Pick(keys ...string) *ObjectSchema {
	set := stringSet(keys)
	var out []Property
	for _, p := range o.fields {
		if _, ok := set[p.Name]; ok {
			out = append(out, p)
		}
	}
	return o.derive(out)
}

// Omit drops the named properties.
func (o *ObjectSchema) Omit(keys ...string) *ObjectSchema {
	set := stringSet(keys)
	var out []Property
	for _, p := range o.fields {
		if _, ok := set[p.Name]; !ok {
			out = append(out, p)
		}
	}
	return o.derive(out)
}

// Partial makes the named properties optional; with no names every
// property becomes optional.
func (o *ObjectSchema) Partial(keys ...string) *ObjectSchema {
	return o.mapFields(keys, func(s goshape.Shape) goshape.Shape {
		if acceptsUndefined(s) {
			return s
		}
		return Optional(s)
	})
}

// Required makes the named properties required; with no names every
// property becomes required. A plain Optional wrapper is removed, any other
// shape accepting Undefined is wrapped with NonOptional.
func (o *ObjectSchema) Required(keys ...string) *ObjectSchema {
	return o.mapFields(keys, requiredOf)
}

func requiredOf(s goshape.Shape) goshape.Shape {
	if opt, ok := s.(*OptionalSchema); ok && opt.undefined && !opt.null && !opt.hasDef && len(opt.Steps()) == 0 {
		s = opt.inner
	}
	if s.Inputs().Has(goshape.TypeUndefined) {
		return NonOptional(s)
	}
	return s
}

// DeepPartial makes every property optional, recursing into nested
// objects, arrays, tuples and optional wrappers.
func (o *ObjectSchema) DeepPartial() *ObjectSchema {
	return o.mapFields(nil, func(s goshape.Shape) goshape.Shape {
		s = deepPartialOf(s)
		if acceptsUndefined(s) {
			return s
		}
		return Optional(s)
	})
}

// Readonly marks the output as read-only. Parsing is unchanged.
func (o *ObjectSchema) Readonly() *ObjectSchema {
	c := o.clone()
	c.readonly = true
	return c
}

// IsReadonly reports whether Readonly was applied.
func (o *ObjectSchema) IsReadonly() bool { return o.readonly }

func (o *ObjectSchema) mapFields(keys []string, fn func(goshape.Shape) goshape.Shape) *ObjectSchema {
	set := stringSet(keys)
	out := make([]Property, len(o.fields))
	for i, p := range o.fields {
		out[i] = p
		if _, ok := set[p.Name]; ok || len(keys) == 0 {
			out[i].Shape = fn(p.Shape)
		}
	}
	return o.derive(out)
}

func stringSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// deepPartialer is implemented by shapes DeepPartial recurses into.
type deepPartialer interface {
	deepPartial() goshape.Shape
}

func deepPartialOf(s goshape.Shape) goshape.Shape {
	if dp, ok := s.(deepPartialer); ok {
		return dp.deepPartial()
	}
	return s
}

func (o *ObjectSchema) deepPartial() goshape.Shape { return o.DeepPartial() }

func (a *ArraySchema) deepPartial() goshape.Shape {
	c := a.clone()
	c.heads = a.Heads()
	for i, h := range c.heads {
		h = deepPartialOf(h)
		if !acceptsUndefined(h) {
			h = Optional(h)
		}
		c.heads[i] = h
	}
	if c.rest != nil {
		c.rest = deepPartialOf(c.rest)
	}
	return c
}

func (s *OptionalSchema) deepPartial() goshape.Shape {
	c := *s
	c.Node = s.Node.Clone()
	c.inner = deepPartialOf(s.inner)
	return &c
}

func (o *ObjectSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return o.apply(pc, v, false)
}

func (o *ObjectSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return o.apply(pc, v, true)
}

func (o *ObjectSchema) IsAsync() bool { return o.IsAsyncOf(o) }

func (o *ObjectSchema) Inputs() goshape.TypeSet { return goshape.Types(goshape.TypeObject) }

func (o *ObjectSchema) Children() []goshape.Shape {
	out := make([]goshape.Shape, 0, len(o.fields)+1)
	for _, p := range o.fields {
		out = append(out, p.Shape)
	}
	if o.rest != nil {
		out = append(out, o.rest)
	}
	return out
}

func (o *ObjectSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var in map[string]any
	ok := goshape.TypeOf(v) == goshape.TypeObject
	if ok {
		in, ok = goshape.ToObject(v)
	}
	if !ok {
		pc.ReportType("object", v, o.typeOpt)
		return nil, false
	}

	declared := make(map[string]struct{}, len(o.fields))
	for _, p := range o.fields {
		declared[p.Name] = struct{}{}
	}
	var unknown []string
	for k := range in {
		if _, ok := declared[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	nf := len(o.fields)
	outs, allOK := pc.Siblings(nf+len(unknown), async && childrenAsync(o.Children()...), func(pc *goshape.ParseContext, i int) (any, bool) {
		if i < nf {
			p := o.fields[i]
			fv, present := in[p.Name]
			if !present {
				fv = goshape.Undefined
			}
			return goshape.ApplyAt(pc, p.Name, p.Shape, fv, async)
		}
		k := unknown[i-nf]
		switch {
		case o.rest != nil:
			return goshape.ApplyAt(pc, k, o.rest, in[k], async)
		case o.policy == goshape.UnknownPassthrough:
			return in[k], true
		case o.policy == goshape.UnknownStrict:
			pc.Enter(k)
			pc.Report(goshape.Issue{Code: goshape.CodeUnknownKey, Input: in[k], Param: k}, o.keyOpt)
			pc.Leave()
			return nil, false
		}
		return goshape.Undefined, true
	})
	if !allOK {
		return nil, false
	}

	out := make(map[string]any, len(outs))
	for i, ov := range outs {
		if goshape.IsUndefined(ov) {
			continue
		}
		if i < nf {
			out[o.fields[i].Name] = ov
		} else {
			out[unknown[i-nf]] = ov
		}
	}
	return o.Run(pc, out, async)
}
