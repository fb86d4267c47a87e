package dsl

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/coerce"
)

// ArraySchema validates slices and arrays and outputs a new []any.
//
// In list mode (Array) one element shape applies to every index; a nil
// element shape leaves elements unconstrained. In tuple mode (Tuple) the
// head shapes apply to the leading indices and the optional rest shape to
// the remaining ones.
type ArraySchema struct {
	goshape.Node
	heads   []goshape.Shape
	rest    goshape.Shape
	tuple   bool
	minLen  int
	maxLen  int
	lenOpts [2]goshape.IssueOptions
	coerce  bool
	typeOpt goshape.IssueOptions
}

// Array returns an array shape applying elem to every element. elem may
// be nil.
func Array(elem goshape.Shape) *ArraySchema {
	return &ArraySchema{Node: goshape.NewNode(), rest: elem, minLen: -1, maxLen: -1}
}

// Tuple returns a fixed-length array shape with one shape per index. Use
// Rest to accept trailing elements.
func Tuple(heads ...goshape.Shape) *ArraySchema {
	return &ArraySchema{
		Node:   goshape.NewNode(),
		heads:  append([]goshape.Shape(nil), heads...),
		tuple:  true,
		minLen: -1,
		maxLen: -1,
	}
}

func (a *ArraySchema) clone() *ArraySchema {
	c := *a
	c.Node = a.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (a *ArraySchema) Check(st goshape.Step) *ArraySchema {
	c := *a
	c.Node = a.Node.With(st)
	return &c
}

// Element returns the shape applied to non-head elements (nil when
// unconstrained or for a tuple without rest).
func (a *ArraySchema) Element() goshape.Shape { return a.rest }

// Heads returns the per-index shapes of a tuple.
func (a *ArraySchema) Heads() []goshape.Shape { return append([]goshape.Shape(nil), a.heads...) }

// Rest returns a copy applying s to the elements after the heads.
func (a *ArraySchema) Rest(s goshape.Shape) *ArraySchema {
	c := a.clone()
	c.rest = s
	return c
}

// Min sets the minimum length.
func (a *ArraySchema) Min(n int, o ...goshape.IssueOptions) *ArraySchema {
	c := a.clone()
	c.minLen = n
	c.lenOpts[0] = lastIssueOpt(o)
	return c
}

// Max sets the maximum length.
func (a *ArraySchema) Max(n int, o ...goshape.IssueOptions) *ArraySchema {
	c := a.clone()
	c.maxLen = n
	c.lenOpts[1] = lastIssueOpt(o)
	return c
}

// Length requires exactly n elements.
func (a *ArraySchema) Length(n int, o ...goshape.IssueOptions) *ArraySchema {
	return a.Min(n, o...).Max(n, o...)
}

// NonEmpty is Min(1).
func (a *ArraySchema) NonEmpty(o ...goshape.IssueOptions) *ArraySchema { return a.Min(1, o...) }

// Coerce returns a copy that wraps non-array inputs into a one-element
// array (null and Undefined become empty arrays).
func (a *ArraySchema) Coerce() *ArraySchema {
	c := a.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-array inputs.
func (a *ArraySchema) TypeIssue(o goshape.IssueOptions) *ArraySchema {
	c := a.clone()
	c.typeOpt = o
	return c
}

func (a *ArraySchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return a.apply(pc, v, false)
}

func (a *ArraySchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return a.apply(pc, v, true)
}

func (a *ArraySchema) IsAsync() bool { return a.IsAsyncOf(a) }

func (a *ArraySchema) Inputs() goshape.TypeSet {
	if a.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeArray)
}

func (a *ArraySchema) Children() []goshape.Shape {
	out := append([]goshape.Shape(nil), a.heads...)
	if a.rest != nil {
		out = append(out, a.rest)
	}
	return out
}

func (a *ArraySchema) typeName() string {
	if a.tuple {
		return "tuple"
	}
	return "array"
}

// requiredHeads is the number of heads up to the last one that does not
// accept Undefined: trailing optional heads may be left out.
func (a *ArraySchema) requiredHeads() int {
	n := 0
	for i, h := range a.heads {
		if !acceptsUndefined(h) {
			n = i + 1
		}
	}
	return n
}

func (a *ArraySchema) elements(pc *goshape.ParseContext, v any) ([]any, bool) {
	if goshape.TypeOf(v) == goshape.TypeArray {
		if elems, ok := goshape.ToSlice(v); ok {
			return elems, true
		}
	}
	if pc.Coerce(a.coerce) {
		return coerce.Array(v)
	}
	return nil, false
}

// checkLength reports length violations at the array's own path.
func (a *ArraySchema) checkLength(pc *goshape.ParseContext, v any, elems []any) bool {
	ok := true
	n := len(elems)
	if a.tuple {
		if req := a.requiredHeads(); n < req {
			pc.Report(goshape.Issue{Code: goshape.CodeTooShort, Input: v, Param: req})
			ok = false
		}
		if a.rest == nil && n > len(a.heads) {
			pc.Report(goshape.Issue{Code: goshape.CodeTooLong, Input: v, Param: len(a.heads)})
			ok = false
		}
	}
	if a.minLen >= 0 && n < a.minLen {
		pc.Report(goshape.Issue{Code: goshape.CodeTooShort, Input: v, Param: a.minLen}, a.lenOpts[0])
		ok = false
	}
	if a.maxLen >= 0 && n > a.maxLen {
		pc.Report(goshape.Issue{Code: goshape.CodeTooLong, Input: v, Param: a.maxLen}, a.lenOpts[1])
		ok = false
	}
	return ok
}

func (a *ArraySchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	elems, ok := a.elements(pc, v)
	if !ok {
		pc.ReportType(a.typeName(), v, a.typeOpt)
		return nil, false
	}
	lenOK := a.checkLength(pc, v, elems)
	if !lenOK && pc.Halted() {
		return nil, false
	}

	// absent optional trailing heads are applied to Undefined
	n := len(elems)
	if a.tuple && n < len(a.heads) && n >= a.requiredHeads() {
		n = len(a.heads)
	}
	outs, allOK := pc.Siblings(n, async && childrenAsync(a.Children()...), func(pc *goshape.ParseContext, i int) (any, bool) {
		var ev any = goshape.Undefined
		if i < len(elems) {
			ev = elems[i]
		}
		var s goshape.Shape
		switch {
		case i < len(a.heads):
			s = a.heads[i]
		case a.rest != nil:
			s = a.rest
		default:
			return ev, true
		}
		return goshape.ApplyAt(pc, i, s, ev, async)
	})
	if !lenOK || !allOK {
		return nil, false
	}
	out := make([]any, 0, len(outs))
	for i, ov := range outs {
		if i >= len(elems) && goshape.IsUndefined(ov) {
			continue
		}
		out = append(out, ov)
	}
	return a.Run(pc, out, async)
}
