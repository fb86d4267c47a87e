package dsl

import (
	goshape "github.com/reoring/goshape"
)

// SetSchema validates a collection of distinct values. The input is a
// slice or array; elements equal under goshape.SameValue after parsing
// appear once in the output, in first-seen order.
type SetSchema struct {
	goshape.Node
	elem    goshape.Shape
	minSize int
	maxSize int
	sizeOpt [2]goshape.IssueOptions
	typeOpt goshape.IssueOptions
}

// Set returns a set shape. elem may be nil.
func Set(elem goshape.Shape) *SetSchema {
	return &SetSchema{Node: goshape.NewNode(), elem: elem, minSize: -1, maxSize: -1}
}

func (s *SetSchema) clone() *SetSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *SetSchema) Check(st goshape.Step) *SetSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Min sets the minimum number of distinct elements.
func (s *SetSchema) Min(n int, o ...goshape.IssueOptions) *SetSchema {
	c := s.clone()
	c.minSize = n
	c.sizeOpt[0] = lastIssueOpt(o)
	return c
}

// Max sets the maximum number of distinct elements.
func (s *SetSchema) Max(n int, o ...goshape.IssueOptions) *SetSchema {
	c := s.clone()
	c.maxSize = n
	c.sizeOpt[1] = lastIssueOpt(o)
	return c
}

// Size requires exactly n distinct elements.
func (s *SetSchema) Size(n int, o ...goshape.IssueOptions) *SetSchema {
	return s.Min(n, o...).Max(n, o...)
}

// TypeIssue customizes the issue reported for non-collection inputs.
func (s *SetSchema) TypeIssue(o goshape.IssueOptions) *SetSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

// Element returns the element shape.
func (s *SetSchema) Element() goshape.Shape { return s.elem }

func (s *SetSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *SetSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *SetSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *SetSchema) Inputs() goshape.TypeSet { return goshape.Types(goshape.TypeArray) }

func (s *SetSchema) Children() []goshape.Shape {
	if s.elem == nil {
		return nil
	}
	return []goshape.Shape{s.elem}
}

func (s *SetSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var elems []any
	ok := goshape.TypeOf(v) == goshape.TypeArray
	if ok {
		elems, ok = goshape.ToSlice(v)
	}
	if !ok {
		pc.ReportType("set", v, s.typeOpt)
		return nil, false
	}

	outs, allOK := pc.Siblings(len(elems), async && childrenAsync(s.elem), func(pc *goshape.ParseContext, i int) (any, bool) {
		if s.elem == nil {
			return elems[i], true
		}
		return goshape.ApplyAt(pc, i, s.elem, elems[i], async)
	})
	if !allOK {
		return nil, false
	}
	out := make([]any, 0, len(outs))
	for _, ov := range outs {
		if !containsSame(out, ov) {
			out = append(out, ov)
		}
	}

	sizeOK := true
	if s.minSize >= 0 && len(out) < s.minSize {
		pc.Report(goshape.Issue{Code: goshape.CodeTooShort, Input: v, Param: s.minSize}, s.sizeOpt[0])
		sizeOK = false
	}
	if s.maxSize >= 0 && len(out) > s.maxSize {
		pc.Report(goshape.Issue{Code: goshape.CodeTooLong, Input: v, Param: s.maxSize}, s.sizeOpt[1])
		sizeOK = false
	}
	if !sizeOK {
		return nil, false
	}
	return s.Run(pc, out, async)
}
