package dsl

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// IntersectionSchema accepts a value only when every candidate does, and
// merges the candidates' outputs into one value.
//
// Outputs equal under goshape.SameValue collapse. Two objects merge key by
// key, recursing on keys present in both; two arrays of equal length merge
// element by element. Anything else is a conflict, reported once as
// invalid_intersection at the intersection's path. Candidates that accept
// every value unchanged (Any, Unknown without steps) are validated but take
// no part in the merge.
type IntersectionSchema struct {
	goshape.Node
	parts []goshape.Shape
	opt   goshape.IssueOptions
}

// And returns the intersection of the given candidates.
func And(candidates ...goshape.Shape) *IntersectionSchema {
	invariant.Precondition(len(candidates) > 0, "intersection needs at least one candidate")
	for _, c := range candidates {
		invariant.NotNil(c, "intersection candidate")
	}
	return &IntersectionSchema{Node: goshape.NewNode(), parts: append([]goshape.Shape(nil), candidates...)}
}

// Check returns a copy with st appended.
func (s *IntersectionSchema) Check(st goshape.Step) *IntersectionSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// TypeIssue customizes the invalid_intersection issue.
func (s *IntersectionSchema) TypeIssue(o goshape.IssueOptions) *IntersectionSchema {
	c := *s
	c.Node = s.Node.Clone()
	c.opt = o
	return &c
}

func (s *IntersectionSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *IntersectionSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *IntersectionSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *IntersectionSchema) Inputs() goshape.TypeSet {
	ts := goshape.AllTypes
	for _, c := range s.parts {
		ts = ts.Intersect(c.Inputs())
	}
	return ts
}

func (s *IntersectionSchema) Children() []goshape.Shape { return s.parts }

func (s *IntersectionSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	outs, allOK := pc.Siblings(len(s.parts), async && childrenAsync(s.parts...), func(pc *goshape.ParseContext, i int) (any, bool) {
		return goshape.Apply(pc, s.parts[i], v, async)
	})
	if !allOK {
		return nil, false
	}

	merged, have := v, false
	for i, c := range s.parts {
		if al, ok := c.(anyLike); ok && al.acceptsAll() {
			continue
		}
		if !have {
			merged, have = outs[i], true
			continue
		}
		m, ok := mergeValues(merged, outs[i])
		if !ok {
			pc.Report(goshape.Issue{Code: goshape.CodeInvalidIntersection, Input: v}, s.opt)
			return nil, false
		}
		merged = m
	}
	return s.Run(pc, merged, async)
}

// mergeValues reconciles two candidate outputs. Only a conflict between the
// outputs themselves (or between array elements) fails; object keys never do.
func mergeValues(a, b any) (any, bool) {
	if goshape.SameValue(a, b) {
		return a, true
	}
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(am)+len(bm))
		for k, av := range am {
			out[k] = av
		}
		for k, bv := range bm {
			av, shared := am[k]
			if !shared {
				out[k] = bv
				continue
			}
			mv, ok := mergeValues(av, bv)
			if !ok {
				// plain values under the same key: the later candidate wins
				mv = bv
			}
			out[k] = mv
		}
		return out, true
	}
	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return nil, false
		}
		out := make([]any, len(as))
		for i := range as {
			mv, ok := mergeValues(as[i], bs[i])
			if !ok {
				return nil, false
			}
			out[i] = mv
		}
		return out, true
	}
	return nil, false
}
