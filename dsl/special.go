package dsl

import (
	goshape "github.com/reoring/goshape"
)

// AnySchema accepts every value, including Undefined, unchanged. Any and
// Unknown behave the same at runtime.
type AnySchema struct {
	goshape.Node
	leaf
	name string
}

// Any returns a shape accepting every value.
func Any() *AnySchema { return &AnySchema{Node: goshape.NewNode(), name: "any"} }

// Unknown returns a shape accepting every value.
func Unknown() *AnySchema { return &AnySchema{Node: goshape.NewNode(), name: "unknown"} }

// Check returns a copy with st appended.
func (s *AnySchema) Check(st goshape.Step) *AnySchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

func (s *AnySchema) acceptsAll() bool { return len(s.Steps()) == 0 }

func (s *AnySchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.Run(pc, v, false)
}

func (s *AnySchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.Run(pc, v, true)
}

func (s *AnySchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *AnySchema) Inputs() goshape.TypeSet { return goshape.AllTypes }

// NeverSchema rejects every value. Unions drop it from their candidates.
type NeverSchema struct {
	goshape.Node
	leaf
	opt goshape.IssueOptions
}

// Never returns a shape rejecting every value.
func Never(o ...goshape.IssueOptions) *NeverSchema {
	return &NeverSchema{Node: goshape.NewNode(), opt: lastIssueOpt(o)}
}

// Check returns a copy with st appended. The steps never run.
func (s *NeverSchema) Check(st goshape.Step) *NeverSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

func (s *NeverSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	pc.Report(goshape.Issue{Code: goshape.CodeInvalidType, Input: v, Param: "never"}, s.opt)
	return nil, false
}

func (s *NeverSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.TryApply(pc, v)
}

func (s *NeverSchema) IsAsync() bool { return false }

func (s *NeverSchema) OwnAsync() bool { return false }

func (s *NeverSchema) Inputs() goshape.TypeSet { return 0 }
