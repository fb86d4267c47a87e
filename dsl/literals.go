package dsl

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/coerce"
)

// EnumSchema accepts the values of a closed list. Membership uses
// goshape.SameValue: NaN matches NaN and +0 matches -0. The output is the
// matching declared value.
type EnumSchema struct {
	goshape.Node
	leaf
	values  []any
	literal bool
	coerce  bool
	opt     goshape.IssueOptions
}

// Enum returns a shape accepting exactly the given values.
func Enum(values ...any) *EnumSchema {
	return &EnumSchema{Node: goshape.NewNode(), values: append([]any(nil), values...)}
}

// Const returns a shape accepting exactly v. Failures are reported as
// invalid_literal.
func Const(v any) *EnumSchema {
	return &EnumSchema{Node: goshape.NewNode(), values: []any{v}, literal: true}
}

func (s *EnumSchema) clone() *EnumSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *EnumSchema) Check(st goshape.Step) *EnumSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts the input toward the family of each
// allowed value before comparing.
func (s *EnumSchema) Coerce() *EnumSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the membership issue.
func (s *EnumSchema) TypeIssue(o goshape.IssueOptions) *EnumSchema {
	c := s.clone()
	c.opt = o
	return c
}

// Values returns the allowed values in declared order.
func (s *EnumSchema) Values() []any { return append([]any(nil), s.values...) }

// Exclude returns an enum without the given values.
func (s *EnumSchema) Exclude(values ...any) *EnumSchema {
	c := s.clone()
	c.values = nil
	for _, v := range s.values {
		if !containsSame(values, v) {
			c.values = append(c.values, v)
		}
	}
	return c
}

// Extract returns an enum restricted to the given values.
func (s *EnumSchema) Extract(values ...any) *EnumSchema {
	c := s.clone()
	c.values = nil
	for _, v := range s.values {
		if containsSame(values, v) {
			c.values = append(c.values, v)
		}
	}
	return c
}

func containsSame(list []any, v any) bool {
	for _, x := range list {
		if goshape.SameValue(x, v) {
			return true
		}
	}
	return false
}

func (s *EnumSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *EnumSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *EnumSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *EnumSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	var ts goshape.TypeSet
	for _, v := range s.values {
		ts = ts.Add(goshape.TypeOf(v))
	}
	return ts
}

func (s *EnumSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	coerceOn := pc.Coerce(s.coerce)
	for _, want := range s.values {
		if goshape.SameValue(want, v) {
			return s.Run(pc, want, async)
		}
		if coerceOn {
			if cv, ok := coerceLike(want, v); ok && goshape.SameValue(want, cv) {
				return s.Run(pc, want, async)
			}
		}
	}
	if s.literal {
		pc.Report(goshape.Issue{Code: goshape.CodeInvalidLiteral, Input: v, Param: s.values[0]}, s.opt)
	} else {
		pc.Report(goshape.Issue{Code: goshape.CodeInvalidEnum, Input: v, Param: s.Values()}, s.opt)
	}
	return nil, false
}

// coerceLike converts v toward the family of want.
func coerceLike(want, v any) (any, bool) {
	switch goshape.TypeOf(want) {
	case goshape.TypeString:
		return coerce.String(v)
	case goshape.TypeNumber:
		return coerce.Number(v)
	case goshape.TypeBoolean:
		return coerce.Boolean(v)
	case goshape.TypeBigInt:
		return coerce.BigInt(v)
	case goshape.TypeDate:
		return coerce.Date(v)
	}
	return nil, false
}
