package dsl

import (
	"math"
	"math/big"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/coerce"
)

// ---- string ----

// StringSchema accepts strings (including named string types and pointers
// to strings) and outputs a plain string.
type StringSchema struct {
	goshape.Node
	leaf
	coerce  bool
	typeOpt goshape.IssueOptions
}

// String returns a string shape.
func String() *StringSchema { return &StringSchema{Node: goshape.NewNode()} }

func (s *StringSchema) clone() *StringSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *StringSchema) Check(st goshape.Step) *StringSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts non-string inputs (see coerce.String).
func (s *StringSchema) Coerce() *StringSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-string inputs.
func (s *StringSchema) TypeIssue(o goshape.IssueOptions) *StringSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

func strPred(fn func(string) bool) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && fn(s)
	}
}

// Min requires at least n characters.
func (s *StringSchema) Min(n int, o ...goshape.IssueOptions) *StringSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooShort, n, lastIssueOpt(o),
		strPred(func(x string) bool { return utf8.RuneCountInString(x) >= n })))
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int, o ...goshape.IssueOptions) *StringSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooLong, n, lastIssueOpt(o),
		strPred(func(x string) bool { return utf8.RuneCountInString(x) <= n })))
}

// Length requires exactly n characters.
func (s *StringSchema) Length(n int, o ...goshape.IssueOptions) *StringSchema {
	return s.Min(n, o...).Max(n, o...)
}

// NonEmpty is Min(1).
func (s *StringSchema) NonEmpty(o ...goshape.IssueOptions) *StringSchema { return s.Min(1, o...) }

// Regex requires a match of re.
func (s *StringSchema) Regex(re *regexp.Regexp, o ...goshape.IssueOptions) *StringSchema {
	return s.Check(goshape.Constraint(goshape.CodePattern, re.String(), lastIssueOpt(o), strPred(re.MatchString)))
}

// StartsWith requires the prefix p.
func (s *StringSchema) StartsWith(p string, o ...goshape.IssueOptions) *StringSchema {
	return s.Check(goshape.Constraint(goshape.CodePattern, "^"+regexp.QuoteMeta(p), lastIssueOpt(o),
		strPred(func(x string) bool { return strings.HasPrefix(x, p) })))
}

// EndsWith requires the suffix p.
func (s *StringSchema) EndsWith(p string, o ...goshape.IssueOptions) *StringSchema {
	return s.Check(goshape.Constraint(goshape.CodePattern, regexp.QuoteMeta(p)+"$", lastIssueOpt(o),
		strPred(func(x string) bool { return strings.HasSuffix(x, p) })))
}

// Trim removes leading and trailing white space before later steps.
func (s *StringSchema) Trim() *StringSchema { return s.mapString("trim", strings.TrimSpace) }

// ToLower lower-cases the value.
func (s *StringSchema) ToLower() *StringSchema { return s.mapString("to_lower", strings.ToLower) }

// ToUpper upper-cases the value.
func (s *StringSchema) ToUpper() *StringSchema { return s.mapString("to_upper", strings.ToUpper) }

func (s *StringSchema) mapString(name string, fn func(string) string) *StringSchema {
	return TransformOf(s, name, func(x string) (string, error) { return fn(x), nil })
}

func (s *StringSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *StringSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *StringSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *StringSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeString)
}

func (s *StringSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var x string
	ok := goshape.TypeOf(v) == goshape.TypeString
	if ok {
		x, ok = goshape.Unbox(v).(string)
	}
	if !ok && pc.Coerce(s.coerce) {
		x, ok = coerce.String(v)
	}
	if !ok {
		pc.ReportType("string", v, s.typeOpt)
		return nil, false
	}
	return s.Run(pc, x, async)
}

// ---- number ----

// NumberSchema accepts every Go numeric kind and json.Number and outputs a
// float64. NaN is never a number.
type NumberSchema struct {
	goshape.Node
	leaf
	coerce  bool
	typeOpt goshape.IssueOptions
}

// Number returns a number shape.
func Number() *NumberSchema { return &NumberSchema{Node: goshape.NewNode()} }

func (s *NumberSchema) clone() *NumberSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *NumberSchema) Check(st goshape.Step) *NumberSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts non-number inputs (see coerce.Number).
func (s *NumberSchema) Coerce() *NumberSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-number inputs.
func (s *NumberSchema) TypeIssue(o goshape.IssueOptions) *NumberSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

func numPred(fn func(float64) bool) func(any) bool {
	return func(v any) bool {
		f, ok := v.(float64)
		return ok && fn(f)
	}
}

// Gt requires a value greater than n.
func (s *NumberSchema) Gt(n float64, o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooSmall, n, lastIssueOpt(o), numPred(func(f float64) bool { return f > n })))
}

// Gte requires a value of at least n.
func (s *NumberSchema) Gte(n float64, o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooSmall, n, lastIssueOpt(o), numPred(func(f float64) bool { return f >= n })))
}

// Lt requires a value less than n.
func (s *NumberSchema) Lt(n float64, o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooBig, n, lastIssueOpt(o), numPred(func(f float64) bool { return f < n })))
}

// Lte requires a value of at most n.
func (s *NumberSchema) Lte(n float64, o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooBig, n, lastIssueOpt(o), numPred(func(f float64) bool { return f <= n })))
}

// Min is Gte.
func (s *NumberSchema) Min(n float64, o ...goshape.IssueOptions) *NumberSchema { return s.Gte(n, o...) }

// Max is Lte.
func (s *NumberSchema) Max(n float64, o ...goshape.IssueOptions) *NumberSchema { return s.Lte(n, o...) }

// Positive is Gt(0).
func (s *NumberSchema) Positive(o ...goshape.IssueOptions) *NumberSchema { return s.Gt(0, o...) }

// NonNegative is Gte(0).
func (s *NumberSchema) NonNegative(o ...goshape.IssueOptions) *NumberSchema { return s.Gte(0, o...) }

// Negative is Lt(0).
func (s *NumberSchema) Negative(o ...goshape.IssueOptions) *NumberSchema { return s.Lt(0, o...) }

// NonPositive is Lte(0).
func (s *NumberSchema) NonPositive(o ...goshape.IssueOptions) *NumberSchema { return s.Lte(0, o...) }

// Int requires a finite integral value.
func (s *NumberSchema) Int(o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeNotInteger, nil, lastIssueOpt(o), numPred(func(f float64) bool {
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	})))
}

// Finite rejects infinities.
func (s *NumberSchema) Finite(o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeNotFinite, nil, lastIssueOpt(o), numPred(func(f float64) bool {
		return !math.IsInf(f, 0)
	})))
}

// MultipleOf requires an integral multiple of d (d != 0).
func (s *NumberSchema) MultipleOf(d float64, o ...goshape.IssueOptions) *NumberSchema {
	return s.Check(goshape.Constraint(goshape.CodeNotMultipleOf, d, lastIssueOpt(o), numPred(func(f float64) bool {
		return isMultiple(f, d)
	})))
}

func isMultiple(f, d float64) bool {
	if d == 0 || math.IsInf(f, 0) {
		return false
	}
	q := f / d
	return math.Abs(q-math.Round(q)) <= 1e-9*math.Max(1, math.Abs(q))
}

func (s *NumberSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *NumberSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *NumberSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *NumberSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeNumber)
}

func (s *NumberSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var f float64
	ok := goshape.TypeOf(v) == goshape.TypeNumber
	if ok {
		f, ok = goshape.ToFloat(v)
		ok = ok && !math.IsNaN(f)
	}
	if !ok && pc.Coerce(s.coerce) {
		f, ok = coerce.Number(v)
	}
	if !ok {
		pc.ReportType("number", v, s.typeOpt)
		return nil, false
	}
	return s.Run(pc, f, async)
}

// ---- boolean ----

// BoolSchema accepts booleans.
type BoolSchema struct {
	goshape.Node
	leaf
	coerce  bool
	typeOpt goshape.IssueOptions
}

// Bool returns a boolean shape.
func Bool() *BoolSchema { return &BoolSchema{Node: goshape.NewNode()} }

func (s *BoolSchema) clone() *BoolSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *BoolSchema) Check(st goshape.Step) *BoolSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts 1/0 and "true"/"false" (see
// coerce.Boolean).
func (s *BoolSchema) Coerce() *BoolSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-boolean inputs.
func (s *BoolSchema) TypeIssue(o goshape.IssueOptions) *BoolSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

func (s *BoolSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *BoolSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *BoolSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *BoolSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeBoolean)
}

func (s *BoolSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var b bool
	ok := goshape.TypeOf(v) == goshape.TypeBoolean
	if ok {
		b, ok = goshape.Unbox(v).(bool)
	}
	if !ok && pc.Coerce(s.coerce) {
		b, ok = coerce.Boolean(v)
	}
	if !ok {
		pc.ReportType("boolean", v, s.typeOpt)
		return nil, false
	}
	return s.Run(pc, b, async)
}

// ---- bigint ----

// BigIntSchema accepts *big.Int and big.Int values and outputs a fresh
// *big.Int.
type BigIntSchema struct {
	goshape.Node
	leaf
	coerce  bool
	typeOpt goshape.IssueOptions
}

// BigInt returns a bigint shape.
func BigInt() *BigIntSchema { return &BigIntSchema{Node: goshape.NewNode()} }

func (s *BigIntSchema) clone() *BigIntSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *BigIntSchema) Check(st goshape.Step) *BigIntSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts integral numbers, numeric strings
// and booleans (see coerce.BigInt).
func (s *BigIntSchema) Coerce() *BigIntSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-bigint inputs.
func (s *BigIntSchema) TypeIssue(o goshape.IssueOptions) *BigIntSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

func bigPred(fn func(*big.Int) bool) func(any) bool {
	return func(v any) bool {
		b, ok := v.(*big.Int)
		return ok && fn(b)
	}
}

// Min requires a value of at least n.
func (s *BigIntSchema) Min(n int64, o ...goshape.IssueOptions) *BigIntSchema {
	bn := big.NewInt(n)
	return s.Check(goshape.Constraint(goshape.CodeTooSmall, n, lastIssueOpt(o), bigPred(func(b *big.Int) bool { return b.Cmp(bn) >= 0 })))
}

// Max requires a value of at most n.
func (s *BigIntSchema) Max(n int64, o ...goshape.IssueOptions) *BigIntSchema {
	bn := big.NewInt(n)
	return s.Check(goshape.Constraint(goshape.CodeTooBig, n, lastIssueOpt(o), bigPred(func(b *big.Int) bool { return b.Cmp(bn) <= 0 })))
}

// Positive requires a value above zero.
func (s *BigIntSchema) Positive(o ...goshape.IssueOptions) *BigIntSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooSmall, 0, lastIssueOpt(o), bigPred(func(b *big.Int) bool { return b.Sign() > 0 })))
}

// Negative requires a value below zero.
func (s *BigIntSchema) Negative(o ...goshape.IssueOptions) *BigIntSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooBig, 0, lastIssueOpt(o), bigPred(func(b *big.Int) bool { return b.Sign() < 0 })))
}

func (s *BigIntSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *BigIntSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *BigIntSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *BigIntSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeBigInt)
}

func (s *BigIntSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var b *big.Int
	ok := goshape.TypeOf(v) == goshape.TypeBigInt
	if ok {
		var p *big.Int
		p, ok = goshape.Unbox(v).(*big.Int)
		if ok {
			b = new(big.Int).Set(p)
		}
	}
	if !ok && pc.Coerce(s.coerce) {
		b, ok = coerce.BigInt(v)
	}
	if !ok {
		pc.ReportType("bigint", v, s.typeOpt)
		return nil, false
	}
	return s.Run(pc, b, async)
}

// ---- date ----

// DateSchema accepts time.Time values.
type DateSchema struct {
	goshape.Node
	leaf
	coerce  bool
	typeOpt goshape.IssueOptions
}

// Date returns a date shape.
func Date() *DateSchema { return &DateSchema{Node: goshape.NewNode()} }

func (s *DateSchema) clone() *DateSchema {
	c := *s
	c.Node = s.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (s *DateSchema) Check(st goshape.Step) *DateSchema {
	c := *s
	c.Node = s.Node.With(st)
	return &c
}

// Coerce returns a copy that converts RFC 3339 strings and Unix
// milliseconds (see coerce.Date).
func (s *DateSchema) Coerce() *DateSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// TypeIssue customizes the issue reported for non-date inputs.
func (s *DateSchema) TypeIssue(o goshape.IssueOptions) *DateSchema {
	c := s.clone()
	c.typeOpt = o
	return c
}

func datePred(fn func(time.Time) bool) func(any) bool {
	return func(v any) bool {
		t, ok := v.(time.Time)
		return ok && fn(t)
	}
}

// Min requires a date not before t.
func (s *DateSchema) Min(t time.Time, o ...goshape.IssueOptions) *DateSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooSmall, t, lastIssueOpt(o), datePred(func(x time.Time) bool { return !x.Before(t) })))
}

// Max requires a date not after t.
func (s *DateSchema) Max(t time.Time, o ...goshape.IssueOptions) *DateSchema {
	return s.Check(goshape.Constraint(goshape.CodeTooBig, t, lastIssueOpt(o), datePred(func(x time.Time) bool { return !x.After(t) })))
}

func (s *DateSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, false)
}

func (s *DateSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return s.apply(pc, v, true)
}

func (s *DateSchema) IsAsync() bool { return s.IsAsyncOf(s) }

func (s *DateSchema) Inputs() goshape.TypeSet {
	if s.coerce {
		return goshape.AllTypes
	}
	return goshape.Types(goshape.TypeDate)
}

func (s *DateSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var t time.Time
	ok := goshape.TypeOf(v) == goshape.TypeDate
	if ok {
		t, ok = goshape.Unbox(v).(time.Time)
	}
	if !ok && pc.Coerce(s.coerce) {
		t, ok = coerce.Date(v)
	}
	if !ok {
		pc.ReportType("date", v, s.typeOpt)
		return nil, false
	}
	return s.Run(pc, t, async)
}
