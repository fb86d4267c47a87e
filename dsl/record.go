package dsl

import (
	"sort"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// RecordSchema validates string-keyed maps whose keys and values all follow
// one shape each. Key issues are reported at the record's own path, value
// issues at the key. Entries run in sorted key order.
type RecordSchema struct {
	goshape.Node
	key     goshape.Shape
	value   goshape.Shape
	minSize int
	maxSize int
	sizeOpt [2]goshape.IssueOptions
	typeOpt goshape.IssueOptions
}

// Record returns a record shape. key may be nil to accept every string key.
func Record(key, value goshape.Shape) *RecordSchema {
	invariant.NotNil(value, "record value shape")
	return &RecordSchema{Node: goshape.NewNode(), key: key, value: value, minSize: -1, maxSize: -1}
}

func (r *RecordSchema) clone() *RecordSchema {
	c := *r
	c.Node = r.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (r *RecordSchema) Check(st goshape.Step) *RecordSchema {
	c := *r
	c.Node = r.Node.With(st)
	return &c
}

// Min sets the minimum number of entries.
func (r *RecordSchema) Min(n int, o ...goshape.IssueOptions) *RecordSchema {
	c := r.clone()
	c.minSize = n
	c.sizeOpt[0] = lastIssueOpt(o)
	return c
}

// Max sets the maximum number of entries.
func (r *RecordSchema) Max(n int, o ...goshape.IssueOptions) *RecordSchema {
	c := r.clone()
	c.maxSize = n
	c.sizeOpt[1] = lastIssueOpt(o)
	return c
}

// TypeIssue customizes the issue reported for non-object inputs.
func (r *RecordSchema) TypeIssue(o goshape.IssueOptions) *RecordSchema {
	c := r.clone()
	c.typeOpt = o
	return c
}

// KeyShape returns the key shape (nil when unconstrained).
func (r *RecordSchema) KeyShape() goshape.Shape { return r.key }

// ValueShape returns the value shape.
func (r *RecordSchema) ValueShape() goshape.Shape { return r.value }

func (r *RecordSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return r.apply(pc, v, false)
}

func (r *RecordSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return r.apply(pc, v, true)
}

func (r *RecordSchema) IsAsync() bool { return r.IsAsyncOf(r) }

func (r *RecordSchema) Inputs() goshape.TypeSet { return goshape.Types(goshape.TypeObject) }

func (r *RecordSchema) Children() []goshape.Shape {
	if r.key == nil {
		return []goshape.Shape{r.value}
	}
	return []goshape.Shape{r.key, r.value}
}

// checkSize reports size violations at the container's own path.
func checkSize(pc *goshape.ParseContext, v any, n, minSize, maxSize int, opts [2]goshape.IssueOptions) bool {
	ok := true
	if minSize >= 0 && n < minSize {
		pc.Report(goshape.Issue{Code: goshape.CodeTooShort, Input: v, Param: minSize}, opts[0])
		ok = false
	}
	if maxSize >= 0 && n > maxSize {
		pc.Report(goshape.Issue{Code: goshape.CodeTooLong, Input: v, Param: maxSize}, opts[1])
		ok = false
	}
	return ok
}

func (r *RecordSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var in map[string]any
	ok := goshape.TypeOf(v) == goshape.TypeObject
	if ok {
		in, ok = goshape.ToObject(v)
	}
	if !ok {
		pc.ReportType("record", v, r.typeOpt)
		return nil, false
	}
	sizeOK := checkSize(pc, v, len(in), r.minSize, r.maxSize, r.sizeOpt)
	if !sizeOK && pc.Halted() {
		return nil, false
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outKeys := make([]string, len(keys))
	outs, allOK := pc.Siblings(len(keys), async && childrenAsync(r.Children()...), func(pc *goshape.ParseContext, i int) (any, bool) {
		k := keys[i]
		outKeys[i] = k
		keyOK := true
		if r.key != nil {
			kv, ok := goshape.Apply(pc, r.key, k, async)
			if ks, isString := kv.(string); ok && isString {
				outKeys[i] = ks
			} else {
				if ok {
					pc.ReportType("string", kv)
				}
				keyOK = false
				if pc.Halted() {
					return nil, false
				}
			}
		}
		out, ok := goshape.ApplyAt(pc, k, r.value, in[k], async)
		return out, ok && keyOK
	})
	if !sizeOK || !allOK {
		return nil, false
	}
	out := make(map[string]any, len(outs))
	for i, ov := range outs {
		if goshape.IsUndefined(ov) {
			continue
		}
		out[outKeys[i]] = ov
	}
	return r.Run(pc, out, async)
}
