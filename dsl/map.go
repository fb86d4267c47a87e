package dsl

import (
	"fmt"

	goshape "github.com/reoring/goshape"
)

// MapSchema validates Go maps of any key type and outputs a new
// map[any]any. Like RecordSchema, key issues are reported at the map's own
// path and value issues at the key, rendered as a string path segment.
// Entries run in the order of goshape.ToEntries.
type MapSchema struct {
	goshape.Node
	key     goshape.Shape
	value   goshape.Shape
	minSize int
	maxSize int
	sizeOpt [2]goshape.IssueOptions
	typeOpt goshape.IssueOptions
}

// Map returns a map shape. Either shape may be nil to leave that side
// unconstrained.
func Map(key, value goshape.Shape) *MapSchema {
	return &MapSchema{Node: goshape.NewNode(), key: key, value: value, minSize: -1, maxSize: -1}
}

func (m *MapSchema) clone() *MapSchema {
	c := *m
	c.Node = m.Node.Clone()
	return &c
}

// Check returns a copy with st appended.
func (m *MapSchema) Check(st goshape.Step) *MapSchema {
	c := *m
	c.Node = m.Node.With(st)
	return &c
}

// Min sets the minimum number of entries.
func (m *MapSchema) Min(n int, o ...goshape.IssueOptions) *MapSchema {
	c := m.clone()
	c.minSize = n
	c.sizeOpt[0] = lastIssueOpt(o)
	return c
}

// Max sets the maximum number of entries.
func (m *MapSchema) Max(n int, o ...goshape.IssueOptions) *MapSchema {
	c := m.clone()
	c.maxSize = n
	c.sizeOpt[1] = lastIssueOpt(o)
	return c
}

// TypeIssue customizes the issue reported for non-map inputs.
func (m *MapSchema) TypeIssue(o goshape.IssueOptions) *MapSchema {
	c := m.clone()
	c.typeOpt = o
	return c
}

func (m *MapSchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return m.apply(pc, v, false)
}

func (m *MapSchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return m.apply(pc, v, true)
}

func (m *MapSchema) IsAsync() bool { return m.IsAsyncOf(m) }

func (m *MapSchema) Inputs() goshape.TypeSet {
	return goshape.Types(goshape.TypeMap, goshape.TypeObject)
}

func (m *MapSchema) Children() []goshape.Shape {
	var out []goshape.Shape
	for _, s := range []goshape.Shape{m.key, m.value} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m *MapSchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	var entries []goshape.Entry
	ok := m.Inputs().Has(goshape.TypeOf(v))
	if ok {
		entries, ok = goshape.ToEntries(v)
	}
	if !ok {
		pc.ReportType("map", v, m.typeOpt)
		return nil, false
	}
	sizeOK := checkSize(pc, v, len(entries), m.minSize, m.maxSize, m.sizeOpt)
	if !sizeOK && pc.Halted() {
		return nil, false
	}

	keys := make([]any, len(entries))
	outs, allOK := pc.Siblings(len(entries), async && childrenAsync(m.Children()...), func(pc *goshape.ParseContext, i int) (any, bool) {
		e := entries[i]
		keys[i] = e.Key
		keyOK := true
		if m.key != nil {
			kv, ok := goshape.Apply(pc, m.key, e.Key, async)
			keys[i] = kv
			if ok && !isHashable(kv) {
				pc.Report(goshape.Issue{Code: goshape.CodeInvalidType, Input: kv, Param: "comparable"})
				ok = false
			}
			if !ok {
				keyOK = false
				if pc.Halted() {
					return nil, false
				}
			}
		}
		if m.value == nil {
			return e.Value, keyOK
		}
		out, ok := goshape.ApplyAt(pc, keySegment(e.Key), m.value, e.Value, async)
		return out, ok && keyOK
	})
	if !sizeOK || !allOK {
		return nil, false
	}
	out := make(map[any]any, len(outs))
	for i, ov := range outs {
		out[keys[i]] = ov
	}
	return m.Run(pc, out, async)
}

// keySegment renders a map key as a path segment.
func keySegment(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
