package goshape

import (
	"sync"

	"github.com/reoring/goshape/internal/invariant"
)

// Shape is the unit of validation and transformation. Every concrete shape
// in package dsl implements it; custom shapes may too.
//
// TryApply and TryApplyAsync return the transformed value and true, or
// false after recording at least one issue on pc (the "no value" outcome).
// They never panic on bad input. TryApply panics when the shape performs
// asynchronous work.
type Shape interface {
	TryApply(pc *ParseContext, v any) (any, bool)
	TryApplyAsync(pc *ParseContext, v any) (any, bool)
	// IsAsync reports whether the shape or any shape reachable from it
	// performs asynchronous work.
	IsAsync() bool
	// Inputs is the set of input types the shape can accept without
	// coercion. Unions use it to skip candidates early.
	Inputs() TypeSet
	// Children lists the shapes this shape delegates to. Lazy shapes list
	// their resolved target.
	Children() []Shape
	// OwnAsync reports whether the shape itself (not its children) has an
	// asynchronous step.
	OwnAsync() bool
}

// Apply runs s on v through the sync or async path.
func Apply(pc *ParseContext, s Shape, v any, async bool) (any, bool) {
	if async {
		return s.TryApplyAsync(pc, v)
	}
	return s.TryApply(pc, v)
}

// ApplyAt runs s on v with key pushed onto the path.
func ApplyAt(pc *ParseContext, key any, s Shape, v any, async bool) (any, bool) {
	pc.Enter(key)
	defer pc.Leave()
	return Apply(pc, s, v, async)
}

// Reaches reports whether pred holds for root or any shape reachable from
// it through Children. Each shape is visited once, so cyclic graphs built
// with lazy shapes terminate.
func Reaches(root Shape, pred func(Shape) bool) bool {
	seen := map[Shape]struct{}{}
	stack := []Shape{root}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s == nil {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if pred(s) {
			return true
		}
		stack = append(stack, s.Children()...)
	}
	return false
}

type asyncMemo struct {
	once sync.Once
	v    bool
}

// Node carries what every concrete shape has in common: its ordered step
// list and the memoised async flag. Shapes embed it by value and call
// Clone before modifying a copy.
type Node struct {
	steps []Step
	memo  *asyncMemo
}

// NewNode returns an empty node.
func NewNode() Node { return Node{memo: &asyncMemo{}} }

// Clone returns a node with the same steps and a fresh async memo. Builders
// call it on every copy so that a derived shape never shares the memo of
// its origin.
func (n Node) Clone() Node {
	return Node{steps: n.steps[:len(n.steps):len(n.steps)], memo: &asyncMemo{}}
}

// With returns a clone with st appended.
func (n Node) With(st Step) Node {
	c := n.Clone()
	c.steps = append(c.steps, st)
	return c
}

// Steps returns the registered steps in order.
func (n Node) Steps() []Step { return n.steps }

// OwnAsync reports whether one of the steps is asynchronous.
func (n Node) OwnAsync() bool {
	for _, st := range n.steps {
		if st.async {
			return true
		}
	}
	return false
}

// IsAsyncOf computes self's async flag once and caches it. self must be the
// shape embedding n.
func (n Node) IsAsyncOf(self Shape) bool {
	compute := func() bool {
		return Reaches(self, func(s Shape) bool { return s.OwnAsync() })
	}
	if n.memo == nil {
		return compute()
	}
	n.memo.once.Do(func() { n.memo.v = compute() })
	return n.memo.v
}

// Run applies the steps to v in registration order.
//
// In fail-fast mode the first failing step ends the node. Otherwise checks
// after a failure still run against the last good value, the next transform
// is skipped and the node yields no value. An async step reached through
// the sync path is a contract violation and panics.
func (n Node) Run(pc *ParseContext, v any, async bool) (any, bool) {
	cur := v
	failed := false
	for _, st := range n.steps {
		if st.async && !async {
			invariant.Violation(ErrAsyncShape, "step %q", st.name)
		}
		if failed && st.transform {
			return nil, false
		}
		out, ok := st.fn(pc, cur)
		if !ok {
			failed = true
			if pc.EarlyReturn() {
				return nil, false
			}
			continue
		}
		if st.transform {
			cur = out
		}
	}
	if failed {
		return nil, false
	}
	return cur, true
}
