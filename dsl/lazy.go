package dsl

import (
	"sync"
	"sync/atomic"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/invariant"
)

// LazySchema defers building its target until first use, which allows
// recursive shapes:
//
//	var node *dsl.LazySchema
//	node = dsl.Lazy(func() goshape.Shape {
//		return dsl.Object(dsl.Field("next", dsl.Optional(node)))
//	})
//
// The provider runs at most once. It may reference the lazy shape being
// defined but must not call methods on it.
//
// Applying a lazy shape to a container that the same lazy shape is
// already processing further up the walk (a cyclic input) returns that
// container unchanged, so self-referential inputs terminate.
type LazySchema struct {
	goshape.Node
	provider func() goshape.Shape
	state    *lazyState
}

type lazyState struct {
	once      sync.Once
	target    goshape.Shape
	resolving atomic.Bool
}

// Lazy returns a shape resolved by provider on first use.
func Lazy(provider func() goshape.Shape) *LazySchema {
	invariant.NotNil(provider, "lazy provider")
	return &LazySchema{Node: goshape.NewNode(), provider: provider, state: &lazyState{}}
}

// Check returns a copy with st appended. The copy shares the resolved
// target.
func (l *LazySchema) Check(st goshape.Step) *LazySchema {
	c := *l
	c.Node = l.Node.With(st)
	return &c
}

// Resolve returns the target shape, building it on first call.
func (l *LazySchema) Resolve() goshape.Shape {
	st := l.state
	st.once.Do(func() {
		st.resolving.Store(true)
		defer st.resolving.Store(false)
		st.target = l.provider()
		invariant.NotNil(st.target, "shape returned by lazy provider")
	})
	return st.target
}

func (l *LazySchema) TryApply(pc *goshape.ParseContext, v any) (any, bool) {
	return l.apply(pc, v, false)
}

func (l *LazySchema) TryApplyAsync(pc *goshape.ParseContext, v any) (any, bool) {
	return l.apply(pc, v, true)
}

func (l *LazySchema) apply(pc *goshape.ParseContext, v any, async bool) (any, bool) {
	release, seen := pc.Track(l.state, v)
	if seen {
		return v, true
	}
	defer release()
	out, ok := goshape.Apply(pc, l.Resolve(), v, async)
	if !ok {
		return nil, false
	}
	return l.Run(pc, out, async)
}

func (l *LazySchema) IsAsync() bool { return l.IsAsyncOf(l) }

// Inputs reports the target's input types. While the provider is running
// the target is unknown and every type is reported.
func (l *LazySchema) Inputs() goshape.TypeSet {
	if l.state.resolving.Load() {
		return goshape.AllTypes
	}
	return l.Resolve().Inputs()
}

func (l *LazySchema) Children() []goshape.Shape { return []goshape.Shape{l.Resolve()} }
