package goshape

import (
	"context"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/goshape/i18n"
)

// ParseContext is the per-call state of one top-level parse: the current
// path, the issues recorded so far and the resolved options. It is created
// by the entry points, owned by a single call and never reused.
type ParseContext struct {
	ctx    context.Context
	opt    ParseOpt
	tr     i18n.Translator
	path   Path
	issues Issues
	active map[activeKey]struct{}
}

type activeKey struct {
	owner any
	ptr   uintptr
	n     int
}

// NewParseContext returns a fresh context. Custom entry points and tests
// use it; the package entry points call it for every top-level call.
func NewParseContext(ctx context.Context, opts ...ParseOpt) *ParseContext {
	if ctx == nil {
		ctx = context.Background()
	}
	opt := lastOpt(opts)
	tr := opt.Translator
	if tr == nil {
		tr = i18n.Default()
	}
	return &ParseContext{ctx: ctx, opt: opt, tr: tr}
}

// Context returns the context handed to async refinements and transforms.
func (pc *ParseContext) Context() context.Context { return pc.ctx }

// Options returns the options of this call.
func (pc *ParseContext) Options() ParseOpt { return pc.opt }

// EarlyReturn reports whether the walk stops at the first issue.
func (pc *ParseContext) EarlyReturn() bool { return pc.opt.EarlyReturn }

// Coerce reports whether a shape should coerce: either the shape was built
// coercing or the call enables coercion globally.
func (pc *ParseContext) Coerce(shapeCoerces bool) bool { return shapeCoerces || pc.opt.Coerce }

// Path returns a copy of the current path.
func (pc *ParseContext) Path() Path { return append(Path(nil), pc.path...) }

// Enter pushes key onto the path. Every Enter must be paired with Leave
// before control returns to the caller.
func (pc *ParseContext) Enter(key any) { pc.path = append(pc.path, key) }

// Leave pops the last path key.
func (pc *ParseContext) Leave() { pc.path = pc.path[:len(pc.path)-1] }

// Report records it. it.Path is taken relative to the current path. When
// it.Message is empty the message is resolved from the optional
// IssueOptions, then ParseOpt.Messages, then the translator.
func (pc *ParseContext) Report(it Issue, o ...IssueOptions) {
	it.Path = pc.path.Concat(it.Path)
	var io IssueOptions
	if len(o) > 0 {
		io = o[len(o)-1]
	}
	if io.Meta != nil && it.Meta == nil {
		it.Meta = io.Meta
	}
	if it.Message == "" {
		it.Message = pc.message(it, io.Message)
	}
	pc.issues = append(pc.issues, it)
}

// ReportType records a type mismatch for input v. An Undefined input (an
// absent key) is reported as CodeRequired.
func (pc *ParseContext) ReportType(expected any, v any, o ...IssueOptions) {
	code := CodeInvalidType
	if IsUndefined(v) {
		code = CodeRequired
	}
	pc.Report(Issue{Code: code, Input: v, Param: expected}, o...)
}

func (pc *ParseContext) message(it Issue, explicit MessageFunc) string {
	if explicit != nil {
		return explicit(it)
	}
	if fn, ok := pc.opt.Messages[it.Code]; ok && fn != nil {
		return fn(it)
	}
	return pc.tr.Message(it.Code, it.Param)
}

// Issues returns the issues recorded so far.
func (pc *ParseContext) Issues() Issues { return pc.issues }

// Len returns the number of issues recorded so far. Shapes compare it
// before and after delegating to learn whether a child reported anything.
func (pc *ParseContext) Len() int { return len(pc.issues) }

// Halted reports whether the walk must stop: fail-fast mode with at least
// one issue recorded.
func (pc *ParseContext) Halted() bool { return pc.opt.EarlyReturn && len(pc.issues) > 0 }

// Fork returns a context with the same options and path and no issues. The
// parent is not affected by the fork until Merge.
func (pc *ParseContext) Fork() *ParseContext {
	f := &ParseContext{ctx: pc.ctx, opt: pc.opt, tr: pc.tr, path: pc.Path()}
	if len(pc.active) > 0 {
		f.active = make(map[activeKey]struct{}, len(pc.active))
		for k := range pc.active {
			f.active[k] = struct{}{}
		}
	}
	return f
}

// Merge appends the issues of a fork.
func (pc *ParseContext) Merge(f *ParseContext) {
	pc.issues = append(pc.issues, f.issues...)
}

// Track marks (owner, v) as in progress. seen is true when the pair is
// already in progress further up the walk, which happens for cyclic inputs.
// release must be called once the owner is done with v.
func (pc *ParseContext) Track(owner any, v any) (release func(), seen bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
	default:
		return func() {}, false
	}
	if rv.IsNil() {
		return func() {}, false
	}
	k := activeKey{owner: owner, ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		k.n = rv.Len()
	}
	if _, ok := pc.active[k]; ok {
		return func() {}, true
	}
	if pc.active == nil {
		pc.active = map[activeKey]struct{}{}
	}
	pc.active[k] = struct{}{}
	return func() { delete(pc.active, k) }, false
}

// Siblings applies n independent sibling steps (array elements, object
// entries, intersection candidates) and returns their outputs and whether
// all of them succeeded.
//
// With concurrent=false, or in fail-fast mode, siblings run in order on pc
// and the loop stops once pc is halted. Otherwise each sibling runs in its
// own goroutine on a fork of pc, bounded by ParseOpt.MaxConcurrency, and the
// forks' issues are merged back in sibling order.
func (pc *ParseContext) Siblings(n int, concurrent bool, run func(pc *ParseContext, i int) (any, bool)) ([]any, bool) {
	outs := make([]any, n)
	if !concurrent || pc.opt.EarlyReturn || n < 2 {
		allOK := true
		for i := 0; i < n; i++ {
			out, ok := run(pc, i)
			outs[i] = out
			if !ok {
				allOK = false
				if pc.Halted() {
					break
				}
			}
		}
		return outs, allOK
	}

	forks := make([]*ParseContext, n)
	oks := make([]bool, n)
	var g errgroup.Group
	if pc.opt.MaxConcurrency > 0 {
		g.SetLimit(pc.opt.MaxConcurrency)
	}
	for i := 0; i < n; i++ {
		forks[i] = pc.Fork()
		g.Go(func() error {
			outs[i], oks[i] = run(forks[i], i)
			return nil
		})
	}
	_ = g.Wait()
	allOK := true
	for i := 0; i < n; i++ {
		pc.Merge(forks[i])
		if !oks[i] {
			allOK = false
		}
	}
	return outs, allOK
}
