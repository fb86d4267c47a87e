package goshape

import "context"

// Step is one entry of a shape's ordered step list: a check that records
// issues or a transform that replaces the value. Build steps with
// Constraint, RefineStep, RefineAsyncStep, TransformStep and
// TransformAsyncStep.
type Step struct {
	name      string
	transform bool
	async     bool
	fn        func(pc *ParseContext, v any) (any, bool)
}

// Name returns the step name (the issue code for constraints).
func (s Step) Name() string { return s.name }

// IsTransform reports whether the step replaces the value.
func (s Step) IsTransform() bool { return s.transform }

// IsAsync reports whether the step needs the async path.
func (s Step) IsAsync() bool { return s.async }

// Constraint returns a check that records one issue with code and param
// when pred rejects the value.
func Constraint(code string, param any, o IssueOptions, pred func(v any) bool) Step {
	return Step{
		name: code,
		fn: func(pc *ParseContext, v any) (any, bool) {
			if pred(v) {
				return v, true
			}
			pc.Report(Issue{Code: code, Input: v, Param: param}, o)
			return nil, false
		},
	}
}

// RefineStep returns a check running fn. A nil error accepts the value.
func RefineStep(name string, fn func(v any) error, o IssueOptions) Step {
	return Step{
		name: name,
		fn: func(pc *ParseContext, v any) (any, bool) {
			if err := fn(v); err != nil {
				reportErr(pc, name, v, err, o)
				return nil, false
			}
			return v, true
		},
	}
}

// RefineAsyncStep is RefineStep for checks that block on I/O. fn receives
// the context of the parse call. Shapes carrying it are asynchronous.
func RefineAsyncStep(name string, fn func(ctx context.Context, v any) error, o IssueOptions) Step {
	return Step{
		name:  name,
		async: true,
		fn: func(pc *ParseContext, v any) (any, bool) {
			if err := fn(pc.Context(), v); err != nil {
				reportErr(pc, name, v, err, o)
				return nil, false
			}
			return v, true
		},
	}
}

// TransformStep returns a step replacing the value with fn's result.
func TransformStep(name string, fn func(v any) (any, error), o IssueOptions) Step {
	return Step{
		name:      name,
		transform: true,
		fn: func(pc *ParseContext, v any) (any, bool) {
			out, err := fn(v)
			if err != nil {
				reportErr(pc, name, v, err, o)
				return nil, false
			}
			return out, true
		},
	}
}

// TransformAsyncStep is TransformStep for conversions that block on I/O.
func TransformAsyncStep(name string, fn func(ctx context.Context, v any) (any, error), o IssueOptions) Step {
	return Step{
		name:      name,
		transform: true,
		async:     true,
		fn: func(pc *ParseContext, v any) (any, bool) {
			out, err := fn(pc.Context(), v)
			if err != nil {
				reportErr(pc, name, v, err, o)
				return nil, false
			}
			return out, true
		},
	}
}

// reportErr records err. Issues (possibly wrapped) are recorded one by one
// under the current path; any other error becomes one custom issue.
func reportErr(pc *ParseContext, name string, v any, err error, o IssueOptions) {
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		for _, it := range iss {
			if it.Input == nil {
				it.Input = v
			}
			pc.Report(it, o)
		}
		return
	}
	it := Issue{Code: CodeCustom, Input: v, Param: name}
	if _, overridden := pc.opt.Messages[CodeCustom]; o.Message == nil && !overridden {
		it.Message = err.Error()
	}
	pc.Report(it, o)
}
