package goshape

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/reoring/goshape/i18n"
)

// UnknownPolicy controls how object keys without a declared shape are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownPassthrough                      // Copy unknown keys unchanged.
	UnknownStrict                           // Reject unknown keys with an issue.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownPassthrough:
		return "passthrough"
	case UnknownStrict:
		return "strict"
	default:
		return "strip"
	}
}

// MessageFunc computes the human message of an issue.
type MessageFunc func(iss Issue) string

// Text returns a MessageFunc that always yields msg.
func Text(msg string) MessageFunc { return func(Issue) string { return msg } }

// Messages maps issue codes to message functions.
type Messages map[string]MessageFunc

// IssueOptions customizes the issues a single constraint or refinement
// reports.
type IssueOptions struct {
	// Message overrides every other message source for this constraint.
	Message MessageFunc
	// Meta is copied into Issue.Meta.
	Meta any
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// EarlyReturn stops the walk at the first issue. By default every
	// reachable issue is collected.
	EarlyReturn bool
	// Coerce enables coercion for every shape in the tree.
	Coerce bool
	// Messages overrides messages per issue code.
	Messages Messages
	// Translator supplies default messages; i18n.Default() when nil.
	Translator i18n.Translator
	// MaxConcurrency bounds the number of sibling shapes a composite runs at
	// once in the async path. Zero means unbounded.
	MaxConcurrency int
	// Logger receives one debug record per top-level call when set.
	Logger *slog.Logger
	// Tracer opens one span per top-level call when set.
	Tracer trace.Tracer
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ParseOpt{}
}
