package goshape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType           = "invalid_type"
	CodeRequired              = "required"
	CodeUnknownKey            = "unknown_key"
	CodeTooSmall              = "too_small"
	CodeTooBig                = "too_big"
	CodeTooShort              = "too_short"
	CodeTooLong               = "too_long"
	CodeNotInteger            = "not_integer"
	CodeNotFinite             = "not_finite"
	CodeNotMultipleOf         = "not_multiple_of"
	CodePattern               = "pattern"
	CodeInvalidLiteral        = "invalid_literal"
	CodeInvalidEnum           = "invalid_enum"
	CodeInvalidUnion          = "invalid_union"
	CodeInvalidIntersection   = "invalid_intersection"
	CodeDiscriminatorMissing  = "discriminator_missing"
	CodeDiscriminatorUnknown  = "discriminator_unknown"
	CodeCustom                = "custom"
	CodeParseError            = "parse_error"
	CodeDuplicateKey          = "duplicate_key"
	CodeDependencyUnavailable = "dependency_unavailable"
)

// Issue represents a single validation entry. Issues are values: once
// recorded they are never mutated.
type Issue struct {
	Code string
	// Path locates the offending value inside the root input.
	Path Path
	// Input is the offending value.
	Input any
	// Param carries shape-specific detail: an expected type name, a bound,
	// an allowed list, UnionParam for unions.
	Param   any
	Message string
	// Meta is opaque user data attached through IssueOptions.
	Meta any
}

// UnionParam is the Param of a CodeInvalidUnion issue.
type UnionParam struct {
	// Inputs lists the input types the candidates accept.
	Inputs []Type
	// IssueGroups holds the issues of every candidate that was attempted,
	// in declaration order.
	IssueGroups []Issues
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i := range iss {
		out[i] = iss[i].Code
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrAsyncShape is the panic value cause when a synchronous entry point is
// used with a shape that performs asynchronous work.
var ErrAsyncShape = errors.New("goshape: shape is asynchronous, use the async entry points")

// ValidationError is returned by Parse and ParseAsync. It carries every issue
// of the failed call.
type ValidationError struct {
	Issues Issues

	message    string
	hasMessage bool
}

// NewValidationError wraps issues into a ValidationError.
func NewValidationError(iss Issues) *ValidationError {
	return &ValidationError{Issues: iss}
}

// SetMessage overrides the rendered message until ClearMessage is called.
func (e *ValidationError) SetMessage(msg string) {
	e.message = msg
	e.hasMessage = true
}

// ClearMessage restores the default rendering.
func (e *ValidationError) ClearMessage() {
	e.message = ""
	e.hasMessage = false
}

func (e *ValidationError) Error() string {
	if e.hasMessage {
		return e.message
	}
	b := &strings.Builder{}
	b.WriteString("ValidationError: [")
	for i, it := range e.Issues {
		if i > 0 {
			b.WriteString(", ")
		}
		writeIssue(b, it)
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap exposes the issues to errors.As.
func (e *ValidationError) Unwrap() error { return e.Issues }

func writeIssue(b *strings.Builder, it Issue) {
	b.WriteString("{code: ")
	b.WriteString(strconv.Quote(it.Code))
	b.WriteString(", path: ")
	b.WriteString(it.Path.String())
	b.WriteString(", input: ")
	b.WriteString(renderValue(it.Input))
	if it.Param != nil {
		b.WriteString(", param: ")
		b.WriteString(renderValue(it.Param))
	}
	b.WriteString(", message: ")
	b.WriteString(strconv.Quote(it.Message))
	if it.Meta != nil {
		b.WriteString(", meta: ")
		b.WriteString(renderValue(it.Meta))
	}
	b.WriteString("}")
}

// renderValue renders v as JSON when possible so map keys come out sorted.
func renderValue(v any) string {
	if IsUndefined(v) {
		return "undefined"
	}
	switch t := v.(type) {
	case float64:
		// NaN and infinities are not representable in JSON.
		return strconv.FormatFloat(t, 'g', -1, 64)
	case fmt.Stringer:
		if _, ok := v.(json.Marshaler); !ok {
			return strconv.Quote(t.String())
		}
	}
	if bs, err := json.Marshal(v); err == nil {
		return string(bs)
	}
	return fmt.Sprintf("%v", v)
}
