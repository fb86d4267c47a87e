// Package middleware validates HTTP request bodies with goshape shapes.
//
// ValidateJSON wraps an http.Handler: the body is decoded with
// source.JSONReader, parsed through the async path with the request
// context, and either stored in the context for the next handler or
// rejected with 400 and an issues payload.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/source"
)

type ctxKeyParsed struct{}

// parsed boxes the body so that a nil output is still found.
type parsed struct{ v any }

// ContextWithParsed attaches a parsed body to the context.
func ContextWithParsed(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyParsed{}, parsed{v})
}

// ParsedFromContext retrieves the parsed body stored by ValidateJSON. The
// boolean is false only when no body was stored; a null body yields
// (nil, true).
func ParsedFromContext(ctx context.Context) (any, bool) {
	p, ok := ctx.Value(ctxKeyParsed{}).(parsed)
	return p.v, ok
}

// Config bundles the decoder and parse options of ValidateJSON.
type Config struct {
	Source source.Options
	Parse  goshape.ParseOpt
}

// DefaultConfig returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Nesting deeper than 64 levels is rejected
func DefaultConfig() Config {
	return Config{Source: source.Options{Duplicates: source.DuplicateReject, MaxDepth: 64}}
}

// IssuePayload is the JSON form of one issue in an error response.
type IssuePayload struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Param   any    `json:"param,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses. Paths are rendered as
// JSON Pointers.
func ErrorPayload(issues goshape.Issues) map[string]any {
	out := make([]IssuePayload, len(issues))
	for i, it := range issues {
		out[i] = IssuePayload{Code: it.Code, Path: it.Path.Pointer(), Message: it.Message}
		if _, isUnion := it.Param.(goshape.UnionParam); !isUnion {
			out[i].Param = it.Param
		}
	}
	return map[string]any{"issues": out}
}

// ValidateJSON returns middleware parsing the request body with s. The
// shape may be asynchronous: async refinements receive the request
// context, so services attached with goshape.WithService upstream are
// visible to them.
func ValidateJSON(s goshape.Shape, cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := goshape.ParseFrom(r.Context(), s, source.JSONReader(r.Body, cfg.Source), cfg.Parse)
			if err != nil {
				iss, ok := goshape.AsIssues(err)
				if !ok {
					writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
					return
				}
				writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithParsed(r.Context(), v)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
