// Package source turns encoded documents into the untyped values shapes
// consume, for use with goshape.ParseFrom.
//
//   - JSON(b) / JSONReader(r): streaming token decoder on github.com/goccy/go-json.
//     Objects become map[string]any, arrays []any, numbers json.Number (or
//     float64 with Options.Float64).
//   - YAML(b) / YAMLReader(r): gopkg.in/yaml.v3 node tree normalized to the same
//     JSON-like values; scalars keep their YAML types (int, float64, bool,
//     time.Time for timestamps).
//   - Value(v): an already decoded value.
//
// Decoding problems are returned as goshape.Issues located by path, so they
// surface through ParseFrom exactly like validation issues.
package source

import (
	"fmt"

	goshape "github.com/reoring/goshape"
)

// DuplicatePolicy selects how a key repeated within one object is handled.
type DuplicatePolicy int

const (
	// DuplicateLastWins keeps the last value (default).
	DuplicateLastWins DuplicatePolicy = iota
	// DuplicateReject reports every repeated key as a duplicate_key issue.
	DuplicateReject
)

// Options configure a decoder.
type Options struct {
	Duplicates DuplicatePolicy
	// MaxDepth limits the nesting of objects and arrays; 0 means unlimited.
	MaxDepth int
	// Float64 decodes JSON numbers as float64 instead of json.Number.
	Float64 bool
}

func lastOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return Options{}
}

// Value returns a Source yielding v unchanged.
func Value(v any) goshape.Source {
	return goshape.SourceFunc(func() (any, error) { return v, nil })
}

// walker holds the state shared by the JSON and YAML decoders: the path of
// the value being built, the nesting depth and the non-fatal issues.
type walker struct {
	opt    Options
	path   goshape.Path
	depth  int
	issues goshape.Issues
}

func (w *walker) enter(key any) { w.path = append(w.path, key) }

func (w *walker) leave() { w.path = w.path[:len(w.path)-1] }

// open is called when a container starts.
func (w *walker) open() error {
	w.depth++
	if w.opt.MaxDepth > 0 && w.depth > w.opt.MaxDepth {
		return w.fail(fmt.Sprintf("max depth %d exceeded", w.opt.MaxDepth))
	}
	return nil
}

func (w *walker) close() { w.depth-- }

// duplicate records a repeated key when duplicates are rejected.
func (w *walker) duplicate(key string) {
	if w.opt.Duplicates != DuplicateReject {
		return
	}
	w.issues = append(w.issues, goshape.Issue{
		Code:    goshape.CodeDuplicateKey,
		Path:    w.path.Append(key),
		Param:   key,
		Message: fmt.Sprintf("key %q duplicated", key),
	})
}

// fail returns a fatal parse_error at the current path.
func (w *walker) fail(msg string) error {
	return goshape.Issues{{Code: goshape.CodeParseError, Path: w.path.Concat(nil), Message: msg}}
}

// result returns v or the collected issues.
func (w *walker) result(v any) (any, error) {
	if len(w.issues) > 0 {
		return nil, w.issues
	}
	return v, nil
}
