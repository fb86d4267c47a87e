package goshape

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside the root input. Elements are string keys
// (object, record and map entries) or int indices (array, tuple and set
// elements). The root path is empty.
type Path []any

// Append returns a new path with key appended. The receiver is not modified.
func (p Path) Append(key any) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Concat returns a new path made of p followed by q.
func (p Path) Concat(q Path) Path {
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Pointer renders the path as a JSON Pointer (RFC 6901), "/" for the root.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, el := range p {
		b.WriteByte('/')
		switch k := el.(type) {
		case int:
			b.WriteString(strconv.Itoa(k))
		case string:
			// escape '~' -> '~0', '/' -> '~1' per RFC6901
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(k, "~", "~0"), "/", "~1"))
		default:
			b.WriteString(fmt.Sprint(k))
		}
	}
	return b.String()
}

// String renders the path as a bracketed list, e.g. ["items", 2, "price"].
func (p Path) String() string {
	b := &strings.Builder{}
	b.WriteByte('[')
	for i, el := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		switch k := el.(type) {
		case int:
			b.WriteString(strconv.Itoa(k))
		case string:
			b.WriteString(strconv.Quote(k))
		default:
			b.WriteString(strconv.Quote(fmt.Sprint(k)))
		}
	}
	b.WriteByte(']')
	return b.String()
}
