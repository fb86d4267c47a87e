package goshape

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"
)

type undefined struct{}

// Undefined marks an absent value: an object property missing from the
// input is delivered to its shape as Undefined, and a shape that outputs
// Undefined for a property removes that key from the output. It is distinct
// from nil, which stands for null.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Type is the runtime family of a value.
type Type uint8

const (
	TypeString Type = iota
	TypeNumber
	TypeBoolean
	TypeBigInt
	TypeDate
	TypeArray
	TypeObject
	TypeMap
	TypeFunction
	TypeNull
	TypeUndefined
	TypeOther
	numTypes
)

var typeNames = [...]string{
	TypeString:    "string",
	TypeNumber:    "number",
	TypeBoolean:   "boolean",
	TypeBigInt:    "bigint",
	TypeDate:      "date",
	TypeArray:     "array",
	TypeObject:    "object",
	TypeMap:       "map",
	TypeFunction:  "function",
	TypeNull:      "null",
	TypeUndefined: "undefined",
	TypeOther:     "other",
}

func (t Type) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return "other"
}

// MarshalText renders the type name.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// TypeSet is a set of runtime types. The zero value is empty.
type TypeSet uint16

// AllTypes contains every type; shapes that accept anything report it.
const AllTypes TypeSet = 1<<numTypes - 1

// Types builds a set from the given types.
func Types(ts ...Type) TypeSet {
	var s TypeSet
	for _, t := range ts {
		s |= 1 << t
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t Type) bool { return s&(1<<t) != 0 }

// Add returns the set with t added.
func (s TypeSet) Add(ts ...Type) TypeSet { return s | Types(ts...) }

// Union returns s ∪ o.
func (s TypeSet) Union(o TypeSet) TypeSet { return s | o }

// Intersect returns s ∩ o.
func (s TypeSet) Intersect(o TypeSet) TypeSet { return s & o }

// IsAll reports whether s contains every type.
func (s TypeSet) IsAll() bool { return s&AllTypes == AllTypes }

// List returns the members in Type order.
func (s TypeSet) List() []Type {
	var out []Type
	for t := Type(0); t < numTypes; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TypeSet) String() string {
	if s.IsAll() {
		return "any"
	}
	names := make([]string, 0, numTypes)
	for _, t := range s.List() {
		names = append(names, t.String())
	}
	return strings.Join(names, "|")
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	bigIntType = reflect.TypeOf(big.Int{})
)

// TypeOf reports the runtime family of v. Non-nil pointers and named types
// of primitive kinds report the family of the value they box.
func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return TypeNull
	case undefined:
		return TypeUndefined
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return TypeNumber
	case *big.Int, big.Int:
		if p, ok := v.(*big.Int); ok && p == nil {
			return TypeNull
		}
		return TypeBigInt
	case time.Time:
		return TypeDate
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeOf(rv.Elem().Interface())
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TypeObject
		}
		return TypeMap
	case reflect.Func:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeFunction
	case reflect.Struct:
		if rv.Type() == timeType {
			return TypeDate
		}
		if rv.Type() == bigIntType {
			return TypeBigInt
		}
	}
	return TypeOther
}

// Unbox unwraps boxed primitives: non-nil pointers are dereferenced (except
// *big.Int, the canonical bigint form) and named types of primitive kinds
// are converted to their builtin type. json.Number and other values are
// returned unchanged.
func Unbox(v any) any {
	switch t := v.(type) {
	case nil, undefined, string, bool, float64, int, int64, json.Number, time.Time, []any, map[string]any:
		return v
	case *big.Int:
		if t == nil {
			return nil
		}
		return v
	case big.Int:
		return new(big.Int).Set(&t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Unbox(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Type().PkgPath() != "" {
			return rv.Int()
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Type().PkgPath() != "" {
			return rv.Uint()
		}
	case reflect.Float32, reflect.Float64:
		if rv.Type().PkgPath() != "" {
			return rv.Float()
		}
	}
	return v
}

// ToFloat converts any numeric value (see TypeOf) to float64.
func ToFloat(v any) (float64, bool) {
	switch n := Unbox(v).(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uintptr:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// SameValue compares a and b the way enum membership and intersection
// merging need it: numbers compare by value across Go numeric types, NaN
// equals NaN, +0 equals -0, bigints and dates compare by value, maps and
// slices compare by identity.
func SameValue(a, b any) bool {
	ta, tb := TypeOf(a), TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta {
	case TypeNull, TypeUndefined:
		return true
	case TypeNumber:
		fa, oka := ToFloat(a)
		fb, okb := ToFloat(b)
		if !oka || !okb {
			return false
		}
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	case TypeBigInt:
		ba, _ := Unbox(a).(*big.Int)
		bb, _ := Unbox(b).(*big.Int)
		return ba != nil && bb != nil && ba.Cmp(bb) == 0
	case TypeDate:
		da, _ := Unbox(a).(time.Time)
		db, _ := Unbox(b).(time.Time)
		return da.Equal(db)
	case TypeString, TypeBoolean:
		return Unbox(a) == Unbox(b)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Func, reflect.Chan:
		if ra.Kind() == reflect.Slice && ra.Len() != rb.Len() {
			return false
		}
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}

// ToSlice returns the elements of a slice or array value (or a non-nil
// pointer to one) as []any. A []any input is returned as is.
func ToSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, true
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// ToObject returns a map with string keys (or a non-nil pointer to one) as
// map[string]any. A map[string]any input is returned as is.
func ToObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, true
}

// Entry is one key/value pair of a map input.
type Entry struct {
	Key   any
	Value any
}

// ToEntries returns the entries of any map value. Entries are ordered by
// the fmt rendering of their keys so that issue order is deterministic.
func ToEntries(v any) ([]Entry, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make([]Entry, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out = append(out, Entry{Key: it.Key().Interface(), Value: it.Value().Interface()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fmt.Sprint(out[i].Key) < fmt.Sprint(out[j].Key)
	})
	return out, true
}
