// Package coerce converts arbitrary values into the canonical form of a
// primitive family. Every function returns (value, true) on success and
// (zero, false) when the input cannot be converted.
//
// Rules shared by every family:
//
//   - boxed values (pointers, named types of primitive kinds) are unwrapped;
//   - a single-element slice or array collapses to its element and the
//     conversion is retried once on it; longer or empty ones fail;
//   - nil (null) and goshape.Undefined convert to the family's zero value
//     where the family has one (Date has none);
//   - strings are parsed strictly: the trimmed string must be non-empty and
//     consist of a complete literal.
package coerce

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	goshape "github.com/reoring/goshape"
)

// single returns the sole element of a slice or array input.
func single(v any) (any, bool) {
	if goshape.TypeOf(v) != goshape.TypeArray {
		return nil, false
	}
	elems, ok := goshape.ToSlice(v)
	if !ok || len(elems) != 1 {
		return nil, false
	}
	return elems[0], true
}

func isNullish(v any) bool { return v == nil || goshape.IsUndefined(v) }

// Number converts v to a float64. NaN never results.
func Number(v any) (float64, bool) { return number(v, true) }

func number(v any, unwrap bool) (float64, bool) {
	u := goshape.Unbox(v)
	if isNullish(u) {
		return 0, true
	}
	switch t := u.(type) {
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		return parseFloat(t)
	case *big.Int:
		f, _ := new(big.Float).SetInt(t).Float64()
		return f, true
	case time.Time:
		return float64(t.UnixMilli()), true
	}
	if f, ok := goshape.ToFloat(u); ok {
		if math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	if unwrap {
		if e, ok := single(u); ok {
			return number(e, false)
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	// ParseFloat also accepts "inf" and "infinity" in any case.
	if math.IsInf(f, 0) && strings.ContainsAny(s, "iI") {
		return 0, false
	}
	return f, true
}

// BigInt converts v to a *big.Int. Non-integral and non-finite numbers fail.
func BigInt(v any) (*big.Int, bool) { return bigInt(v, true) }

func bigInt(v any, unwrap bool) (*big.Int, bool) {
	u := goshape.Unbox(v)
	if isNullish(u) {
		return new(big.Int), true
	}
	switch t := u.(type) {
	case *big.Int:
		return new(big.Int).Set(t), true
	case bool:
		if t {
			return big.NewInt(1), true
		}
		return new(big.Int), true
	case string:
		return parseBigInt(t)
	case json.Number:
		if b, ok := parseBigInt(string(t)); ok {
			return b, true
		}
		f, err := t.Float64()
		if err != nil {
			return nil, false
		}
		return floatToBig(f)
	case int:
		return big.NewInt(int64(t)), true
	case int8:
		return big.NewInt(int64(t)), true
	case int16:
		return big.NewInt(int64(t)), true
	case int32:
		return big.NewInt(int64(t)), true
	case int64:
		return big.NewInt(t), true
	case uint:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint64:
		return new(big.Int).SetUint64(t), true
	case float32:
		return floatToBig(float64(t))
	case float64:
		return floatToBig(t)
	case time.Time:
		return big.NewInt(t.UnixMilli()), true
	}
	if unwrap {
		if e, ok := single(u); ok {
			return bigInt(e, false)
		}
	}
	return nil, false
}

func floatToBig(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	b, _ := big.NewFloat(f).Int(nil)
	return b, true
}

func parseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return nil, false
	}
	// base 0 honours 0x, 0o and 0b prefixes
	b, ok := new(big.Int).SetString(s, 0)
	return b, ok
}

// String converts v to a string. Numbers render in their shortest exact
// form, dates in RFC 3339 (UTC).
func String(v any) (string, bool) { return str(v, true) }

func str(v any, unwrap bool) (string, bool) {
	u := goshape.Unbox(v)
	if isNullish(u) {
		return "", true
	}
	switch t := u.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case *big.Int:
		return t.String(), true
	case time.Time:
		return FormatRFC3339(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	}
	if f, ok := goshape.ToFloat(u); ok {
		return formatFloat(f), true
	}
	if unwrap {
		if e, ok := single(u); ok {
			return str(e, false)
		}
	}
	return "", false
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Boolean converts v to a bool. Numbers and bigints convert from 1 and 0,
// strings from "true" and "false".
func Boolean(v any) (bool, bool) { return boolean(v, true) }

func boolean(v any, unwrap bool) (bool, bool) {
	u := goshape.Unbox(v)
	if isNullish(u) {
		return false, true
	}
	switch t := u.(type) {
	case bool:
		return t, true
	case string:
		switch strings.TrimSpace(t) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	case *big.Int:
		switch {
		case t.IsInt64() && t.Int64() == 1:
			return true, true
		case t.Sign() == 0:
			return false, true
		}
		return false, false
	}
	if f, ok := goshape.ToFloat(u); ok {
		switch f {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	}
	if unwrap {
		if e, ok := single(u); ok {
			return boolean(e, false)
		}
	}
	return false, false
}

// Date converts v to a time.Time. Numbers are Unix milliseconds, strings
// RFC 3339 timestamps or plain dates (2006-01-02, UTC). Null and Undefined
// fail: dates have no zero value.
func Date(v any) (time.Time, bool) { return date(v, true) }

func date(v any, unwrap bool) (time.Time, bool) {
	u := goshape.Unbox(v)
	if isNullish(u) {
		return time.Time{}, false
	}
	switch t := u.(type) {
	case time.Time:
		return t, true
	case string:
		if tm, err := ParseRFC3339(strings.TrimSpace(t)); err == nil {
			return tm, true
		}
		if tm, err := time.Parse(time.DateOnly, strings.TrimSpace(t)); err == nil {
			return tm, true
		}
		return time.Time{}, false
	case *big.Int:
		if !t.IsInt64() {
			return time.Time{}, false
		}
		return time.UnixMilli(t.Int64()).UTC(), true
	case bool:
		return time.Time{}, false
	}
	if f, ok := goshape.ToFloat(u); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	}
	if unwrap {
		if e, ok := single(u); ok {
			return date(e, false)
		}
	}
	return time.Time{}, false
}

// Array converts v to a new []any: slices and arrays are copied, null and
// Undefined become an empty array and any other value is wrapped as [v].
func Array(v any) ([]any, bool) {
	if isNullish(v) {
		return []any{}, true
	}
	if elems, ok := goshape.ToSlice(v); ok && goshape.TypeOf(v) == goshape.TypeArray {
		out := make([]any, len(elems))
		copy(out, elems)
		return out, true
	}
	return []any{v}, true
}

// ParseRFC3339 accepts RFC3339Nano (trailing zeros optional) and RFC3339.
func ParseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatRFC3339 normalizes t to UTC and formats it with RFC3339Nano (Go
// trims trailing zeros).
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
