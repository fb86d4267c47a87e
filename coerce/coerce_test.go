package coerce_test

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/coerce"
)

type myString string

func TestNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"int", 3, 3, true},
		{"json number", json.Number("1.5"), 1.5, true},
		{"boxed", ptr(7.0), 7, true},
		{"null", nil, 0, true},
		{"undefined", goshape.Undefined, 0, true},
		{"true", true, 1, true},
		{"string", " 12.5 ", 12.5, true},
		{"infinity", "Infinity", math.Inf(1), true},
		{"partial string", "12px", 0, false},
		{"empty string", "  ", 0, false},
		{"nan string", "NaN", 0, false},
		{"nan", math.NaN(), 0, false},
		{"single element", []any{"4"}, 4, true},
		{"two elements", []any{1, 2}, 0, false},
		{"empty array", []any{}, 0, false},
		{"nested single", []any{[]any{1}}, 0, false},
		{"bigint", big.NewInt(9), 9, true},
		{"object", map[string]any{}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerce.Number(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestBigInt_SingleElementCollapse(t *testing.T) {
	got, ok := coerce.BigInt([]any{big.NewInt(111)})
	require.True(t, ok)
	assert.Equal(t, 0, got.Cmp(big.NewInt(111)))

	_, ok = coerce.BigInt([]any{big.NewInt(111), big.NewInt(111)})
	assert.False(t, ok)
	_, ok = coerce.BigInt([]any{big.NewInt(111), "a"})
	assert.False(t, ok)
}

func TestBigInt(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"int", 5, 5, true},
		{"integral float", 5.0, 5, true},
		{"fraction", 5.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"string", "123", 123, true},
		{"hex string", "0x10", 16, true},
		{"bad string", "12a", 0, false},
		{"underscore", "1_000", 0, false},
		{"null", nil, 0, true},
		{"false", false, 0, true},
		{"json number", json.Number("42"), 42, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerce.BigInt(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got.Int64())
			}
		})
	}
}

func TestBigInt_CopiesInput(t *testing.T) {
	in := big.NewInt(3)
	got, ok := coerce.BigInt(in)
	require.True(t, ok)
	got.SetInt64(4)
	assert.Equal(t, int64(3), in.Int64())
}

func TestString(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"string", "x", "x", true},
		{"named", myString("y"), "y", true},
		{"int", 12, "12", true},
		{"float", 1.25, "1.25", true},
		{"large float", 1e6, "1000000", true},
		{"bool", true, "true", true},
		{"bigint", big.NewInt(-7), "-7", true},
		{"date", ts, "2025-01-01T00:00:00Z", true},
		{"null", nil, "", true},
		{"single", []string{"a"}, "a", true},
		{"two", []string{"a", "b"}, "", false},
		{"map", map[string]any{"a": 1}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerce.String(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBoolean(t *testing.T) {
	cases := []struct {
		in   any
		want bool
		ok   bool
	}{
		{true, true, true},
		{1, true, true},
		{0.0, false, true},
		{2, false, false},
		{"true", true, true},
		{"false", false, true},
		{"yes", false, false},
		{nil, false, true},
		{[]any{1}, true, true},
		{big.NewInt(1), true, true},
	}
	for _, tc := range cases {
		got, ok := coerce.Boolean(tc.in)
		assert.Equal(t, tc.ok, ok, "input %#v", tc.in)
		assert.Equal(t, tc.want, got, "input %#v", tc.in)
	}
}

func TestDate(t *testing.T) {
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	got, ok := coerce.Date("2025-01-02T03:04:05Z")
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = coerce.Date(float64(want.UnixMilli()))
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = coerce.Date("2025-01-02")
	require.True(t, ok)
	assert.Equal(t, 2, got.Day())

	_, ok = coerce.Date(nil)
	assert.False(t, ok, "dates have no zero value")
	_, ok = coerce.Date(goshape.Undefined)
	assert.False(t, ok)
	_, ok = coerce.Date("yesterday")
	assert.False(t, ok)
	_, ok = coerce.Date(math.NaN())
	assert.False(t, ok)
}

func TestArray(t *testing.T) {
	in := []any{1, 2}
	got, ok := coerce.Array(in)
	require.True(t, ok)
	assert.Equal(t, in, got)
	got[0] = 9
	assert.Equal(t, 1, in[0], "output must be a copy")

	got, _ = coerce.Array("x")
	assert.Equal(t, []any{"x"}, got)
	got, _ = coerce.Array(nil)
	assert.Equal(t, []any{}, got)
	got, _ = coerce.Array([]int{1})
	assert.Equal(t, []any{1}, got)
}

func TestRFC3339RoundTrip(t *testing.T) {
	in := "2025-01-01T00:00:00.5+09:00"
	tm, err := coerce.ParseRFC3339(in)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31T15:00:00.5Z", coerce.FormatRFC3339(tm))

	_, err = coerce.ParseRFC3339("2025-01-01")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
