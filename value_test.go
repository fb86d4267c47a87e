package goshape_test

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	goshape "github.com/reoring/goshape"
)

type label string

type level int

func TestTypeOf(t *testing.T) {
	s := "x"
	var nilStr *string
	cases := []struct {
		in   any
		want goshape.Type
	}{
		{"x", goshape.TypeString},
		{label("x"), goshape.TypeString},
		{&s, goshape.TypeString},
		{nilStr, goshape.TypeNull},
		{nil, goshape.TypeNull},
		{goshape.Undefined, goshape.TypeUndefined},
		{true, goshape.TypeBoolean},
		{1, goshape.TypeNumber},
		{level(2), goshape.TypeNumber},
		{uint8(3), goshape.TypeNumber},
		{json.Number("1.5"), goshape.TypeNumber},
		{big.NewInt(1), goshape.TypeBigInt},
		{time.Unix(0, 0), goshape.TypeDate},
		{[]any{}, goshape.TypeArray},
		{[]int{1}, goshape.TypeArray},
		{[2]string{}, goshape.TypeArray},
		{map[string]any{}, goshape.TypeObject},
		{map[label]int{}, goshape.TypeObject},
		{map[int]string{}, goshape.TypeMap},
		{func() {}, goshape.TypeFunction},
		{struct{}{}, goshape.TypeOther},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, goshape.TypeOf(c.in), "%#v", c.in)
	}
}

func TestTypeSet(t *testing.T) {
	s := goshape.Types(goshape.TypeString, goshape.TypeNumber)
	assert.True(t, s.Has(goshape.TypeString))
	assert.False(t, s.Has(goshape.TypeBoolean))
	assert.Equal(t, "string|number", s.String())
	assert.Equal(t, []goshape.Type{goshape.TypeString, goshape.TypeNumber}, s.List())
	assert.Equal(t, goshape.Types(goshape.TypeNumber), s.Intersect(goshape.Types(goshape.TypeNumber, goshape.TypeNull)))
	assert.Equal(t, "any", goshape.AllTypes.String())
	assert.True(t, goshape.AllTypes.IsAll())
	assert.False(t, s.Union(goshape.Types(goshape.TypeNull)).IsAll())
}

func TestSameValue(t *testing.T) {
	m := map[string]any{}
	sl := []any{1}
	assert.True(t, goshape.SameValue(1, 1.0))
	assert.True(t, goshape.SameValue(json.Number("2"), int64(2)))
	assert.True(t, goshape.SameValue(math.NaN(), math.NaN()))
	assert.True(t, goshape.SameValue(0.0, math.Copysign(0, -1)))
	assert.True(t, goshape.SameValue(label("a"), "a"))
	assert.True(t, goshape.SameValue(big.NewInt(7), big.NewInt(7)))
	assert.True(t, goshape.SameValue(time.Unix(5, 0), time.Unix(5, 0).UTC()))
	assert.True(t, goshape.SameValue(nil, nil))
	assert.True(t, goshape.SameValue(m, m))
	assert.True(t, goshape.SameValue(sl, sl))

	assert.False(t, goshape.SameValue(1, "1"))
	assert.False(t, goshape.SameValue(nil, goshape.Undefined))
	assert.False(t, goshape.SameValue(m, map[string]any{}))
	assert.False(t, goshape.SameValue([]any{1}, []any{1}))
}

func TestUnbox(t *testing.T) {
	n := 5
	assert.Equal(t, "x", goshape.Unbox(label("x")))
	assert.Equal(t, int64(2), goshape.Unbox(level(2)))
	assert.Equal(t, 5, goshape.Unbox(&n))
	assert.Nil(t, goshape.Unbox((*int)(nil)))
	assert.Equal(t, json.Number("1"), goshape.Unbox(json.Number("1")))

	f, ok := goshape.ToFloat(json.Number("2.5"))
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
	_, ok = goshape.ToFloat("2.5")
	assert.False(t, ok)
}

func TestToEntries_SortedByKey(t *testing.T) {
	entries, ok := goshape.ToEntries(map[int]string{10: "a", 2: "b", 1: "c"})
	assert.True(t, ok)
	want := []goshape.Entry{{Key: 1, Value: "c"}, {Key: 10, Value: "a"}, {Key: 2, Value: "b"}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	_, ok = goshape.ToEntries([]any{})
	assert.False(t, ok)
}

func TestToSliceAndObject(t *testing.T) {
	s, ok := goshape.ToSlice([]int{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, s)
	s, ok = goshape.ToSlice([]string(nil))
	assert.True(t, ok)
	assert.Empty(t, s)
	_, ok = goshape.ToSlice("ab")
	assert.False(t, ok)

	o, ok := goshape.ToObject(map[label]int{"a": 1})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1}, o)
	_, ok = goshape.ToObject(map[int]int{})
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	p := goshape.Path{"a/b", "~x", 3}
	assert.Equal(t, "/a~1b/~0x/3", p.Pointer())
	assert.Equal(t, `["a/b", "~x", 3]`, p.String())
	assert.Equal(t, "/", goshape.Path{}.Pointer())
	assert.Equal(t, "[]", goshape.Path(nil).String())

	q := p.Append("y")
	assert.Len(t, p, 3)
	assert.Equal(t, goshape.Path{"a/b", "~x", 3, "y"}, q)
	assert.Equal(t, goshape.Path{"a/b", "~x", 3, 0}, p.Concat(goshape.Path{0}))
}

func TestUndefined(t *testing.T) {
	assert.True(t, goshape.IsUndefined(goshape.Undefined))
	assert.False(t, goshape.IsUndefined(nil))
}
