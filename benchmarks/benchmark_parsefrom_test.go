package benchmarks_test

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	goshape "github.com/reoring/goshape"
	g "github.com/reoring/goshape/dsl"
	"github.com/reoring/goshape/source"
)

// ---- Helpers ----

func smallUserShape(strict bool) *g.ObjectSchema {
	s := g.Object(
		g.Field("id", g.String()),
		g.Field("name", g.Optional(g.String())),
	)
	if strict {
		return s.Strict()
	}
	return s
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice"}`)
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0_0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"name\":\"n%d\",", i)
		fmt.Fprintf(&buf, "\"age\":%d,", i)
		buf.WriteString("\"active\":" + strconv.FormatBool(i%2 == 0) + ",")
		fmt.Fprintf(&buf, "\"meta\":{\"score\":%d}", i)
		for k := 0; k < extraFields; k++ {
			fmt.Fprintf(&buf, ",\"k%d\":\"v%d_%d\"", k, i, k)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// only id is declared; the extras are stripped
func hugeItemShape() *g.ObjectSchema {
	return g.Object(g.Field("id", g.String().StartsWith("obj_")))
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_ParseFrom_Object_Small_JSONBytes(b *testing.B) {
	ctx := context.Background()
	s := smallUserShape(true)
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSON(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_Object_Small_JSONReader(b *testing.B) {
	ctx := context.Background()
	s := smallUserShape(false)
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSONReader(bytes.NewReader(data))); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_Object_Small_YAML(b *testing.B) {
	ctx := context.Background()
	s := smallUserShape(true)
	data := []byte("id: u_1\nname: alice\n")
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.YAML(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// Decoded once: measures the shape walk alone.
func Benchmark_Parse_Object_Small(b *testing.B) {
	ctx := context.Background()
	s := smallUserShape(true)
	in := map[string]any{"id": "u_1", "name": "alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.Parse(ctx, s, in); err != nil {
			b.Fatal(err)
		}
	}
}

// Failing input: issue construction and message lookup dominate.
func Benchmark_Validate_Object_Small_Issues(b *testing.B) {
	ctx := context.Background()
	s := smallUserShape(true)
	in := map[string]any{"id": 1, "name": false, "x": true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if iss := goshape.Validate(ctx, s, in); len(iss) != 3 {
			b.Fatalf("expected 3 issues, got %v", iss)
		}
	}
}

// Array micro: ["a","b","c"]
func Benchmark_ParseFrom_Array_String_Small(b *testing.B) {
	ctx := context.Background()
	s := g.Array(g.String())
	data := []byte("[\"a\",\"b\",\"c\"]")
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSON(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Macro benchmarks (huge JSON) ----

// 10k objects with 8 extra fields each
const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func Benchmark_ParseFrom_HugeArray_Objects_JSONBytes(b *testing.B) {
	ctx := context.Background()
	s := g.Array(hugeItemShape())
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSON(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_HugeArray_Objects_Float64(b *testing.B) {
	ctx := context.Background()
	s := g.Array(hugeItemShape())
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSON(data, source.Options{Float64: true})); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_HugeArray_Objects_RejectDuplicates(b *testing.B) {
	ctx := context.Background()
	s := g.Array(hugeItemShape())
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	opt := source.Options{Duplicates: source.DuplicateReject, MaxDepth: 8}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := goshape.ParseFrom(ctx, s, source.JSON(data, opt)); err != nil {
			b.Fatal(err)
		}
	}
}

// Parallel siblings: the async path fans array elements out to goroutines.
func Benchmark_ParseAsync_HugeArray_MaxConcurrency(b *testing.B) {
	ctx := context.Background()
	s := g.Array(hugeItemShape())
	v, err := source.JSON(generateHugeJSONArray(hugeObjects/10, hugeExtraKeys)).Decode()
	if err != nil {
		b.Fatal(err)
	}
	for _, n := range []int{1, 8, 0} {
		b.Run("limit="+strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := goshape.ParseAsync(ctx, s, v, goshape.ParseOpt{MaxConcurrency: n}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
