package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	g "github.com/reoring/goshape/dsl"
	"github.com/reoring/goshape/middleware"
)

type response struct {
	Issues []middleware.IssuePayload `json:"issues"`
	Error  string                    `json:"error"`
}

func serve(t *testing.T, ctx context.Context, h http.Handler, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp response
	if rec.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

type skuCatalog map[string]bool

func orderShape() *g.ObjectSchema {
	sku := g.RefineAsync(g.String().NonEmpty(), "sku_exists", func(ctx context.Context, v any) error {
		cat, err := goshape.RequireService[skuCatalog](ctx)
		if err != nil {
			return err
		}
		if !cat[v.(string)] {
			return errors.New("unknown sku")
		}
		return nil
	})
	return g.Object(
		g.Field("sku", sku),
		g.Field("qty", g.Number().Int().Positive()),
	).Strict()
}

func TestValidateJSON(t *testing.T) {
	var got any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.ParsedFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.ValidateJSON(orderShape(), middleware.DefaultConfig())(next)
	ctx := goshape.WithService(context.Background(), skuCatalog{"A-1": true})

	rec, _ := serve(t, ctx, h, `{"sku":"A-1","qty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"sku": "A-1", "qty": 2.0}, got)

	rec, resp := serve(t, ctx, h, `{"sku":"B-9","qty":0,"note":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Len(t, resp.Issues, 3)
	assert.Equal(t, middleware.IssuePayload{Code: goshape.CodeCustom, Path: "/sku", Message: "unknown sku", Param: "sku_exists"}, resp.Issues[0])
	assert.Equal(t, goshape.CodeTooSmall, resp.Issues[1].Code)
	assert.Equal(t, "/qty", resp.Issues[1].Path)
	assert.Equal(t, goshape.CodeUnknownKey, resp.Issues[2].Code)
	assert.Equal(t, "/note", resp.Issues[2].Path)
}

func TestValidateJSON_NullBodyIsParsed(t *testing.T) {
	var (
		got   any
		found bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = middleware.ParsedFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.ValidateJSON(g.Nullable(orderShape()), middleware.DefaultConfig())(next)

	rec, _ := serve(t, context.Background(), h, `null`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Nil(t, got)

	_, found = middleware.ParsedFromContext(context.Background())
	assert.False(t, found)
}

func TestValidateJSON_DecodeFailures(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	})
	h := middleware.ValidateJSON(orderShape(), middleware.DefaultConfig())(next)

	rec, resp := serve(t, context.Background(), h, `{"sku":"A-1","sku":"A-2","qty":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, goshape.CodeDuplicateKey, resp.Issues[0].Code)
	assert.Equal(t, "/sku", resp.Issues[0].Path)

	rec, resp = serve(t, context.Background(), h, `{"sku":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, goshape.CodeParseError, resp.Issues[0].Code)
}

func TestValidateJSON_MissingService(t *testing.T) {
	h := middleware.ValidateJSON(orderShape(), middleware.Config{})(http.NotFoundHandler())
	rec, resp := serve(t, context.Background(), h, `{"sku":"A-1","qty":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, goshape.CodeDependencyUnavailable, resp.Issues[0].Code)
}

func TestErrorPayload_OmitsUnionGroups(t *testing.T) {
	p := middleware.ErrorPayload(goshape.Issues{{
		Code:  goshape.CodeInvalidUnion,
		Param: goshape.UnionParam{},
	}})
	items := p["issues"].([]middleware.IssuePayload)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Param)
	assert.Equal(t, "/", items[0].Path)
}
