package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/memstore"
)

func newTestServer(t *testing.T, seed bool) *Server {
	t.Helper()
	cat := catalog.New(catalog.Options{Store: memstore.New(), Workers: 2})
	if seed {
		_, err := cat.Build(context.Background(), []item.RawItem{
			{ID: "copper-shortsword", Name: "Copper Shortsword", Recipes: []string{"Copper Bar"}},
			{ID: "iron-helmet", Name: "Iron Helmet", Recipes: []string{"Iron Bar"}},
		}, catalog.BuildOptions{Source: "test"})
		require.NoError(t, err)
	}
	return New(cat, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestClassify(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodPost, "/api/classify",
		`{"names":["Molten Pickaxe"],"items":[{"id":1,"name":"Iron Helmet","recipe1":"Iron Bar"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Items []item.Item `json:"items"`
	}
	decode(t, rec, &out)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "1", out.Items[0].ID)
	assert.Equal(t, item.Armor, out.Items[0].Type)
	assert.Equal(t, []item.Acquisition{item.Craft}, out.Items[0].Acquisition)
	assert.Equal(t, "molten-pickaxe", out.Items[1].ID)
	assert.Equal(t, item.Tool, out.Items[1].Type)
}

func TestClassifyRejectsEmptyAndMalformed(t *testing.T) {
	s := newTestServer(t, false)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/classify", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/classify", `{"names":`).Code)
}

func TestExplain(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/api/classify/explain?name=Copper+Shortsword", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Explanation struct {
			Result struct {
				Type string `json:"type"`
			} `json:"result"`
		} `json:"explanation"`
	}
	decode(t, rec, &out)
	assert.Equal(t, "weapon", out.Explanation.Result.Type)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/classify/explain", "").Code)
}

func TestValidate(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, http.MethodPost, "/api/validate", `[{"id":"a","name":""}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var run struct {
		IsValid      bool `json:"isValid"`
		QualityScore int  `json:"qualityScore"`
	}
	decode(t, rec, &run)
	assert.False(t, run.IsValid)
	assert.Equal(t, 0, run.QualityScore)

	latest := do(t, s, http.MethodGet, "/api/runs/latest", "")
	assert.Equal(t, http.StatusOK, latest.Code)
}

func TestValidateRejectsNonArray(t *testing.T) {
	s := newTestServer(t, false)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/validate", `{"id":"a"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/validate", `[1]`).Code)
}

func TestItemsAndOwnership(t *testing.T) {
	s := newTestServer(t, true)

	rec := do(t, s, http.MethodGet, "/api/items?type=weapon", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []item.Item `json:"items"`
		Count int         `json:"count"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "copper-shortsword", list.Items[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/items?rarity=gold", "").Code)
	rec = do(t, s, http.MethodGet, "/api/items?rarity=purple", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 0, list.Count)

	rec = do(t, s, http.MethodPut, "/api/items/iron-helmet/owned", `{"owned":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var it item.Item
	decode(t, rec, &it)
	assert.True(t, it.Owned)

	rec = do(t, s, http.MethodGet, "/api/items?owned=true", "")
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Count)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPut, "/api/items/nope/owned", `{"owned":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/api/items/iron-helmet/owned", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/items/nope", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/items/iron-helmet", "").Code)
}

func TestProgress(t *testing.T) {
	s := newTestServer(t, true)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/api/items/copper-shortsword/owned", `{"owned":true}`).Code)

	rec := do(t, s, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p struct {
		Total      int `json:"total"`
		Owned      int `json:"owned"`
		Percentage int `json:"percentage"`
	}
	decode(t, rec, &p)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 1, p.Owned)
	assert.Equal(t, 50, p.Percentage)
}

func TestLatestRunMissing(t *testing.T) {
	s := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/runs/latest", "").Code)
}

func TestStoreUnavailable(t *testing.T) {
	s := New(catalog.New(catalog.Options{}), nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/items", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/progress", "").Code)
}
