package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"core/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []model.SearchResult
	err     error
	topK    int
	query   string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, criteria *model.SearchCriteria, topK int) ([]model.SearchResult, error) {
	f.query = query
	f.topK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestRouter(engine *fakeSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSearchHandler(engine, 5, 50)
	router.POST("/search", h.Search)
	return router
}

func doSearch(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchHandler_Success(t *testing.T) {
	engine := &fakeSearcher{
		results: []model.SearchResult{
			{"id": "lst-1", "score": 0.9, "type": "apartment"},
		},
	}
	router := newTestRouter(engine)

	w := doSearch(t, router, map[string]any{
		"query":   "modern flat downtown",
		"filters": map[string]any{"type": map[string]any{"$eq": "apartment"}},
		"top_k":   10,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "modern flat downtown", engine.query)
	assert.Equal(t, 10, engine.topK)

	var resp model.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "lst-1", resp.Matches[0]["id"])
}

func TestSearchHandler_TopKDefaults(t *testing.T) {
	tests := []struct {
		name string
		topK any
		want int
	}{
		{name: "missing defaults", topK: nil, want: 5},
		{name: "zero defaults", topK: 0, want: 5},
		{name: "capped at max", topK: 500, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeSearcher{results: []model.SearchResult{}}
			router := newTestRouter(engine)

			body := map[string]any{"query": "flat"}
			if tt.topK != nil {
				body["top_k"] = tt.topK
			}

			w := doSearch(t, router, body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, engine.topK)
		})
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	router := newTestRouter(&fakeSearcher{})

	w := doSearch(t, router, map[string]any{"top_k": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_ValidationError(t *testing.T) {
	engine := &fakeSearcher{}
	router := newTestRouter(engine)

	w := doSearch(t, router, map[string]any{
		"query":   "flat",
		"filters": map[string]any{"price": map[string]any{"$gte": -1}},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "price")
	assert.Contains(t, w.Body.String(), "negative value not allowed")
	assert.Empty(t, engine.query, "engine must not be called on invalid filters")
}

func TestSearchHandler_EngineFailure(t *testing.T) {
	router := newTestRouter(&fakeSearcher{err: errors.New("index unavailable")})

	w := doSearch(t, router, map[string]any{"query": "flat"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "index unavailable")
}

func TestSearchHandler_EmptyMatchesIsOK(t *testing.T) {
	router := newTestRouter(&fakeSearcher{results: []model.SearchResult{}})

	w := doSearch(t, router, map[string]any{"query": "flat"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Matches)
}
