package handler

import (
	"context"
	"errors"
	"net/http"

	"core/internal/model"
	"core/internal/search"

	"github.com/gin-gonic/gin"
)

// Searcher is the search surface the handler depends on
type Searcher interface {
	Search(ctx context.Context, query string, criteria *model.SearchCriteria, topK int) ([]model.SearchResult, error)
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	engine      Searcher
	defaultTopK int
	maxTopK     int
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine Searcher, defaultTopK, maxTopK int) *SearchHandler {
	return &SearchHandler{
		engine:      engine,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = h.defaultTopK
	}
	if topK > h.maxTopK {
		topK = h.maxTopK
	}

	criteria, err := search.Normalize(req.Filters)
	if err != nil {
		var ve model.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters: " + err.Error()})
		return
	}

	matches, err := h.engine.Search(c.Request.Context(), req.Query, criteria, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SearchResponse{Matches: matches})
}
