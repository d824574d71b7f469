package handler

import (
	"context"
	"net/http"

	"core/internal/index"
	"core/internal/model"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// Upserter is the index write surface the handler depends on
type Upserter interface {
	Upsert(ctx context.Context, records []index.Record) (int, []string)
}

// ListingsHandler handles listing ingestion HTTP requests
type ListingsHandler struct {
	embedder service.Embedder
	store    Upserter
}

// NewListingsHandler creates a new listings handler
func NewListingsHandler(embedder service.Embedder, store Upserter) *ListingsHandler {
	return &ListingsHandler{
		embedder: embedder,
		store:    store,
	}
}

// BatchUpsert handles POST /listings/batch: embeds each listing text and
// upserts the vectors with their metadata into the index
func (h *ListingsHandler) BatchUpsert(c *gin.Context) {
	var req model.ListingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Listings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No listings provided"})
		return
	}

	texts := make([]string, len(req.Listings))
	for i, item := range req.Listings {
		texts[i] = item.Text
	}

	embeddings, err := h.embedder.EmbedBatch(c.Request.Context(), texts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Embedding failed: " + err.Error()})
		return
	}
	if len(embeddings) != len(req.Listings) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Embedding count mismatch"})
		return
	}

	records := make([]index.Record, len(req.Listings))
	for i, item := range req.Listings {
		records[i] = index.Record{
			ID:        item.ID,
			Embedding: embeddings[i],
			Metadata:  item.Metadata,
		}
	}

	success, errs := h.store.Upsert(c.Request.Context(), records)

	response := model.ListingBatchResponse{
		Success: success,
		Failed:  len(req.Listings) - success,
		Errors:  errs,
	}

	if len(errs) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}
