package model

// SearchRequest represents a search query request
type SearchRequest struct {
	Query   string         `json:"query" binding:"required"`
	Filters map[string]any `json:"filters,omitempty"`
	TopK    int            `json:"top_k"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Matches []SearchResult `json:"matches"`
}

// ListingBatchRequest represents a batch listing upsert request
type ListingBatchRequest struct {
	Listings []ListingItem `json:"listings" binding:"required"`
}

// ListingItem is a single listing to embed and index
type ListingItem struct {
	ID       string         `json:"id" binding:"required"`
	Text     string         `json:"text" binding:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ListingBatchResponse represents the response for a batch upsert
type ListingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
