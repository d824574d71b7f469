package search

import (
	"core/internal/index"
	"core/internal/model"
)

// Project reshapes raw index matches into the API output contract: the
// stored metadata merged flat with the match id and similarity score.
// Absent metadata is treated as an empty record; index order is preserved.
func Project(matches []index.Match) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(matches))
	for _, m := range matches {
		result := make(model.SearchResult, len(m.Metadata)+2)
		for k, v := range m.Metadata {
			result[k] = v
		}
		result["id"] = m.ID
		result["score"] = m.Score
		results = append(results, result)
	}
	return results
}
