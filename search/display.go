package search

import "github.com/poiesic/tradescout/core"

// Presentation defaults.
const (
	DefaultMinDisplayScore = 5
	DefaultDisplayLimit    = 500
)

// Display trims a ranking for presentation. It walks results in order, stops at
// the first one scoring below minScore, and keeps at most limit entries.
// A limit of zero or less means no cap. results must be sorted by score, highest
// first, as Rank returns them.
func Display(results []core.RankedResult, minScore, limit int) []core.RankedResult {
	out := make([]core.RankedResult, 0, min(len(results), max(limit, 0)))
	for _, r := range results {
		if r.SimilarityScore < minScore {
			break
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r)
	}
	return out
}
