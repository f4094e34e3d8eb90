package suggest

import "sort"

// RankSuggestions sorts suggestions by ImpactScore in descending order.
// Ties keep rule order.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactScore > sorted[j].ImpactScore
	})
	return sorted
}

// Limit returns at most n suggestions. n <= 0 means no limit.
func Limit(suggestions []Suggestion, n int) []Suggestion {
	if n <= 0 || len(suggestions) <= n {
		return suggestions
	}
	return suggestions[:n]
}

// ComputeImpact scores a threshold as weighted benefit minus weighted cost.
//
// Parameters:
//   - frictionDrop: percent of baseline friction removed (0-100)
//   - affectedShare: percent of back-to-back rentals hidden (0-100)
//   - ownerLoss: mean owner loss percent (0-100)
//
// Negative scores are clamped to 0.
func ComputeImpact(w Weights, frictionDrop, affectedShare, ownerLoss float64) float64 {
	score := w.Friction*frictionDrop - w.Affected*affectedShare - w.OwnerLoss*ownerLoss
	if score < 0 {
		return 0
	}
	return score
}
