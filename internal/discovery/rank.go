package discovery

import (
	"sort"

	"github.com/sells-group/discovery-funnel/internal/model"
)

// maxRecommendations bounds the final recommendation list.
const maxRecommendations = 20

// Rank computes composite scores, orders the products by score descending,
// and truncates to the top entries. Ties keep their relative input order,
// and ranking is the dense 1-based position in the sorted list.
func Rank(vetted []model.VettedProduct) []model.ScoredProduct {
	scored := make([]model.ScoredProduct, 0, len(vetted))
	for _, p := range vetted {
		scored = append(scored, model.ScoredProduct{
			VettedProduct:  p,
			CompositeScore: Composite(p.Viability),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	for i := range scored {
		scored[i].Ranking = i + 1
	}
	return scored
}
