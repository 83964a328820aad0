package discovery

import (
	"math"

	"github.com/sells-group/discovery-funnel/internal/model"
)

// Composite score weights. Lower competition is better, so competition
// contributes inverted.
const (
	weightDemand      = 0.30
	weightFeasibility = 0.25
	weightProfit      = 0.25
	weightCompetition = 0.20
)

// Composite reduces a viability score to a single ranking number, rounded
// to two decimal places. Missing sub-scores default to 0, except
// competition, which defaults to a neutral 5. Out-of-range values are
// passed through unmodified.
func Composite(v model.ViabilityScore) float64 {
	demand := scoreOr(v.DemandScore, 0)
	feasibility := scoreOr(v.FeasibilityScore, 0)
	profit := scoreOr(v.ProfitScore, 0)
	competition := scoreOr(v.CompetitionScore, 5)

	raw := demand*weightDemand +
		feasibility*weightFeasibility +
		profit*weightProfit +
		(10-competition)*weightCompetition

	return math.Round(raw*100) / 100
}

func scoreOr(score *float64, fallback float64) float64 {
	if score == nil {
		return fallback
	}
	return *score
}
