package discovery

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-funnel/internal/model"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

// fallbackHotCategories is returned when the hot-categories reply contains
// no parseable array.
var fallbackHotCategories = []model.HotCategory{
	{Category: "3D Printing Tools", DemandScore: 8, Reason: "High demand for custom tools"},
	{Category: "Home Decor", DemandScore: 7, Reason: "Popular personalized items"},
	{Category: "Toys & Games", DemandScore: 9, Reason: "Educational and entertainment value"},
}

// extractArray returns the first bracket-delimited region of text, from the
// first '[' to the last ']'. The scan is deliberately greedy; it is a
// best-effort heuristic for pulling a JSON array out of prose, not a parser.
func extractArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseHotCategories extracts hot category records from an ICE reply.
// A reply with no array in it yields the fixed fallback set; a reply whose
// array fails to decode is a hard error.
func ParseHotCategories(resp *ice.GenerateResponse) ([]model.HotCategory, error) {
	raw, ok := extractArray(resp.Body())
	if !ok {
		zap.L().Warn("hot categories reply had no parseable array, using fallback")
		return append([]model.HotCategory(nil), fallbackHotCategories...), nil
	}

	var categories []model.HotCategory
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, eris.Wrap(err, "parse hot categories response")
	}
	return categories, nil
}

// ParseViability extracts viability scores from an ICE reply and pairs them
// positionally with the submitted candidates. The output always has one
// entry per candidate: indexes the reply did not cover get a neutral
// default. A reply with no array at all scores every candidate with the
// manual-analysis default instead.
func ParseViability(resp *ice.GenerateResponse, products []model.CandidateProduct) ([]model.VettedProduct, error) {
	raw, ok := extractArray(resp.Body())
	if !ok {
		zap.L().Warn("viability reply had no parseable array, using fallback scores")
		vetted := make([]model.VettedProduct, 0, len(products))
		for _, p := range products {
			vetted = append(vetted, model.VettedProduct{
				CandidateProduct: p,
				Viability:        model.DefaultViability("Requires manual analysis"),
			})
		}
		return vetted, nil
	}

	var scores []*model.ViabilityScore
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, eris.Wrap(err, "parse viability response")
	}

	// Scores are matched to candidates by position, not by product name.
	if len(scores) != len(products) {
		zap.L().Warn("viability reply length differs from candidate count",
			zap.Int("parsed", len(scores)),
			zap.Int("candidates", len(products)),
		)
	}

	vetted := make([]model.VettedProduct, 0, len(products))
	for i, p := range products {
		viability := model.DefaultViability("Requires further analysis")
		if i < len(scores) && scores[i] != nil {
			viability = *scores[i]
		}
		vetted = append(vetted, model.VettedProduct{CandidateProduct: p, Viability: viability})
	}
	return vetted, nil
}
