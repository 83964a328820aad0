package discovery

import (
	"strings"

	"github.com/sells-group/discovery-funnel/internal/model"
)

// CrossReference keeps the vetted products textually related to at least one
// hot category. A product matches when any whitespace-delimited token of any
// lower-cased category label appears as a substring of its lower-cased
// category, name, or description. There is no normalization beyond case
// folding, so a short token like "home" also matches inside longer words.
// Input order is preserved.
func CrossReference(hot []model.HotCategory, vetted []model.VettedProduct) []model.VettedProduct {
	var tokens []string
	for _, h := range hot {
		tokens = append(tokens, strings.Fields(strings.ToLower(h.Category))...)
	}

	var matched []model.VettedProduct
	for _, p := range vetted {
		category := strings.ToLower(p.Category)
		name := strings.ToLower(p.Name)
		description := strings.ToLower(p.Description)

		for _, token := range tokens {
			if strings.Contains(category, token) ||
				strings.Contains(name, token) ||
				strings.Contains(description, token) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}
