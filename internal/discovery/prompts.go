package discovery

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/discovery-funnel/internal/model"
)

// defaultHotSellingPrompt asks the ICE service for trending product
// categories.
const defaultHotSellingPrompt = `Analyze current market trends and identify the top 10 hot selling product categories for 3D printing in 2024.
    Focus on consumer products that are:
    1. In high demand
    2. Suitable for 3D printing
    3. Have commercial viability
    4. Popular in online marketplaces

    Return the response as a JSON array of objects with 'category', 'demand_score' (1-10), and 'reason' fields.`

// defaultViabilityPrompt asks the ICE service to score candidates.
// {productList} is replaced with one "name: description (Price: $price)"
// line per candidate.
const defaultViabilityPrompt = `Analyze the following 3D printable products for market viability and commercial potential:

{productList}

For each product, evaluate:
1. Market demand potential (1-10)
2. 3D printing feasibility (1-10)
3. Competition level (1-10, where 10 is highly competitive)
4. Profit margin potential (1-10)
5. Overall viability score (1-10)

Return the response as a JSON array of objects with 'product_name', 'demand_score', 'feasibility_score', 'competition_score', 'profit_score', 'overall_score', and 'recommendation' fields.`

// Prompts holds the text sent to the ICE service for each workflow stage.
type Prompts struct {
	HotSelling string `yaml:"hot_selling"`
	Viability  string `yaml:"viability"`
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		HotSelling: defaultHotSellingPrompt,
		Viability:  defaultViabilityPrompt,
	}
}

// LoadPrompts reads a prompt override file. Fields left empty in the file
// keep their defaults.
func LoadPrompts(path string) (Prompts, error) {
	p := DefaultPrompts()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrapf(err, "prompts: read %s", path)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, eris.Wrapf(err, "prompts: decode %s", path)
	}

	if p.HotSelling == "" {
		p.HotSelling = defaultHotSellingPrompt
	}
	if p.Viability == "" {
		p.Viability = defaultViabilityPrompt
	}
	return p, nil
}

// ViabilityFor interpolates the candidate list into the viability prompt.
func (p Prompts) ViabilityFor(products []model.CandidateProduct) string {
	lines := make([]string, 0, len(products))
	for _, pr := range products {
		lines = append(lines, fmt.Sprintf("%s: %s (Price: $%s)", pr.Name, pr.Description, formatPrice(pr.Price)))
	}
	return strings.ReplaceAll(p.Viability, "{productList}", strings.Join(lines, "\n"))
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
