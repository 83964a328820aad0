// Package model defines the domain types shared across the discovery funnel.
package model

import "time"

// CandidateProduct is a scraped product record eligible for viability vetting.
// It is owned by the product store and treated as immutable input during a
// workflow run.
type CandidateProduct struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	SourceURL   string    `json:"source_url,omitempty" db:"source_url"`
	ScrapedAt   time.Time `json:"scraped_at" db:"scraped_at"`
}

// HotCategory is an AI-asserted trending product category.
type HotCategory struct {
	Category    string  `json:"category"`
	DemandScore float64 `json:"demand_score"`
	Reason      string  `json:"reason"`
}

// ViabilityScore is the AI assessment of a candidate's commercial potential.
// Sub-scores are pointers so a missing value can be told apart from a
// literal zero; ranking defaults depend on that distinction.
type ViabilityScore struct {
	ProductName      string   `json:"product_name,omitempty"`
	DemandScore      *float64 `json:"demand_score"`
	FeasibilityScore *float64 `json:"feasibility_score"`
	CompetitionScore *float64 `json:"competition_score"`
	ProfitScore      *float64 `json:"profit_score"`
	OverallScore     *float64 `json:"overall_score"`
	Recommendation   string   `json:"recommendation"`
}

// VettedProduct pairs a candidate with its viability assessment.
type VettedProduct struct {
	CandidateProduct
	Viability ViabilityScore `json:"viability"`
}

// ScoredProduct is a vetted product with its derived composite score and
// final 1-based ranking. It exists only inside a workflow result.
type ScoredProduct struct {
	VettedProduct
	CompositeScore float64 `json:"compositeScore"`
	Ranking        int     `json:"ranking"`
}

// DefaultViability returns the neutral all-fives assessment used when the AI
// reply did not cover a candidate.
func DefaultViability(recommendation string) ViabilityScore {
	five := func() *float64 { v := 5.0; return &v }
	return ViabilityScore{
		DemandScore:      five(),
		FeasibilityScore: five(),
		CompetitionScore: five(),
		ProfitScore:      five(),
		OverallScore:     five(),
		Recommendation:   recommendation,
	}
}
