package model

import "time"

// WorkflowSummary holds the per-stage counts of one discovery run.
type WorkflowSummary struct {
	HotCategories        int `json:"hotCategories"`
	TotalProducts        int `json:"totalProducts"`
	VettedProducts       int `json:"vettedProducts"`
	FinalRecommendations int `json:"finalRecommendations"`
}

// WorkflowResult is the sole externally visible output of a discovery run.
type WorkflowResult struct {
	Success              bool            `json:"success"`
	Timestamp            time.Time       `json:"timestamp"`
	Summary              WorkflowSummary `json:"summary"`
	HotSellingCategories []HotCategory   `json:"hotSellingCategories"`
	Recommendations      []ScoredProduct `json:"recommendations"`
}
