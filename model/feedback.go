package model

// Feedback is the narrative layer produced from metrics and score
// lists are always non-nil so clients receive [] instead of null
type Feedback struct {
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	RedFlags    []string `json:"redFlags"`
	ActionItems []string `json:"actionItems"`
}

// PortfolioAnalysis is the combined result returned for one username
type PortfolioAnalysis struct {
	Metrics  PortfolioMetrics `json:"metrics"`
	Score    PortfolioScore   `json:"score"`
	Feedback Feedback         `json:"feedback"`
}
