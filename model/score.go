package model

// Band is the qualitative label derived from the total score
type Band string

const (
	BandExcellent    Band = "excellent"    // total >= 85
	BandStrong       Band = "strong"       // total >= 70
	BandIntermediate Band = "intermediate" // total >= 50
	BandBeginner     Band = "beginner"
)

// ScoreBreakdown holds the six weighted sub-scores
// maxima: documentation 20, codeStructure 20, activity 20,
// technicalDepth 15, impact 15, organization 10 (sum = 100)
type ScoreBreakdown struct {
	Documentation  float64 `json:"documentation"`
	CodeStructure  float64 `json:"codeStructure"`
	Activity       float64 `json:"activity"`
	TechnicalDepth float64 `json:"technicalDepth"`
	Impact         float64 `json:"impact"`
	Organization   float64 `json:"organization"`
}

// PortfolioScore is the scoring engine output, derived and never mutated
type PortfolioScore struct {
	Total     int            `json:"total"` // rounded sum of the breakdown, clamped to [0,100]
	Breakdown ScoreBreakdown `json:"breakdown"`
	Band      Band           `json:"band"`
}
