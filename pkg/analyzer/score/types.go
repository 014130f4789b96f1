package score

// Weights defines the contribution of each sub-score to the risk score.
type Weights struct {
	Complexity  float64 `json:"complexity" toml:"complexity"`
	Churn       float64 `json:"churn" toml:"churn"`
	Duplication float64 `json:"duplication" toml:"duplication"`
	Coverage    float64 `json:"coverage" toml:"coverage"` // applied to the coverage gap
}

// DefaultWeights returns the default weights (sum to 1.0).
func DefaultWeights() Weights {
	return Weights{
		Complexity:  0.30,
		Churn:       0.25,
		Duplication: 0.20,
		Coverage:    0.25,
	}
}

// RiskInputs are the raw values feeding the risk score.
type RiskInputs struct {
	Cyclomatic  int
	ChurnRate   float64
	Duplication float64 // percentage, 0-100
	Coverage    float64 // percentage, 0-100
}

// ComponentScores holds the normalized sub-scores (0-100 each).
type ComponentScores struct {
	Complexity  float64 `json:"complexity"`
	Churn       float64 `json:"churn"`
	Duplication float64 `json:"duplication"`
	CoverageGap float64 `json:"coverage_gap"`
}
