package score

import "math"

// =============================================================================
// RISK SUB-SCORE NORMALIZATION
// =============================================================================
//
// Each risk component is mapped to a 0-100 sub-score where higher is riskier.
// Complexity and churn saturate at 100; duplication and coverage are already
// percentages.
// =============================================================================

// complexityScale maps a cyclomatic complexity of 20 to the maximum sub-score.
const complexityScale = 5.0

// churnScale maps 10 commits per day to the maximum sub-score.
const churnScale = 10.0

// NormalizeComplexity converts a cyclomatic complexity to a 0-100 risk sub-score.
func NormalizeComplexity(cyclomatic int) float64 {
	return math.Min(100, float64(cyclomatic)*complexityScale)
}

// NormalizeChurn converts a churn rate in commits per day to a 0-100 risk sub-score.
func NormalizeChurn(rate float64) float64 {
	return math.Min(100, rate*churnScale)
}

// NormalizeCoverageGap inverts test coverage: low coverage is high risk.
func NormalizeCoverageGap(coverage float64) float64 {
	return 100 - coverage
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}
