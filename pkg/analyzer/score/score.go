// Package score derives the maintainability index and the composite risk
// score from per-file line, Halstead and churn measurements.
package score

import (
	"math"

	"github.com/panbanda/linegauge/pkg/models"
)

// Maintainability index bands.
const (
	CriticalBelow = 20.0
	ModerateBelow = 50.0
)

// MaintainabilityIndex computes
//
//	MI = max(0, (171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(LOC)) * 100/171)
//
// A file without volume or code lines is maximally maintainable (100).
func MaintainabilityIndex(volume float64, cyclomatic, codeLines int) float64 {
	if volume <= 0 || codeLines <= 0 {
		return 100
	}
	raw := 171 - 5.2*math.Log(volume) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(codeLines))
	return clamp(raw*100/171, 0, 100)
}

// Status maps a maintainability index to its band.
func Status(mi float64) models.MaintainabilityStatus {
	switch {
	case mi < CriticalBelow:
		return models.StatusCritical
	case mi < ModerateBelow:
		return models.StatusModerate
	default:
		return models.StatusGood
	}
}

// Synthesizer combines classifier, Halstead and churn outputs into the
// derived scores of a FileMetrics.
type Synthesizer struct {
	weights Weights
}

// Option is a functional option for configuring Synthesizer.
type Option func(*Synthesizer)

// WithWeights overrides the risk weights.
func WithWeights(w Weights) Option {
	return func(s *Synthesizer) {
		s.weights = w
	}
}

// New creates a new Synthesizer with default weights.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Components returns the normalized risk sub-scores.
func (s *Synthesizer) Components(in RiskInputs) ComponentScores {
	return ComponentScores{
		Complexity:  NormalizeComplexity(in.Cyclomatic),
		Churn:       NormalizeChurn(in.ChurnRate),
		Duplication: in.Duplication,
		CoverageGap: NormalizeCoverageGap(in.Coverage),
	}
}

// Risk computes the weighted risk score clamped to [0,100].
func (s *Synthesizer) Risk(in RiskInputs) float64 {
	c := s.Components(in)
	risk := c.Complexity*s.weights.Complexity +
		c.Churn*s.weights.Churn +
		c.Duplication*s.weights.Duplication +
		c.CoverageGap*s.weights.Coverage
	return clamp(risk, 0, 100)
}

// Apply fills the maintainability and method-level fields of m. The risk
// score is only computed when m carries churn history; otherwise it is left
// at zero rather than computed with a substituted churn rate.
func (s *Synthesizer) Apply(m *models.FileMetrics) {
	m.MaintainabilityIndex = MaintainabilityIndex(m.Halstead.Volume, m.ComplexitySeed, m.CodeLines)
	m.MaintainabilityStatus = Status(m.MaintainabilityIndex)
	m.CommentRatio = m.LineClassification.CommentRatio()
	m.MaxMethodComplexity = m.ComplexitySeed
	m.AvgMethodComplexity = 0
	if m.MethodCount > 0 {
		m.AvgMethodComplexity = m.ComplexitySeed / m.MethodCount
	}

	m.RiskScore = 0
	if !m.HasRisk() {
		return
	}
	m.RiskScore = s.Risk(RiskInputs{
		Cyclomatic:  m.ComplexitySeed,
		ChurnRate:   m.Churn.ChurnRate,
		Duplication: m.DuplicationPercentage,
		Coverage:    m.TestCoverage,
	})
}
