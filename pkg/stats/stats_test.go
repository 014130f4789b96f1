package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panbanda/linegauge/pkg/models"
)

func TestMeanMedianQuantile(t *testing.T) {
	xs := []float64{5, 1, 3, 2, 4}

	assert.InDelta(t, 3.0, Mean(xs), 1e-9)
	assert.InDelta(t, 3.0, Median(xs), 1e-9)
	assert.InDelta(t, 5.0, Quantile(xs, 1), 1e-9)
	assert.InDelta(t, 1.0, Quantile(xs, 0), 1e-9)
	assert.Equal(t, []float64{5, 1, 3, 2, 4}, xs, "input must not be reordered")

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Median(nil))
}

func TestStdDev(t *testing.T) {
	assert.Zero(t, StdDev(nil))
	assert.Zero(t, StdDev([]float64{7}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-9)
}

func TestSummarize(t *testing.T) {
	files := []models.FileMetrics{
		{
			LineClassification:   models.LineClassification{CodeLines: 10, ComplexitySeed: 2},
			CommentRatio:         10,
			MaintainabilityIndex: 80,
			CognitiveComplexity:  1,
			Findings:             []string{"a"},
		},
		{
			LineClassification:   models.LineClassification{CodeLines: 30, ComplexitySeed: 4},
			CommentRatio:         30,
			MaintainabilityIndex: 40,
			CognitiveComplexity:  9,
			RiskScore:            55,
			Churn:                &models.ChurnSummary{CommitCount: 2},
			Findings:             []string{"b", "c"},
		},
	}

	s := Summarize(files)
	assert.Equal(t, 2, s.FilesAnalyzed)
	assert.Equal(t, 40, s.TotalCodeLines)
	assert.Equal(t, 3, s.FindingCount)
	assert.InDelta(t, 3.0, s.AvgCyclomaticComplexity, 1e-9)
	assert.InDelta(t, 20.0, s.AvgCommentRatio, 1e-9)
	assert.InDelta(t, 60.0, s.AvgMaintainabilityIndex, 1e-9)
	assert.Equal(t, 1, s.FilesWithRisk)
	assert.Equal(t, 55.0, s.MaxRiskScore)
	assert.Equal(t, 9.0, s.P90CognitiveComplexity)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.ScanSummary{}, Summarize(nil))
}
