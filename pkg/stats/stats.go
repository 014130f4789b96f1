// Package stats provides the summary statistics reported over a scan.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/linegauge/pkg/models"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Quantile returns the empirical p-quantile (0 <= p <= 1) of xs, which need
// not be sorted. Returns 0 for an empty slice.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Median returns the empirical median of xs.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// StdDev returns the sample standard deviation of xs, or 0 when fewer than
// two values are given.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// Summarize computes the tree-level summary of files.
func Summarize(files []models.FileMetrics) models.ScanSummary {
	s := models.ScanSummary{FilesAnalyzed: len(files)}
	if len(files) == 0 {
		return s
	}

	cc := make([]float64, len(files))
	ratio := make([]float64, len(files))
	mi := make([]float64, len(files))
	cog := make([]float64, len(files))

	for i := range files {
		f := &files[i]
		s.TotalCodeLines += f.CodeLines
		s.FindingCount += len(f.Findings)
		cc[i] = float64(f.ComplexitySeed)
		ratio[i] = f.CommentRatio
		mi[i] = f.MaintainabilityIndex
		cog[i] = float64(f.CognitiveComplexity)
		if f.HasRisk() {
			s.FilesWithRisk++
			s.MaxRiskScore = max(s.MaxRiskScore, f.RiskScore)
		}
	}

	s.AvgCyclomaticComplexity = Mean(cc)
	s.AvgCommentRatio = Mean(ratio)
	s.AvgMaintainabilityIndex = Mean(mi)
	s.MedianMaintainability = Median(mi)
	s.P90CognitiveComplexity = Quantile(cog, 0.9)
	s.StdDevComplexity = StdDev(cc)
	return s
}
