package models

import "time"

// Diagnostic describes a file that was skipped during a scan.
type Diagnostic struct {
	Path    string `json:"path"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ScanSummary provides aggregate statistics over a scan.
type ScanSummary struct {
	FilesAnalyzed           int     `json:"files_analyzed"`
	TotalCodeLines          int     `json:"total_code_lines"`
	AvgCyclomaticComplexity float64 `json:"avg_cyclomatic_complexity"`
	AvgCommentRatio         float64 `json:"avg_comment_ratio"`
	AvgMaintainabilityIndex float64 `json:"avg_maintainability_index"`
	MedianMaintainability   float64 `json:"median_maintainability_index"`
	P90CognitiveComplexity  float64 `json:"p90_cognitive_complexity"`
	StdDevComplexity        float64 `json:"stddev_cyclomatic_complexity"`
	FilesWithRisk           int     `json:"files_with_risk"`
	MaxRiskScore            float64 `json:"max_risk_score"`
	FindingCount            int     `json:"finding_count"`
}

// ScanResult is the orchestrator's output for a batch of candidate files.
type ScanResult struct {
	RunID            string        `json:"run_id,omitempty"`
	GeneratedAt      time.Time     `json:"generated_at"`
	Files            []FileMetrics `json:"files"`
	Diagnostics      []Diagnostic  `json:"diagnostics,omitempty"`
	Summary          ScanSummary   `json:"summary"`
	NothingToAnalyze bool          `json:"nothing_to_analyze,omitempty"`
	TimedOut         bool          `json:"timed_out,omitempty"`
}
