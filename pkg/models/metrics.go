package models

// LineClassification holds the per-file line counts produced by a language heuristic.
type LineClassification struct {
	TotalLines     int `json:"total_lines"`
	CodeLines      int `json:"code_lines"`
	CommentLines   int `json:"comment_lines"`
	BlankLines     int `json:"blank_lines"`
	ComplexitySeed int `json:"cyclomatic_complexity"`
	MethodCount    int `json:"method_count"`
	ClassCount     int `json:"class_count"`
}

// Consistent reports whether code, comment and blank lines add up to the total.
func (c LineClassification) Consistent() bool {
	return c.CodeLines+c.CommentLines+c.BlankLines == c.TotalLines
}

// CommentRatio returns comment lines as a percentage of all lines.
func (c LineClassification) CommentRatio() float64 {
	if c.TotalLines == 0 {
		return 0
	}
	return float64(c.CommentLines) * 100.0 / float64(c.TotalLines)
}

// MaintainabilityStatus is a coarse band over the maintainability index.
type MaintainabilityStatus string

const (
	StatusCritical MaintainabilityStatus = "critical"
	StatusModerate MaintainabilityStatus = "moderate"
	StatusGood     MaintainabilityStatus = "good"
)

// FileMetrics is the aggregate result for one analyzed file.
type FileMetrics struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Variant  string `json:"variant"`

	LineClassification

	CommentRatio        float64 `json:"comment_ratio"`
	MaxMethodComplexity int     `json:"max_method_complexity"`
	AvgMethodComplexity int     `json:"avg_method_complexity"`
	LongestMethodLines  int     `json:"longest_method_lines"`

	Halstead            HalsteadStatistics `json:"halstead"`
	CognitiveComplexity int                `json:"cognitive_complexity"`

	MaintainabilityIndex  float64               `json:"maintainability_index"`
	MaintainabilityStatus MaintainabilityStatus `json:"maintainability_status"`

	// RiskScore is only computed when Churn is present; otherwise it stays 0.
	RiskScore             float64       `json:"risk_score"`
	DuplicationPercentage float64       `json:"duplication_percentage"`
	TestCoverage          float64       `json:"test_coverage"`
	Churn                 *ChurnSummary `json:"churn,omitempty"`

	Findings []string `json:"findings"`
}

// HasRisk reports whether RiskScore carries a computed value.
func (m *FileMetrics) HasRisk() bool {
	return m.Churn != nil && m.Churn.CommitCount > 0
}

// AddFinding appends a free-text finding.
func (m *FileMetrics) AddFinding(f string) {
	m.Findings = append(m.Findings, f)
}

// Measurements are the content-derived parts of FileMetrics: everything that
// depends only on a file's bytes and variant.
type Measurements struct {
	Lines               LineClassification `json:"lines"`
	Halstead            HalsteadStatistics `json:"halstead"`
	CognitiveComplexity int                `json:"cognitive_complexity"`
	LongestMethodLines  int                `json:"longest_method_lines"`
}
