package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/panbanda/linegauge/pkg/models"
)

// NotApplicable is shown for a risk score that was never computed.
const NotApplicable = "n/a"

// fileHeaders are the columns of the per-file table, shared by text,
// markdown and csv output.
var fileHeaders = []string{
	"File", "Variant", "Lines", "Code", "Comment", "Blank", "Comment %",
	"Cyclomatic", "Cognitive", "Methods", "Classes",
	"Volume", "Difficulty", "Effort",
	"MI", "Status", "Risk", "Dup %", "Coverage %", "Findings",
}

const (
	colStatus = 15
	colRisk   = 16
)

// RiskCell formats a file's risk score, or NotApplicable without churn.
func RiskCell(m *models.FileMetrics) string {
	if !m.HasRisk() {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f", m.RiskScore)
}

func riskBand(cell string) string {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return ""
	}
	switch {
	case v >= 60:
		return "high"
	case v >= 30:
		return "medium"
	default:
		return "low"
	}
}

func fileSeverity(col int, cell string) string {
	switch col {
	case colStatus:
		return strings.ToLower(cell)
	case colRisk:
		return riskBand(cell)
	}
	return ""
}

func fileRow(m *models.FileMetrics) []string {
	name := m.Path
	if name == "" {
		name = m.FileName
	}
	return []string{
		name,
		m.Variant,
		strconv.Itoa(m.TotalLines),
		strconv.Itoa(m.CodeLines),
		strconv.Itoa(m.CommentLines),
		strconv.Itoa(m.BlankLines),
		fmt.Sprintf("%.1f", m.CommentRatio),
		strconv.Itoa(m.ComplexitySeed),
		strconv.Itoa(m.CognitiveComplexity),
		strconv.Itoa(m.MethodCount),
		strconv.Itoa(m.ClassCount),
		fmt.Sprintf("%.1f", m.Halstead.Volume),
		fmt.Sprintf("%.1f", m.Halstead.Difficulty),
		fmt.Sprintf("%.1f", m.Halstead.Effort),
		fmt.Sprintf("%.1f", m.MaintainabilityIndex),
		string(m.MaintainabilityStatus),
		RiskCell(m),
		fmt.Sprintf("%.1f", m.DuplicationPercentage),
		fmt.Sprintf("%.1f", m.TestCoverage),
		strconv.Itoa(len(m.Findings)),
	}
}

// sortedFiles returns files ordered by path for stable tables.
func sortedFiles(files []models.FileMetrics) []models.FileMetrics {
	out := make([]models.FileMetrics, len(files))
	copy(out, files)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// ScanReport builds the renderable report for a scan. Structured formats
// serialize result as-is.
func ScanReport(result *models.ScanResult) *Report {
	files := sortedFiles(result.Files)

	rows := make([][]string, 0, len(files))
	for i := range files {
		rows = append(rows, fileRow(&files[i]))
	}
	table := NewTable("Files", fileHeaders, rows, nil, nil)
	table.Severity = fileSeverity
	table.Highlight = func(col int, cell string) string {
		return SeverityColor(fileSeverity(col, cell), cell)
	}

	report := &Report{
		Title:    "Line Metrics",
		Sections: []Renderable{table, summarySection(result)},
		Data:     result,
	}

	var findingRows [][]string
	for _, m := range files {
		for _, f := range m.Findings {
			findingRows = append(findingRows, []string{m.Path, f})
		}
	}
	if len(findingRows) > 0 {
		report.Sections = append(report.Sections,
			NewTable("Findings", []string{"File", "Finding"}, findingRows, nil, nil))
	}

	if len(result.Diagnostics) > 0 {
		report.Sections = append(report.Sections, diagnosticsTable(result.Diagnostics))
	}
	return report
}

func summarySection(result *models.ScanResult) *Section {
	s := result.Summary
	var b strings.Builder
	if result.NothingToAnalyze {
		b.WriteString("Nothing to analyze.\n")
	}
	fmt.Fprintf(&b, "Files analyzed:          %s\n", humanize.Comma(int64(s.FilesAnalyzed)))
	fmt.Fprintf(&b, "Code lines:              %s\n", humanize.Comma(int64(s.TotalCodeLines)))
	fmt.Fprintf(&b, "Avg cyclomatic:          %.2f (stddev %.2f)\n", s.AvgCyclomaticComplexity, s.StdDevComplexity)
	fmt.Fprintf(&b, "Avg comment ratio:       %.1f%%\n", s.AvgCommentRatio)
	fmt.Fprintf(&b, "Maintainability:         avg %.1f, median %.1f\n", s.AvgMaintainabilityIndex, s.MedianMaintainability)
	fmt.Fprintf(&b, "P90 cognitive:           %.1f\n", s.P90CognitiveComplexity)
	if s.FilesWithRisk > 0 {
		fmt.Fprintf(&b, "Risk:                    %d files, max %.1f\n", s.FilesWithRisk, s.MaxRiskScore)
	} else {
		fmt.Fprintf(&b, "Risk:                    %s (no churn history)\n", NotApplicable)
	}
	fmt.Fprintf(&b, "Findings:                %s", humanize.Comma(int64(s.FindingCount)))
	if result.TimedOut {
		b.WriteString("\nIncomplete: stopped waiting before every file finished.")
	}
	return &Section{Title: "Summary", Content: b.String()}
}

func diagnosticsTable(diags []models.Diagnostic) *Table {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{d.Path, d.Stage, d.Message})
	}
	return NewTable("Skipped Files", []string{"File", "Stage", "Reason"}, rows, nil, nil)
}

// DuplicateReport builds the renderable report for duplicate blocks.
func DuplicateReport(r *models.DuplicateReport) *Report {
	rows := make([][]string, 0, len(r.Blocks))
	for i, b := range r.Blocks {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(b.Count), b.Text})
	}
	footer := []string{"", "", fmt.Sprintf("%s distinct blocks in %s files",
		humanize.Comma(int64(r.DistinctBlocks)), humanize.Comma(int64(r.TotalFilesScanned)))}

	report := &Report{
		Title:    "Duplicate Blocks",
		Sections: []Renderable{NewTable("Most Repeated", []string{"Rank", "Count", "Block"}, rows, footer, nil)},
		Data:     r,
	}
	if len(r.Diagnostics) > 0 {
		report.Sections = append(report.Sections, diagnosticsTable(r.Diagnostics))
	}
	return report
}
