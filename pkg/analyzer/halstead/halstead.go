package halstead

import (
	"strings"

	"github.com/panbanda/linegauge/pkg/models"
)

// Analyzer accumulates operator and operand occurrences across the lines of
// one file. It is not safe for concurrent use; each task owns its own.
type Analyzer struct {
	operators map[string]int
	operands  map[string]int
}

// New creates a new Halstead analyzer.
func New() *Analyzer {
	return &Analyzer{
		operators: make(map[string]int),
		operands:  make(map[string]int),
	}
}

// Reset clears the analyzer state for a new file.
func (a *Analyzer) Reset() {
	a.operators = make(map[string]int)
	a.operands = make(map[string]int)
}

// AddLine tokenizes one line and records its tokens. Blank lines and lines
// starting with a line-comment marker are skipped.
func (a *Analyzer) AddLine(line string) {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") {
		return
	}
	for _, tok := range Tokenize(t) {
		if tok.Kind == Operator {
			a.operators[tok.Text]++
		} else {
			a.operands[tok.Text]++
		}
	}
}

// Statistics returns the Halstead statistics for everything added so far.
func (a *Analyzer) Statistics() models.HalsteadStatistics {
	var operatorsTotal, operandsTotal int
	for _, count := range a.operators {
		operatorsTotal += count
	}
	for _, count := range a.operands {
		operandsTotal += count
	}
	return models.NewHalsteadStatistics(len(a.operators), len(a.operands), operatorsTotal, operandsTotal)
}

// Analyze computes Halstead statistics for a whole file.
func (a *Analyzer) Analyze(lines []string) models.HalsteadStatistics {
	a.Reset()
	for _, line := range lines {
		a.AddLine(line)
	}
	return a.Statistics()
}

// Analyze is a convenience wrapper using a fresh Analyzer.
func Analyze(lines []string) models.HalsteadStatistics {
	return New().Analyze(lines)
}
