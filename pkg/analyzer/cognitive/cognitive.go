// Package cognitive scores nesting-weighted control flow line by line.
//
// Nesting is tracked by counting braces on each line, so the score is an
// approximation of block structure rather than the result of a parse.
package cognitive

import "strings"

var controlFlowPrefixes = []string{"if", "else if", "else", "for", "while", "do", "switch"}

// Scanner accumulates a cognitive complexity score one line at a time.
type Scanner struct {
	score int
	depth int
}

// Line scores a single line and then updates nesting depth from its braces.
func (s *Scanner) Line(line string) {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") {
		return
	}

	if isControlFlow(t) {
		s.score += 1 + s.depth
	}

	if strings.Contains(t, "if") || strings.Contains(t, "while") || strings.Contains(t, "for") {
		s.score += strings.Count(t, "&&")
		s.score += strings.Count(t, "||")
	}

	if isHandler(t) {
		s.score += 1 + s.depth
	}

	s.depth += strings.Count(t, "{") - strings.Count(t, "}")
	if s.depth < 0 {
		s.depth = 0
	}
}

// Score returns the accumulated score.
func (s *Scanner) Score() int { return s.score }

// Depth returns the current nesting depth.
func (s *Scanner) Depth() int { return s.depth }

// Score computes the cognitive complexity of a file.
func Score(lines []string) int {
	var s Scanner
	for _, line := range lines {
		s.Line(line)
	}
	return s.Score()
}

func isControlFlow(t string) bool {
	for _, p := range controlFlowPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return strings.Contains(t, "? ") || strings.Contains(t, "elif ")
}

func isHandler(t string) bool {
	return strings.HasPrefix(t, "catch") ||
		strings.Contains(t, "} catch") ||
		strings.HasPrefix(t, "except")
}
