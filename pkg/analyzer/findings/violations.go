package findings

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLineLength is the line length above which a line is reported.
const DefaultMaxLineLength = 120

// Violations reports overlong lines and TODO and FIXME markers.
type Violations struct {
	maxLineLength int
}

// ViolationsOption configures Violations.
type ViolationsOption func(*Violations)

// WithMaxLineLength sets the longest permitted line in characters.
func WithMaxLineLength(n int) ViolationsOption {
	return func(v *Violations) {
		if n > 0 {
			v.maxLineLength = n
		}
	}
}

// NewViolations creates a violations generator.
func NewViolations(opts ...ViolationsOption) *Violations {
	v := &Violations{maxLineLength: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name implements Generator.
func (v *Violations) Name() string { return "violations" }

// Find implements Generator. A line can produce several findings.
func (v *Violations) Find(lines []string) []string {
	var out []string
	for i, line := range lines {
		if ignored(line) {
			continue
		}
		n := i + 1
		if utf8.RuneCountInString(line) > v.maxLineLength {
			out = append(out, fmt.Sprintf("Line %d: Exceeds %d chars", n, v.maxLineLength))
		}
		if strings.Contains(line, "TODO") {
			out = append(out, fmt.Sprintf("Line %d: Contains TODO", n))
		}
		if strings.Contains(line, "FIXME") {
			out = append(out, fmt.Sprintf("Line %d: Contains FIXME", n))
		}
	}
	return out
}
