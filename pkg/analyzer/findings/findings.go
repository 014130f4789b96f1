// Package findings produces free-text findings for a file's lines.
package findings

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/panics"
)

// IgnoreDirective suppresses every finding on the line that carries it.
const IgnoreDirective = "linegauge:ignore"

// Generator inspects the lines of one file and reports findings in line order.
type Generator interface {
	Name() string
	Find(lines []string) []string
}

// Failure records a generator that panicked while inspecting a file.
type Failure struct {
	Generator string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("finding generator %s: %v", f.Generator, f.Err)
}

// Collect runs gens in order and concatenates their findings. A generator
// that panics contributes nothing and is reported as a Failure; the
// remaining generators still run.
func Collect(lines []string, gens ...Generator) ([]string, []Failure) {
	var out []string
	var failures []Failure
	for _, g := range gens {
		var found []string
		var pc panics.Catcher
		pc.Try(func() {
			found = g.Find(lines)
		})
		if r := pc.Recovered(); r != nil {
			failures = append(failures, Failure{Generator: g.Name(), Err: r.AsError()})
			continue
		}
		out = append(out, found...)
	}
	return out, failures
}

// Defaults returns the standard generators: secrets, then violations.
func Defaults() []Generator {
	return []Generator{NewSecrets(), NewViolations()}
}

func ignored(line string) bool {
	return strings.Contains(strings.ToLower(line), IgnoreDirective)
}
