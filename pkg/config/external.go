package config

import (
	"path/filepath"
	"strings"
)

// External supplies per-file duplication and coverage percentages from
// configuration. Keys are slash-separated path suffixes; the longest key
// matching a file wins and unmatched files get 0.
type External struct {
	coverage    map[string]float64
	duplication map[string]float64
}

// Source returns the lookup over the configured maps.
func (e ExternalConfig) Source() *External {
	return &External{
		coverage:    normalizeKeys(e.Coverage),
		duplication: normalizeKeys(e.Duplication),
	}
}

// Empty reports whether no percentages are configured.
func (x *External) Empty() bool {
	return len(x.coverage) == 0 && len(x.duplication) == 0
}

// Coverage returns the configured test coverage for path.
func (x *External) Coverage(path string) float64 {
	return lookup(x.coverage, path)
}

// Duplication returns the configured duplication percentage for path.
func (x *External) Duplication(path string) float64 {
	return lookup(x.duplication, path)
}

func normalizeKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		k = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(k)), "./")
		if k != "" {
			out[k] = v
		}
	}
	return out
}

func lookup(m map[string]float64, path string) float64 {
	p := filepath.ToSlash(path)
	best, bestLen := 0.0, -1
	for k, v := range m {
		if (p == k || strings.HasSuffix(p, "/"+k)) && len(k) > bestLen {
			best, bestLen = v, len(k)
		}
	}
	return best
}
