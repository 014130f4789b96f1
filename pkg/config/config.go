// Package config loads and validates linegauge configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Config holds all configuration options for linegauge.
type Config struct {
	// Candidate discovery and scan execution
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// Version-control churn
	Churn ChurnConfig `koanf:"churn" toml:"churn"`

	// Free-text finding generators
	Findings FindingsConfig `koanf:"findings" toml:"findings"`

	// Duplicate block report
	Duplicates DuplicatesConfig `koanf:"duplicates" toml:"duplicates"`

	// Externally supplied per-file percentages
	External ExternalConfig `koanf:"external" toml:"external"`

	// Risk score weights
	Risk RiskConfig `koanf:"risk" toml:"risk"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ScanConfig controls which files are analyzed and how.
type ScanConfig struct {
	// Exclude drops files whose path starts with any of these prefixes.
	Exclude []string `koanf:"exclude" toml:"exclude"`
	// ExcludeGlobs drops files matching any glob. Invalid globs are ignored.
	ExcludeGlobs []string `koanf:"exclude_globs" toml:"exclude_globs"`
	// Extensions, when non-empty, keeps only files with these extensions.
	Extensions       []string `koanf:"extensions" toml:"extensions"`
	Parallel         bool     `koanf:"parallel" toml:"parallel"`
	Workers          int      `koanf:"workers" toml:"workers"`           // 0 = host parallelism
	WaitTimeout      string   `koanf:"wait_timeout" toml:"wait_timeout"` // Go duration, e.g. "1h"
	RespectGitignore bool     `koanf:"respect_gitignore" toml:"respect_gitignore"`
	MaxFileSize      string   `koanf:"max_file_size" toml:"max_file_size"` // e.g. "2MB"; empty = no limit
}

// ChurnConfig controls git history retrieval.
type ChurnConfig struct {
	Enabled bool `koanf:"enabled" toml:"enabled"`
	Days    int  `koanf:"days" toml:"days"` // 0 = full history
}

// FindingsConfig selects the finding generators.
type FindingsConfig struct {
	Secrets       bool `koanf:"secrets" toml:"secrets"`
	Violations    bool `koanf:"violations" toml:"violations"`
	MaxLineLength int  `koanf:"max_line_length" toml:"max_line_length"`
}

// DuplicatesConfig controls the duplicate block report.
type DuplicatesConfig struct {
	Top int `koanf:"top" toml:"top"`
}

// ExternalConfig maps path suffixes to externally measured percentages.
type ExternalConfig struct {
	Coverage    map[string]float64 `koanf:"coverage" toml:"coverage"`
	Duplication map[string]float64 `koanf:"duplication" toml:"duplication"`
}

// RiskConfig weighs the normalized sub-scores that make up the risk score.
// The coverage weight applies to the coverage gap.
type RiskConfig struct {
	Complexity  float64 `koanf:"complexity" toml:"complexity"`
	Churn       float64 `koanf:"churn" toml:"churn"`
	Duplication float64 `koanf:"duplication" toml:"duplication"`
	Coverage    float64 `koanf:"coverage" toml:"coverage"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled" toml:"enabled"`
	Dir      string `koanf:"dir" toml:"dir"`
	TTLHours int    `koanf:"ttl_hours" toml:"ttl_hours"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, csv, yaml, toon, html
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultWaitTimeout bounds how long a scan waits for its workers.
const DefaultWaitTimeout = time.Hour

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "markdown", "csv", "yaml", "toon", "html"}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude:          []string{},
			ExcludeGlobs:     []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "*.min.js"},
			Extensions:       []string{},
			Parallel:         false,
			Workers:          0,
			WaitTimeout:      DefaultWaitTimeout.String(),
			RespectGitignore: true,
			MaxFileSize:      "",
		},
		Churn: ChurnConfig{
			Enabled: true,
			Days:    0,
		},
		Findings: FindingsConfig{
			Secrets:       true,
			Violations:    true,
			MaxLineLength: 120,
		},
		Duplicates: DuplicatesConfig{
			Top: 5,
		},
		External: ExternalConfig{
			Coverage:    map[string]float64{},
			Duplication: map[string]float64{},
		},
		Risk: RiskConfig{
			Complexity:  0.30,
			Churn:       0.25,
			Duplication: 0.20,
			Coverage:    0.25,
		},
		Cache: CacheConfig{
			Enabled:  false,
			Dir:      ".linegauge/cache",
			TTLHours: 24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// WaitTimeoutDuration parses WaitTimeout, falling back to DefaultWaitTimeout
// when it is empty.
func (s ScanConfig) WaitTimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(s.WaitTimeout) == "" {
		return DefaultWaitTimeout, nil
	}
	d, err := time.ParseDuration(s.WaitTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing wait_timeout %q: %w", s.WaitTimeout, err)
	}
	return d, nil
}

// MaxFileSizeBytes parses MaxFileSize. Zero means no limit.
func (s ScanConfig) MaxFileSizeBytes() (int64, error) {
	if strings.TrimSpace(s.MaxFileSize) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("parsing max_file_size %q: %w", s.MaxFileSize, err)
	}
	return int64(n), nil
}

// Validate checks that every value is within range.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Scan.Workers < 0 {
		errs.add("scan.workers", "must be >= 0")
	}
	if d, err := c.Scan.WaitTimeoutDuration(); err != nil {
		errs.add("scan.wait_timeout", err.Error())
	} else if d <= 0 {
		errs.add("scan.wait_timeout", "must be positive")
	}
	if _, err := c.Scan.MaxFileSizeBytes(); err != nil {
		errs.add("scan.max_file_size", err.Error())
	}
	if c.Churn.Days < 0 {
		errs.add("churn.days", "must be >= 0")
	}
	if c.Findings.MaxLineLength <= 0 {
		errs.add("findings.max_line_length", "must be positive")
	}
	if c.Duplicates.Top <= 0 {
		errs.add("duplicates.top", "must be positive")
	}
	for path, v := range c.External.Coverage {
		if v < 0 || v > 100 {
			errs.add("external.coverage."+path, "must be between 0 and 100")
		}
	}
	for path, v := range c.External.Duplication {
		if v < 0 || v > 100 {
			errs.add("external.duplication."+path, "must be between 0 and 100")
		}
	}
	riskWeights := []struct {
		field string
		w     float64
	}{
		{"risk.complexity", c.Risk.Complexity},
		{"risk.churn", c.Risk.Churn},
		{"risk.duplication", c.Risk.Duplication},
		{"risk.coverage", c.Risk.Coverage},
	}
	var riskTotal float64
	for _, rw := range riskWeights {
		if rw.w < 0 {
			errs.add(rw.field, "must be >= 0")
		}
		riskTotal += rw.w
	}
	if riskTotal <= 0 {
		errs.add("risk", "at least one weight must be positive")
	}
	if c.Cache.TTLHours < 0 {
		errs.add("cache.ttl_hours", "must be >= 0")
	}
	if !IsFormat(c.Output.Format) {
		errs.add("output.format", fmt.Sprintf("unknown format %q (want one of %s)", c.Output.Format, strings.Join(Formats, ", ")))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsFormat reports whether name is a supported output format.
func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Warnings lists settings that are accepted but have no effect, such as
// malformed exclude globs, which the filter drops.
func (c *Config) Warnings() []string {
	var out []string
	for _, g := range c.Scan.ExcludeGlobs {
		if _, err := filepath.Match(g, ""); err != nil {
			out = append(out, fmt.Sprintf("scan.exclude_globs: invalid glob %q is ignored", g))
		}
	}
	return out
}
