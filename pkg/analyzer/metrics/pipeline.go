// Package metrics runs the per-file metrics pipeline and the multi-file
// scan orchestrator.
package metrics

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/panbanda/linegauge/pkg/analyzer/cognitive"
	"github.com/panbanda/linegauge/pkg/analyzer/findings"
	"github.com/panbanda/linegauge/pkg/analyzer/halstead"
	"github.com/panbanda/linegauge/pkg/analyzer/heuristic"
	"github.com/panbanda/linegauge/pkg/analyzer/score"
	"github.com/panbanda/linegauge/pkg/models"
	"github.com/panbanda/linegauge/pkg/source"
)

// ChurnSource supplies version-control history for a file.
type ChurnSource interface {
	Summary(path string) (*models.ChurnSummary, bool)
}

// ExternalSource supplies externally measured percentages for a file.
type ExternalSource interface {
	Duplication(path string) float64
	Coverage(path string) float64
}

// Cache stores content-derived measurements keyed by file content.
type Cache interface {
	Get(content []byte, variant string) (*models.Measurements, bool)
	Put(content []byte, variant string, m *models.Measurements) error
}

// Stage names reported in diagnostics.
const (
	StageRead    = "read"
	StageAnalyze = "analyze"
)

// StageError tags a pipeline failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline computes FileMetrics for one file at a time. Collaborators are
// shared read-only; all per-file state is owned by the call, so Analyze is
// safe to call from many goroutines.
type Pipeline struct {
	src        source.ContentSource
	synth      *score.Synthesizer
	churn      ChurnSource
	external   ExternalSource
	cache      Cache
	generators []findings.Generator
	logger     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) PipelineOption {
	return func(p *Pipeline) {
		p.src = src
	}
}

// WithSynthesizer sets the scorer used for maintainability and risk.
func WithSynthesizer(s *score.Synthesizer) PipelineOption {
	return func(p *Pipeline) {
		p.synth = s
	}
}

// WithChurn attaches version-control history.
func WithChurn(c ChurnSource) PipelineOption {
	return func(p *Pipeline) {
		p.churn = c
	}
}

// WithExternal attaches externally supplied duplication and coverage.
func WithExternal(e ExternalSource) PipelineOption {
	return func(p *Pipeline) {
		p.external = e
	}
}

// WithCache reuses measurements for files whose content was seen before.
func WithCache(c Cache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithGenerators sets the finding generators, run in the given order.
func WithGenerators(gens ...findings.Generator) PipelineOption {
	return func(p *Pipeline) {
		p.generators = gens
	}
}

// WithLogger sets the logger for non-fatal problems.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline creates a pipeline reading from the filesystem with the
// default generators and no churn, external data or cache.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		src:        source.NewFilesystem(),
		synth:      score.New(),
		generators: findings.Defaults(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Measure computes the content-derived measurements of lines.
func Measure(lines []string, v heuristic.Variant) models.Measurements {
	return models.Measurements{
		Lines:               heuristic.Classify(lines, v),
		Halstead:            halstead.Analyze(lines),
		CognitiveComplexity: cognitive.Score(lines),
		LongestMethodLines:  heuristic.LongestMethod(lines),
	}
}

// Analyze reads path and computes its metrics. The only error is a read
// failure, returned as a *StageError.
func (p *Pipeline) Analyze(path string) (models.FileMetrics, error) {
	content, err := p.src.Read(path)
	if err != nil {
		return models.FileMetrics{}, &StageError{Stage: StageRead, Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	return p.AnalyzeContent(path, content), nil
}

// AnalyzeContent computes metrics for content as if read from path.
func (p *Pipeline) AnalyzeContent(path string, content []byte) models.FileMetrics {
	lines := source.SplitLines(content)
	variant := heuristic.DetectVariant(path)

	meas := p.measure(content, lines, variant)

	m := models.FileMetrics{
		FileName:            filepath.Base(path),
		Path:                path,
		Variant:             string(variant),
		LineClassification:  meas.Lines,
		Halstead:            meas.Halstead,
		CognitiveComplexity: meas.CognitiveComplexity,
		LongestMethodLines:  meas.LongestMethodLines,
		Findings:            []string{},
	}

	if p.churn != nil {
		if s, ok := p.churn.Summary(path); ok {
			m.Churn = s
		}
	}
	if p.external != nil {
		m.DuplicationPercentage = p.external.Duplication(path)
		m.TestCoverage = p.external.Coverage(path)
	}

	p.synth.Apply(&m)

	found, failures := findings.Collect(lines, p.generators...)
	for _, f := range found {
		m.AddFinding(f)
	}
	for _, f := range failures {
		p.logger.Warn("finding generator failed", "path", path, "generator", f.Generator, "error", f.Err)
	}
	return m
}

func (p *Pipeline) measure(content []byte, lines []string, v heuristic.Variant) models.Measurements {
	if p.cache != nil {
		// An entry whose counts do not add up is stale or damaged; recompute.
		if cached, ok := p.cache.Get(content, string(v)); ok && cached.Lines.Consistent() {
			return *cached
		}
	}
	meas := Measure(lines, v)
	if p.cache != nil {
		if err := p.cache.Put(content, string(v), &meas); err != nil {
			p.logger.Debug("cache write failed", "error", err)
		}
	}
	return meas
}
