// Package analysis wires configuration and collaborators into scans for
// the CLI and the MCP server.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/panbanda/linegauge/internal/cache"
	"github.com/panbanda/linegauge/internal/scanner"
	"github.com/panbanda/linegauge/internal/vcs"
	"github.com/panbanda/linegauge/pkg/analyzer/churn"
	"github.com/panbanda/linegauge/pkg/analyzer/duplicates"
	"github.com/panbanda/linegauge/pkg/analyzer/findings"
	"github.com/panbanda/linegauge/pkg/analyzer/metrics"
	"github.com/panbanda/linegauge/pkg/analyzer/score"
	"github.com/panbanda/linegauge/pkg/config"
	"github.com/panbanda/linegauge/pkg/models"
	"github.com/panbanda/linegauge/pkg/source"
)

// Service runs scans according to a configuration.
type Service struct {
	config *config.Config
	opener vcs.Opener
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration in use.
func (s *Service) Config() *config.Config {
	return s.config
}

// Discover walks paths for candidate files. Files are returned as given;
// directories are walked honoring .gitignore when configured.
func (s *Service) Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	sc := scanner.NewScanner(scanner.WithGitignore(s.config.Scan.RespectGitignore))
	files, err := sc.Scan(paths)
	if err != nil {
		return nil, &DiscoverError{Paths: paths, Err: err}
	}
	return files, nil
}

// MetricsOptions configures a metrics scan.
type MetricsOptions struct {
	// RepoPath locates the repository used for churn; defaults to ".".
	RepoPath string
	// Parallel overrides the configured execution mode when set.
	Parallel *bool
	// NoChurn skips history retrieval regardless of configuration.
	NoChurn bool
	// OnChurnCommit is called once per commit read while building churn.
	OnChurnCommit func()
	OnStart       func(total int)
	OnProgress    func()
}

// AnalyzeMetrics computes per-file metrics for candidates. Churn and cache
// problems degrade the scan with a warning; only invalid configuration is
// returned as an error.
func (s *Service) AnalyzeMetrics(ctx context.Context, candidates []string, opts MetricsOptions) (*models.ScanResult, error) {
	cfg := s.config

	wait, err := cfg.Scan.WaitTimeoutDuration()
	if err != nil {
		return nil, err
	}
	src, err := s.source()
	if err != nil {
		return nil, err
	}

	pipeOpts := []metrics.PipelineOption{
		metrics.WithSource(src),
		metrics.WithGenerators(s.generators()...),
		metrics.WithSynthesizer(s.synthesizer()),
		metrics.WithLogger(s.logger),
	}

	if cfg.Churn.Enabled && !opts.NoChurn {
		if ix := s.churnIndex(ctx, opts.RepoPath, opts.OnChurnCommit); ix != nil {
			pipeOpts = append(pipeOpts, metrics.WithChurn(ix))
		}
	}

	if ext := cfg.External.Source(); !ext.Empty() {
		pipeOpts = append(pipeOpts, metrics.WithExternal(ext))
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLHours, true)
		if err != nil {
			s.logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
		} else {
			pipeOpts = append(pipeOpts, metrics.WithCache(c))
		}
	}

	parallel := cfg.Scan.Parallel
	if opts.Parallel != nil {
		parallel = *opts.Parallel
	}

	orch := metrics.NewOrchestrator(metrics.NewPipeline(pipeOpts...),
		metrics.WithParallel(parallel),
		metrics.WithWorkers(cfg.Scan.Workers),
		metrics.WithWaitTimeout(wait),
		metrics.WithFilter(s.filter()),
		metrics.WithStart(opts.OnStart),
		metrics.WithProgress(opts.OnProgress),
		metrics.WithOrchestratorLogger(s.logger),
	)

	result := orch.Run(ctx, candidates)
	result.RunID = uuid.New().String()
	if result.TimedOut {
		s.logger.Warn("scan incomplete", "analyzed", len(result.Files), "skipped", len(result.Diagnostics))
	}
	return result, nil
}

// DuplicateOptions configures a duplicate-block scan.
type DuplicateOptions struct {
	// Top overrides the configured number of blocks when positive.
	Top        int
	OnStart    func(total int)
	OnProgress func()
}

// FindDuplicates reports the most repeated blocks across candidates, using
// the same filter as a metrics scan.
func (s *Service) FindDuplicates(candidates []string, opts DuplicateOptions) (*models.DuplicateReport, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}

	top := s.config.Duplicates.Top
	if opts.Top > 0 {
		top = opts.Top
	}

	files := s.filter().Apply(candidates)
	if opts.OnStart != nil {
		opts.OnStart(len(files))
	}

	d := duplicates.New(
		duplicates.WithTop(top),
		duplicates.WithMaxWorkers(s.config.Scan.Workers),
		duplicates.WithSource(src),
		duplicates.WithProgress(opts.OnProgress),
	)
	report := d.Analyze(files)
	for _, diag := range report.Diagnostics {
		s.logger.Warn("skipping file", "path", diag.Path, "stage", diag.Stage, "error", diag.Message)
	}
	return report, nil
}

func (s *Service) filter() *metrics.Filter {
	for _, w := range s.config.Warnings() {
		s.logger.Warn("ignoring setting", "reason", w)
	}
	sc := s.config.Scan
	return metrics.NewFilter(sc.Exclude, sc.ExcludeGlobs, sc.Extensions)
}

func (s *Service) source() (source.ContentSource, error) {
	maxSize, err := s.config.Scan.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}
	return source.NewFilesystem(source.WithMaxSize(maxSize)), nil
}

func (s *Service) synthesizer() *score.Synthesizer {
	r := s.config.Risk
	return score.New(score.WithWeights(score.Weights{
		Complexity:  r.Complexity,
		Churn:       r.Churn,
		Duplication: r.Duplication,
		Coverage:    r.Coverage,
	}))
}

func (s *Service) generators() []findings.Generator {
	var gens []findings.Generator
	if s.config.Findings.Secrets {
		gens = append(gens, findings.NewSecrets())
	}
	if s.config.Findings.Violations {
		gens = append(gens, findings.NewViolations(findings.WithMaxLineLength(s.config.Findings.MaxLineLength)))
	}
	return gens
}

func (s *Service) churnIndex(ctx context.Context, repoPath string, onCommit func()) *churn.Index {
	if repoPath == "" {
		repoPath = "."
	}
	opts := []churn.Option{churn.WithOpener(s.opener)}
	if onCommit != nil {
		opts = append(opts, churn.WithProgress(onCommit))
	}
	if days := s.config.Churn.Days; days > 0 {
		opts = append(opts, churn.WithSince(s.now().AddDate(0, 0, -days)))
	}

	ix, err := churn.Build(ctx, repoPath, opts...)
	if errors.Is(err, vcs.ErrNoRepository) {
		s.logger.Info("no git repository, risk scores omitted", "path", repoPath)
		return nil
	}
	if err != nil {
		s.logger.Warn("churn unavailable, risk scores omitted", "path", repoPath, "error", err)
		return nil
	}
	s.logger.Debug("churn index built", "root", ix.Root(), "files", ix.Len())
	return ix
}

// DiscoverError reports a failure to walk the requested paths.
type DiscoverError struct {
	Paths []string
	Err   error
}

func (e *DiscoverError) Error() string {
	return fmt.Sprintf("discovering files in %v: %v", e.Paths, e.Err)
}

func (e *DiscoverError) Unwrap() error {
	return e.Err
}
