package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/panbanda/linegauge/internal/fileproc"
	"github.com/panbanda/linegauge/pkg/models"
	"github.com/panbanda/linegauge/pkg/stats"
)

// DefaultWaitTimeout bounds how long a parallel scan waits for its workers.
const DefaultWaitTimeout = time.Hour

// FileAnalyzer computes metrics for a single file. *Pipeline implements it.
type FileAnalyzer interface {
	Analyze(path string) (models.FileMetrics, error)
}

// Orchestrator runs a FileAnalyzer over a batch of candidate files.
type Orchestrator struct {
	analyzer    FileAnalyzer
	filter      *Filter
	parallel    bool
	workers     int
	waitTimeout time.Duration
	onStart     func(total int)
	onProgress  fileproc.ProgressFunc
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithParallel runs files on a bounded worker pool instead of one by one.
func WithParallel(parallel bool) Option {
	return func(o *Orchestrator) {
		o.parallel = parallel
	}
}

// WithWorkers sets the pool size for parallel runs (0 = host parallelism).
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithWaitTimeout sets how long a parallel run waits before returning
// whatever it has collected.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}

// WithFilter sets the candidate filter. Without one every candidate is analyzed.
func WithFilter(f *Filter) Option {
	return func(o *Orchestrator) {
		o.filter = f
	}
}

// WithProgress sets a callback invoked after each file completes.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.onProgress = fn
	}
}

// WithStart sets a callback invoked once with the number of files that
// survived filtering, before any is analyzed.
func WithStart(fn func(total int)) Option {
	return func(o *Orchestrator) {
		o.onStart = fn
	}
}

// WithOrchestratorLogger sets the logger used for per-file diagnostics.
func WithOrchestratorLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// NewOrchestrator creates a sequential orchestrator around analyzer.
func NewOrchestrator(analyzer FileAnalyzer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		analyzer:    analyzer,
		waitTimeout: DefaultWaitTimeout,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run filters candidates and analyzes the survivors. Sequential runs keep
// candidate order; parallel runs return files in completion order. A file
// that cannot be analyzed becomes a diagnostic and never stops the batch.
//
// When ctx is done, or a parallel run exceeds its wait timeout, Run returns
// what it has collected with TimedOut set. Tasks already dispatched are left
// to finish in the background.
func (o *Orchestrator) Run(ctx context.Context, candidates []string) *models.ScanResult {
	files := candidates
	if o.filter != nil {
		files = o.filter.Apply(candidates)
	}

	result := &models.ScanResult{
		Files:       []models.FileMetrics{},
		Diagnostics: []models.Diagnostic{},
	}

	if o.onStart != nil {
		o.onStart(len(files))
	}
	if len(files) == 0 {
		result.NothingToAnalyze = true
		result.GeneratedAt = time.Now().UTC()
		return result
	}

	c := &collector{result: result, logger: o.logger, onProgress: o.onProgress}
	if o.parallel {
		o.runParallel(ctx, files, c)
	} else {
		o.runSequential(ctx, files, c)
	}

	result.Summary = stats.Summarize(result.Files)
	result.GeneratedAt = time.Now().UTC()
	return result
}

func (o *Orchestrator) runSequential(ctx context.Context, files []string, c *collector) {
	for _, path := range files {
		if ctx.Err() != nil {
			c.result.TimedOut = true
			return
		}
		m, err := o.analyzer.Analyze(path)
		c.add(path, m, err)
	}
}

func (o *Orchestrator) runParallel(ctx context.Context, files []string, c *collector) {
	results := fileproc.Stream(files, o.workers, o.analyzer.Analyze)

	timer := time.NewTimer(o.waitTimeout)
	defer timer.Stop()

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return
			}
			c.add(res.Path, res.Value, res.Err)
		case <-timer.C:
			c.drain(results)
			o.logger.Warn("scan wait timeout elapsed", "timeout", o.waitTimeout, "collected", len(c.result.Files))
			c.result.TimedOut = true
			return
		case <-ctx.Done():
			c.drain(results)
			c.result.TimedOut = true
			return
		}
	}
}

// collector owns the result; only the Run goroutine touches it.
type collector struct {
	result     *models.ScanResult
	logger     *slog.Logger
	onProgress fileproc.ProgressFunc
}

// drain collects results that are already buffered without waiting for
// tasks still running.
func (c *collector) drain(results <-chan fileproc.Result[models.FileMetrics]) {
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return
			}
			c.add(res.Path, res.Value, res.Err)
		default:
			return
		}
	}
}

func (c *collector) add(path string, m models.FileMetrics, err error) {
	if c.onProgress != nil {
		c.onProgress()
	}
	if err == nil {
		c.result.Files = append(c.result.Files, m)
		return
	}

	stage := StageAnalyze
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	c.logger.Warn("skipping file", "path", path, "stage", stage, "error", err)
	c.result.Diagnostics = append(c.result.Diagnostics, models.Diagnostic{
		Path:    path,
		Stage:   stage,
		Message: err.Error(),
	})
}
