// Package duplicates finds repeated three-line blocks across a set of files.
package duplicates

import (
	"fmt"
	"sort"

	"github.com/panbanda/linegauge/internal/fileproc"
	"github.com/panbanda/linegauge/pkg/models"
	"github.com/panbanda/linegauge/pkg/source"
)

// DefaultTop is the number of blocks reported when no limit is configured.
const DefaultTop = 5

// Detector reads candidate files and reports the most repeated blocks.
type Detector struct {
	top        int
	maxWorkers int
	src        source.ContentSource
	onProgress fileproc.ProgressFunc
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithTop sets how many blocks to report.
func WithTop(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.top = n
		}
	}
}

// WithMaxWorkers sets the number of concurrent file readers (0 = host parallelism).
func WithMaxWorkers(n int) Option {
	return func(d *Detector) {
		d.maxWorkers = n
	}
}

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(d *Detector) {
		d.src = src
	}
}

// WithProgress sets a callback invoked after each file is read.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(d *Detector) {
		d.onProgress = fn
	}
}

// New creates a Detector reading from the filesystem.
func New(opts ...Option) *Detector {
	d := &Detector{
		top: DefaultTop,
		src: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze reads files concurrently and merges their blocks into a single
// index once every file has been read. Unreadable files become diagnostics.
func (d *Detector) Analyze(files []string) *models.DuplicateReport {
	report := &models.DuplicateReport{
		Blocks:            []models.DuplicateBlock{},
		TotalFilesScanned: len(files),
	}

	contents, errs := fileproc.ForEachFileCollectErrors(files, d.maxWorkers, func(path string) ([]string, error) {
		lines, err := source.ReadLines(d.src, path)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		return lines, nil
	}, d.onProgress)

	ix := NewIndex()
	for _, lines := range contents {
		ix.AddLines(lines)
	}

	if errs != nil {
		for _, e := range errs.Errors {
			report.Diagnostics = append(report.Diagnostics, models.Diagnostic{
				Path:    e.Path,
				Stage:   "duplicates",
				Message: e.Err.Error(),
			})
		}
		sort.Slice(report.Diagnostics, func(i, j int) bool {
			return report.Diagnostics[i].Path < report.Diagnostics[j].Path
		})
	}

	report.Blocks = append(report.Blocks, ix.Top(d.top)...)
	report.DistinctBlocks = ix.Distinct()
	return report
}
