// Package churn builds per-file version-control history summaries from git.
package churn

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/panbanda/linegauge/internal/vcs"
	"github.com/panbanda/linegauge/pkg/models"
)

// Index holds the churn summary of every file touched in a repository's
// history, keyed by slash-separated path relative to the repository root.
// An Index is read-only after Build and safe for concurrent lookups.
type Index struct {
	root  string
	files map[string]*models.ChurnSummary
}

type builder struct {
	opener vcs.Opener
	since  *time.Time
	onTick func()
}

// Option is a functional option for configuring Build.
type Option func(*builder)

// WithOpener sets the VCS opener (useful for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(b *builder) {
		b.opener = opener
	}
}

// WithSince limits history to commits at or after t.
func WithSince(t time.Time) Option {
	return func(b *builder) {
		b.since = &t
	}
}

// WithProgress sets a callback invoked once per visited commit.
func WithProgress(fn func()) Option {
	return func(b *builder) {
		b.onTick = fn
	}
}

type accumulator struct {
	summary models.ChurnSummary
	authors map[string]struct{}
}

// Build walks the history of the repository enclosing path and summarizes
// each file: commits touching it, lines added and deleted, distinct author
// emails, and first and last commit timestamps.
func Build(ctx context.Context, path string, opts ...Option) (*Index, error) {
	b := &builder{opener: vcs.DefaultOpener()}
	for _, opt := range opts {
		opt(b)
	}

	repo, err := b.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	acc := make(map[string]*accumulator)
	err = repo.Walk(ctx, b.since, func(commit vcs.Commit) error {
		if b.onTick != nil {
			b.onTick()
		}
		fold(commit, acc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ix := &Index{
		root:  canonical(repo.Root()),
		files: make(map[string]*models.ChurnSummary, len(acc)),
	}
	for name, a := range acc {
		s := a.summary
		s.AuthorCount = len(a.authors)
		s.CalculateChurnRate()
		ix.files[name] = &s
	}
	return ix, nil
}

// fold adds one commit's file changes to acc.
func fold(commit vcs.Commit, acc map[string]*accumulator) {
	when := commit.When
	for _, ch := range commit.Changes {
		a, ok := acc[ch.Path]
		if !ok {
			a = &accumulator{
				summary: models.ChurnSummary{FirstCommit: when, LastCommit: when},
				authors: make(map[string]struct{}),
			}
			acc[ch.Path] = a
		}

		a.summary.CommitCount++
		a.summary.LinesAdded += ch.Added
		a.summary.LinesDeleted += ch.Deleted
		a.authors[commit.AuthorEmail] = struct{}{}

		if when.Before(a.summary.FirstCommit) {
			a.summary.FirstCommit = when
		}
		if when.After(a.summary.LastCommit) {
			a.summary.LastCommit = when
		}
	}
}

// Root returns the repository root the index is relative to.
func (ix *Index) Root() string {
	return ix.root
}

// Len returns the number of files with history.
func (ix *Index) Len() int {
	return len(ix.files)
}

// Summary returns a copy of the churn summary for path, which may be
// absolute or relative to the working directory. The second result is false
// when the file lies outside the repository or has no history.
func (ix *Index) Summary(path string) (*models.ChurnSummary, bool) {
	rel, ok := ix.relative(path)
	if !ok {
		return nil, false
	}
	s, ok := ix.files[rel]
	if !ok {
		return nil, false
	}
	out := *s
	return &out, true
}

func (ix *Index) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ix.root, canonical(path))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
