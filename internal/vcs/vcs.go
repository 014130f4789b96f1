// Package vcs reads file-level change history from git repositories.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// FileChange is the line delta one commit made to one file.
type FileChange struct {
	Path    string // slash-separated, relative to the repository root
	Added   int
	Deleted int
}

// Commit is the part of a commit churn needs. When is the committer time.
type Commit struct {
	Hash        string
	AuthorEmail string
	When        time.Time
	Changes     []FileChange
}

// Repository walks the history of one working tree.
type Repository interface {
	// Root returns the absolute path of the working tree.
	Root() string
	// Walk calls fn for each commit reachable from HEAD, newest first,
	// stopping early when fn returns an error or ctx is done. A non-nil
	// since skips commits older than it.
	Walk(ctx context.Context, since *time.Time, fn func(Commit) error) error
}

// Opener opens the repository enclosing a path.
type Opener interface {
	Open(path string) (Repository, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Repository, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Repository, error) {
	return f(path)
}

// ErrNoRepository is returned when no repository encloses the path.
var ErrNoRepository = errors.New("not inside a git repository")

// GitOpener opens repositories with go-git, searching parent directories
// for .git.
type GitOpener struct{}

// Open opens the repository enclosing path.
func (GitOpener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRepository)
	}
	if err != nil {
		return nil, err
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &gitRepository{repo: repo, root: root}, nil
}

// DefaultOpener returns the go-git opener.
func DefaultOpener() Opener {
	return GitOpener{}
}

type gitRepository struct {
	repo *git.Repository
	root string
}

func (r *gitRepository) Root() string {
	return r.root
}

func (r *gitRepository) Walk(ctx context.Context, since *time.Time, fn func(Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{Since: since})
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit, ok := convert(c)
		if !ok {
			return nil
		}
		return fn(commit)
	})
	if errors.Is(err, storer.ErrStop) {
		return nil
	}
	return err
}

// convert computes c's file stats against its first parent, or the empty
// tree for a root commit. Commits whose stats fail are skipped.
func convert(c *object.Commit) (Commit, bool) {
	stats, err := c.Stats()
	if err != nil {
		return Commit{}, false
	}

	changes := make([]FileChange, 0, len(stats))
	for _, s := range stats {
		changes = append(changes, FileChange{Path: s.Name, Added: s.Addition, Deleted: s.Deletion})
	}
	return Commit{
		Hash:        c.Hash.String(),
		AuthorEmail: c.Author.Email,
		When:        c.Committer.When,
		Changes:     changes,
	}, true
}
