// Package scanner discovers candidate files under one or more roots.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Scanner finds regular files in a directory tree. Files matched by
// .gitignore rules can be skipped; the .git directory always is.
type Scanner struct {
	respectGitignore bool
	matchers         []gitignore.Matcher
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithGitignore enables or disables .gitignore handling (default enabled).
func WithGitignore(enabled bool) Option {
	return func(s *Scanner) {
		s.respectGitignore = enabled
	}
}

// NewScanner creates a new file scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{respectGitignore: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads every .gitignore in the enclosing repository, or in
// root itself when it is not inside a repository. It returns the directory
// the patterns are relative to.
func (s *Scanner) loadGitignore(root string) string {
	s.matchers = nil
	if !s.respectGitignore {
		return root
	}

	base := findGitRoot(root)
	if base == "" {
		base = root
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(base), nil)
	if err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
	return base
}

// isExcluded checks if a path relative to the pattern base is ignored.
func (s *Scanner) isExcluded(rel string, isDir bool) bool {
	if len(s.matchers) == 0 || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}

	parts := strings.Split(rel, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for regular files, in lexical order.
// Symlinks that escape the root or cannot be resolved are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 1024)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	base := s.loadGitignore(absRoot)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			files = append(files, path)
			return nil
		}

		rel, _ := filepath.Rel(base, path)

		if d.IsDir() {
			if path != absRoot && d.Name() == ".git" {
				return filepath.SkipDir
			}
			if s.isExcluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || s.isExcluded(rel, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// Scan expands paths into candidate files. Directories are walked with
// ScanDir; regular files are kept as given. Order follows the arguments.
func (s *Scanner) Scan(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := s.ScanDir(p)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	if !strings.HasPrefix(absPath, root+string(filepath.Separator)) && absPath != root {
		return false
	}

	return true
}
