package metrics

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Filter decides which candidate files a scan analyzes. A Filter is
// immutable after construction and safe for concurrent use.
type Filter struct {
	prefixes   []string
	globs      []string
	deepGlobs  []gitignore.Pattern
	extensions []string
}

// NewFilter builds a filter from exclude prefixes, exclude globs and an
// extension allow-list. Prefixes are canonicalized and lowercased;
// extensions are trimmed, lowercased and given a leading dot. Malformed
// globs are dropped. Globs containing "**" also match across directories.
func NewFilter(excludePrefixes, excludeGlobs, extensions []string) *Filter {
	f := &Filter{}
	for _, p := range excludePrefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		f.prefixes = append(f.prefixes, strings.ToLower(canonicalize(strings.TrimSpace(p))))
	}
	for _, g := range excludeGlobs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, err := filepath.Match(g, ""); err != nil {
			continue
		}
		f.globs = append(f.globs, g)
		if strings.Contains(g, "**") {
			f.deepGlobs = append(f.deepGlobs, gitignore.ParsePattern(g, nil))
		}
	}
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		f.extensions = append(f.extensions, e)
	}
	return f
}

// Include reports whether file should be analyzed. A path that cannot be
// fully resolved (a dangling symlink, a file removed since discovery) is
// still matched against every filter in its best-effort absolute form.
func (f *Filter) Include(file string) bool {
	canon := canonicalize(file)

	lower := strings.ToLower(canon)
	for _, p := range f.prefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}

	if f.matchesGlob(canon) {
		return false
	}

	if len(f.extensions) > 0 {
		name := strings.ToLower(filepath.Base(canon))
		for _, e := range f.extensions {
			if strings.HasSuffix(name, e) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the included files in their original order.
func (f *Filter) Apply(files []string) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		if f.Include(file) {
			out = append(out, file)
		}
	}
	return out
}

func (f *Filter) matchesGlob(canon string) bool {
	slash := filepath.ToSlash(canon)
	base := filepath.Base(canon)
	for _, g := range f.globs {
		if ok, _ := filepath.Match(g, canon); ok {
			return true
		}
		if ok, _ := path.Match(g, slash); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	if len(f.deepGlobs) > 0 {
		parts := strings.Split(strings.TrimPrefix(slash, "/"), "/")
		for _, p := range f.deepGlobs {
			if p.Match(parts, false) == gitignore.Exclude {
				return true
			}
		}
	}
	return false
}

// tryCanonicalize returns the absolute, symlink-resolved form of p.
func tryCanonicalize(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p, false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return p, false
	}
	return resolved, true
}

// canonicalize is tryCanonicalize falling back to the absolute path, with the
// parent directory resolved when it exists, so paths that need not exist
// compare equal to resolved ones.
func canonicalize(p string) string {
	if c, ok := tryCanonicalize(p); ok {
		return c
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs))
	}
	return abs
}
