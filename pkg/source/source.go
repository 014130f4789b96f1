// Package source reads candidate files into ordered text lines.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrTooLarge is returned when a file exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct {
	maxSize int64
}

// Option configures a FilesystemSource.
type Option func(*FilesystemSource)

// WithMaxSize rejects files larger than n bytes (0 = no limit).
func WithMaxSize(n int64) Option {
	return func(f *FilesystemSource) {
		f.maxSize = n
	}
}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem(opts ...Option) *FilesystemSource {
	f := &FilesystemSource{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	if f.maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > f.maxSize {
			return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, info.Size(), f.maxSize)
		}
	}
	return os.ReadFile(path)
}

// MemorySource serves content from an in-memory map keyed by path.
type MemorySource map[string]string

// Read implements ContentSource.
func (m MemorySource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return []byte(content), nil
}

// SplitLines splits content into lines. "\n" and "\r\n" both end a line and a
// trailing newline does not produce an extra empty line.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ReadLines reads path from src and splits it into lines.
func ReadLines(src ContentSource, path string) ([]string, error) {
	content, err := src.Read(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(content), nil
}
