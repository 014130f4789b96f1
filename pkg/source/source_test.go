package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSource(t *testing.T) {
	src := NewFilesystem()

	// Read a file that exists
	content, err := src.Read("../../go.mod")
	require.NoError(t, err)
	assert.Contains(t, string(content), "module github.com/panbanda/linegauge")

	// Non-existent file should error
	_, err = src.Read("nonexistent.txt")
	assert.Error(t, err)
}

func TestFilesystemSource_MaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	_, err := NewFilesystem(WithMaxSize(5)).Read(path)
	assert.True(t, errors.Is(err, ErrTooLarge))

	content, err := NewFilesystem(WithMaxSize(10)).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))
}

func TestMemorySource(t *testing.T) {
	src := MemorySource{"a.go": "x\ny"}

	lines, err := ReadLines(src, "a.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, lines)

	_, err = src.Read("missing.go")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single line without newline", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb", []string{"a", "", "", "b"}},
		{"only newline", "\n", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines([]byte(tt.content)))
		})
	}
}
