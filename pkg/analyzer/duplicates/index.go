package duplicates

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/panbanda/linegauge/pkg/models"
)

// WindowSize is the number of consecutive lines that form one block.
const WindowSize = 3

// Windows returns every block of WindowSize consecutive lines, each joined
// with "\n". Files shorter than WindowSize yield no blocks.
func Windows(lines []string) []string {
	if len(lines) < WindowSize {
		return nil
	}
	out := make([]string, 0, len(lines)-WindowSize+1)
	for i := 0; i+WindowSize <= len(lines); i++ {
		out = append(out, strings.Join(lines[i:i+WindowSize], "\n"))
	}
	return out
}

type entry struct {
	text  string
	count int
}

// Index counts block occurrences across files. Keys are xxhash digests of
// the block text; entries sharing a digest are told apart by their text.
// An Index is not safe for concurrent use.
type Index struct {
	buckets  map[uint64][]*entry
	distinct int
}

// NewIndex creates an empty block index.
func NewIndex() *Index {
	return &Index{buckets: make(map[uint64][]*entry)}
}

// AddBlock records one occurrence of text.
func (ix *Index) AddBlock(text string) {
	key := xxhash.Sum64String(text)
	for _, e := range ix.buckets[key] {
		if e.text == text {
			e.count++
			return
		}
	}
	ix.buckets[key] = append(ix.buckets[key], &entry{text: text, count: 1})
	ix.distinct++
}

// AddLines records every window of lines.
func (ix *Index) AddLines(lines []string) {
	for _, w := range Windows(lines) {
		ix.AddBlock(w)
	}
}

// Distinct returns the number of distinct blocks seen.
func (ix *Index) Distinct() int {
	return ix.distinct
}

// Top returns up to n blocks seen more than once, most frequent first.
// Equal counts are ordered by text. n <= 0 returns every repeated block.
func (ix *Index) Top(n int) []models.DuplicateBlock {
	var blocks []models.DuplicateBlock
	for _, bucket := range ix.buckets {
		for _, e := range bucket {
			if e.count > 1 {
				blocks = append(blocks, models.DuplicateBlock{Count: e.count, Text: e.text})
			}
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Count != blocks[j].Count {
			return blocks[i].Count > blocks[j].Count
		}
		return blocks[i].Text < blocks[j].Text
	})

	if n > 0 && len(blocks) > n {
		blocks = blocks[:n]
	}
	return blocks
}
