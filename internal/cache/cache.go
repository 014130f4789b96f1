// Package cache stores per-file measurements on disk, keyed by a BLAKE3
// digest of the file content so renamed or copied files still hit.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/panbanda/linegauge/pkg/models"
)

// schemaVersion is mixed into every key so a change to the measurement
// format never reads stale entries.
const schemaVersion = "m1"

// Cache provides file-based caching of measurements.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk form of one cached measurement set.
type Entry struct {
	Hash       string    `json:"hash"`
	Variant    string    `json:"variant"`
	Timestamp  time.Time `json:"timestamp"`
	Size       int       `json:"size"`
	Compressed bool      `json:"compressed"`
	Data       []byte    `json:"data"`
}

// New creates a cache rooted at dir. A disabled cache never stores or
// returns anything.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Key derives the cache key for content analyzed under variant.
func Key(content []byte, variant string) string {
	h := blake3.New()
	_, _ = h.Write([]byte(schemaVersion))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(variant))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns cached measurements for content, if present and fresh.
func (c *Cache) Get(content []byte, variant string) (*models.Measurements, bool) {
	if !c.enabled {
		return nil, false
	}

	key := Key(content, variant)
	path := c.keyPath(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Hash != key || entry.Variant != variant {
		return nil, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(path)
		return nil, false
	}

	payload, err := decompress(entry)
	if err != nil {
		return nil, false
	}
	var m models.Measurements
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, false
	}
	return &m, true
}

// Put stores measurements for content.
func (c *Cache) Put(content []byte, variant string, m *models.Measurements) error {
	if !c.enabled {
		return nil
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding measurements: %w", err)
	}

	key := Key(content, variant)
	entry := Entry{
		Hash:      key,
		Variant:   variant,
		Timestamp: time.Now(),
		Size:      len(payload),
	}
	entry.Data, entry.Compressed = compress(payload)

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	// Write then rename so concurrent readers never see a partial entry.
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.keyPath(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// compress returns the LZ4 block for data, or data itself when LZ4 cannot
// make it smaller.
func compress(data []byte) ([]byte, bool) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil || n == 0 || n >= len(data) {
		return data, false
	}
	return buf[:n], true
}

func decompress(e Entry) ([]byte, error) {
	if !e.Compressed {
		return e.Data, nil
	}
	out := make([]byte, e.Size)
	n, err := lz4.UncompressBlock(e.Data, out)
	if err != nil {
		return nil, err
	}
	if n != e.Size {
		return nil, errors.New("cache entry size mismatch")
	}
	return out, nil
}

// Stats summarizes the cache directory.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}
