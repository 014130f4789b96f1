package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/panbanda/linegauge/internal/cache"
)

type cacheData struct {
	Dir string `json:"dir"`
	*cache.Stats
}

// CacheReport describes the measurement cache rooted at dir.
func CacheReport(dir string, s *cache.Stats) *Section {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory:  %s\n", dir)
	fmt.Fprintf(&b, "Entries:    %s\n", humanize.Comma(int64(s.Entries)))
	fmt.Fprintf(&b, "Size:       %s", humanize.Bytes(uint64(s.TotalSize)))
	if s.Entries > 0 {
		now := time.Now()
		fmt.Fprintf(&b, "\nOldest:     %s", humanize.Time(now.Add(-s.OldestAge)))
		fmt.Fprintf(&b, "\nNewest:     %s", humanize.Time(now.Add(-s.NewestAge)))
	}
	return &Section{
		Title:   "Measurement Cache",
		Content: b.String(),
		Data:    cacheData{Dir: dir, Stats: s},
	}
}
