package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/internal/cache"
	"github.com/panbanda/linegauge/internal/output"
	"github.com/panbanda/linegauge/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the measurement cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show entry count, size and age of the cache",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached measurement",
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory whether or not caching is
// enabled for scans, so a disabled cache can still be inspected or cleared.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLHours, true)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

func runCacheStats(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	store, err := openCache(cfg)
	if err != nil {
		return err
	}

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(output.CacheReport(cfg.Cache.Dir, stats))
}

func runCacheClear(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	store, err := openCache(cfg)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	appLogger(c).Info("cache cleared", "dir", cfg.Cache.Dir)
	_, err = fmt.Fprintf(c.App.Writer, "Cleared %s\n", cfg.Cache.Dir)
	return err
}
