package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/internal/output"
	"github.com/panbanda/linegauge/internal/progress"
	"github.com/panbanda/linegauge/internal/service/analysis"
	"github.com/panbanda/linegauge/pkg/analyzer/heuristic"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:        "analyze",
		Aliases:     []string{"a"},
		Usage:       "Compute per-file line metrics and risk scores",
		Description: variantHelp(),
		ArgsUsage:   "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "Analyze files on a worker pool (output order is then unspecified)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker pool size (0 = number of CPUs)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop waiting for workers after this long and report partial results",
			},
			&cli.BoolFlag{
				Name:  "no-churn",
				Usage: "Skip git history (risk scores are omitted)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Scan.WaitTimeout = c.Duration("timeout").String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	paths := getPaths(c)
	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(appLogger(c)))
	bars := showProgress(c, formatter)

	files, err := discover(svc, paths, bars)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		history *progress.Tracker
		tracker *progress.Tracker
		total   int
	)
	if bars && cfg.Churn.Enabled && !c.Bool("no-churn") {
		history = progress.NewSpinner("Reading history")
	}
	opts := analysis.MetricsOptions{
		RepoPath:      paths[0],
		NoChurn:       c.Bool("no-churn"),
		OnChurnCommit: history.Func(),
		OnStart: func(n int) {
			history.FinishSuccess()
			total = n
			if bars && n > 0 {
				tracker = progress.NewTracker("Analyzing", n)
			}
		},
		OnProgress: func() { tracker.Tick() },
	}
	if c.IsSet("parallel") {
		parallel := c.Bool("parallel")
		opts.Parallel = &parallel
	}

	result, err := svc.AnalyzeMetrics(ctx, files, opts)
	if err != nil {
		history.FinishError(err)
		tracker.FinishError(err)
		return err
	}

	if result.TimedOut {
		tracker.FinishTimedOut(len(result.Files)+len(result.Diagnostics), total)
	} else {
		tracker.FinishSuccess()
	}

	if err := formatter.Output(output.ScanReport(result)); err != nil {
		return err
	}
	if result.TimedOut {
		formatter.Warning("Scan incomplete: %s", interruptReason(ctx))
	}
	return nil
}

// variantHelp lists which extensions select which line heuristic.
func variantHelp() string {
	var b strings.Builder
	b.WriteString("Lines are classified by a heuristic chosen from the file extension:\n")
	for _, v := range heuristic.Variants() {
		exts := heuristic.Extensions(v)
		if len(exts) == 0 {
			fmt.Fprintf(&b, "  %-11s every other extension\n", v)
			continue
		}
		fmt.Fprintf(&b, "  %-11s .%s\n", v, strings.Join(exts, ", ."))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// discover walks paths for candidates behind a spinner.
func discover(svc *analysis.Service, paths []string, bars bool) ([]string, error) {
	var spinner *progress.Tracker
	if bars {
		spinner = progress.NewSpinner("Scanning files")
	}
	files, err := svc.Discover(paths)
	if err != nil {
		spinner.FinishError(err)
		return nil, err
	}
	spinner.FinishSuccess()
	return files, nil
}

func interruptReason(ctx context.Context) string {
	if ctx.Err() != nil {
		return fmt.Sprintf("interrupted (%v)", context.Cause(ctx))
	}
	return "wait timeout reached"
}
