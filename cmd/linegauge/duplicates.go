package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/internal/output"
	"github.com/panbanda/linegauge/internal/progress"
	"github.com/panbanda/linegauge/internal/service/analysis"
)

func duplicatesCmd() *cli.Command {
	return &cli.Command{
		Name:      "duplicates",
		Aliases:   []string{"dup"},
		Usage:     "Report the most repeated three-line blocks",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of blocks to report (default from config)",
			},
		},
		Action: runDuplicatesCmd,
	}
}

func runDuplicatesCmd(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(appLogger(c)))
	bars := showProgress(c, formatter)

	files, err := discover(svc, getPaths(c), bars)
	if err != nil {
		return err
	}

	var tracker *progress.Tracker
	report, err := svc.FindDuplicates(files, analysis.DuplicateOptions{
		Top: c.Int("top"),
		OnStart: func(n int) {
			if bars && n > 0 {
				tracker = progress.NewTracker("Hashing blocks", n)
			}
		},
		OnProgress: func() { tracker.Tick() },
	})
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	return formatter.Output(output.DuplicateReport(report))
}
