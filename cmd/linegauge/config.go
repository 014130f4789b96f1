package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate configuration",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check a config file against the schema",
				ArgsUsage: "[file]",
				Action:    runConfigValidate,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as TOML",
				Action: runConfigShow,
			},
		},
	}
}

func runConfigValidate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("config")
	}
	if path == "" {
		path, _ = c.App.Metadata[metaSource].(string)
	}
	if path == "" {
		return errors.New("no config file found; pass a path or create one with 'linegauge init'")
	}

	cfg, err := config.Load(path)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				color.Yellow("  %s: %s", v.Field, v.Message)
			}
			return fmt.Errorf("%s: %d invalid settings", path, len(verrs))
		}
		return err
	}

	for _, w := range cfg.Warnings() {
		color.Yellow("  warning: %s", w)
	}
	color.Green("%s is valid", path)
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	source, _ := c.App.Metadata[metaSource].(string)
	content, err := renderConfig(cfg, source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.App.Writer, content)
	return err
}
