package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default linegauge configuration file",
		Description: `Creates linegauge.toml in the current directory with the default
settings. Use --output to choose another location.

Examples:
  linegauge init
  linegauge init -o .linegauge/linegauge.toml
  linegauge init --force`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "linegauge.toml",
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := c.String("output")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	return nil
}

func generateDefaultConfig() (string, error) {
	return renderConfig(config.DefaultConfig(), "")
}

// renderConfig marshals cfg as TOML under a comment header. source, when
// set, is noted in the header.
func renderConfig(cfg *config.Config, source string) (string, error) {
	content, err := toml.Marshal(*cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# linegauge configuration\n")
	if source != "" {
		fmt.Fprintf(&buf, "# Loaded from %s\n", source)
	}
	buf.WriteString("\n")
	buf.Write(content)
	return buf.String(), nil
}
