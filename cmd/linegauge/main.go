package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/internal/logging"
	"github.com/panbanda/linegauge/internal/output"
	"github.com/panbanda/linegauge/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const (
	metaConfig = "config"
	metaSource = "configSource"
	metaLogger = "logger"
	metaErr    = "configErr"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "linegauge",
		Usage:    "Line-oriented code metrics, maintainability and churn risk",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `linegauge measures source files line by line without parsing them:
size, comment density, cyclomatic and cognitive complexity estimates,
Halstead volume, a maintainability index and, inside a git repository,
a churn-weighted risk score. It also reports the most repeated
three-line blocks across a tree.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"LINEGAUGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, csv, yaml, toon, html (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not draw progress bars",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Diagnostic log level: debug, info, warn, error",
				EnvVars: []string{"LINEGAUGE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: logging.FormatText,
				Usage: "Diagnostic log format: text or json",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			c.App.Metadata[metaLogger] = logging.New(c.App.ErrWriter, level, c.String("log-format"))

			var opts []config.LoadOption
			if path := c.String("config"); path != "" {
				opts = append(opts, config.WithPath(path))
			}
			// A broken config only fails the commands that use it, so
			// "config validate" can still report on it.
			result, err := config.LoadConfig(opts...)
			if err != nil {
				c.App.Metadata[metaErr] = err
				return nil
			}
			c.App.Metadata[metaConfig] = result.Config
			c.App.Metadata[metaSource] = result.Source
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			duplicatesCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	app := newApp()
	app.ErrWriter = os.Stderr
	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func appConfig(c *cli.Context) (*config.Config, error) {
	if err, ok := c.App.Metadata[metaErr].(error); ok {
		return nil, err
	}
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func appLogger(c *cli.Context) *slog.Logger {
	if l, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return l
	}
	return logging.Discard()
}

// newFormatter resolves format and color from flags over config.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	name := c.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := resolveFormat(name)
	if err != nil {
		return nil, err
	}

	colored := cfg.Output.Color && !c.Bool("no-color") && !color.NoColor
	return output.NewFormatter(format, c.App.Writer, c.String("output"), colored)
}

// resolveFormat rejects names ParseFormat would silently map to text.
func resolveFormat(name string) (output.Format, error) {
	format := output.ParseFormat(name)
	if format == output.FormatText && !strings.EqualFold(strings.TrimSpace(name), "text") {
		return "", fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(config.Formats, ", "))
	}
	return format, nil
}

// showProgress reports whether bars should be drawn: only for text output
// on an interactive stderr.
func showProgress(c *cli.Context, f *output.Formatter) bool {
	if c.Bool("no-progress") || f.Format() != output.FormatText {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
