package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/linegauge/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start the MCP (Model Context Protocol) server on stdio",
		Description: `Serves linegauge scans as MCP tools over stdio. Diagnostic logs go to
stderr; stdout carries only the protocol.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "linegauge": {
        "command": "linegauge",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_metrics   Per-file line metrics, maintainability and churn risk
  - find_duplicates   Most repeated three-line blocks`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry server.json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "image",
						Value: mcpserver.DefaultImage,
						Usage: "OCI image the registry entry launches",
					},
				},
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(cfg),
		mcpserver.WithLogger(appLogger(c)),
	)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version, c.String("image"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
