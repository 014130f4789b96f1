package mcpserver

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/linegauge/internal/output"
	"github.com/panbanda/linegauge/internal/service/analysis"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to the current directory."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, csv or markdown."`
}

// MetricsInput adds scan options.
type MetricsInput struct {
	AnalyzeInput
	Parallel bool `json:"parallel,omitempty" jsonschema:"Analyze files on a worker pool. Output order is then unspecified."`
	NoChurn  bool `json:"no_churn,omitempty" jsonschema:"Skip git history. Risk scores are then omitted."`
}

// DuplicatesInput adds duplicate report options.
type DuplicatesInput struct {
	AnalyzeInput
	Top int `json:"top,omitempty" jsonschema:"Number of blocks to report. Default 5."`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json", "yaml", "yml", "csv", "markdown", "md":
		return output.ParseFormat(input.Format)
	default:
		return output.FormatTOON
	}
}

func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	var buf bytes.Buffer
	f, err := output.NewFormatter(format, &buf, "", false)
	if err != nil {
		return nil, nil, err
	}
	if err := f.Output(r); err != nil {
		return nil, nil, fmt.Errorf("rendering result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) service() *analysis.Service {
	return analysis.New(analysis.WithConfig(s.config), analysis.WithLogger(s.logger))
}

func (s *Server) handleAnalyzeMetrics(ctx context.Context, req *mcp.CallToolRequest, input MetricsInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.AnalyzeInput)
	svc := s.service()

	files, err := svc.Discover(paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no files found")
	}

	parallel := input.Parallel || s.config.Scan.Parallel
	result, err := svc.AnalyzeMetrics(ctx, files, analysis.MetricsOptions{
		RepoPath: paths[0],
		Parallel: &parallel,
		NoChurn:  input.NoChurn,
	})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.ScanReport(result), getFormat(input.AnalyzeInput))
}

func (s *Server) handleFindDuplicates(ctx context.Context, req *mcp.CallToolRequest, input DuplicatesInput) (*mcp.CallToolResult, any, error) {
	svc := s.service()

	files, err := svc.Discover(getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no files found")
	}

	report, err := svc.FindDuplicates(files, analysis.DuplicateOptions{Top: input.Top})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.DuplicateReport(report), getFormat(input.AnalyzeInput))
}
