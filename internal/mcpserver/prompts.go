package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptDoc is a prompt file: YAML frontmatter naming the description and
// arguments, then a body where {{name}} is replaced by argument values.
type promptDoc struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
	Body        string           `yaml:"-"`
}

type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

func (s *Server) registerPrompts() {
	names, err := fs.Glob(promptFiles, "prompts/*.md")
	if err != nil {
		s.logger.Warn("listing prompts", "error", err)
		return
	}

	for _, file := range names {
		content, err := promptFiles.ReadFile(file)
		if err != nil {
			s.logger.Warn("skipping prompt", "file", file, "error", err)
			continue
		}

		doc := parsePrompt(content)
		prompt := &mcp.Prompt{
			Name:        strings.TrimSuffix(strings.TrimPrefix(file, "prompts/"), ".md"),
			Description: doc.Description,
		}
		for _, a := range doc.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		s.server.AddPrompt(prompt, doc.handler())
	}
}

// parsePrompt splits frontmatter from the body. Content without valid
// frontmatter is all body.
func parsePrompt(content []byte) promptDoc {
	raw := promptDoc{Body: string(content)}

	rest, ok := bytes.CutPrefix(content, []byte("---\n"))
	if !ok {
		return raw
	}
	head, body, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		return raw
	}

	var doc promptDoc
	if err := yaml.Unmarshal(head, &doc); err != nil {
		return raw
	}
	doc.Body = strings.TrimPrefix(string(body), "\n")
	return doc
}

// render substitutes args into the body, falling back to each argument's
// default. A required argument with no value is an error.
func (d promptDoc) render(args map[string]string) (string, error) {
	pairs := make([]string, 0, 2*len(d.Arguments))
	for _, a := range d.Arguments {
		v, ok := args[a.Name]
		if !ok || v == "" {
			if a.Required && a.Default == "" {
				return "", fmt.Errorf("missing required argument %q", a.Name)
			}
			v = a.Default
		}
		pairs = append(pairs, "{{"+a.Name+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(d.Body), nil
}

func (d promptDoc) handler() mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		text, err := d.render(args)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: d.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: text}},
			},
		}, nil
	}
}
