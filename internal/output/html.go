package output

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

//go:embed report.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"badge": badgeClass,
}).ParseFS(templateFS, "report.html"))

// htmlPage is the data handed to report.html.
type htmlPage struct {
	Title  string
	Blocks []htmlBlock
}

// htmlBlock is one titled part of the page: a table, preformatted
// content, or both absent for a bare heading.
type htmlBlock struct {
	Title   string
	Nested  bool
	Content string
	Headers []string
	Rows    [][]htmlCell
	Footer  []string
}

type htmlCell struct {
	Text     string
	Severity string
}

// badgeClass maps a severity band to a CSS class. Unknown bands get none.
func badgeClass(severity string) string {
	switch severity {
	case "critical", "high":
		return "badge badge-critical"
	case "moderate", "medium":
		return "badge badge-moderate"
	case "good", "low":
		return "badge badge-good"
	default:
		return ""
	}
}

func renderHTML(w io.Writer, r Renderable) error {
	page := htmlPage{Title: "linegauge"}
	if rep, ok := r.(*Report); ok {
		if rep.Title != "" {
			page.Title = rep.Title
		}
		for _, s := range rep.Sections {
			blocks, err := htmlBlocks(s, false)
			if err != nil {
				return err
			}
			page.Blocks = append(page.Blocks, blocks...)
		}
	} else {
		blocks, err := htmlBlocks(r, false)
		if err != nil {
			return err
		}
		page.Blocks = blocks
	}
	if err := pageTemplate.ExecuteTemplate(w, "report.html", page); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func htmlBlocks(r Renderable, nested bool) ([]htmlBlock, error) {
	switch v := r.(type) {
	case *Table:
		return []htmlBlock{v.htmlBlock(nested)}, nil
	case *Section:
		return v.htmlBlocks(nested), nil
	default:
		raw, err := json.MarshalIndent(r.RenderData(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		return []htmlBlock{{Nested: nested, Content: string(raw)}}, nil
	}
}

func (t *Table) htmlBlock(nested bool) htmlBlock {
	b := htmlBlock{
		Title:   t.Title,
		Nested:  nested,
		Headers: t.Headers,
		Footer:  t.Footer,
		Rows:    make([][]htmlCell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cells := make([]htmlCell, len(row))
		for j, cell := range row {
			cells[j] = htmlCell{Text: cell}
			if t.Severity != nil {
				cells[j].Severity = t.Severity(j, cell)
			}
		}
		b.Rows[i] = cells
	}
	return b
}

// htmlBlocks flattens the section tree. Sections carrying only Data, as
// raw values do, show it as indented JSON.
func (s *Section) htmlBlocks(nested bool) []htmlBlock {
	content := s.Content
	if content == "" && s.Title == "" && len(s.Sections) == 0 && s.Data != nil {
		if raw, err := json.MarshalIndent(s.Data, "", "  "); err == nil {
			content = string(raw)
		}
	}
	blocks := []htmlBlock{{Title: s.Title, Nested: nested, Content: content}}
	for i := range s.Sections {
		blocks = append(blocks, s.Sections[i].htmlBlocks(true)...)
	}
	return blocks
}
