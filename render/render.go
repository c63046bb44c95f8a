package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{max-width:46rem;margin:2rem auto;padding:0 1rem;font-family:system-ui,sans-serif;line-height:1.6}hr{margin:2.5rem 0}</style>
</head>
<body>
%s</body>
</html>
`

// Document 生成可直接打开的完整 HTML 页面。
func Document(title, md string) (string, error) {
	body, err := HTML(md)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), body), nil
}

// Terminal renders markdown for a terminal. style is a glamour style name
// ("dark", "light", "notty"); "auto" or empty detects it from the terminal.
func Terminal(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	return r.Render(md)
}

// Headings returns the text of every heading at level (0 means any level), in document order.
func Headings(md string, level int) []string {
	src := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(src))
	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if level == 0 || h.Level == level {
			out = append(out, strings.TrimSpace(inlineText(h, src)))
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}
