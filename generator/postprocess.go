package generator

import (
	"strings"

	"ace_content_engine/render"
)

// Summary 是成稿的概要信息，供列表/预览展示。
type Summary struct {
	Title    string   `json:"title"`
	Digest   string   `json:"digest"`
	Sections []string `json:"sections"`
}

// Summarize extracts the title, a short digest and the section headings of an article.
// Headings come from the markdown AST, so lines inside code blocks are not counted.
func Summarize(article string) Summary {
	md := strings.TrimSpace(article)
	digest := extractDigest(md)
	if digest == "" {
		digest = defaultDigest(md, 120)
	}
	return Summary{
		Title:    extractTitle(md),
		Digest:   digest,
		Sections: render.Headings(md, 2),
	}
}

func extractTitle(md string) string {
	if titles := render.Headings(md, 1); len(titles) > 0 {
		return titles[0]
	}
	return ""
}

// 摘要取首段（跳过标题行）。
func extractDigest(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}

func defaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	return truncateRunes(joined, limit)
}
