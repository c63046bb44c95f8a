package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// 按顺序做字面量删除，带语言标注的标记必须排在裸标记之前。
var fenceMarkers = []string{"```python", "```json", "```"}

// Normalized is the caller-facing shape of a model reply.
//
// Text is always set. Items is set in list mode; List reports whether Items came
// from structured parsing (true) or from wrapping Text as a single element (false).
type Normalized struct {
	Text  string
	Items []string
	List  bool
}

// Strings 返回列表视图，文本结果包装成单元素列表。
func (n Normalized) Strings() []string {
	if len(n.Items) > 0 {
		return n.Items
	}
	return []string{n.Text}
}

// Normalize turns a raw reply into a plain string or a list of strings.
//
// With expectList false the fragment content is concatenated and fence markers
// are removed. With expectList true the stripped text goes through a fixed
// cascade: strict JSON, then a permissive literal parse of the bracketed span
// (YAML flow syntax, which accepts single-quoted Python lists), then the text
// wrapped as a single-element list. Normalize never panics.
func Normalize(reply Reply, expectList bool) (out Normalized) {
	defer func() {
		if r := recover(); r != nil {
			text := bestEffortText(reply)
			out = Normalized{Text: text}
			if expectList {
				out.Items = []string{text}
			}
		}
	}()

	text := stripFences(reply.Content())
	if !expectList {
		return Normalized{Text: text}
	}

	text = strings.TrimSpace(text)
	if items, ok := parseJSONList(text); ok {
		return Normalized{Text: text, Items: items, List: true}
	}
	if items, ok := parseLiteralList(text); ok {
		return Normalized{Text: text, Items: items, List: true}
	}
	return Normalized{Text: text, Items: []string{text}}
}

// NormalizeText is Normalize in string mode.
func NormalizeText(reply Reply) string {
	return Normalize(reply, false).Text
}

// NormalizeList is Normalize in list mode; unparsable replies come back as one element.
func NormalizeList(reply Reply) []string {
	return Normalize(reply, true).Strings()
}

func stripFences(s string) string {
	out := s
	for _, m := range fenceMarkers {
		out = strings.ReplaceAll(out, m, "")
	}
	if out == s {
		return s
	}
	return strings.TrimSpace(out)
}

func parseJSONList(s string) ([]string, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return listItems(v)
}

// parseLiteralList 截取第一个 '[' 到最后一个 ']'，按 YAML flow 序列解析。
// 只接受元素全部为带引号字符串或数字的序列，裸词和对象都视为散文。
func parseLiteralList(s string) ([]string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s[start:end+1]), &doc); err != nil {
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, false
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, false
	}
	raw := make([]any, 0, len(seq.Content))
	for _, n := range seq.Content {
		if !literalScalar(n) {
			return nil, false
		}
		raw = append(raw, n.Value)
	}
	return listItems(raw)
}

func literalScalar(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode {
		return false
	}
	switch n.Style {
	case yaml.SingleQuotedStyle, yaml.DoubleQuotedStyle:
		return true
	case 0:
		return n.ShortTag() == "!!int" || n.ShortTag() == "!!float"
	}
	return false
}

func listItems(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	items := make([]string, 0, len(raw))
	for _, e := range raw {
		s := strings.TrimSpace(itemString(e))
		if s == "" {
			continue
		}
		items = append(items, s)
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// 模型偶尔返回对象数组，优先取常见的标题字段。
var itemKeys = []string{"title", "header", "heading", "idea", "text", "name"}

func itemString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		for _, k := range itemKeys {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func bestEffortText(reply Reply) string {
	if reply.Kind == ReplyText {
		return reply.Text
	}
	var sb strings.Builder
	for _, f := range reply.Fragments {
		sb.WriteString(f.Text)
	}
	return sb.String()
}
