package generator

import "strings"

// ReplyKind tags the shape of a model reply.
type ReplyKind int

const (
	// ReplyText carries the payload as one direct string.
	ReplyText ReplyKind = iota
	// ReplyFragments carries the payload as an ordered list of fragments.
	ReplyFragments
)

// FragmentType 标记片段类型，只有 text 片段参与拼接。
type FragmentType string

const (
	FragmentText    FragmentType = "text"
	FragmentThought FragmentType = "thought"
	FragmentData    FragmentType = "data"
)

// Fragment is one piece of a multi-part reply.
type Fragment struct {
	Type FragmentType
	Text string
}

// TextFragment builds a text-bearing fragment.
func TextFragment(s string) Fragment {
	return Fragment{Type: FragmentText, Text: s}
}

// HasText reports whether the fragment contributes to the reply content.
func (f Fragment) HasText() bool {
	return f.Type == FragmentText
}

// Reply is the raw answer of a model invocation before normalization.
type Reply struct {
	Kind      ReplyKind
	Text      string
	Fragments []Fragment
}

// TextReply wraps a plain string reply.
func TextReply(s string) Reply {
	return Reply{Kind: ReplyText, Text: s}
}

// FragmentReply wraps a multi-part reply.
func FragmentReply(frags ...Fragment) Reply {
	return Reply{Kind: ReplyFragments, Fragments: frags}
}

// Content 返回回复的文本内容：片段按顺序拼接。
func (r Reply) Content() string {
	switch r.Kind {
	case ReplyFragments:
		var sb strings.Builder
		for _, f := range r.Fragments {
			if f.HasText() {
				sb.WriteString(f.Text)
			}
		}
		return sb.String()
	default:
		return r.Text
	}
}

func (r Reply) String() string {
	return r.Content()
}
