package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
		want  string
	}{
		{
			name:  "plain string",
			reply: TextReply("text"),
			want:  "text",
		},
		{
			name:  "fragments concatenated in order",
			reply: FragmentReply(TextFragment("a"), TextFragment("b")),
			want:  "ab",
		},
		{
			name: "non-text fragments skipped",
			reply: FragmentReply(
				TextFragment("Hello "),
				Fragment{Type: FragmentThought, Text: "hmm"},
				Fragment{Type: FragmentData},
				TextFragment("world"),
			),
			want: "Hello world",
		},
		{
			name:  "fence markers removed",
			reply: TextReply("```python\nprint('hi')\n```"),
			want:  "print('hi')",
		},
		{
			name:  "prose that starts with a bracket stays prose",
			reply: TextReply("[Update] The market moved quickly this year."),
			want:  "[Update] The market moved quickly this year.",
		},
		{
			name:  "empty reply",
			reply: Reply{},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.reply))
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		reply    Reply
		want     []string
		wantList bool
	}{
		{
			name:     "strict json",
			reply:    TextReply(`["A", "B"]`),
			want:     []string{"A", "B"},
			wantList: true,
		},
		{
			name:     "fenced json",
			reply:    TextReply("```json\n[\"A\",\"B\"]\n```"),
			want:     []string{"A", "B"},
			wantList: true,
		},
		{
			name:     "single-quoted python list",
			reply:    TextReply("```python\n['A', 'B']\n```"),
			want:     []string{"A", "B"},
			wantList: true,
		},
		{
			name:     "list embedded in prose",
			reply:    TextReply("Here you go:\n['First idea', \"Second idea\"]\nEnjoy!"),
			want:     []string{"First idea", "Second idea"},
			wantList: true,
		},
		{
			name:     "fragments carrying a list",
			reply:    FragmentReply(TextFragment(`["X",`), TextFragment(` "Y"]`)),
			want:     []string{"X", "Y"},
			wantList: true,
		},
		{
			name:     "objects with title fields",
			reply:    TextReply(`[{"title": "One"}, {"title": "Two"}]`),
			want:     []string{"One", "Two"},
			wantList: true,
		},
		{
			name:     "blank items dropped",
			reply:    TextReply(`["A", "  ", "B"]`),
			want:     []string{"A", "B"},
			wantList: true,
		},
		{
			name:     "quoted strings and numbers in a python list",
			reply:    TextReply("[1, 'two', 3.5]"),
			want:     []string{"1", "two", "3.5"},
			wantList: true,
		},
		{
			name:  "bracketed aside in a numbered list",
			reply: TextReply("1. AI Study Hacks [2024 edition]\n2. Ethics 101"),
			want:  []string{"1. AI Study Hacks [2024 edition]\n2. Ethics 101"},
		},
		{
			name:  "bracketed aside in prose",
			reply: TextReply("Prose [aside] more prose"),
			want:  []string{"Prose [aside] more prose"},
		},
		{
			name:  "unquoted headline in brackets",
			reply: TextReply("[Headline one: angle]"),
			want:  []string{"[Headline one: angle]"},
		},
		{
			name:  "nested python list",
			reply: TextReply("[['a'], 'b']"),
			want:  []string{"[['a'], 'b']"},
		},
		{
			name:  "prose wrapped as one element",
			reply: TextReply("Just a sentence."),
			want:  []string{"Just a sentence."},
		},
		{
			name:  "json object is not a list",
			reply: TextReply(`{"ideas": 3}`),
			want:  []string{`{"ideas": 3}`},
		},
		{
			name:  "empty list falls back",
			reply: TextReply("[]"),
			want:  []string{"[]"},
		},
		{
			name:  "truncated json falls back",
			reply: TextReply(`["A", "B`),
			want:  []string{`["A", "B`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.reply, true)
			assert.Equal(t, tt.want, got.Strings())
			assert.Equal(t, tt.wantList, got.List)
			assert.Equal(t, tt.want, NormalizeList(tt.reply))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"text",
		"```json\n{\"a\": 1}\n```",
		"  leading and trailing spaces  ",
		"# Title\n\nBody paragraph.",
	}
	for _, in := range inputs {
		once := NormalizeText(TextReply(in))
		assert.Equal(t, once, NormalizeText(TextReply(once)), "input %q", in)
	}
}

func TestReplyContent(t *testing.T) {
	assert.Equal(t, "abc", TextReply("abc").String())
	assert.Equal(t, "ab", FragmentReply(TextFragment("a"), Fragment{Type: FragmentData}, TextFragment("b")).Content())
	assert.True(t, TextFragment("x").HasText())
	assert.False(t, Fragment{Type: FragmentThought, Text: "x"}.HasText())
}

func TestBestEffortText(t *testing.T) {
	assert.Equal(t, "plain", bestEffortText(TextReply("plain")))
	reply := FragmentReply(TextFragment("a"), Fragment{Type: FragmentThought, Text: "b"}, Fragment{Type: FragmentData})
	assert.Equal(t, "ab", bestEffortText(reply))
}
