package generator

import (
	"context"
	"fmt"
)

// MockLLM 一个离线占位实现，按阶段返回固定内容，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (Reply, error) {
	switch prompt.Stage {
	case StageStrategist:
		return TextReply("```json\n" + `[
  "The Beginner's Map: what nobody tells you on day one",
  "Five Myths Worth Dropping: separating hype from reality",
  "From Theory to Practice: small projects that teach the most"
]` + "\n```"), nil
	case StageArchitect:
		return TextReply("```python\n['Core Concepts Explained', 'Real-World Use Cases', 'Common Pitfalls', 'Where It Is Heading']\n```"), nil
	case StageContent:
		return FragmentReply(
			TextFragment(fmt.Sprintf("This part covers **%s**. ", prompt.Section)),
			Fragment{Type: FragmentThought, Text: "planning the paragraph"},
			TextFragment("It builds on what came before and keeps the reader moving forward."),
		), nil
	case StagePolish:
		return TextReply(`## Keywords
guide, beginners, practical tips, trends, use cases, pitfalls, future

## Meta Description
A practical guide covering core concepts, real-world use cases and what comes next.

## Social Captions
- LinkedIn: A practical guide worth bookmarking. #learning
- X: Core concepts to future trends in one read. #guide
- Instagram: Save this for later. #study`), nil
	default:
		return TextReply(prompt.User), nil
	}
}
