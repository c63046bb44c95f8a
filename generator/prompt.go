package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	Stage   Stage
	Section string
	System  string
	User    string
	History []Message
}

// Message 是一轮对话历史，Role 为 "user" 或 "assistant"。
type Message struct {
	Role    string
	Content string
}

// IntroductionHeader is the sub-heading of the introduction block.
const IntroductionHeader = "Introduction"

const (
	strategistSystem = "You are a viral content strategist. Reply with data only, no commentary."

	strategistTemplate = `Generate between 3 and 5 catchy blog article ideas about "%s" for an audience of "%s".
Each idea is a single line: a headline followed by a one-sentence angle.
Return ONLY a JSON array of strings, for example ["Headline one: angle", "Headline two: angle"].`

	architectSystem = "You are a senior content editor who designs article structures."

	shortlistRequest = "Which article ideas did you shortlist for this topic?"

	architectTemplate = `Design the outline for this article idea:
%s

Return ONLY a JSON array of exactly 4 section headers.
Do not include "Introduction" or "Conclusion"; they are written separately.`

	writerSystem = "You are a professional content writer. Write engaging, well-structured Markdown prose."

	introTemplate = `Write the introduction for an article titled "%s".
The article will cover these sections in order:
%s
Write 2 short paragraphs. Do not add any heading.`

	sectionTemplate = `You are writing the article "%s".
Here is the end of what has been written so far:
"""
%s
"""

Now write the section "%s". Continue naturally from the text above without repeating it.
Write 2 to 3 paragraphs and use bold text or bullet points where useful.
Do not add a heading for the section.`

	polishSystem = "You are an SEO specialist and social media manager."

	polishTemplate = `Create an SEO and social kit for the article below.
Use exactly these Markdown sections:

## Keywords
A comma-separated list of 8 to 12 keywords.

## Meta Description
One sentence of at most 160 characters.

## Social Captions
One caption each for LinkedIn, X and Instagram, with hashtags.

Article:
%s`
)

// BuildStrategyPrompt 生成选题提示词。
func BuildStrategyPrompt(topic Topic) Prompt {
	return Prompt{
		Stage:  StageStrategist,
		System: strategistSystem,
		User:   fmt.Sprintf(strategistTemplate, strings.TrimSpace(topic.Niche), strings.TrimSpace(topic.Audience)),
	}
}

// BuildOutlinePrompt 生成大纲提示词。shortlist 非空时作为上一轮对话：
// 用户请求选题、模型给出列表，让大纲与其他候选区分开。
func BuildOutlinePrompt(idea string, shortlist []string) Prompt {
	p := Prompt{
		Stage:  StageArchitect,
		System: architectSystem,
		User:   fmt.Sprintf(architectTemplate, strings.TrimSpace(idea)),
	}
	if len(shortlist) > 0 {
		var sb strings.Builder
		for i, s := range shortlist {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		p.History = []Message{
			{Role: "user", Content: shortlistRequest},
			{Role: "assistant", Content: strings.TrimRight(sb.String(), "\n")},
		}
	}
	return p
}

// BuildIntroPrompt is the section-writing template used for the opening block.
func BuildIntroPrompt(title string, outline []string) Prompt {
	var sb strings.Builder
	for i, h := range outline {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, h))
	}
	return Prompt{
		Stage:   StageContent,
		Section: IntroductionHeader,
		System:  writerSystem,
		User:    fmt.Sprintf(introTemplate, title, strings.TrimRight(sb.String(), "\n")),
	}
}

// BuildSectionPrompt 生成单个章节提示词，contextTail 为已写内容的尾部窗口。
func BuildSectionPrompt(title, header, contextTail string) Prompt {
	return Prompt{
		Stage:   StageContent,
		Section: header,
		System:  writerSystem,
		User:    fmt.Sprintf(sectionTemplate, title, contextTail, header),
	}
}

// BuildPolishPrompt 生成 SEO/社媒素材提示词，draft 由调用方截断。
func BuildPolishPrompt(draft string) Prompt {
	return Prompt{
		Stage:  StagePolish,
		System: polishSystem,
		User:   fmt.Sprintf(polishTemplate, draft),
	}
}
