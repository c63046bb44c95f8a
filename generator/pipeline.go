package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultContextWindow    = 1500
	DefaultPolishInputLimit = 4000
)

// Fallback texts substituted for a stage's output when its model call fails.
const (
	StrategyErrorText = "Error: Could not generate strategies. Please check API Quota."
	SectionErrorText  = "_Error: Could not write the section %q._"
	PolishErrorText   = "Error: Could not generate SEO kit."
)

// FallbackOutline returns the generic headers used when no usable outline exists.
func FallbackOutline() []string {
	return []string{
		"Key Concepts",
		"Current Trends",
		"Practical Applications",
		"Future Outlook",
	}
}

// Options 配置流水线；零值字段使用默认值。
type Options struct {
	ContextWindow    int
	PolishInputLimit int
	Logger           *zap.Logger
}

// Pipeline runs the four content stages against one LLM client.
//
// Each stage returns its normalized output together with a *StageError on
// failure. On failure the returned value is already the stage's fallback, so
// the caller chooses between continuing with it and halting.
type Pipeline struct {
	llm           LLMClient
	contextWindow int
	polishLimit   int
	logger        *zap.Logger
}

func NewPipeline(llm LLMClient, opts Options) (*Pipeline, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	p := &Pipeline{
		llm:           llm,
		contextWindow: opts.ContextWindow,
		polishLimit:   opts.PolishInputLimit,
		logger:        opts.Logger,
	}
	if p.contextWindow <= 0 {
		p.contextWindow = DefaultContextWindow
	}
	if p.polishLimit <= 0 {
		p.polishLimit = DefaultPolishInputLimit
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p, nil
}

// Strategize 生成候选选题；失败时返回仅含错误说明的单元素列表。
func (p *Pipeline) Strategize(ctx context.Context, topic Topic) ([]string, error) {
	out, err := p.invoke(ctx, BuildStrategyPrompt(topic), true)
	if err != nil {
		return []string{StrategyErrorText}, &StageError{Stage: StageStrategist, Err: err}
	}
	if !out.List {
		p.logger.Info("ideas were not list-shaped, keeping reply as one idea")
	}
	return out.Strings(), nil
}

// Architect 为选定选题生成章节标题列表，始终返回列表。
// shortlist 是策略阶段给出的全部选题，作为对话历史传给模型。
func (p *Pipeline) Architect(ctx context.Context, idea string, shortlist []string) ([]string, error) {
	out, err := p.invoke(ctx, BuildOutlinePrompt(idea, shortlist), true)
	if err != nil {
		return FallbackOutline(), &StageError{Stage: StageArchitect, Err: err}
	}
	if !out.List {
		p.logger.Info("outline was not list-shaped, using fallback outline")
		return FallbackOutline(), nil
	}
	headers := cleanHeaders(out.Items)
	if len(headers) == 0 {
		p.logger.Info("outline had no usable headers, using fallback outline")
		return FallbackOutline(), nil
	}
	return headers, nil
}

// WriteArticle assembles the article block by block.
//
// The result always holds the title line, one introduction block and one block
// per outline header in order. A failed block carries an error sentence in
// place of its text and the remaining blocks are still attempted; the failures
// are returned joined. A nil outline is replaced by FallbackOutline.
func (p *Pipeline) WriteArticle(ctx context.Context, title string, outline []string) (string, error) {
	if outline == nil {
		outline = FallbackOutline()
	}

	var article strings.Builder
	article.WriteString("# " + title)

	var errs []error
	intro, err := p.writeBlock(ctx, BuildIntroPrompt(title, outline))
	if err != nil {
		errs = append(errs, err)
	}
	appendBlock(&article, IntroductionHeader, intro)

	var written strings.Builder
	if err == nil {
		written.WriteString(intro)
	}
	for _, header := range outline {
		prompt := BuildSectionPrompt(title, header, tailRunes(written.String(), p.contextWindow))
		text, err := p.writeBlock(ctx, prompt)
		appendBlock(&article, header, text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if written.Len() > 0 {
			written.WriteString("\n\n")
		}
		written.WriteString(text)
	}
	return article.String(), errors.Join(errs...)
}

// Polish 基于成稿生成关键词、摘要描述与社媒文案。
func (p *Pipeline) Polish(ctx context.Context, draft string) (string, error) {
	out, err := p.invoke(ctx, BuildPolishPrompt(truncateRunes(draft, p.polishLimit)), false)
	if err != nil {
		return PolishErrorText, &StageError{Stage: StagePolish, Err: err}
	}
	return out.Text, nil
}

func (p *Pipeline) writeBlock(ctx context.Context, prompt Prompt) (string, error) {
	out, err := p.invoke(ctx, prompt, false)
	if err != nil {
		return fmt.Sprintf(SectionErrorText, prompt.Section), &StageError{Stage: StageContent, Section: prompt.Section, Err: err}
	}
	return out.Text, nil
}

func (p *Pipeline) invoke(ctx context.Context, prompt Prompt, expectList bool) (Normalized, error) {
	log := p.logger.With(zap.String("stage", string(prompt.Stage)))
	if prompt.Section != "" {
		log = log.With(zap.String("section", prompt.Section))
	}
	start := time.Now()
	reply, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		log.Warn("model call failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return Normalized{}, err
	}
	out := Normalize(reply, expectList)
	log.Debug("model call done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(out.Text)),
		zap.Bool("list", out.List))
	return out, nil
}

func appendBlock(sb *strings.Builder, header, text string) {
	sb.WriteString("\n\n## ")
	sb.WriteString(header)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(text))
}

// cleanHeaders 去掉 Markdown 前缀，并剔除引言/结论。
func cleanHeaders(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		h := strings.TrimSpace(strings.TrimLeft(item, "#*- \t"))
		h = strings.Join(strings.Fields(strings.TrimRight(h, "*")), " ")
		if h == "" {
			continue
		}
		switch strings.ToLower(h) {
		case "introduction", "conclusion":
			continue
		}
		out = append(out, h)
	}
	return out
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
