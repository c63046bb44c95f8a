package generator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Mode 决定是否在选题后暂停等待用户选择。
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// ParseMode accepts "auto" (default for empty input) and "manual".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeAuto):
		return ModeAuto, nil
	case string(ModeManual):
		return ModeManual, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Step is the position of a run in the manual workflow.
type Step string

const (
	StepIdle         Step = "idle"
	StepStrategyDone Step = "strategy_done"
	StepWritingDone  Step = "writing_done"
)

// DownloadName is the suggested file name of the download payload.
const DownloadName = "ace_article.md"

// Run 持有一次主题的全部中间结果。
type Run struct {
	ID           string    `json:"id"`
	Topic        Topic     `json:"topic"`
	Mode         Mode      `json:"mode"`
	Step         Step      `json:"step"`
	Ideas        []string  `json:"ideas,omitempty"`
	SelectedIdea string    `json:"selected_idea,omitempty"`
	Outline      []string  `json:"outline,omitempty"`
	Article      string    `json:"article,omitempty"`
	SEOKit       string    `json:"seo_kit,omitempty"`
	Events       []Event   `json:"events,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// HaltOnError stops the run at the first failed stage instead of
	// continuing with the stage's fallback output.
	HaltOnError bool `json:"-"`

	pipeline *Pipeline
}

// NewRun 创建运行，尚未调用模型。
func NewRun(id string, topic Topic, mode Mode, pipeline *Pipeline) *Run {
	return &Run{
		ID:        id,
		Topic:     topic,
		Mode:      mode,
		Step:      StepIdle,
		CreatedAt: time.Now(),
		pipeline:  pipeline,
	}
}

// Launch runs every stage back to back, writing about the first idea.
// Like Scan it starts from idle; Reset a finished run before launching again.
func (r *Run) Launch(ctx context.Context) error {
	if r.Step != StepIdle {
		return fmt.Errorf("launch: %w (step %s)", ErrInvalidStep, r.Step)
	}
	r.Mode = ModeAuto
	r.clear()
	if err := r.strategize(ctx); err != nil {
		return err
	}
	r.SelectedIdea = bestIdea(r.Ideas)
	return r.write(ctx)
}

// Scan 手动模式第一步：只生成候选选题。
func (r *Run) Scan(ctx context.Context) error {
	if r.Step != StepIdle {
		return fmt.Errorf("scan: %w (step %s)", ErrInvalidStep, r.Step)
	}
	r.Mode = ModeManual
	r.clear()
	if err := r.strategize(ctx); err != nil {
		return err
	}
	if len(r.Ideas) > 0 {
		r.SelectedIdea = r.Ideas[0]
	}
	r.Step = StepStrategyDone
	return nil
}

// Select picks one of the generated ideas by index.
func (r *Run) Select(index int) error {
	if r.Step != StepStrategyDone {
		return fmt.Errorf("select: %w (step %s)", ErrInvalidStep, r.Step)
	}
	if len(r.Ideas) == 0 {
		return ErrNoIdeas
	}
	if index < 0 || index >= len(r.Ideas) {
		return fmt.Errorf("select: index %d out of range [0,%d)", index, len(r.Ideas))
	}
	r.SelectedIdea = r.Ideas[index]
	return nil
}

// SelectIdea 直接指定选题文本（允许用户自行修改）。
func (r *Run) SelectIdea(idea string) error {
	if r.Step != StepStrategyDone {
		return fmt.Errorf("select: %w (step %s)", ErrInvalidStep, r.Step)
	}
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return fmt.Errorf("select: idea is empty")
	}
	r.SelectedIdea = idea
	return nil
}

// Write 手动模式第三步：大纲、正文与 SEO。
func (r *Run) Write(ctx context.Context) error {
	if r.Step != StepStrategyDone {
		return fmt.Errorf("write: %w (step %s)", ErrInvalidStep, r.Step)
	}
	if r.SelectedIdea == "" {
		r.SelectedIdea = bestIdea(r.Ideas)
	}
	return r.write(ctx)
}

// Reset returns the run to idle and drops every intermediate result.
func (r *Run) Reset() {
	r.clear()
	r.Step = StepIdle
}

// Download 返回可下载的完整素材：正文 + 分隔线 + SEO。
func (r *Run) Download() (string, error) {
	if r.Step != StepWritingDone {
		return "", fmt.Errorf("download: %w (step %s)", ErrInvalidStep, r.Step)
	}
	return r.Article + "\n\n---\n\n" + r.SEOKit, nil
}

// CoverImageURL builds the cover-art URL offered next to the article. It is never fetched here.
func CoverImageURL(niche string) string {
	prompt := fmt.Sprintf("editorial photo of %s, minimal, high quality", strings.TrimSpace(niche))
	return "https://image.pollinations.ai/prompt/" + url.PathEscape(prompt)
}

func (r *Run) strategize(ctx context.Context) error {
	ideas, err := r.pipeline.Strategize(ctx, r.Topic)
	if err := r.record(StageStrategist, fmt.Sprintf("%d ideas", len(ideas)), err); err != nil {
		return err
	}
	r.Ideas = ideas
	return nil
}

func (r *Run) write(ctx context.Context) error {
	outline, err := r.pipeline.Architect(ctx, r.SelectedIdea, r.Ideas)
	if err := r.record(StageArchitect, fmt.Sprintf("%d headers", len(outline)), err); err != nil {
		return err
	}
	r.Outline = outline

	article, err := r.pipeline.WriteArticle(ctx, r.Topic.Title(), outline)
	if err := r.record(StageContent, fmt.Sprintf("%d sections", len(outline)+1), err); err != nil {
		return err
	}
	r.Article = article

	seo, err := r.pipeline.Polish(ctx, article)
	if err := r.record(StagePolish, fmt.Sprintf("%d chars", len(seo)), err); err != nil {
		return err
	}
	r.SEOKit = seo
	r.Step = StepWritingDone
	return nil
}

// record 记录阶段事件；HaltOnError 时把阶段错误返回给调用方。
func (r *Run) record(stage Stage, summary string, err error) error {
	ev := Event{Stage: stage, Summary: summary, CreatedAt: time.Now()}
	if err != nil {
		ev.Err = err.Error()
	}
	r.Events = append(r.Events, ev)
	if err != nil && r.HaltOnError {
		return err
	}
	return nil
}

func (r *Run) clear() {
	r.Ideas = nil
	r.SelectedIdea = ""
	r.Outline = nil
	r.Article = ""
	r.SEOKit = ""
	r.Events = nil
}

func bestIdea(ideas []string) string {
	if len(ideas) > 0 {
		return ideas[0]
	}
	return ""
}
