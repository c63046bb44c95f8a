package generator

import (
	"strings"
	"time"
)

// Topic 是一次运行的输入，整个运行期间不可变。
type Topic struct {
	Niche    string `json:"niche"`
	Audience string `json:"audience"`
}

// Title 生成文章标题，形如 "{niche} for {audience}"。
func (t Topic) Title() string {
	niche := strings.TrimSpace(t.Niche)
	audience := strings.TrimSpace(t.Audience)
	if audience == "" {
		return niche
	}
	return niche + " for " + audience
}

// Stage identifies one prompt + invocation + normalization unit.
type Stage string

const (
	StageStrategist Stage = "strategist"
	StageArchitect  Stage = "architect"
	StageContent    Stage = "content_factory"
	StagePolish     Stage = "polish"
)

// Event 记录一次阶段执行，便于前端展示运行过程。
type Event struct {
	Stage     Stage     `json:"stage"`
	Summary   string    `json:"summary"`
	Err       string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
