package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiLLM implements LLMClient on the Gemini API. Replies keep the
// candidate's part structure as fragments.
type GeminiLLM struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; provide llm.api_key or GOOGLE_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiLLM{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (Reply, error) {
	contents := geminiContents(prompt)

	config := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(float32(g.temperature))
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini generate: %w", err)
	}
	return replyFromGenAI(resp)
}

// geminiContents 把历史与本轮用户消息转成 Gemini 的多轮 contents。
func geminiContents(prompt Prompt) []*genai.Content {
	contents := make([]*genai.Content, 0, len(prompt.History)+1)
	for _, h := range prompt.History {
		role := genai.Role(genai.RoleUser)
		if h.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(h.Content, role))
	}
	return append(contents, genai.NewContentFromText(prompt.User, genai.RoleUser))
}

// replyFromGenAI 把首个候选的 parts 转成片段；thought 片段不参与正文。
func replyFromGenAI(resp *genai.GenerateContentResponse) (Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Reply{}, errors.New("gemini: empty candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	frags := make([]Fragment, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		switch {
		case part.Thought:
			frags = append(frags, Fragment{Type: FragmentThought, Text: part.Text})
		case part.Text != "":
			frags = append(frags, TextFragment(part.Text))
		default:
			frags = append(frags, Fragment{Type: FragmentData})
		}
	}
	return FragmentReply(frags...), nil
}
