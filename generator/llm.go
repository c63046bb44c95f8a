package generator

import (
	"context"
	"errors"
	"fmt"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Reply, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// NewLLM builds the client for settings.Provider.
func NewLLM(cfg *LLMSettings) (LLMClient, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, errors.New("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAILLMFromConfig(cfg)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if cfg.BaseURL == "" {
			return nil, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(cfg)
	case "gemini":
		return NewGeminiLLMFromConfig(cfg)
	case "mock":
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
