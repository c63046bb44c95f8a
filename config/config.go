package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"

	configPathEnv  = "ACE_CONFIG"
	providerEnv    = "ACE_LLM_PROVIDER"
	modelEnv       = "ACE_LLM_MODEL"
	apiKeyEnv      = "ACE_LLM_API_KEY"
	baseURLEnv     = "ACE_LLM_BASE_URL"
	serverAddrEnv  = "ACE_SERVER_ADDR"
	logLevelEnv    = "ACE_LOG_LEVEL"
	openAIKeyEnv   = "OPENAI_API_KEY"
	deepseekKeyEnv = "DEEPSEEK_API_KEY"
	googleKeyEnv   = "GOOGLE_API_KEY"
)

// Config holds every setting of the content engine.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// LLMConfig 描述模型服务；provider 支持 openai / deepseek / gemini / mock。
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// PipelineConfig tunes the content stages.
type PipelineConfig struct {
	ContextWindow    int  `yaml:"context_window"`
	PolishInputLimit int  `yaml:"polish_input_limit"`
	HaltOnError      bool `yaml:"halt_on_error"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Temperature: 0.7,
		},
		Pipeline: PipelineConfig{
			ContextWindow:    1500,
			PolishInputLimit: 4000,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads YAML config over the defaults and applies environment overrides.
//
// An empty path means ACE_CONFIG or DefaultPath; a missing file at the default
// location is not an error, a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(configPathEnv)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// 没有配置文件时使用默认值
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(providerEnv); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	c.ResolveAPIKey()
}

// ResolveAPIKey fills an empty api_key from the provider's conventional variable.
func (c *Config) ResolveAPIKey() {
	if c.LLM.APIKey != "" {
		return
	}
	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = os.Getenv(openAIKeyEnv)
	case "deepseek":
		c.LLM.APIKey = os.Getenv(deepseekKeyEnv)
	case "gemini":
		c.LLM.APIKey = os.Getenv(googleKeyEnv)
	}
}

// Validate 只检查结构性错误；缺少 api key 由具体客户端报告。
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "deepseek", "gemini", "mock":
	default:
		return fmt.Errorf("config: unknown llm.provider %q", c.LLM.Provider)
	}
	if c.Pipeline.ContextWindow <= 0 {
		return errors.New("config: pipeline.context_window must be positive")
	}
	if c.Pipeline.PolishInputLimit <= 0 {
		return errors.New("config: pipeline.polish_input_limit must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("config: server.request_timeout must not be negative")
	}
	return nil
}
