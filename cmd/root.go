package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ace_content_engine/config"
	"ace_content_engine/generator"
	"ace_content_engine/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	provider   string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ace",
	Short: "ACE: Automated Content Engine",
	Long: `ACE turns a topic and an audience into a complete article kit.

A strategist proposes article ideas, an architect outlines the chosen idea,
the content factory writes the article section by section and a final polish
pass produces keywords, a meta description and social captions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if provider != "" {
			cfg.LLM.Provider = provider
			cfg.LLM.APIKey = ""
			cfg.ResolveAPIKey()
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $ACE_CONFIG or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "override llm.provider (openai, deepseek, gemini, mock)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newIdeasCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command and cancels in-flight model calls on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func newPipeline() (*generator.Pipeline, error) {
	llm, err := generator.NewLLM(&generator.LLMSettings{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("build llm client: %w", err)
	}
	return generator.NewPipeline(llm, generator.Options{
		ContextWindow:    cfg.Pipeline.ContextWindow,
		PolishInputLimit: cfg.Pipeline.PolishInputLimit,
		Logger:           logger.Named("pipeline"),
	})
}
