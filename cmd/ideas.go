package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ace_content_engine/generator"
)

func newIdeasCmd() *cobra.Command {
	var niche, audience string

	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Only run the strategist and print the article ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := newPipeline()
			if err != nil {
				return err
			}
			ideas, err := pipe.Strategize(cmd.Context(), generator.Topic{Niche: niche, Audience: audience})
			if err != nil {
				if cfg.Pipeline.HaltOnError {
					return err
				}
				logger.Warn("Strategist failed", zap.Error(err))
			}
			for i, idea := range ideas {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, idea)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "Artificial Intelligence", "topic / niche")
	cmd.Flags().StringVar(&audience, "audience", "University Students", "target audience")
	return cmd
}
