package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ace_content_engine/generator"
	"ace_content_engine/render"
	"ace_content_engine/tui"
)

func newRunCmd() *cobra.Command {
	var (
		niche    string
		audience string
		manual   bool
		outPath  string
		htmlPath string
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate an article and its SEO kit",
		Long: `Run the full content pipeline for a topic.

Auto-pilot (default) writes about the first idea. With --manual the ideas are
listed and the article is written about the one you pick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := newPipeline()
			if err != nil {
				return err
			}
			mode := generator.ModeAuto
			if manual {
				mode = generator.ModeManual
			}
			topic := generator.Topic{Niche: niche, Audience: audience}
			run := generator.NewRun(uuid.NewString(), topic, mode, pipe)
			run.HaltOnError = cfg.Pipeline.HaltOnError

			log := logger.With(zap.String("run_id", run.ID))
			log.Info("Starting run", zap.String("title", topic.Title()), zap.String("mode", string(mode)))

			ctx := cmd.Context()
			if manual {
				if err := run.Scan(ctx); err != nil {
					return err
				}
				idx, err := tui.PickIdea(run.Ideas)
				if err != nil {
					return err
				}
				if err := run.Select(idx); err != nil {
					return err
				}
				log.Info("Idea selected", zap.String("idea", run.SelectedIdea))
				if err := run.Write(ctx); err != nil {
					return err
				}
			} else if err := run.Launch(ctx); err != nil {
				return err
			}

			for _, ev := range run.Events {
				if ev.Err != "" {
					log.Warn("Stage used fallback output", zap.String("stage", string(ev.Stage)), zap.String("error", ev.Err))
				}
			}

			payload, err := run.Download()
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(payload), 0644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				log.Info("Wrote markdown kit", zap.String("path", outPath))
			}
			if htmlPath != "" {
				page, err := render.Document(topic.Title(), payload)
				if err != nil {
					return fmt.Errorf("render html: %w", err)
				}
				if err := os.WriteFile(htmlPath, []byte(page), 0644); err != nil {
					return fmt.Errorf("write %s: %w", htmlPath, err)
				}
				log.Info("Wrote html kit", zap.String("path", htmlPath))
			}

			out := payload
			if pretty {
				out, err = render.Terminal(payload, 100, "auto")
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			fmt.Fprintf(cmd.OutOrStdout(), "\nCover art: %s\n", generator.CoverImageURL(topic.Niche))
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "Artificial Intelligence", "topic / niche")
	cmd.Flags().StringVar(&audience, "audience", "University Students", "target audience")
	cmd.Flags().BoolVar(&manual, "manual", false, "pick the idea interactively before writing")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the markdown kit to this file (e.g. "+generator.DownloadName+")")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write the kit as a standalone HTML page")
	cmd.Flags().BoolVar(&pretty, "render", false, "render markdown for the terminal")

	return cmd
}
