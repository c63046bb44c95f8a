package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ace_content_engine/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := newPipeline()
			if err != nil {
				return err
			}
			srv, err := server.New(pipe, cfg, logger.Named("server"))
			if err != nil {
				return err
			}
			listen := cfg.Server.Addr
			if addr != "" {
				listen = addr
			}
			if listen == "" {
				listen = ":8080"
			}

			httpSrv := &http.Server{
				Addr:              listen,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			logger.Info("Starting web server", zap.String("addr", listen), zap.String("provider", cfg.LLM.Provider))

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("Shutting down web server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides server.addr)")
	return cmd
}
