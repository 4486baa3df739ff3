// cmd/service/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portfolio-projects/internal/api"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve project cards over HTTP and refresh them periodically",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup context for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx, opts.configDir, os.Stdout)
			if err != nil {
				return err
			}
			defer a.Close()

			go a.syncer.Start(ctx)
			go func() {
				if err := a.comics.Load(ctx); err != nil {
					a.logger.Warn("Comic catalog unavailable", "error", err)
				}
			}()

			router := api.NewRouter(api.Services{
				Views:     a.syncer,
				Citations: a.citations,
				DOIs:      a.cfg.PublicationDOIs,
				Proteins:  a.proteins,
				Comics:    a.comics,
			}, a.logger)

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("HTTP server listening", "addr", a.cfg.HTTPAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				a.logger.Info("Shutdown signal received. Exiting.")
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
