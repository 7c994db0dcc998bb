package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/httpapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = app.Config.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				watch = app.Config.Server.Watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.session(ctx); err != nil {
				return err
			}
			logger := app.logger()

			if watch {
				w, err := httpapi.WatchCatalogue(app.cataloguePath(), app.Planner, logger,
					func(resp *contract.RebuildResponse, err error) {
						if err != nil {
							return
						}
						if len(resp.Orphaned) > 0 {
							logger.Warn("selection orphaned by reload", "uids", resp.Orphaned)
						}
					})
				if err != nil {
					return err
				}
				defer w.Stop()
			}

			api := &httpapi.Server{
				Planner:  app.Planner,
				Metrics:  app.Metrics,
				Gatherer: app.Gatherer,
				Logger:   logger,
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting http server", "addr", addr, "entry", app.Planner.EntryYear().Key())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)

			select {
			case err := <-errCh:
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				logger.Info("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
			return app.persist(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild when the catalogue file changes")
	return cmd
}
