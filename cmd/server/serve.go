package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/api"
	"github.com/youruser/certgate/internal/session"
)

const sessionTTL = 24 * time.Hour

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the certificate HTTP API",
		Example: `  # Start on the configured port (PORT, default 8080)
  certgate serve

  # Start on a custom port
  certgate serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Port
			}
			gin.SetMode(gin.ReleaseMode)

			store := session.NewStore()
			handler := api.NewHandler(store, a.service, a.cfg.MaxPhotoBytes, a.logger.Named("api"))
			server := &http.Server{
				Addr:              ":" + port,
				Handler:           api.NewEngine(handler, a.logger.Named("http")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go pruneSessions(ctx, store, a.logger)

			serverErr := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", zap.String("addr", server.Addr), zap.String("url", "http://localhost"+server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				a.logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("server shutdown failed", zap.Error(err))
					return err
				}
				a.logger.Info("server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}

// pruneSessions drops sessions older than sessionTTL once an hour.
func pruneSessions(ctx context.Context, store *session.Store, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Prune(now.Add(-sessionTTL)); n > 0 {
				logger.Info("pruned sessions", zap.Int("count", n))
			}
		}
	}
}
