package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanbanly/kanban-web/internal/api"
	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/internal/infrastructure/notify"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web front",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logger.Get()

		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("closing storage")
			}
		}()

		e := api.NewRouter(api.Deps{
			Session: a.session,
			Gateway: a.client,
			Storage: a.storage,
			Flash:   notify.NewFlashQueue(logger.For("notify")),
			Log:     log,
		})

		// Protected routes answer LOADING until the stored session is read.
		go a.restore(ctx)

		watcher := service.NewExpiryWatcher(a.session, logger.For("expiry"))
		if _, err := watcher.Schedule(cfg.ExpiryCheckInterval); err != nil {
			return err
		}
		watcher.Start()
		defer watcher.Stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("api", cfg.API.BaseURL).Msg("kanban-web listening")
			errCh <- e.Start(":" + cfg.Port)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}
