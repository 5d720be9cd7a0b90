package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanbanly/kanban-web/internal/infrastructure/fakebackend"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Run an in-memory Kanban REST backend for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		secret, _ := cmd.Flags().GetString("secret")
		ttl, _ := cmd.Flags().GetDuration("token-ttl")
		seeds, _ := cmd.Flags().GetStringSlice("seed-admin")

		log := logger.For("mock-backend")
		backend := fakebackend.New(secret, ttl, log)
		for _, s := range seeds {
			email, password, ok := strings.Cut(s, ":")
			if !ok {
				return fmt.Errorf("--seed-admin expects email:password, got %q", s)
			}
			id, err := backend.Seed(0, email, password, fakebackend.AdminRoleID)
			if err != nil {
				return err
			}
			log.Info().Int64("member_id", id).Str("email", email).Msg("seeded administrator")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e := backend.Handler()
		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("mock backend listening")
			errCh <- e.Start(addr)
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	mockBackendCmd.Flags().String("addr", ":8080", "listen address")
	mockBackendCmd.Flags().String("secret", "dev-secret", "HS256 signing secret")
	mockBackendCmd.Flags().Duration("token-ttl", 24*time.Hour, "lifetime of issued tokens")
	mockBackendCmd.Flags().StringSlice("seed-admin", nil, "administrator to create, as email:password (repeatable)")
}
