package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kanbanly/kanban-web/internal/pkg/config"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Session-aware web front and CLI for the Kanban REST API",
	Long: `kanban serves the web front of the Kanban REST API and offers the same
session (login, logout, workspaces) from the command line. The session is
persisted in the configured storage and shared between both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded
		logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
		return nil
	},
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.API.BaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("storage") {
		c.Storage.Driver, _ = flags.GetString("storage")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("port") {
		c.Port, _ = flags.GetString("port")
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the Kanban REST API (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().String("storage", "", "session storage driver: sqlite, redis, mongo or memory")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(mockBackendCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
