package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

// withApp builds the app, restores the stored session and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))
	a.restore(ctx)
	return fn(ctx, a)
}

func requireSession(a *app) error {
	if !a.session.Snapshot().Authenticated() {
		return errors.New("not logged in, run `kanban login` first")
	}
	return nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		google, _ := cmd.Flags().GetString("google-token")
		if password == "" {
			password = os.Getenv("KANBAN_PASSWORD")
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			auth := service.NewAuthService(a.client, a.session, logger.For("auth"))
			var (
				sess  domain.Session
				isNew bool
				err   error
			)
			if google != "" {
				sess, isNew, err = auth.GoogleLogin(ctx, google)
			} else {
				sess, err = auth.Login(ctx, email, password)
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if isNew {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome! Your account has been created.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.User.Email, strings.ToLower(sess.Role().String()))
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			service.NewAuthService(a.client, a.session, logger.For("auth")).Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := requireSession(a); err != nil {
				return err
			}
			sess := a.session.Snapshot()
			out := cmd.OutOrStdout()
			if sess.User == nil {
				fmt.Fprintln(out, "Logged in, user details unavailable")
			} else {
				fmt.Fprintf(out, "Email:     %s\n", sess.User.Email)
				fmt.Fprintf(out, "Role:      %s\n", sess.Role())
				fmt.Fprintf(out, "Member ID: %d\n", sess.User.MemberID)
			}
			if exp, ok := service.TokenExpiry(sess.Token); ok {
				fmt.Fprintf(out, "Expires:   %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
			}
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (or KANBAN_PASSWORD)")
	loginCmd.Flags().String("google-token", "", "log in with a Google ID token instead")
}
