package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/internal/infrastructure/notify"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"ws"},
	Short:   "Manage the workspaces of the logged-in member",
}

// withWorkspaces runs fn with a workspace controller bound to the stored
// session and prints the notices it raised to stderr.
func withWorkspaces(cmd *cobra.Command, fn func(ctx context.Context, a *app, ws *service.WorkspaceController) error) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := requireSession(a); err != nil {
			return err
		}
		flash := notify.NewFlashQueue(logger.For("notify"))
		ws := service.NewWorkspaceController(a.client, a.session, flash, logger.For("workspaces"))
		defer ws.Close()

		err := fn(ctx, a, ws)
		printNotices(cmd.ErrOrStderr(), flash.Drain())
		return err
	})
}

var workspacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspaces(cmd, func(ctx context.Context, _ *app, ws *service.WorkspaceController) error {
			items, err := ws.List(ctx, 0)
			if err != nil {
				return err
			}
			printWorkspaces(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var workspacesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace owned by you",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspaces(cmd, func(ctx context.Context, _ *app, ws *service.WorkspaceController) error {
			items, err := ws.Create(ctx, ports.WorkspaceInput{Name: args[0]})
			if err != nil {
				return err
			}
			printWorkspaces(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var workspacesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withWorkspaces(cmd, func(ctx context.Context, _ *app, ws *service.WorkspaceController) error {
			if _, err := ws.List(ctx, 0); err != nil {
				return err
			}
			items, err := ws.Delete(ctx, id)
			if err != nil {
				return err
			}
			printWorkspaces(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var workspacesBoardsCmd = &cobra.Command{
	Use:   "boards <workspace-id>",
	Short: "List the boards of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := requireSession(a); err != nil {
				return err
			}
			flash := notify.NewFlashQueue(logger.For("notify"))
			boards := service.NewBoardController(a.client, a.session, flash, logger.For("boards"))
			defer boards.Close()

			items, err := boards.List(ctx, id)
			printNotices(cmd.ErrOrStderr(), flash.Drain())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCOLOR")
			for _, b := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.Title, b.BgColor)
			}
			return tw.Flush()
		})
	},
}

// withMembers is withWorkspaces for the member controller of one workspace.
func withMembers(cmd *cobra.Command, fn func(ctx context.Context, wm *service.WorkspaceMemberController) error) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := requireSession(a); err != nil {
			return err
		}
		flash := notify.NewFlashQueue(logger.For("notify"))
		wm := service.NewWorkspaceMemberController(a.client, a.session, flash, logger.For("members"))
		defer wm.Close()

		err := fn(ctx, wm)
		printNotices(cmd.ErrOrStderr(), flash.Drain())
		return err
	})
}

var workspacesMembersCmd = &cobra.Command{
	Use:   "members <workspace-id>",
	Short: "List the members of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withMembers(cmd, func(ctx context.Context, wm *service.WorkspaceMemberController) error {
			items, err := wm.List(ctx, id)
			if err != nil {
				return err
			}
			printMembers(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var workspacesInviteCmd = &cobra.Command{
	Use:   "invite <workspace-id> <email>",
	Short: "Add a registered member to a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withMembers(cmd, func(ctx context.Context, wm *service.WorkspaceMemberController) error {
			items, err := wm.Invite(ctx, ports.InviteInput{WorkspaceID: id, Email: args[1]})
			if err != nil {
				return err
			}
			printMembers(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

func init() {
	workspacesCmd.AddCommand(workspacesListCmd)
	workspacesCmd.AddCommand(workspacesCreateCmd)
	workspacesCmd.AddCommand(workspacesDeleteCmd)
	workspacesCmd.AddCommand(workspacesBoardsCmd)
	workspacesCmd.AddCommand(workspacesMembersCmd)
	workspacesCmd.AddCommand(workspacesInviteCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printWorkspaces(w io.Writer, items []domain.Workspace) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMEMBERS")
	for _, ws := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", ws.ID, ws.Name, len(ws.Members))
	}
	_ = tw.Flush()
}

func printMembers(w io.Writer, items []domain.WorkspaceMember) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMEMBER\tNAME\tROLE")
	for _, m := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", m.ID, m.MemberID, m.Name, m.Role)
	}
	_ = tw.Flush()
}

func printNotices(w io.Writer, notices []domain.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}
