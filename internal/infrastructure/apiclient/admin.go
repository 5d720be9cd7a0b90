package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

// count accepts either a bare number or {"count": n}.
func (c *Client) count(ctx context.Context, route string) (int64, error) {
	data, err := c.send(ctx, call{method: http.MethodGet, route: route, path: route})
	if err != nil {
		return 0, err
	}
	if n, perr := strconv.ParseInt(string(bytes.TrimSpace(data)), 10, 64); perr == nil {
		return n, nil
	}
	var env struct {
		Count int64 `json:"count"`
	}
	if err := sonic.Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("%w: decode %s: %v", domain.ErrServer, route, err)
	}
	return env.Count, nil
}

func (c *Client) WorkspaceCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/admin/workspaces/count")
}

func (c *Client) ActiveUserCount(ctx context.Context) (int64, error) {
	return c.count(ctx, "/admin/users/active/count")
}

func (c *Client) AllWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	return getList[domain.Workspace](ctx, c, call{
		method: http.MethodGet,
		route:  "/admin/workspaces",
		path:   "/admin/workspaces",
	})
}

func (c *Client) Roles(ctx context.Context) ([]domain.RoleDefinition, error) {
	return getList[domain.RoleDefinition](ctx, c, call{
		method: http.MethodGet,
		route:  "/roles",
		path:   "/roles",
	})
}

// Logs omits empty filter fields from the query string.
func (c *Client) Logs(ctx context.Context, f domain.LogFilter) ([]domain.LogEntry, error) {
	q := url.Values{}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if f.LogLevel != "" {
		q.Set("logLevel", f.LogLevel)
	}
	if f.MemberID != 0 {
		q.Set("memberId", strconv.FormatInt(f.MemberID, 10))
	}
	return getList[domain.LogEntry](ctx, c, call{
		method: http.MethodGet,
		route:  "/logs",
		path:   "/logs",
		query:  q,
	})
}
