package fakebackend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

func (s *Server) roles(c echo.Context) error {
	return c.JSON(http.StatusOK, []domain.RoleDefinition{
		{ID: AdminRoleID, Name: "ADMIN"},
		{ID: userRoleID, Name: "USER"},
	})
}

func (s *Server) workspaceCount(c echo.Context) error {
	s.mu.Lock()
	n := len(s.workspaces)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, n)
}

func (s *Server) activeUserCount(c echo.Context) error {
	s.mu.Lock()
	n := 0
	for _, m := range s.members {
		if m.Active {
			n++
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (s *Server) allWorkspaces(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := sortedByID(s.workspaces, func(*workspace) bool { return true })
	out := make([]domain.Workspace, len(ws))
	for i, w := range ws {
		out[i] = w.view()
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) searchLogs(c echo.Context) error {
	source := c.QueryParam("source")
	level := c.QueryParam("logLevel")
	memberID, _ := strconv.ParseInt(c.QueryParam("memberId"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LogEntry, 0, len(s.logs))
	for _, l := range s.logs {
		if source != "" && l.Source != source {
			continue
		}
		if level != "" && !strings.EqualFold(l.LogLevel, level) {
			continue
		}
		if memberID != 0 && l.MemberID != memberID {
			continue
		}
		out = append(out, l)
	}
	return c.JSON(http.StatusOK, out)
}
