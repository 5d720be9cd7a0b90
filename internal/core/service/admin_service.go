package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

// AdminService backs the ADMIN-only views.
type AdminService struct {
	api      ports.AdminAPI
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewAdminService(api ports.AdminAPI, notifier ports.Notifier, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, notifier: notifier, log: log}
}

// Dashboard collects the platform aggregates.
func (s *AdminService) Dashboard(ctx context.Context) (domain.AdminDashboard, error) {
	var d domain.AdminDashboard
	n, err := s.api.WorkspaceCount(ctx)
	if err != nil {
		return d, s.fail(err, "could not load workspace count")
	}
	d.WorkspaceCount = n

	n, err = s.api.ActiveUserCount(ctx)
	if err != nil {
		return d, s.fail(err, "could not load active user count")
	}
	d.ActiveUserCount = n
	return d, nil
}

func (s *AdminService) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	ws, err := s.api.AllWorkspaces(ctx)
	if err != nil {
		return []domain.Workspace{}, s.fail(err, "could not load workspaces")
	}
	if ws == nil {
		ws = []domain.Workspace{}
	}
	return ws, nil
}

func (s *AdminService) Roles(ctx context.Context) ([]domain.RoleDefinition, error) {
	roles, err := s.api.Roles(ctx)
	if err != nil {
		return []domain.RoleDefinition{}, s.fail(err, "could not load roles")
	}
	if roles == nil {
		roles = []domain.RoleDefinition{}
	}
	return roles, nil
}

// Logs searches the backend log store. Empty filter fields are ignored.
func (s *AdminService) Logs(ctx context.Context, filter domain.LogFilter) ([]domain.LogEntry, error) {
	logs, err := s.api.Logs(ctx, filter)
	if err != nil {
		return []domain.LogEntry{}, s.fail(err, "could not load logs")
	}
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	return logs, nil
}

func (s *AdminService) fail(err error, msg string) error {
	if errors.Is(err, domain.ErrForbidden) {
		msg = "you are not allowed to view this page"
	}
	s.log.Warn().Err(err).Msg(msg)
	s.notifier.Error(msg)
	return err
}
