package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/api/handler"
	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/memory"
)

func newStore(t *testing.T, ready bool, role domain.Role) *service.SessionStore {
	t.Helper()
	store := service.NewSessionStore(memory.New(), zerolog.Nop())
	if !ready {
		return store
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if role != domain.RoleNone {
		if err := store.Login(context.Background(), domain.User{ID: 7, MemberID: 7, Role: role}, "T1"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	return store
}

func run(t *testing.T, store *service.SessionStore, required domain.Role, accept string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Guard(service.NewGuard(store, zerolog.Nop()), required)
	h := mw(func(c echo.Context) error {
		called = true
		if s, ok := c.Get(handler.SessionKey).(domain.Session); !ok || s.Token != "T1" {
			t.Fatalf("session not injected")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGuard_LoadingIsNeutral(t *testing.T) {
	rec, called := run(t, newStore(t, false, domain.RoleNone), domain.RoleNone, echo.MIMETextHTML)

	if called {
		t.Fatalf("next must not run while loading")
	}
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 503 with Retry-After, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "" {
		t.Fatalf("loading must not redirect, got %q", loc)
	}
}

func TestGuard_NoSessionRedirectsToLogin(t *testing.T) {
	rec, called := run(t, newStore(t, true, domain.RoleNone), domain.RoleNone, echo.MIMETextHTML)

	if called {
		t.Fatalf("next not expected")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != service.LoginPath {
		t.Fatalf("expected 303 to login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_NoSessionJSONIs401(t *testing.T) {
	rec, _ := run(t, newStore(t, true, domain.RoleNone), domain.RoleNone, echo.MIMEApplicationJSON)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuard_UserOnAdminRouteForbidden(t *testing.T) {
	store := newStore(t, true, domain.RoleUser)
	rec, called := run(t, store, domain.RoleAdmin, echo.MIMETextHTML)

	if called {
		t.Fatalf("next not expected")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != service.NotAuthorizedPath {
		t.Fatalf("expected 303 to not-authorized, got %d", rec.Code)
	}
	if store.Token() != "T1" {
		t.Fatalf("forbidden must keep the session")
	}
}

func TestGuard_AdminAuthorized(t *testing.T) {
	rec, called := run(t, newStore(t, true, domain.RoleAdmin), domain.Role("admin"), "")

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run, got %d", rec.Code)
	}
}

func TestGuard_AnySessionPasses(t *testing.T) {
	_, called := run(t, newStore(t, true, domain.RoleUser), domain.RoleNone, "")
	if !called {
		t.Fatalf("next not called")
	}
}
