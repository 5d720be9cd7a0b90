package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/memory"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestGuard_LoadingBeforeInit(t *testing.T) {
	store := NewSessionStore(memory.New(), zerolog.Nop())
	g := NewGuard(store, zerolog.Nop())

	d := g.Evaluate(context.Background(), domain.RoleNone)
	if d.State != StateLoading || d.Redirect != "" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestGuard_NoTokenRedirectsToLogin(t *testing.T) {
	g := NewGuard(newReadyStore(t), zerolog.Nop())

	d := g.Evaluate(context.Background(), domain.RoleNone)
	if d.State != StateUnauthorized || d.Redirect != LoginPath {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestGuard_AuthorizedWithoutRoleRequirement(t *testing.T) {
	g := NewGuard(loggedInStore(t, domain.RoleUser, 7), zerolog.Nop())

	d := g.Evaluate(context.Background(), domain.RoleNone)
	if d.State != StateAuthorized {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if d.Session.User == nil || d.Session.User.MemberID != 7 {
		t.Fatalf("decision should carry the session, got %+v", d.Session)
	}
}

func TestGuard_UserOnAdminRouteIsForbidden(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	g := NewGuard(store, zerolog.Nop())

	d := g.Evaluate(context.Background(), domain.RoleAdmin)
	if d.State != StateForbidden || d.Redirect != NotAuthorizedPath {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatalf("forbidden must not clear the session")
	}
}

func TestGuard_RoleMatchIgnoresCase(t *testing.T) {
	g := NewGuard(loggedInStore(t, "admin", 1), zerolog.Nop())

	if d := g.Evaluate(context.Background(), "Admin"); d.State != StateAuthorized {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestGuard_TokenOnlySessionIsForbiddenOnRoleRoutes(t *testing.T) {
	storage := memory.New()
	_ = storage.Save(context.Background(), map[string]string{TokenKey: "T1", UserKey: "garbage"})
	store := NewSessionStore(storage, zerolog.Nop())
	_ = store.Init(context.Background())
	g := NewGuard(store, zerolog.Nop())

	if d := g.Evaluate(context.Background(), domain.RoleNone); d.State != StateAuthorized {
		t.Fatalf("token-only session should pass unrestricted routes, got %+v", d)
	}
	if d := g.Evaluate(context.Background(), domain.RoleUser); d.State != StateForbidden {
		t.Fatalf("token-only session should fail role routes, got %+v", d)
	}
}

func TestGuard_ExpiredJWTLogsOut(t *testing.T) {
	store := newReadyStore(t)
	_ = store.Login(context.Background(), domain.User{ID: 1, Role: domain.RoleUser}, signedToken(t, time.Now().Add(-time.Minute)))
	g := NewGuard(store, zerolog.Nop())

	d := g.Evaluate(context.Background(), domain.RoleNone)
	if d.State != StateUnauthorized || d.Redirect != LoginPath {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if store.Token() != "" {
		t.Fatalf("expired session should be cleared")
	}
}

func TestGuard_ValidJWTPasses(t *testing.T) {
	store := newReadyStore(t)
	_ = store.Login(context.Background(), domain.User{ID: 1, Role: domain.RoleUser}, signedToken(t, time.Now().Add(time.Hour)))
	g := NewGuard(store, zerolog.Nop())

	if d := g.Evaluate(context.Background(), domain.RoleUser); d.State != StateAuthorized {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	if _, ok := TokenExpiry("T1"); ok {
		t.Fatalf("opaque token should have no expiry")
	}
}

func TestExpiryWatcher_Check(t *testing.T) {
	store := newReadyStore(t)
	w := NewExpiryWatcher(store, zerolog.Nop())

	if w.Check(context.Background()) {
		t.Fatalf("nothing to clear without a session")
	}

	_ = store.Login(context.Background(), domain.User{ID: 1, Role: domain.RoleUser}, signedToken(t, time.Now().Add(time.Hour)))
	if w.Check(context.Background()) {
		t.Fatalf("live token must be kept")
	}

	w.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if !w.Check(context.Background()) {
		t.Fatalf("expired token should be cleared")
	}
	if store.Token() != "" {
		t.Fatalf("session should be empty")
	}
}

func TestExpiryWatcher_ScheduleRejectsNonPositive(t *testing.T) {
	w := NewExpiryWatcher(newReadyStore(t), zerolog.Nop())
	if _, err := w.Schedule(0); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := w.Schedule(time.Minute); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
}
