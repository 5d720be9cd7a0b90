package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func TestAuthService_Login_Success(t *testing.T) {
	store := newReadyStore(t)
	api := &stubAuthAPI{loginRes: &ports.LoginResult{Token: "T1", RoleID: 1, MemberID: 7}}
	svc := NewAuthService(api, store, zerolog.Nop())

	sess, err := svc.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.Token != "T1" {
		t.Fatalf("unexpected token %q", sess.Token)
	}
	if sess.Role() != domain.RoleAdmin {
		t.Fatalf("roleId 1 should map to ADMIN, got %q", sess.Role())
	}
	if sess.User.MemberID != 7 || sess.User.ID != 7 || sess.User.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if store.Token() != "T1" {
		t.Fatalf("session store not updated")
	}
}

func TestAuthService_Login_NonAdminRoleID(t *testing.T) {
	store := newReadyStore(t)
	api := &stubAuthAPI{loginRes: &ports.LoginResult{Token: "T2", RoleID: 2, MemberID: 8}}
	svc := NewAuthService(api, store, zerolog.Nop())

	sess, err := svc.Login(context.Background(), "u@b.com", "x")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.Role() != domain.RoleUser {
		t.Fatalf("expected USER, got %q", sess.Role())
	}
}

func TestAuthService_Login_InvalidEmailNoNetwork(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewAuthService(api, newReadyStore(t), zerolog.Nop())

	if _, err := svc.Login(context.Background(), "not-an-email", "x"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("no request should have been made")
	}
}

func TestAuthService_Login_BackendRejects(t *testing.T) {
	store := newReadyStore(t)
	api := &stubAuthAPI{err: &domain.APIError{Status: 401, Message: "bad credentials"}}
	svc := NewAuthService(api, store, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "a@b.com", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("no session expected after a rejected login")
	}
}

func TestAuthService_Login_EmptyTokenIsServerError(t *testing.T) {
	store := newReadyStore(t)
	api := &stubAuthAPI{loginRes: &ports.LoginResult{RoleID: 2, MemberID: 8}}
	svc := NewAuthService(api, store, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "a@b.com", "x"); !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("a token-less response must not create a session")
	}
}

func TestAuthService_GoogleLogin_ReportsNewUser(t *testing.T) {
	store := newReadyStore(t)
	api := &stubAuthAPI{googleRes: &ports.LoginResult{Token: "G1", RoleID: 2, MemberID: 9, IsNewUser: true}}
	svc := NewAuthService(api, store, zerolog.Nop())

	sess, isNew, err := svc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("GoogleLogin returned error: %v", err)
	}
	if !isNew || sess.Token != "G1" || sess.Role() != domain.RoleUser {
		t.Fatalf("unexpected result: isNew=%v sess=%+v", isNew, sess)
	}
}

func TestAuthService_Signup_WeakPasswordRejected(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewAuthService(api, newReadyStore(t), zerolog.Nop())

	err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "ann", Name: "Ann", Surname: "Lee", Email: "ann@example.com", Password: "password",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["password"] == "" {
		t.Fatalf("expected a password message, got %v", ve.Fields)
	}
	if api.calls != 0 {
		t.Fatalf("no request should have been made")
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	api := &stubAuthAPI{}
	store := newReadyStore(t)
	svc := NewAuthService(api, store, zerolog.Nop())

	err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "ann", Name: "Ann", Surname: "Lee", Email: "ann@example.com", Password: "Passw0rd",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if len(api.signups) != 1 {
		t.Fatalf("expected one signup call")
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("signup must not log in")
	}
}

func TestAuthService_ResetPassword_RequiresSession(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewAuthService(api, newReadyStore(t), zerolog.Nop())

	err := svc.ResetPassword(context.Background(), ports.ResetPasswordInput{
		CurrentPassword: "Old1pass", NewPassword: "New1pass", ConfirmPassword: "New1pass",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ResetPassword_MismatchRejected(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewAuthService(api, loggedInStore(t, domain.RoleUser, 1), zerolog.Nop())

	err := svc.ResetPassword(context.Background(), ports.ResetPasswordInput{
		CurrentPassword: "Old1pass", NewPassword: "New1pass", ConfirmPassword: "New2pass",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if api.resetCalls != 0 {
		t.Fatalf("no request should have been made")
	}
}

func TestAuthService_Logout(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 1)
	svc := NewAuthService(&stubAuthAPI{}, store, zerolog.Nop())

	svc.Logout(context.Background())
	if store.Snapshot().Authenticated() {
		t.Fatalf("session should be cleared")
	}
}
