package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/validation"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type emailForm struct {
	Email string `validate:"required,email"`
}

// AuthService implements login, registration and logout on top of the
// backend auth endpoints and the Session Store.
type AuthService struct {
	api     ports.AuthAPI
	session *SessionStore
	log     zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, session *SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, session: session, log: log}
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if err := validation.Struct(validate, loginForm{Email: email, Password: password}); err != nil {
		return domain.Session{}, err
	}
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if res.Email == "" {
		res.Email = email
	}
	return s.establish(ctx, res)
}

// GoogleLogin exchanges a Google ID token for a session. isNew reports a
// first-time sign in.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (sess domain.Session, isNew bool, err error) {
	if idToken == "" {
		return domain.Session{}, false, domain.NewValidationError("token is required", map[string]string{"token": "token is required"})
	}
	res, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return domain.Session{}, false, err
	}
	sess, err = s.establish(ctx, res)
	return sess, res.IsNewUser, err
}

// Signup registers a new member. It does not log in.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) error {
	if err := validation.Struct(validate, in); err != nil {
		return err
	}
	return s.api.Signup(ctx, in)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := validation.Struct(validate, emailForm{Email: email}); err != nil {
		return err
	}
	return s.api.ForgotPassword(ctx, email)
}

// ResetPassword changes the password of the logged-in member.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if s.session.Token() == "" {
		return fmt.Errorf("reset password: %w", domain.ErrUnauthorized)
	}
	if err := validation.Struct(validate, in); err != nil {
		return err
	}
	return s.api.ResetPassword(ctx, in)
}

// Logout clears the local session. There is no server call.
func (s *AuthService) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

func (s *AuthService) establish(ctx context.Context, res *ports.LoginResult) (domain.Session, error) {
	if res == nil || res.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: login response carries no token", domain.ErrServer)
	}
	id := res.UserID
	if id == 0 {
		id = res.MemberID
	}
	user := domain.User{
		ID:       id,
		Email:    res.Email,
		Role:     domain.RoleFromID(res.RoleID),
		MemberID: res.MemberID,
	}
	if err := s.session.Login(ctx, user, res.Token); err != nil {
		// The in-memory session is active; only persistence failed.
		s.log.Warn().Err(err).Msg("session not persisted, it will not survive a restart")
	}
	s.log.Info().Int64("member_id", user.MemberID).Str("role", user.Role.String()).Msg("logged in")
	return s.session.Snapshot(), nil
}
