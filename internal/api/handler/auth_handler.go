package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

// Authenticator is the slice of the auth service the handlers drive.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	GoogleLogin(ctx context.Context, idToken string) (domain.Session, bool, error)
	Signup(ctx context.Context, in ports.SignupInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error
	Logout(ctx context.Context)
}

// HomePath is where a successful login lands.
const HomePath = "/workspaces"

type AuthHandler struct {
	auth   Authenticator
	render *Renderer
}

func NewAuthHandler(auth Authenticator, render *Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, render: render}
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type googleRequest struct {
	Token string `json:"token" form:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

type signupRequest struct {
	Username string `json:"memberName" form:"memberName"`
	Name     string `json:"name"       form:"name"`
	Surname  string `json:"surname"    form:"surname"`
	Email    string `json:"email"      form:"email"`
	Password string `json:"password"   form:"password"`
}

type googleResponse struct {
	IsNewUser bool `json:"isNewUser"`
}

// LoginPage renders the login view.
//
// @Summary      Login view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.render.View(c, http.StatusOK, "login", nil)
}

// Login exchanges credentials for a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  viewResponse
// @Failure      401   {object}  viewResponse
// @Failure      422   {object}  viewResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.failed(c, "login", err)
	}
	c.Set(SessionKey, sess)
	return h.render.Navigate(c, HomePath, "home", nil)
}

// Google exchanges a Google ID token for a session.
//
// @Summary      Login with Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleRequest  true  "Google ID token"
// @Success      200   {object}  viewResponse
// @Failure      401   {object}  viewResponse
// @Router       /auth/google [post]
func (h *AuthHandler) Google(c echo.Context) error {
	var req googleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, isNew, err := h.auth.GoogleLogin(c.Request().Context(), req.Token)
	if err != nil {
		return h.failed(c, "login", err)
	}
	if isNew {
		h.render.Notify().Info("Welcome! Your account has been created.")
	}
	c.Set(SessionKey, sess)
	return h.render.Navigate(c, HomePath, "home", googleResponse{IsNewUser: isNew})
}

// SignupPage renders the registration view.
//
// @Summary      Signup view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return h.render.View(c, http.StatusOK, "signup", nil)
}

// Signup registers a member and sends it to the login view.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration form"
// @Success      201   {object}  viewResponse
// @Failure      409   {object}  viewResponse
// @Failure      422   {object}  viewResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.failed(c, "signup", err)
	}
	h.render.Notify().Info("Account created, you can now log in.")
	if WantsJSON(c) {
		return h.render.View(c, http.StatusCreated, "login", nil)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ForgotPassword asks the backend to send a reset link.
//
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  viewResponse
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return h.failed(c, "forgot-password", err)
	}
	h.render.Notify().Info("If the address is registered, a reset link is on its way.")
	return h.render.View(c, http.StatusOK, "login", nil)
}

// ResetPassword changes the password of the logged-in member.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ResetPasswordInput  true  "Password change"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  viewResponse
// @Router       /me/password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ports.ResetPasswordInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	err := h.auth.ResetPassword(c.Request().Context(), req)
	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	if err != nil {
		return h.failed(c, "account", err)
	}
	h.render.Notify().Info("Password updated.")
	return h.render.View(c, http.StatusOK, "account", nil)
}

// Me renders the current session.
//
// @Summary      Current session
// @Tags         account
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	return h.render.View(c, http.StatusOK, "account", nil)
}

// Logout clears the session and returns to the login view.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context())
	return h.render.Navigate(c, "/login", "login", nil)
}

// NotAuthorized renders the page FORBIDDEN navigations land on.
//
// @Summary      Not authorized view
// @Tags         auth
// @Produce      json
// @Success      403  {object}  viewResponse
// @Router       /not-authorized [get]
func (h *AuthHandler) NotAuthorized(c echo.Context) error {
	return h.render.View(c, http.StatusForbidden, "not-authorized", nil)
}

// failed renders view again with the failure reported as a notification.
func (h *AuthHandler) failed(c echo.Context, view string, err error) error {
	h.render.Notify().Error(authMessage(err))
	return h.render.View(c, Status(err), view, nil)
}

func authMessage(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return "invalid email or password"
	case errors.Is(err, domain.ErrConflict):
		return "this email is already registered"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, domain.ErrNetwork):
		return "the server could not be reached, try again later"
	default:
		return "something went wrong, try again later"
	}
}
