package apiclient

import (
	"context"
	"net/http"

	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var res ports.LoginResult
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Signup(ctx context.Context, in ports.SignupInput) error {
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/auth/signup",
		path:   "/auth/signup",
		body:   in,
	}, nil)
}

// GoogleLogin exchanges a Google ID token for a backend session token.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*ports.LoginResult, error) {
	var res ports.LoginResult
	err := c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/auth/google",
		path:   "/auth/google",
		body:   map[string]string{"token": idToken},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/auth/forgot-password",
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email},
	}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	return c.doJSON(ctx, call{
		method: http.MethodPost,
		route:  "/auth/reset-password",
		path:   "/auth/reset-password",
		body:   in,
	}, nil)
}
