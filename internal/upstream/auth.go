package upstream

import (
	"context"
	"net/http"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// Login forwards credentials to the upstream auth service.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var result models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup registers a new account upstream.
func (c *Client) Signup(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var result models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, creds, &result, nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var pair models.TokenPair
	if err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", nil, body, &pair, nil); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout revokes the session's tokens upstream. Revocation failures are the
// upstream's problem; the local session is cleared either way.
func (c *Client) Logout(ctx context.Context, ts TokenSource) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, ts)
}

// ForgotPassword triggers a password reset email for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, body, nil, nil)
}

// ChangePassword changes the authenticated visitor's password.
func (c *Client) ChangePassword(ctx context.Context, ts TokenSource, oldPassword, newPassword string) error {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, body, nil, ts)
}
