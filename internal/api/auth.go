package api

import (
	"context"

	"github.com/jewelcca/storefront/internal/domain"
	"github.com/jewelcca/storefront/pkg/validator"
)

// LoginInput is the credentials payload for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// authResponse is returned by login and register.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates and stores the resulting credentials in the session.
func (c *Client) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.post(ctx, "/auth/login", in, &resp); err != nil {
		return nil, err
	}

	c.session.SetCredentials(resp.Token, resp.User)
	return resp.User, nil
}

// Register creates an account and logs the new user in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.post(ctx, "/auth/register", in, &resp); err != nil {
		return nil, err
	}

	c.session.SetCredentials(resp.Token, resp.User)
	return resp.User, nil
}

// Logout drops the local session. The backend token is stateless so no
// server-side call is made.
func (c *Client) Logout() {
	c.session.Clear()
}

// ForgotPassword requests a password reset email for the given address. The
// backend responds identically whether or not the account exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword completes a reset using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	return c.post(ctx, "/auth/reset-password", body, nil)
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{"currentPassword": current, "newPassword": updated}
	return c.post(ctx, "/auth/change-password", body, nil)
}
