package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/themisai/themis/internal/client/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn exchanges credentials for a token and stores it. The profile is then
// fetched from /auth/me; if that fails the sign-in still succeeds without a
// cached profile.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", normalizeEmail(email))
	form.Set("password", password)

	var tok models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", nil, formBody(form), &tok); err != nil {
		return err
	}

	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	if err := c.store.Save(ctx, tok.AccessToken, nil); err != nil {
		return err
	}

	profile, err := c.Me(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to load profile after sign-in", "err", err)
		return nil
	}
	return c.store.Save(ctx, tok.AccessToken, profile)
}

// Me returns the current user's profile as sent by the server.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	var profile json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SignUp registers an account and stores the returned token and user.
func (c *Client) SignUp(ctx context.Context, r models.SignUpRequest) error {
	q := url.Values{}
	q.Set("full_name", r.FullName)
	q.Set("email", normalizeEmail(r.Email))
	q.Set("password", r.Password)
	q.Set("gender", r.Gender)
	q.Set("date_of_birth", r.DateOfBirth)
	q.Set("line1", r.Line1)
	q.Set("city", r.City)
	q.Set("state", r.State)
	q.Set("postal_code", r.PostalCode)
	q.Set("country", r.Country)

	var tok models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", q, nil, &tok); err != nil {
		return err
	}
	return c.store.Save(ctx, tok.AccessToken, tok.User)
}

// ForgotPassword asks the server to mail a reset link. The server answers the
// same way whether or not the address is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	b, err := jsonBody(map[string]string{"email": normalizeEmail(email)})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, b, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	b, err := jsonBody(map[string]string{"token": token, "new_password": newPassword})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", nil, b, nil)
}
