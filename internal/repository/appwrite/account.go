package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

func (c *Client) CreateSession(ctx context.Context, email, password string) (*model.RemoteSession, error) {
	var session model.RemoteSession
	header, err := c.do(ctx, request{
		op:     "create_session",
		method: http.MethodPost,
		path:   "/account/sessions/email",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
		out:       &session,
		noSession: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Client-side SDK projects only expose the secret through the cookie.
	if session.Secret == "" {
		session.Secret = c.sessionCookie(header)
	}
	if session.Secret == "" {
		return nil, errors.Upstream("remote session carries no secret", nil)
	}
	return &session, nil
}

func (c *Client) sessionCookie(header http.Header) string {
	if header == nil {
		return ""
	}
	name := "a_session_" + c.project
	for _, cookie := range (&http.Response{Header: header}).Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (bool, error) {
	if _, err := c.do(ctx, request{
		op:     "get_session",
		method: http.MethodGet,
		path:   "/account/sessions/" + url.PathEscape(sessionID),
	}); err != nil {
		if errors.HasCode(err, errors.ErrUnauthorized) || errors.HasCode(err, errors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get session: %w", err)
	}
	return true, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := c.do(ctx, request{
		op:     "delete_session",
		method: http.MethodDelete,
		path:   "/account/sessions/" + url.PathEscape(sessionID),
	}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (c *Client) GetCurrentAccount(ctx context.Context) (*model.Account, error) {
	var account model.Account
	if _, err := c.do(ctx, request{
		op:     "get_account",
		method: http.MethodGet,
		path:   "/account",
		out:    &account,
	}); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (c *Client) UpdatePassword(ctx context.Context, newPassword, oldPassword string) error {
	if _, err := c.do(ctx, request{
		op:     "update_password",
		method: http.MethodPatch,
		path:   "/account/password",
		body: map[string]string{
			"password":    newPassword,
			"oldPassword": oldPassword,
		},
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
