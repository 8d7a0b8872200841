package psiapi

import (
	"context"
	"net/http"

	"psicocitas-web/internal/models"
)

// SignInResult is the identity API's answer to a Google sign-in.
type SignInResult struct {
	Token   string             `json:"token"`
	Usuario models.SessionUser `json:"usuario"`
}

// RefreshResult carries a renewed calendar access token.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
	ExpiryDate  int64  `json:"expiry_date"`
}

// ProfileUpdate is the body of PUT /update-profile.
type ProfileUpdate struct {
	ID       int64       `json:"id"`
	Telefono string      `json:"telefono"`
	Sede     string      `json:"sede"`
	Rol      models.Role `json:"rol"`
}

// GoogleSignIn exchanges a Google authorization code for a user record.
func (c *Client) GoogleSignIn(ctx context.Context, code string) (*SignInResult, error) {
	var out SignInResult
	if err := c.do(ctx, http.MethodPost, c.identityURL, "/google-signin", nil, map[string]string{"code": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshTokens renews a calendar access token.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	var out RefreshResult
	if err := c.do(ctx, http.MethodPost, c.identityURL, "/refresh-tokens", nil, map[string]string{"refreshToken": refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile saves phone and branch. It returns the updated user when the
// backend sends one, either wrapped in "usuario" or at the top level, and nil
// when the body is empty.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.SessionUser, error) {
	var out struct {
		Usuario *models.SessionUser `json:"usuario"`
		models.SessionUser
	}
	if err := c.do(ctx, http.MethodPut, c.identityURL, "/update-profile", nil, update, &out); err != nil {
		return nil, err
	}
	if out.Usuario != nil {
		return out.Usuario, nil
	}
	if out.SessionUser != (models.SessionUser{}) {
		return &out.SessionUser, nil
	}
	return nil, nil
}
