package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"psicocitas-web/internal/config"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/utils"
)

// Cookie names besides the session cookie itself.
const (
	BackendTokenCookie = "token"
	PendingCookie      = "psicocitas_pending"
	StateCookie        = "oauth_state"
)

// PendingTTL bounds how long a sign-in may wait for profile completion.
const PendingTTL = 10 * time.Minute

// ErrInvalidToken is returned for tokens that fail signature or expiry checks.
var ErrInvalidToken = errors.New("session: invalid token")

// Pending is a signed-in user who has not completed the profile yet. It only
// ever lives in a cookie.
type Pending struct {
	User         models.SessionUser `json:"user"`
	BackendToken string             `json:"token,omitempty"`
}

// Manager issues and resolves session tokens on top of a Store.
type Manager struct {
	store      Store
	sealer     *Sealer
	secret     string
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

// NewManager creates a manager for cfg.
func NewManager(store Store, sealer *Sealer, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:      store,
		sealer:     sealer,
		secret:     cfg.Secret,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		now:        time.Now,
	}
}

// CookieName is the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// TTL is the lifetime of a session.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Store exposes the underlying store.
func (m *Manager) Store() Store { return m.store }

// Create persists a new session for user and returns its signed token.
func (m *Manager) Create(ctx context.Context, user models.SessionUser, backendToken string) (*Record, string, error) {
	now := m.now()
	rec := &Record{
		ID:           uuid.NewString(),
		User:         user,
		BackendToken: backendToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}
	token, err := utils.SignToken(&utils.SessionClaims{
		SessionID:        rec.ID,
		Role:             user.Rol,
		RegisteredClaims: utils.NewRegisteredClaims(fmt.Sprint(user.ID), m.ttl, now),
	}, m.secret)
	if err != nil {
		return nil, "", err
	}
	return rec, token, nil
}

// Resolve returns the live record named by token.
func (m *Manager) Resolve(ctx context.Context, token string) (*Record, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	claims := &utils.SessionClaims{}
	if err := utils.ValidateToken(token, claims, m.secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return m.store.Get(ctx, claims.SessionID)
}

// Update writes rec back to the store.
func (m *Manager) Update(ctx context.Context, rec *Record) error {
	return m.store.Save(ctx, rec)
}

// Destroy deletes the session named by token. Unknown or invalid tokens are
// not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims := &utils.SessionClaims{}
	if err := utils.ValidateToken(token, claims, m.secret); err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}

// IssuePending seals p into a short-lived token.
func (m *Manager) IssuePending(p Pending) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode pending user: %w", err)
	}
	return utils.SignToken(&utils.PendingClaims{
		Sealed:           base64.RawURLEncoding.EncodeToString(m.sealer.Seal(raw)),
		RegisteredClaims: utils.NewRegisteredClaims(fmt.Sprint(p.User.ID), PendingTTL, m.now()),
	}, m.secret)
}

// ResolvePending opens a token produced by IssuePending.
func (m *Manager) ResolvePending(token string) (*Pending, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	claims := &utils.PendingClaims{}
	if err := utils.ValidateToken(token, claims, m.secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sealed, err := base64.RawURLEncoding.DecodeString(claims.Sealed)
	if err != nil {
		return nil, ErrInvalidToken
	}
	raw, err := m.sealer.Open(sealed)
	if err != nil {
		return nil, err
	}
	var p Pending
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending user: %w", err)
	}
	return &p, nil
}
