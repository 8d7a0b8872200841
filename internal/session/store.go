// Package session keeps the signed-in user on the server and hands the
// browser a signed token naming the record.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"psicocitas-web/internal/models"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session: not found")

// Record is one signed-in session.
type Record struct {
	ID           string             `json:"id"`
	User         models.SessionUser `json:"user"`
	BackendToken string             `json:"token,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	ExpiresAt    time.Time          `json:"expiresAt"`
}

// Expired reports whether the record is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Store persists session records. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Record, error)
}

// payload is the sealed part of a record at rest.
type payload struct {
	User         models.SessionUser `json:"user"`
	BackendToken string             `json:"token,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func sealRecord(s *Sealer, rec *Record) ([]byte, error) {
	raw, err := json.Marshal(payload{User: rec.User, BackendToken: rec.BackendToken, CreatedAt: rec.CreatedAt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return s.Seal(raw), nil
}

func openRecord(s *Sealer, id string, expiresAt time.Time, sealed []byte) (*Record, error) {
	raw, err := s.Open(sealed)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &Record{ID: id, User: p.User, BackendToken: p.BackendToken, CreatedAt: p.CreatedAt, ExpiresAt: expiresAt}, nil
}
