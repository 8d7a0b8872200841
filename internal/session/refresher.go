package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"psicocitas-web/internal/jobs"
	"psicocitas-web/internal/metrics"
	"psicocitas-web/internal/psiapi"
)

// TokenRefresher renews calendar access tokens.
type TokenRefresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*psiapi.RefreshResult, error)
}

// Refresher keeps the calendar tokens of every live session fresh.
type Refresher struct {
	store Store
	api   TokenRefresher
}

// NewRefresher creates a refresher over store.
func NewRefresher(store Store, api TokenRefresher) *Refresher {
	return &Refresher{store: store, api: api}
}

// RefreshAll refreshes each session once. Failures are logged per session
// and never remove the session.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	records, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.refresh(ctx, rec)
	}
	return nil
}

func (r *Refresher) refresh(ctx context.Context, rec *Record) {
	if rec.User.RefreshToken == "" {
		metrics.TokenRefreshes.WithLabelValues("skipped").Inc()
		slog.Warn("session has no refresh token", "session", rec.ID, "user", rec.User.ID)
		return
	}
	res, err := r.api.RefreshTokens(psiapi.WithToken(ctx, rec.BackendToken), rec.User.RefreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		slog.Error("token refresh failed", "session", rec.ID, "error", err)
		return
	}

	// The user may have signed out while the request was in flight.
	current, err := r.store.Get(ctx, rec.ID)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("token refresh reload failed", "session", rec.ID, "error", err)
		return
	}
	current.User.CalendarAccessToken = res.AccessToken
	current.User.CalendarTokenExpiry = res.ExpiryDate
	if err := r.store.Save(ctx, current); err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		slog.Error("token refresh save failed", "session", rec.ID, "error", err)
		return
	}
	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
}

// Task wraps RefreshAll as a periodic job.
func (r *Refresher) Task(interval, timeout time.Duration) jobs.Task {
	return jobs.Task{
		Name:     "token-refresh",
		Interval: interval,
		Timeout:  timeout,
		Run:      r.RefreshAll,
	}
}
