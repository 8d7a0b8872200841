package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/middleware"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/session"
)

// cookieJar writes the application's cookies with a single policy.
type cookieJar struct {
	secure bool
}

func (j cookieJar) set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge/time.Second), "/", "", j.secure, true)
}

func (j cookieJar) clear(c *gin.Context, names ...string) {
	c.SetSameSite(http.SameSiteLaxMode)
	for _, name := range names {
		c.SetCookie(name, "", -1, "/", "", j.secure, true)
	}
}

// startSession persists a session for user and sets the session and backend
// token cookies.
func startSession(ctx context.Context, c *gin.Context, m *session.Manager, jar cookieJar, user models.SessionUser, backendToken string) (*session.Record, error) {
	rec, token, err := m.Create(ctx, user, backendToken)
	if err != nil {
		return nil, err
	}
	jar.set(c, m.CookieName(), token, m.TTL())
	if backendToken != "" {
		jar.set(c, session.BackendTokenCookie, backendToken, m.TTL())
	}
	return rec, nil
}

// signedIn reports whether the request carries a live session.
func signedIn(c *gin.Context, m *session.Manager) bool {
	token, err := c.Cookie(m.CookieName())
	if err != nil || token == "" {
		return false
	}
	_, err = m.Resolve(c.Request.Context(), token)
	return err == nil
}

// sessionRecord returns the session resolved by the middleware, rejecting the
// request when there is none.
func sessionRecord(c *gin.Context) (*session.Record, bool) {
	rec, ok := middleware.GetSessionFromContext(c)
	if !ok {
		middleware.RejectSession(c)
	}
	return rec, ok
}
