package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/session"
	"psicocitas-web/internal/utils"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
)

// SessionMiddleware resolves the session cookie on every request. The backend
// token of the session is attached to the request context so upstream calls
// carry it.
func SessionMiddleware(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(m.CookieName())
		rec, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrSealBroken) {
				slog.Error("failed to resolve session", "error", err)
				utils.InternalServerError(c, "No se pudo leer la sesión")
				return
			}
			RejectSession(c)
			return
		}

		c.Set(sessionKey, rec)
		c.Set(userIDKey, rec.User.ID)
		c.Request = c.Request.WithContext(psiapi.WithToken(c.Request.Context(), rec.BackendToken))

		c.Next()
	}
}

// RejectSession sends the client back to the start page: a redirect for
// browser navigation, a 401 carrying the target for API calls.
func RejectSession(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	utils.ErrorWithData(c, http.StatusUnauthorized, "Sesión no válida", utils.RedirectData{Redirect: "/"})
}

// GetSessionFromContext returns the session resolved by SessionMiddleware.
func GetSessionFromContext(c *gin.Context) (*session.Record, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	rec, ok := v.(*session.Record)
	return rec, ok
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
