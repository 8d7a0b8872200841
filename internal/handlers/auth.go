package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/session"
	"psicocitas-web/internal/utils"
)

// stateTTL bounds the time between the consent redirect and the callback.
const stateTTL = 10 * time.Minute

// SignInAPI exchanges Google authorization codes for users.
type SignInAPI interface {
	GoogleSignIn(ctx context.Context, code string) (*psiapi.SignInResult, error)
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Sessions *session.Manager
	Flow     *session.LoginFlow
	Identity SignInAPI
	cookies  cookieJar
}

// NewAuthHandler creates a new AuthHandler. secure marks cookies Secure.
func NewAuthHandler(sessions *session.Manager, flow *session.LoginFlow, identity SignInAPI, secure bool) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Flow: flow, Identity: identity, cookies: cookieJar{secure: secure}}
}

// Root sends signed-in users to the dashboard and everyone else to login.
func (h *AuthHandler) Root(c *gin.Context) {
	if signedIn(c, h.Sessions) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Login starts the Google consent flow.
func (h *AuthHandler) Login(c *gin.Context) {
	if signedIn(c, h.Sessions) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	state := session.NewState()
	h.cookies.set(c, session.StateCookie, state, stateTTL)
	c.Redirect(http.StatusFound, h.Flow.AuthURL(state))
}

// Callback completes the sign-in. Users with an incomplete profile are held
// in the pending cookie until they save it.
func (h *AuthHandler) Callback(c *gin.Context) {
	expected, _ := c.Cookie(session.StateCookie)
	h.cookies.clear(c, session.StateCookie)
	if expected == "" || expected != c.Query("state") {
		utils.BadRequest(c, "Estado de autenticación inválido")
		return
	}
	if c.Query("error") != "" {
		utils.Unauthorized(c, "Fallo en la autenticación con Google.")
		return
	}
	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "Falta el código de autorización")
		return
	}

	ctx := c.Request.Context()
	result, err := h.Identity.GoogleSignIn(ctx, code)
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		utils.Unauthorized(c, psiapi.Message(err, "Error al iniciar sesión. Por favor, inténtalo nuevamente."))
		return
	}

	if result.Usuario.NeedsProfile() {
		token, err := h.Sessions.IssuePending(session.Pending{User: result.Usuario, BackendToken: result.Token})
		if err != nil {
			utils.InternalServerError(c, "No se pudo iniciar la sesión")
			return
		}
		h.cookies.set(c, session.PendingCookie, token, session.PendingTTL)
		c.Redirect(http.StatusFound, "/edit-profile")
		return
	}

	if _, err := startSession(ctx, c, h.Sessions, h.cookies, result.Usuario, result.Token); err != nil {
		slog.Error("failed to start session", "user", result.Usuario.ID, "error", err)
		utils.InternalServerError(c, "No se pudo iniciar la sesión")
		return
	}
	slog.Info("user signed in", "user", result.Usuario.ID, "rol", result.Usuario.Rol)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout deletes the session and expires every cookie the app set.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.Sessions.CookieName()); err == nil {
		if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}
	h.cookies.clear(c, h.Sessions.CookieName(), session.BackendTokenCookie, session.PendingCookie)
	utils.Success(c, "Sesión cerrada", utils.RedirectData{Redirect: "/", Reload: true})
}

// Session returns the header data of the signed-in user.
func (h *AuthHandler) Session(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	utils.Success(c, "Sesión activa", rec.User.Header())
}
