package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/middleware"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/profile"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/session"
	"psicocitas-web/internal/utils"
)

// ProfileAPI saves phone and branch upstream.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, update psiapi.ProfileUpdate) (*models.SessionUser, error)
}

// ProfileHandler serves the profile editor.
type ProfileHandler struct {
	Sessions *session.Manager
	Identity ProfileAPI
	cookies  cookieJar
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessions *session.Manager, identity ProfileAPI, secure bool) *ProfileHandler {
	return &ProfileHandler{Sessions: sessions, Identity: identity, cookies: cookieJar{secure: secure}}
}

// ProfileUser is the part of the user the editor shows. Calendar tokens stay
// on the server.
type ProfileUser struct {
	ID       int64       `json:"id"`
	Nombre   string      `json:"nombre"`
	Correo   string      `json:"correo"`
	Foto     string      `json:"foto"`
	Rol      models.Role `json:"rol"`
	Telefono string      `json:"telefono"`
	Sede     string      `json:"sede"`
}

func newProfileUser(u models.SessionUser) ProfileUser {
	return ProfileUser{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Correo:   u.Correo,
		Foto:     u.Header().Foto,
		Rol:      u.Rol,
		Telefono: u.Telefono,
		Sede:     u.Sede,
	}
}

// workingUser is whoever is editing: a pending sign-in or a session.
type workingUser struct {
	user         models.SessionUser
	backendToken string
	record       *session.Record
}

func (h *ProfileHandler) resolve(c *gin.Context) (*workingUser, bool) {
	if token, err := c.Cookie(session.PendingCookie); err == nil && token != "" {
		pending, err := h.Sessions.ResolvePending(token)
		if err == nil {
			return &workingUser{user: pending.User, backendToken: pending.BackendToken}, true
		}
		h.cookies.clear(c, session.PendingCookie)
	}
	if token, err := c.Cookie(h.Sessions.CookieName()); err == nil && token != "" {
		rec, err := h.Sessions.Resolve(c.Request.Context(), token)
		if err == nil {
			return &workingUser{user: rec.User, backendToken: rec.BackendToken, record: rec}, true
		}
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrInvalidToken) {
			slog.Error("failed to resolve session", "error", err)
		}
	}
	middleware.RejectSession(c)
	return nil, false
}

// GetProfile returns the user, the branch list and the initial editor state.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	w, ok := h.resolve(c)
	if !ok {
		return
	}
	initial := profile.Initial(w.user)
	utils.Success(c, "Perfil", gin.H{
		"user":  newProfileUser(w.user),
		"sedes": models.Sedes,
		"state": profile.Evaluate(initial, initial),
	})
}

// EvaluateProfile reports whether the posted form may be saved.
func (h *ProfileHandler) EvaluateProfile(c *gin.Context) {
	w, ok := h.resolve(c)
	if !ok {
		return
	}
	var form profile.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	utils.Success(c, "Estado del perfil", profile.Evaluate(profile.Initial(w.user), form))
}

// UpdateProfile saves phone and branch and turns a pending sign-in into a
// session.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	w, ok := h.resolve(c)
	if !ok {
		return
	}
	var form profile.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	form = form.Normalize()
	initial := profile.Initial(w.user)
	if err := profile.Check(initial, form); err != nil {
		utils.ErrorWithData(c, http.StatusBadRequest, err.Error(), profile.Evaluate(initial, form))
		return
	}

	ctx := psiapi.WithToken(c.Request.Context(), w.backendToken)
	updated, err := h.Identity.UpdateProfile(ctx, psiapi.ProfileUpdate{
		ID:       w.user.ID,
		Telefono: form.Telefono,
		Sede:     form.Sede,
		Rol:      w.user.Rol,
	})
	if err != nil {
		slog.Error("failed to update profile", "user", w.user.ID, "error", err)
		utils.BadGateway(c, psiapi.Message(err, "Error al actualizar perfil"))
		return
	}

	user := w.user
	user.Merge(models.SessionUser{Telefono: form.Telefono, Sede: form.Sede})
	if updated != nil {
		user.Merge(*updated)
	}

	if w.record != nil {
		w.record.User = user
		err = h.Sessions.Update(ctx, w.record)
	} else {
		_, err = startSession(ctx, c, h.Sessions, h.cookies, user, w.backendToken)
		h.cookies.clear(c, session.PendingCookie)
	}
	if err != nil {
		slog.Error("failed to save session", "user", user.ID, "error", err)
		utils.InternalServerError(c, "No se pudo guardar la sesión")
		return
	}

	utils.Success(c, "Perfil actualizado", gin.H{
		"redirect": "/dashboard",
		"user":     newProfileUser(user),
	})
}
