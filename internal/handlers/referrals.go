package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/attention"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/utils"
)

// ReferralHandler serves walk-in referrals: student lookup and registration
// of an appointment attended on the spot.
type ReferralHandler struct {
	Service *attention.Service
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(svc *attention.Service) *ReferralHandler {
	return &ReferralHandler{Service: svc}
}

// StudentResult is a looked-up student with the referral form it unlocks.
type StudentResult struct {
	Estudiante *models.Estudiante `json:"estudiante"`
	Edad       *int               `json:"edad,omitempty"`
	View       attention.View     `json:"view"`
}

func (h *ReferralHandler) studentResult(est *models.Estudiante) StudentResult {
	res := StudentResult{
		Estudiante: est,
		View:       h.Service.EvaluateReferral(attention.Form{Estudiante: est}),
	}
	if age := est.Age(h.Service.Today()); age >= 0 {
		res.Edad = &age
	}
	return res
}

// SearchStudent looks a student up by ?codigo=.
func (h *ReferralHandler) SearchStudent(c *gin.Context) {
	unresolved := h.Service.EvaluateReferral(attention.Form{})
	est, err := h.Service.SearchStudent(c.Request.Context(), c.Query("codigo"))
	if err != nil {
		if errors.Is(err, attention.ErrStudentCode) {
			utils.ErrorWithData(c, http.StatusBadRequest, err.Error(), unresolved)
			return
		}
		if !errors.Is(err, psiapi.ErrNotFound) {
			slog.Error("student search failed", "error", err)
		}
		utils.ErrorWithData(c, http.StatusNotFound, psiapi.Message(err, "Error al buscar estudiante"), unresolved)
		return
	}
	utils.Success(c, "Estudiante encontrado", h.studentResult(est))
}

// CreateStudent registers a student the backend does not know yet.
func (h *ReferralHandler) CreateStudent(c *gin.Context) {
	var req models.CreateEstudianteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	est, err := h.Service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		slog.Error("failed to create student", "codigo", req.Codigo, "error", err)
		utils.BadGateway(c, psiapi.Message(err, "Error al registrar estudiante"))
		return
	}
	utils.Created(c, "Estudiante registrado", h.studentResult(est))
}

// EvaluateReferral evaluates a posted referral form without saving it.
func (h *ReferralHandler) EvaluateReferral(c *gin.Context) {
	var form attention.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	utils.Success(c, "Estado del formulario", h.Service.EvaluateReferral(form))
}

// SubmitReferral registers the walk-in appointment and its attention.
func (h *ReferralHandler) SubmitReferral(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	var form attention.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	message, cita, err := h.Service.SubmitReferral(c.Request.Context(), rec.User.ID, form)
	if err != nil {
		submitError(c, err, "Error al registrar la cita de derivación y la atención.")
		return
	}
	utils.Created(c, message, gin.H{"cita": cita, "redirect": "/dashboard"})
}
