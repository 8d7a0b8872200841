package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/attention"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/utils"
)

// AppointmentHandler serves the appointment detail and its attention form.
type AppointmentHandler struct {
	Service *attention.Service
	Slots   *attention.SlotFinder
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *attention.Service, slots *attention.SlotFinder) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Slots: slots}
}

func citaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequest(c, "ID de cita inválido")
		return 0, false
	}
	return id, true
}

// submitError maps a failed submission: gate failures are the user's to fix,
// anything else came from upstream.
func submitError(c *gin.Context, err error, fallback string) {
	var verr *attention.ValidationError
	switch {
	case errors.Is(err, attention.ErrSlotRequired):
		utils.BadRequest(c, err.Error())
	case errors.As(err, &verr):
		utils.ErrorWithData(c, http.StatusBadRequest, "Complete los campos obligatorios", verr.View)
	default:
		slog.Error("attention submit failed", "error", err)
		utils.BadGateway(c, fallback)
	}
}

// GetAppointment returns the appointment with its prefilled form.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	id, ok := citaID(c)
	if !ok {
		return
	}
	detail, err := h.Service.Load(c.Request.Context(), id, rec.User.ID)
	if err != nil {
		if errors.Is(err, psiapi.ErrNotFound) {
			utils.NotFound(c, "Cita no encontrada")
			return
		}
		slog.Error("failed to load cita", "cita", id, "error", err)
		utils.BadGateway(c, psiapi.Message(err, "Error al cargar la cita"))
		return
	}
	utils.Success(c, "Detalle de la cita", detail)
}

// EvaluateAppointment evaluates a posted form without saving it.
func (h *AppointmentHandler) EvaluateAppointment(c *gin.Context) {
	id, ok := citaID(c)
	if !ok {
		return
	}
	var form attention.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	utils.Success(c, "Estado del formulario", h.Service.EvaluateScheduled(c.Request.Context(), id, form))
}

// SubmitAttention saves the attention of a scheduled appointment.
func (h *AppointmentHandler) SubmitAttention(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	id, ok := citaID(c)
	if !ok {
		return
	}
	var form attention.Form
	if !utils.BindAndValidate(c, &form) {
		return
	}
	message, err := h.Service.SubmitScheduled(c.Request.Context(), id, rec.User.ID, form)
	if errors.Is(err, attention.ErrCitaNotFound) {
		utils.NotFound(c, attention.ErrCitaNotFound.Error())
		return
	}
	if err != nil {
		submitError(c, err, "Error al actualizar la cita. Verifique los datos.")
		return
	}
	utils.Navigate(c, message, "/dashboard")
}

// GetSlots lists the free hours of the signed-in professional for ?fecha=.
func (h *AppointmentHandler) GetSlots(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	fecha := c.Query("fecha")
	if _, ok := models.ParseDay(fecha); !ok || len(fecha) != len("2006-01-02") {
		utils.BadRequest(c, "Fecha inválida")
		return
	}
	buckets, err := h.Slots.Find(c.Request.Context(), rec.User.ID, fecha)
	if err != nil {
		if errors.Is(err, attention.ErrSuperseded) {
			utils.Conflict(c, "La consulta de horarios fue reemplazada por una más reciente")
			return
		}
		utils.BadGateway(c, "Error al cargar los horarios")
		return
	}
	utils.Success(c, "Horarios disponibles", buckets)
}
