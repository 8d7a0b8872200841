package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"psicocitas-web/internal/dashboard"
	"psicocitas-web/internal/psiapi"
	"psicocitas-web/internal/utils"
)

// DashboardHandler serves the day view and its live stream.
type DashboardHandler struct {
	Service  *dashboard.Service
	Loc      *time.Location
	Interval time.Duration
	Timeout  time.Duration
}

// NewDashboardHandler creates a new DashboardHandler that polls every interval.
func NewDashboardHandler(svc *dashboard.Service, loc *time.Location, interval, timeout time.Duration) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{Service: svc, Loc: loc, Interval: interval, Timeout: timeout}
}

// day reads ?fecha=YYYY-MM-DD, defaulting to today in the configured zone.
func (h *DashboardHandler) day(c *gin.Context) (time.Time, bool) {
	fecha := c.Query("fecha")
	if fecha == "" {
		now := time.Now().In(h.Loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	day, err := time.Parse(dashboard.DateLayout, fecha)
	if err != nil {
		utils.BadRequest(c, "Fecha inválida")
		return time.Time{}, false
	}
	return day, true
}

// GetDay lists the appointments of the signed-in professional for a day.
func (h *DashboardHandler) GetDay(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	day, ok := h.day(c)
	if !ok {
		return
	}
	view, err := h.Service.Day(c.Request.Context(), rec.User.ID, day)
	if err != nil {
		slog.Error("failed to load dashboard", "psicologo", rec.User.ID, "error", err)
		utils.BadGateway(c, psiapi.Message(err, "Error al cargar las citas"))
		return
	}
	utils.Success(c, "Citas del día", view)
}

// Stream pushes a "citas" event whenever the poller has a fresh day view.
// The poller stops when the client goes away.
func (h *DashboardHandler) Stream(c *gin.Context) {
	rec, ok := sessionRecord(c)
	if !ok {
		return
	}
	day, ok := h.day(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	updates, handle := h.Service.Watch(ctx, rec.User.ID, day, h.Interval, h.Timeout)
	defer handle.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case view, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("citas", view)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
