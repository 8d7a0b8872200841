package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Horario is an available slot for a follow-up appointment.
type Horario struct {
	ID              string `json:"id"`
	Hora            string `json:"hora"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
}

// NewHorario builds a slot with the derived id "<psicologoId>-<hora>".
func NewHorario(psicologoID int64, hora string) Horario {
	return Horario{ID: fmt.Sprintf("%d-%s", psicologoID, hora), Hora: hora}
}

// Hour returns the hour component of Hora, or -1 if it cannot be read.
func (h Horario) Hour() int {
	part, _, _ := strings.Cut(h.Hora, ":")
	n, err := strconv.Atoi(strings.TrimSpace(part))
	if err != nil {
		return -1
	}
	return n
}

// Morning reports whether the slot starts before noon.
func (h Horario) Morning() bool {
	hour := h.Hour()
	return hour >= 0 && hour < 12
}
