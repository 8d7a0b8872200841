package models

import (
	"strings"
	"time"
)

// Estado represents the status of an appointment
type Estado string

const (
	EstadoPendiente    Estado = "pendiente"
	EstadoAtendida     Estado = "atendida"
	EstadoNoAsistio    Estado = "no_asistio"
	EstadoCancelada    Estado = "cancelada"
	EstadoReprogramada Estado = "reprogramada"
)

// AtencionCita is the attention record attached to an attended appointment.
type AtencionCita struct {
	AreaDerivacion        string `json:"areaDerivacion,omitempty"`
	DiagnosticoPresuntivo string `json:"diagnosticoPresuntivo,omitempty"`
	MedioContacto         string `json:"medioContacto,omitempty"`
	Recomendaciones       string `json:"recomendaciones,omitempty"`
	Observaciones         string `json:"observaciones,omitempty"`
	FollowUpRequested     *bool  `json:"followUpRequested,omitempty"`
}

// Cita represents a scheduled psychological appointment
type Cita struct {
	ID              int64         `json:"id"`
	Fecha           string        `json:"fecha"`
	Hora            string        `json:"hora"`
	Motivo          string        `json:"motivo,omitempty"`
	Estado          Estado        `json:"estado"`
	Tipo            string        `json:"tipo,omitempty"`
	Estudiante      *Estudiante   `json:"estudiante,omitempty"`
	MeetLink        string        `json:"meetLink,omitempty"`
	CitaPreviaID    *int64        `json:"citaPreviaId,omitempty"`
	CitaPrevia      *Cita         `json:"citaPrevia,omitempty"`
	AtencionCita    *AtencionCita `json:"atencionCita,omitempty"`
	CalendarEventID string        `json:"calendarEventId,omitempty"`
}

// OriginalMotivo walks the follow-up chain back to the first appointment.
func (c *Cita) OriginalMotivo() string {
	original := c
	for original.CitaPrevia != nil {
		original = original.CitaPrevia
	}
	return original.Motivo
}

// PreviousRecommendation returns the closest non-blank recommendation up the chain.
func (c *Cita) PreviousRecommendation() string {
	for current := c.CitaPrevia; current != nil; current = current.CitaPrevia {
		if current.AtencionCita != nil && strings.TrimSpace(current.AtencionCita.Recomendaciones) != "" {
			return current.AtencionCita.Recomendaciones
		}
	}
	return ""
}

// Day parses the calendar date of the appointment. The backend sends either
// "2006-01-02" or a full timestamp at UTC midnight.
func (c *Cita) Day() (time.Time, bool) {
	return ParseDay(c.Fecha)
}

// ParseDay extracts the calendar date from a date or timestamp string.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
