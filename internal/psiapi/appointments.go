package psiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"psicocitas-web/internal/models"
)

// UpdateCitaRequest is the body of PUT /cita/:id. Absent appointments only
// carry observations.
type UpdateCitaRequest struct {
	PsicologoID           int64         `json:"psicologoId"`
	Estado                models.Estado `json:"estado"`
	AreaDerivacion        string        `json:"areaDerivacion,omitempty"`
	DiagnosticoPresuntivo string        `json:"diagnosticoPresuntivo,omitempty"`
	MedioContacto         string        `json:"medioContacto,omitempty"`
	Recomendaciones       string        `json:"recomendaciones,omitempty"`
	Observaciones         string        `json:"observaciones"`
	FollowUpRequested     *bool         `json:"followUpRequested,omitempty"`
}

// RescheduleRequest is the body of PUT /cita/followup/:id/reprogramar.
type RescheduleRequest struct {
	Fecha     string `json:"fecha,omitempty"`
	Hora      string `json:"hora,omitempty"`
	Modalidad string `json:"modalidad,omitempty"`
	Cancel    bool   `json:"cancel"`
}

// ReserveRequest is the body of POST /reservar-cita.
type ReserveRequest struct {
	EstudianteID int64  `json:"estudianteId"`
	PsicologoID  int64  `json:"psicologoId"`
	Motivo       string `json:"motivo"`
	Fecha        string `json:"fecha"`
	Hora         string `json:"hora"`
	Modalidad    string `json:"modalidad"`
	CitaPreviaID int64  `json:"citaPreviaId"`
}

// DerivacionRequest is the body of POST /derivacion-cita.
type DerivacionRequest struct {
	EstudianteID int64         `json:"estudianteId"`
	PsicologoID  int64         `json:"psicologoId"`
	Motivo       string        `json:"motivo"`
	Fecha        string        `json:"fecha"`
	Hora         string        `json:"hora"`
	Tipo         string        `json:"tipo"`
	Estado       models.Estado `json:"estado"`
}

type citaEnvelope struct {
	Cita *models.Cita `json:"cita"`
}

// CitasByDate lists a professional's appointments on fecha (YYYY-MM-DD).
func (c *Client) CitasByDate(ctx context.Context, psicologoID int64, fecha string) ([]models.Cita, error) {
	query := url.Values{}
	query.Set("psicologoId", strconv.FormatInt(psicologoID, 10))
	query.Set("fecha", fecha)

	var out struct {
		Citas []models.Cita `json:"citas"`
	}
	if err := c.do(ctx, http.MethodGet, c.psiURL, "/citas", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Citas, nil
}

// Cita loads one appointment with its follow-up chain.
func (c *Client) Cita(ctx context.Context, id int64) (*models.Cita, error) {
	var out citaEnvelope
	if err := c.do(ctx, http.MethodGet, c.psiURL, fmt.Sprintf("/cita/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Cita == nil {
		return nil, ErrNotFound
	}
	return out.Cita, nil
}

// UpdateCita records the attention outcome of an appointment.
func (c *Client) UpdateCita(ctx context.Context, id int64, req UpdateCitaRequest) error {
	return c.do(ctx, http.MethodPut, c.psiURL, fmt.Sprintf("/cita/%d", id), nil, req, nil)
}

// FollowUp returns the follow-up appointment booked from id, or nil when
// there is none.
func (c *Client) FollowUp(ctx context.Context, id int64) (*models.Cita, error) {
	var out citaEnvelope
	err := c.do(ctx, http.MethodGet, c.psiURL, fmt.Sprintf("/cita/followup/%d", id), nil, nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Cita, nil
}

// RescheduleFollowUp moves or cancels a follow-up appointment.
func (c *Client) RescheduleFollowUp(ctx context.Context, id int64, req RescheduleRequest) error {
	return c.do(ctx, http.MethodPut, c.psiURL, fmt.Sprintf("/cita/followup/%d/reprogramar", id), nil, req, nil)
}

// ReserveFollowUp books a new follow-up appointment.
func (c *Client) ReserveFollowUp(ctx context.Context, req ReserveRequest) error {
	return c.do(ctx, http.MethodPost, c.psiURL, "/reservar-cita", nil, req, nil)
}

// CreateDerivacion registers a walk-in referral appointment.
func (c *Client) CreateDerivacion(ctx context.Context, req DerivacionRequest) (*models.Cita, error) {
	var out citaEnvelope
	if err := c.do(ctx, http.MethodPost, c.psiURL, "/derivacion-cita", nil, req, &out); err != nil {
		return nil, err
	}
	if out.Cita == nil {
		return nil, fmt.Errorf("derivacion-cita: response without cita")
	}
	return out.Cita, nil
}

// Slots lists the free hours of a professional on fecha.
func (c *Client) Slots(ctx context.Context, psicologoID int64, fecha string) ([]models.Horario, error) {
	query := url.Values{}
	query.Set("fecha", fecha)
	query.Set("psicologoId", strconv.FormatInt(psicologoID, 10))

	var out struct {
		Horarios []struct {
			Hora string `json:"hora"`
		} `json:"horarios"`
	}
	if err := c.do(ctx, http.MethodGet, c.psiURL, "/horarios-disponibles", query, nil, &out); err != nil {
		return nil, err
	}
	slots := make([]models.Horario, 0, len(out.Horarios))
	for _, h := range out.Horarios {
		slots = append(slots, models.NewHorario(psicologoID, h.Hora))
	}
	return slots, nil
}

// Report returns every appointment of a professional for the report view.
func (c *Client) Report(ctx context.Context, psicologoID int64) ([]models.Cita, error) {
	query := url.Values{}
	query.Set("psicologoId", strconv.FormatInt(psicologoID, 10))

	var out struct {
		Data []models.Cita `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.psiURL, "/reporte", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
