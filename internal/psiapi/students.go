package psiapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"psicocitas-web/internal/models"
)

// decodeStudent accepts {"estudiante": {...}} as well as a bare student.
func decodeStudent(raw json.RawMessage) (*models.Estudiante, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wrapped struct {
		Estudiante *models.Estudiante `json:"estudiante"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Estudiante != nil {
		return wrapped.Estudiante, nil
	}
	var flat models.Estudiante
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	if flat.ID == 0 {
		return nil, nil
	}
	return &flat, nil
}

// SearchStudent finds a student by institutional code. A miss is reported as
// an *APIError with the backend's message, or ErrNotFound for an empty answer.
func (c *Client) SearchStudent(ctx context.Context, codigo string) (*models.Estudiante, error) {
	query := url.Values{}
	query.Set("codigo", codigo)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.psiURL, "/buscar-estudiante", query, nil, &raw); err != nil {
		return nil, err
	}
	student, err := decodeStudent(raw)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}
	return student, nil
}

// CreateStudent registers a student that is not yet known to the backend. A
// response that does not identify the new student is an error.
func (c *Client) CreateStudent(ctx context.Context, req models.CreateEstudianteRequest) (*models.Estudiante, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.psiURL, "/estudiantes", nil, req, &raw); err != nil {
		return nil, err
	}
	student, err := decodeStudent(raw)
	if err != nil {
		return nil, err
	}
	if student == nil || student.ID == 0 {
		return nil, fmt.Errorf("estudiantes: response without student id")
	}
	return student, nil
}
