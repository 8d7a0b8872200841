package attention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/models"
	"psicocitas-web/internal/psiapi"
)

// Outcome messages.
const (
	MsgCitaActualizada     = "Cita actualizada correctamente"
	MsgDerivacionOK        = "Cita derivada y atención registrada correctamente"
	MsgFollowUpRescheduled = " y cita de seguimiento reprogramada correctamente"
	MsgFollowUpBooked      = " y cita de seguimiento agendada correctamente"
	MsgFollowUpCancelled   = " y cita de seguimiento cancelada"
	MsgFollowUpNone        = " y no se reservo ninguna cita de seguimiento"
)

// FollowUpMotivo is the reason recorded on booked follow-ups.
const FollowUpMotivo = "seguimiento"

var (
	// ErrStudentCode is returned for an empty student search.
	ErrStudentCode = errors.New("Ingrese el código del estudiante")
	// ErrCitaNotFound is returned when the appointment being submitted does
	// not exist upstream.
	ErrCitaNotFound = errors.New("Cita no encontrada")
)

// API is the part of the appointments backend the form needs.
type API interface {
	SlotLister
	Cita(ctx context.Context, id int64) (*models.Cita, error)
	FollowUp(ctx context.Context, id int64) (*models.Cita, error)
	UpdateCita(ctx context.Context, id int64, req psiapi.UpdateCitaRequest) error
	RescheduleFollowUp(ctx context.Context, id int64, req psiapi.RescheduleRequest) error
	ReserveFollowUp(ctx context.Context, req psiapi.ReserveRequest) error
	CreateDerivacion(ctx context.Context, req psiapi.DerivacionRequest) (*models.Cita, error)
	SearchStudent(ctx context.Context, codigo string) (*models.Estudiante, error)
	CreateStudent(ctx context.Context, req models.CreateEstudianteRequest) (*models.Estudiante, error)
}

// Service loads and submits attention forms.
type Service struct {
	api     API
	catalog *catalog.Catalog
	loc     *time.Location
	now     func() time.Time
}

// NewService creates a service that reads "today" in loc.
func NewService(api API, cat *catalog.Catalog, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{api: api, catalog: cat, loc: loc, now: time.Now}
}

// Today is the current time in the service's zone.
func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Context builds the evaluation context for mode.
func (s *Service) Context(mode Mode, hasFollowUp bool) Context {
	return Context{Mode: mode, Today: s.Today(), HasFollowUp: hasFollowUp, Catalog: s.catalog}
}

// Detail is everything the appointment page shows.
type Detail struct {
	Cita                   *models.Cita `json:"cita"`
	FollowUp               *models.Cita `json:"followUp"`
	Form                   Form         `json:"form"`
	OriginalMotivo         string       `json:"originalMotivo"`
	PreviousRecommendation string       `json:"previousRecommendation,omitempty"`
	Edad                   *int         `json:"edad,omitempty"`
	FechaLabel             string       `json:"fechaLabel,omitempty"`
	View                   View         `json:"view"`
}

// Load fetches an appointment and prefills its form from the attention
// record and the follow-up, if any.
func (s *Service) Load(ctx context.Context, id, psicologoID int64) (*Detail, error) {
	cita, err := s.api.Cita(ctx, id)
	if err != nil {
		return nil, err
	}

	form := prefill(cita)
	followUp, err := s.api.FollowUp(ctx, id)
	if err != nil {
		slog.Error("failed to load follow-up", "cita", id, "error", err)
		followUp = nil
		form.FollowUpNeeded = FollowUpUnset
	}
	if followUp != nil {
		applyFollowUp(&form, followUp, psicologoID)
	}

	d := &Detail{
		Cita:                   cita,
		FollowUp:               followUp,
		Form:                   form,
		OriginalMotivo:         cita.OriginalMotivo(),
		PreviousRecommendation: cita.PreviousRecommendation(),
		View:                   Evaluate(form, s.Context(ModeScheduled, followUp != nil)),
	}
	if cita.Estudiante != nil {
		if age := cita.Estudiante.Age(s.Today()); age >= 0 {
			d.Edad = &age
		}
	}
	if day, ok := cita.Day(); ok {
		d.FechaLabel = s.catalog.LongDate(day)
	}
	return d, nil
}

func prefill(cita *models.Cita) Form {
	var form Form
	switch Attendance(cita.Estado) {
	case AttendanceAttended, AttendanceAbsent:
		form.Attended = Attendance(cita.Estado)
	}
	if a := cita.AtencionCita; a != nil {
		form.AreaDerivacion = a.AreaDerivacion
		form.DiagnosticoPresuntivo = a.DiagnosticoPresuntivo
		form.MedioContacto = a.MedioContacto
		form.Recomendacion = a.Recomendaciones
		form.Observaciones = a.Observaciones
		if a.FollowUpRequested != nil {
			form.FollowUpNeeded = FollowUpNo
			if *a.FollowUpRequested {
				form.FollowUpNeeded = FollowUpYes
			}
		}
	}
	return form
}

func applyFollowUp(form *Form, followUp *models.Cita, psicologoID int64) {
	form.FollowUpNeeded = FollowUpYes
	form.FollowUpModalidad = followUp.Tipo
	if day, ok := followUp.Day(); ok {
		form.FollowUpDate = day.Format("2006-01-02")
	}
	slot := models.NewHorario(psicologoID, followUp.Hora)
	slot.CalendarEventID = followUp.CalendarEventID
	form.SelectedSlot = &slot
}

// gate runs the submit checks: a requested follow-up without a slot is
// reported first, then any other problem.
func gate(form Form, ctx Context) error {
	view := Evaluate(form, ctx)
	if view.Variant.FollowUp != FollowUpNone && (form.SelectedSlot == nil || form.SelectedSlot.Hora == "") {
		return ErrSlotRequired
	}
	if !view.Valid {
		return &ValidationError{View: view}
	}
	return nil
}

func attendedRequest(psicologoID int64, form Form, followUpRequested *bool) psiapi.UpdateCitaRequest {
	return psiapi.UpdateCitaRequest{
		PsicologoID:           psicologoID,
		Estado:                models.EstadoAtendida,
		AreaDerivacion:        form.AreaDerivacion,
		DiagnosticoPresuntivo: form.DiagnosticoPresuntivo,
		MedioContacto:         form.MedioContacto,
		Recomendaciones:       form.Recomendacion,
		Observaciones:         form.Observaciones,
		FollowUpRequested:     followUpRequested,
	}
}

// SubmitScheduled records the attention of a scheduled appointment and then
// books, moves or cancels its follow-up. It returns the outcome message.
func (s *Service) SubmitScheduled(ctx context.Context, id, psicologoID int64, form Form) (string, error) {
	cita, err := s.api.Cita(ctx, id)
	if errors.Is(err, psiapi.ErrNotFound) {
		return "", ErrCitaNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load cita %d: %w", id, err)
	}
	existing, err := s.api.FollowUp(ctx, id)
	if err != nil {
		return "", err
	}
	if err := gate(form, s.Context(ModeScheduled, existing != nil)); err != nil {
		return "", err
	}

	req := psiapi.UpdateCitaRequest{
		PsicologoID:   psicologoID,
		Estado:        models.Estado(form.Attended),
		Observaciones: form.Observaciones,
	}
	if form.Attended == AttendanceAttended {
		requested := form.FollowUpNeeded == FollowUpYes
		req = attendedRequest(psicologoID, form, &requested)
	}
	if err := s.api.UpdateCita(ctx, id, req); err != nil {
		return "", fmt.Errorf("update cita %d: %w", id, err)
	}

	message := MsgCitaActualizada
	if form.Attended != AttendanceAttended {
		return message, nil
	}

	switch {
	case form.FollowUpNeeded == FollowUpYes && existing != nil:
		err = s.api.RescheduleFollowUp(ctx, existing.ID, psiapi.RescheduleRequest{
			Fecha:     form.FollowUpDate,
			Hora:      form.SelectedSlot.Hora,
			Modalidad: form.FollowUpModalidad,
		})
		message += MsgFollowUpRescheduled
	case form.FollowUpNeeded == FollowUpYes:
		var estudianteID int64
		if cita.Estudiante != nil {
			estudianteID = cita.Estudiante.ID
		}
		err = s.api.ReserveFollowUp(ctx, reserveRequest(estudianteID, psicologoID, cita.ID, form))
		message += MsgFollowUpBooked
	case existing != nil:
		err = s.api.RescheduleFollowUp(ctx, existing.ID, psiapi.RescheduleRequest{Cancel: true})
		message += MsgFollowUpCancelled
	default:
		message += MsgFollowUpNone
	}
	if err != nil {
		return "", fmt.Errorf("follow-up of cita %d: %w", id, err)
	}
	return message, nil
}

func reserveRequest(estudianteID, psicologoID, previaID int64, form Form) psiapi.ReserveRequest {
	return psiapi.ReserveRequest{
		EstudianteID: estudianteID,
		PsicologoID:  psicologoID,
		Motivo:       FollowUpMotivo,
		Fecha:        form.FollowUpDate,
		Hora:         form.SelectedSlot.Hora,
		Modalidad:    form.FollowUpModalidad,
		CitaPreviaID: previaID,
	}
}

// SubmitReferral registers a walk-in appointment as attended now, records
// its attention and optionally books a follow-up.
func (s *Service) SubmitReferral(ctx context.Context, psicologoID int64, form Form) (string, *models.Cita, error) {
	if err := gate(form, s.Context(ModeReferral, false)); err != nil {
		return "", nil, err
	}
	student, err := s.confirmStudent(ctx, form.Estudiante)
	if err != nil {
		return "", nil, err
	}
	form.Estudiante = student

	now := s.Today()
	cita, err := s.api.CreateDerivacion(ctx, psiapi.DerivacionRequest{
		EstudianteID: student.ID,
		PsicologoID:  psicologoID,
		Motivo:       strings.TrimSpace(form.Motivo),
		Fecha:        now.Format("2006-01-02"),
		Hora:         now.Format("15:04"),
		Tipo:         "presencial",
		Estado:       models.EstadoAtendida,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create derivacion: %w", err)
	}

	var requested *bool
	switch form.FollowUpNeeded {
	case FollowUpYes:
		t := true
		requested = &t
	case FollowUpNo:
		f := false
		requested = &f
	}
	if err := s.api.UpdateCita(ctx, cita.ID, attendedRequest(psicologoID, form, requested)); err != nil {
		return "", cita, fmt.Errorf("update cita %d: %w", cita.ID, err)
	}

	message := MsgDerivacionOK
	switch form.FollowUpNeeded {
	case FollowUpYes:
		if err := s.api.ReserveFollowUp(ctx, reserveRequest(form.Estudiante.ID, psicologoID, cita.ID, form)); err != nil {
			return "", cita, fmt.Errorf("follow-up of cita %d: %w", cita.ID, err)
		}
		message += MsgFollowUpBooked
	case FollowUpNo:
		message += MsgFollowUpNone
	}
	return message, cita, nil
}

// confirmStudent looks the submitted student up again by code. The form's
// student is only trusted when the backend returns the same id for it.
func (s *Service) confirmStudent(ctx context.Context, submitted *models.Estudiante) (*models.Estudiante, error) {
	unresolved := &ValidationError{View: Evaluate(Form{}, s.Context(ModeReferral, false))}
	codigo := models.DigitsOnly(submitted.Codigo)
	if codigo == "" {
		return nil, unresolved
	}
	found, err := s.api.SearchStudent(ctx, codigo)
	if errors.Is(err, psiapi.ErrNotFound) {
		return nil, unresolved
	}
	if err != nil {
		return nil, fmt.Errorf("confirm student %s: %w", codigo, err)
	}
	if found == nil || found.ID != submitted.ID {
		return nil, unresolved
	}
	return found, nil
}

// SearchStudent looks a student up by code. Non-digits are ignored.
func (s *Service) SearchStudent(ctx context.Context, codigo string) (*models.Estudiante, error) {
	codigo = models.DigitsOnly(codigo)
	if codigo == "" {
		return nil, ErrStudentCode
	}
	return s.api.SearchStudent(ctx, codigo)
}

// CreateStudent registers a student unknown to the backend.
func (s *Service) CreateStudent(ctx context.Context, req models.CreateEstudianteRequest) (*models.Estudiante, error) {
	req.Codigo = models.DigitsOnly(req.Codigo)
	req.Telefono = models.DigitsOnly(req.Telefono)
	return s.api.CreateStudent(ctx, req)
}

// EvaluateScheduled evaluates a posted form for appointment id.
func (s *Service) EvaluateScheduled(ctx context.Context, id int64, form Form) View {
	existing, err := s.api.FollowUp(ctx, id)
	if err != nil {
		slog.Error("failed to load follow-up", "cita", id, "error", err)
	}
	return Evaluate(form, s.Context(ModeScheduled, existing != nil))
}

// EvaluateReferral evaluates a posted referral form.
func (s *Service) EvaluateReferral(form Form) View {
	return Evaluate(form, s.Context(ModeReferral, false))
}
