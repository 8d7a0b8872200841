// Package attention drives the appointment attention form: which fields
// apply, whether the form may be submitted, and what gets sent upstream.
package attention

import (
	"errors"
	"strings"
	"time"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/models"
)

// Mode tells a scheduled appointment apart from a walk-in referral.
type Mode string

const (
	ModeScheduled Mode = "scheduled"
	ModeReferral  Mode = "referral"
)

// Attendance is the attended/absent choice.
type Attendance string

const (
	AttendanceUnset    Attendance = ""
	AttendanceAttended Attendance = Attendance(models.EstadoAtendida)
	AttendanceAbsent   Attendance = Attendance(models.EstadoNoAsistio)
)

// FollowUpChoice is the yes/no answer to "needs a follow-up appointment".
type FollowUpChoice string

const (
	FollowUpUnset FollowUpChoice = ""
	FollowUpYes   FollowUpChoice = "si"
	FollowUpNo    FollowUpChoice = "no"
)

// FollowUpState says whether follow-up fields apply and whether they edit an
// existing follow-up or book a new one.
type FollowUpState string

const (
	FollowUpNone      FollowUpState = "none"
	FollowUpRequested FollowUpState = "requested"
	FollowUpExisting  FollowUpState = "existing"
)

// Field names a form control.
type Field string

const (
	FieldSearch            Field = "search"
	FieldMotivo            Field = "motivo"
	FieldAttended          Field = "attended"
	FieldAreaDerivacion    Field = "areaDerivacion"
	FieldDiagnostico       Field = "diagnosticoPresuntivo"
	FieldMedioContacto     Field = "medioContacto"
	FieldRecomendacion     Field = "recomendacion"
	FieldObservaciones     Field = "observaciones"
	FieldFollowUpNeeded    Field = "followUpNeeded"
	FieldFollowUpModalidad Field = "followUpModalidad"
	FieldFollowUpDate      Field = "followUpDate"
	FieldSlot              Field = "selectedSlot"
)

var (
	ErrInvalidForm  = errors.New("attention: form is incomplete")
	ErrSlotRequired = errors.New("Debes seleccionar un horario para la cita de seguimiento.")
)

// Form is the state of the attention form.
type Form struct {
	Attended              Attendance      `json:"attended"`
	AreaDerivacion        string          `json:"areaDerivacion"`
	DiagnosticoPresuntivo string          `json:"diagnosticoPresuntivo"`
	MedioContacto         string          `json:"medioContacto"`
	Recomendacion         string          `json:"recomendacion"`
	Observaciones         string          `json:"observaciones"`
	FollowUpNeeded        FollowUpChoice  `json:"followUpNeeded"`
	FollowUpModalidad     string          `json:"followUpModalidad"`
	FollowUpDate          string          `json:"followUpDate"`
	SelectedSlot          *models.Horario `json:"selectedSlot,omitempty"`

	// Referral only.
	Motivo     string             `json:"motivo,omitempty"`
	Estudiante *models.Estudiante `json:"estudiante,omitempty"`
}

// StudentResolved reports whether a referral form has a looked-up student.
func (f *Form) StudentResolved() bool {
	return f.Estudiante != nil && f.Estudiante.ID != 0
}

// Variant is the explicit shape of the form.
type Variant struct {
	Mode       Mode          `json:"mode"`
	Attendance Attendance    `json:"attendance"`
	Resolved   bool          `json:"resolved"`
	FollowUp   FollowUpState `json:"followUp"`
}

// Problem is one reason the form cannot be submitted.
type Problem struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

// View is the evaluated form.
type View struct {
	Variant  Variant   `json:"variant"`
	Visible  []Field   `json:"visible"`
	Required []Field   `json:"required"`
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
}

// Shows reports whether field is visible.
func (v View) Shows(field Field) bool {
	for _, f := range v.Visible {
		if f == field {
			return true
		}
	}
	return false
}

// Context carries what the form is evaluated against.
type Context struct {
	Mode        Mode
	Today       time.Time
	HasFollowUp bool
	Catalog     *catalog.Catalog
}

// ValidationError wraps the view of a form that failed the submit gate.
type ValidationError struct {
	View View
}

func (e *ValidationError) Error() string {
	if len(e.View.Problems) > 0 {
		return e.View.Problems[0].Message
	}
	return ErrInvalidForm.Error()
}

func (e *ValidationError) Unwrap() error { return ErrInvalidForm }

// VariantOf derives the variant of form.
func VariantOf(form Form, ctx Context) Variant {
	v := Variant{Mode: ctx.Mode, Attendance: form.Attended, FollowUp: FollowUpNone}
	if ctx.Mode == ModeReferral {
		v.Resolved = form.StudentResolved()
		v.Attendance = AttendanceUnset
		if v.Resolved {
			v.Attendance = AttendanceAttended
		}
	} else {
		v.Resolved = true
		if v.Attendance != AttendanceAttended && v.Attendance != AttendanceAbsent {
			v.Attendance = AttendanceUnset
		}
	}
	if v.Attendance == AttendanceAttended && form.FollowUpNeeded == FollowUpYes {
		v.FollowUp = FollowUpRequested
		if ctx.HasFollowUp {
			v.FollowUp = FollowUpExisting
		}
	}
	return v
}

// Evaluate dispatches to the evaluator of the form's variant.
func Evaluate(form Form, ctx Context) View {
	if ctx.Catalog == nil {
		ctx.Catalog = catalog.Default()
	}
	v := VariantOf(form, ctx)
	var view View
	switch {
	case v.Mode == ModeReferral && !v.Resolved:
		view = evaluateReferralUnresolved(form)
	case v.Mode == ModeReferral:
		view = evaluateReferral(form, ctx)
	case v.Attendance == AttendanceAbsent:
		view = evaluateAbsent(form)
	case v.Attendance == AttendanceAttended:
		view = evaluateAttended(form, ctx)
	default:
		view = evaluateUnset(form)
	}
	if v.FollowUp != FollowUpNone {
		followUpFields(&view, form, ctx)
	}
	view.Variant = v
	view.Valid = len(view.Problems) == 0
	return view
}

func evaluateUnset(Form) View {
	return View{
		Visible:  []Field{FieldAttended},
		Required: []Field{FieldAttended},
		Problems: []Problem{{FieldAttended, "Seleccione si el estudiante asistió a la cita."}},
	}
}

func evaluateAbsent(Form) View {
	return View{
		Visible:  []Field{FieldAttended, FieldObservaciones},
		Required: []Field{FieldAttended},
	}
}

func evaluateAttended(form Form, ctx Context) View {
	view := View{
		Visible:  []Field{FieldAttended},
		Required: []Field{FieldAttended},
	}
	attendedFields(&view, form, ctx)
	return view
}

func evaluateReferralUnresolved(Form) View {
	return View{
		Visible:  []Field{FieldSearch},
		Required: []Field{FieldSearch},
		Problems: []Problem{{FieldSearch, "Debe buscar y seleccionar un estudiante registrado."}},
	}
}

func evaluateReferral(form Form, ctx Context) View {
	view := View{
		Visible:  []Field{FieldSearch, FieldMotivo},
		Required: []Field{FieldSearch, FieldMotivo},
	}
	if strings.TrimSpace(form.Motivo) == "" {
		view.Problems = append(view.Problems, Problem{FieldMotivo, "Debe ingresar el motivo de la cita."})
	}
	attendedFields(&view, form, ctx)
	return view
}

// attendedFields adds the fields shared by an attended appointment and a
// resolved referral.
func attendedFields(view *View, form Form, ctx Context) {
	view.Visible = append(view.Visible,
		FieldAreaDerivacion, FieldDiagnostico, FieldMedioContacto,
		FieldRecomendacion, FieldObservaciones, FieldFollowUpNeeded)
	view.Required = append(view.Required,
		FieldAreaDerivacion, FieldDiagnostico, FieldMedioContacto,
		FieldRecomendacion, FieldFollowUpNeeded)

	requireOption(view, ctx.Catalog, catalog.AreaDerivacion, FieldAreaDerivacion, form.AreaDerivacion,
		"Seleccione el área de derivación.")
	requireOption(view, ctx.Catalog, catalog.Diagnostico, FieldDiagnostico, form.DiagnosticoPresuntivo,
		"Seleccione el diagnóstico presuntivo.")
	requireOption(view, ctx.Catalog, catalog.MedioContacto, FieldMedioContacto, form.MedioContacto,
		"Seleccione el medio de contacto.")
	if strings.TrimSpace(form.Recomendacion) == "" {
		view.Problems = append(view.Problems, Problem{FieldRecomendacion, "Ingrese una recomendación."})
	}
	if form.FollowUpNeeded != FollowUpYes && form.FollowUpNeeded != FollowUpNo {
		view.Problems = append(view.Problems, Problem{FieldFollowUpNeeded, "Indique si se requiere una cita de seguimiento."})
	}
}

func followUpFields(view *View, form Form, ctx Context) {
	view.Visible = append(view.Visible, FieldFollowUpModalidad, FieldFollowUpDate, FieldSlot)
	view.Required = append(view.Required, FieldFollowUpModalidad, FieldFollowUpDate, FieldSlot)

	requireOption(view, ctx.Catalog, catalog.TipoAtencion, FieldFollowUpModalidad, form.FollowUpModalidad,
		"Seleccione la modalidad de la cita de seguimiento.")
	if !AfterToday(form.FollowUpDate, ctx.Today) {
		view.Problems = append(view.Problems, Problem{FieldFollowUpDate, "La fecha de seguimiento debe ser posterior a hoy."})
	}
	if form.SelectedSlot == nil || form.SelectedSlot.Hora == "" {
		view.Problems = append(view.Problems, Problem{FieldSlot, ErrSlotRequired.Error()})
	}
}

func requireOption(view *View, cat *catalog.Catalog, table string, field Field, value, message string) {
	if value == "" || !cat.Has(table, value) {
		view.Problems = append(view.Problems, Problem{field, message})
	}
}

// AfterToday reports whether fecha (YYYY-MM-DD) is a calendar day strictly
// after today's date.
func AfterToday(fecha string, today time.Time) bool {
	day, ok := models.ParseDay(fecha)
	if !ok {
		return false
	}
	y, m, d := today.Date()
	return day.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
