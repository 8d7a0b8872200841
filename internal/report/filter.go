// Package report filters a professional's appointment history and renders
// it for display and spreadsheet export.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"psicocitas-web/internal/models"
)

// ErrDateFilterConflict is returned when a rolling day window and a
// year/month selection are given together.
var ErrDateFilterConflict = errors.New("report: choose either the last days or years and months, not both")

// Column is a filterable column.
type Column string

const (
	ColEstado         Column = "estado"
	ColCarrera        Column = "carrera"
	ColCiclo          Column = "ciclo"
	ColModalidad      Column = "modalidad"
	ColSede           Column = "sede"
	ColAreaDerivacion Column = "areaDerivacion"
	ColTipoAtencion   Column = "tipoAtencion"
	ColDiagnostico    Column = "diagnostico"
	ColMedioContacto  Column = "medioContacto"
)

// Columns lists the filterable columns in display order.
var Columns = []Column{
	ColEstado, ColCarrera, ColCiclo, ColModalidad, ColSede,
	ColAreaDerivacion, ColTipoAtencion, ColDiagnostico, ColMedioContacto,
}

// value extracts the raw value of col from cita. ok is false for a missing
// value, which no filter selection matches.
func value(cita *models.Cita, col Column) (string, bool) {
	est := cita.Estudiante
	at := cita.AtencionCita
	switch col {
	case ColEstado:
		return string(cita.Estado), cita.Estado != ""
	case ColTipoAtencion:
		return cita.Tipo, cita.Tipo != ""
	case ColCarrera:
		if est != nil {
			return est.Carrera, est.Carrera != ""
		}
	case ColCiclo:
		if est != nil {
			return est.Ciclo.String(), est.Ciclo != ""
		}
	case ColModalidad:
		if est != nil {
			return est.Modalidad, est.Modalidad != ""
		}
	case ColSede:
		if est != nil {
			return est.Sede, est.Sede != ""
		}
	case ColAreaDerivacion:
		if at != nil {
			return at.AreaDerivacion, at.AreaDerivacion != ""
		}
	case ColDiagnostico:
		if at != nil {
			return at.DiagnosticoPresuntivo, at.DiagnosticoPresuntivo != ""
		}
	case ColMedioContacto:
		if at != nil {
			return at.MedioContacto, at.MedioContacto != ""
		}
	}
	return "", false
}

// Options lists, per column, the distinct values present in citas in the
// order they first appear.
func Options(citas []models.Cita) map[Column][]string {
	out := make(map[Column][]string, len(Columns))
	for _, col := range Columns {
		seen := make(map[string]bool)
		values := []string{}
		for i := range citas {
			v, ok := value(&citas[i], col)
			if !ok || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		out[col] = values
	}
	return out
}

// DateFilter restricts rows by date: either the last Days days, or the
// selected years and months. Months are 1-12.
type DateFilter struct {
	Days   int          `json:"dias,omitempty"`
	Years  []int        `json:"anios,omitempty"`
	Months []time.Month `json:"meses,omitempty"`
}

// Kind names the active date filter: "none", "customDays" or "yearMonth".
func (d DateFilter) Kind() string {
	switch {
	case d.Days > 0:
		return "customDays"
	case len(d.Years) > 0 || len(d.Months) > 0:
		return "yearMonth"
	}
	return "none"
}

// Validate rejects a filter with both kinds set.
func (d DateFilter) Validate() error {
	if d.Days < 0 {
		return fmt.Errorf("report: invalid day window %d", d.Days)
	}
	if d.Days > 0 && (len(d.Years) > 0 || len(d.Months) > 0) {
		return ErrDateFilterConflict
	}
	for _, m := range d.Months {
		if m < time.January || m > time.December {
			return fmt.Errorf("report: invalid month %d", m)
		}
	}
	return nil
}

// Match reports whether cita passes the date filter at now. Months and years
// are read from the calendar date of the appointment.
func (d DateFilter) Match(cita *models.Cita, now time.Time) bool {
	switch d.Kind() {
	case "customDays":
		at, ok := instant(cita.Fecha)
		if !ok {
			return false
		}
		start := now.AddDate(0, 0, -d.Days)
		return !at.Before(start) && !at.After(now)
	case "yearMonth":
		day, ok := cita.Day()
		if !ok {
			return false
		}
		if len(d.Years) > 0 && !containsInt(d.Years, day.Year()) {
			return false
		}
		if len(d.Months) > 0 && !containsMonth(d.Months, day.Month()) {
			return false
		}
	}
	return true
}

// instant reads a date or timestamp the way the backend sends it.
func instant(fecha string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, fecha); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", fecha, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsMonth(list []time.Month, v time.Month) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Filters is the full set of report filters.
type Filters struct {
	Columns map[Column][]string `json:"columns"`
	Date    DateFilter          `json:"date"`
}

// Apply keeps the citas matching every non-empty column selection (any of
// its values) and the date filter.
func Apply(citas []models.Cita, f Filters, now time.Time) ([]models.Cita, error) {
	if err := f.Date.Validate(); err != nil {
		return nil, err
	}
	out := make([]models.Cita, 0, len(citas))
	for i := range citas {
		c := &citas[i]
		if matchColumns(c, f.Columns) && f.Date.Match(c, now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func matchColumns(c *models.Cita, selections map[Column][]string) bool {
	for col, selected := range selections {
		if len(selected) == 0 {
			continue
		}
		v, ok := value(c, col)
		if !ok {
			return false
		}
		found := false
		for _, s := range selected {
			if s == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseMonths converts "1".."12" strings into months.
func ParseMonths(values []string) ([]time.Month, error) {
	out := make([]time.Month, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return nil, fmt.Errorf("report: invalid month %q", v)
		}
		out = append(out, time.Month(n))
	}
	return out, nil
}

// ParseYears converts year strings into ints.
func ParseYears(values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("report: invalid year %q", v)
		}
		out = append(out, n)
	}
	return out, nil
}
