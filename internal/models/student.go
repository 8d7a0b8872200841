package models

import (
	"bytes"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// FlexString decodes either a JSON string or a JSON number. The backend sends
// the student's cycle as both.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Estudiante represents a student record
type Estudiante struct {
	ID              int64      `json:"id"`
	Nombre          string     `json:"nombre"`
	Codigo          string     `json:"codigo"`
	FechaNacimiento string     `json:"fechaNacimiento,omitempty"`
	Carrera         string     `json:"carrera,omitempty"`
	Ciclo           FlexString `json:"ciclo,omitempty"`
	Modalidad       string     `json:"modalidad,omitempty"`
	Sede            string     `json:"sede,omitempty"`
	Telefono        string     `json:"telefono,omitempty"`
}

// Age computes the student's age in whole years at now, or -1 when the birth
// date is missing or unreadable.
func (e *Estudiante) Age(now time.Time) int {
	birth, ok := ParseDay(e.FechaNacimiento)
	if !ok {
		return -1
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// CreateEstudianteRequest is the payload for registering a walk-in student.
type CreateEstudianteRequest struct {
	Nombre          string `json:"nombre" binding:"required"`
	Codigo          string `json:"codigo" binding:"required,numeric"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Carrera         string `json:"carrera,omitempty"`
	Ciclo           string `json:"ciclo,omitempty"`
	Modalidad       string `json:"modalidad,omitempty"`
	Sede            string `json:"sede,omitempty"`
	Telefono        string `json:"telefono,omitempty" binding:"omitempty,celular"`
}

// DigitsOnly strips every non-digit from s, mirroring the numeric input masks.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String implements fmt.Stringer.
func (f FlexString) String() string { return string(f) }
