// Package profile validates the phone and branch a professional must
// complete before using the app.
package profile

import (
	"errors"

	"psicocitas-web/internal/models"
	"psicocitas-web/internal/utils"
)

var (
	ErrInvalidPhone = errors.New("Ingrese un número de celular correcto")
	ErrInvalidSede  = errors.New("Seleccione una sede válida")
	ErrNoChanges    = errors.New("No hay cambios para guardar")
)

// Form is the editable part of the profile.
type Form struct {
	Telefono string `json:"telefono"`
	Sede     string `json:"sede"`
}

// Normalize strips non-digits from the phone the way the input mask does.
func (f Form) Normalize() Form {
	f.Telefono = models.DigitsOnly(f.Telefono)
	return f
}

// State is what the editor needs to render its save button and hints.
type State struct {
	Valid      bool   `json:"valid"`
	Changed    bool   `json:"changed"`
	CanSave    bool   `json:"canSave"`
	PhoneError string `json:"phoneError,omitempty"`
	SedeError  string `json:"sedeError,omitempty"`
}

// ValidatePhone checks a normalized phone number.
func ValidatePhone(telefono string) error {
	if !utils.CelularPattern.MatchString(telefono) {
		return ErrInvalidPhone
	}
	return nil
}

// Validate checks both fields, reporting the phone first.
func Validate(f Form) error {
	if err := ValidatePhone(f.Telefono); err != nil {
		return err
	}
	if !models.IsSede(f.Sede) {
		return ErrInvalidSede
	}
	return nil
}

// Initial is the form as loaded from the user record.
func Initial(u models.SessionUser) Form {
	return Form{Telefono: u.Telefono, Sede: u.Sede}
}

// Evaluate compares the edited form to the loaded one. Saving needs a valid
// form that differs from what was loaded.
func Evaluate(initial, form Form) State {
	form = form.Normalize()
	var st State
	if err := ValidatePhone(form.Telefono); err != nil {
		st.PhoneError = err.Error()
	}
	if !models.IsSede(form.Sede) {
		st.SedeError = ErrInvalidSede.Error()
	}
	st.Valid = st.PhoneError == "" && st.SedeError == ""
	st.Changed = form != initial.Normalize()
	st.CanSave = st.Valid && st.Changed
	return st
}

// Check returns the error that blocks saving, if any.
func Check(initial, form Form) error {
	st := Evaluate(initial, form)
	switch {
	case st.PhoneError != "":
		return ErrInvalidPhone
	case st.SedeError != "":
		return ErrInvalidSede
	case !st.Changed:
		return ErrNoChanges
	}
	return nil
}
