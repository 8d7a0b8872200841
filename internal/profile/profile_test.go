package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"psicocitas-web/internal/models"
)

func TestValidatePhone(t *testing.T) {
	cases := map[string]bool{
		"912345678":  true,
		"812345678":  false,
		"91234567":   false,
		"9123456789": false,
		"":           false,
	}
	for phone, ok := range cases {
		if ok {
			assert.NoError(t, ValidatePhone(phone), phone)
		} else {
			assert.ErrorIs(t, ValidatePhone(phone), ErrInvalidPhone, phone)
		}
	}
}

func TestEvaluateCanSave(t *testing.T) {
	initial := Initial(models.SessionUser{Telefono: "912345678", Sede: "Cusco"})

	st := Evaluate(initial, Form{Telefono: "912345678", Sede: "Cusco"})
	assert.True(t, st.Valid)
	assert.False(t, st.Changed)
	assert.False(t, st.CanSave)

	st = Evaluate(initial, Form{Telefono: "912 345 679", Sede: "Cusco"})
	assert.True(t, st.Valid)
	assert.True(t, st.Changed)
	assert.True(t, st.CanSave)

	st = Evaluate(initial, Form{Telefono: "12345", Sede: "Arequipa"})
	assert.False(t, st.Valid)
	assert.True(t, st.Changed)
	assert.False(t, st.CanSave)
	assert.Equal(t, "Ingrese un número de celular correcto", st.PhoneError)
}

func TestEvaluateFirstCompletion(t *testing.T) {
	initial := Initial(models.SessionUser{})
	st := Evaluate(initial, Form{Telefono: "987654321", Sede: "Lima - Los Olivos"})
	assert.True(t, st.CanSave)

	st = Evaluate(initial, Form{Telefono: "987654321", Sede: "Trujillo"})
	assert.False(t, st.CanSave)
	assert.NotEmpty(t, st.SedeError)
}

func TestCheck(t *testing.T) {
	initial := Form{Telefono: "912345678", Sede: "Cusco"}
	assert.ErrorIs(t, Check(initial, initial), ErrNoChanges)
	assert.ErrorIs(t, Check(initial, Form{Telefono: "1", Sede: "Cusco"}), ErrInvalidPhone)
	assert.ErrorIs(t, Check(initial, Form{Telefono: "912345678", Sede: "X"}), ErrInvalidSede)
	assert.NoError(t, Check(initial, Form{Telefono: "912345678", Sede: "Arequipa"}))
}
