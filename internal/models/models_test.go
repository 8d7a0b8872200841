package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsProfile(t *testing.T) {
	cases := []struct {
		name string
		user SessionUser
		want bool
	}{
		{"psicologo without phone", SessionUser{Rol: RolePsicologo, Sede: "Cusco"}, true},
		{"admin without sede", SessionUser{Rol: RoleAdministrador, Telefono: "987654321"}, true},
		{"complete psicologo", SessionUser{Rol: RolePsicologo, Telefono: "987654321", Sede: "Cusco"}, false},
		{"other role", SessionUser{Rol: "estudiante"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.NeedsProfile())
		})
	}
}

func TestHeaderDefaultsPhotoAndFirstName(t *testing.T) {
	u := SessionUser{Nombre: "Ana María Torres", Rol: RolePsicologo}
	h := u.Header()
	assert.Equal(t, "Ana", h.FirstName)
	assert.Equal(t, "/default_profile.png", h.Foto)
}

func TestMergeKeepsExistingTokens(t *testing.T) {
	u := SessionUser{ID: 7, RefreshToken: "r1", Telefono: "900000000"}
	u.Merge(SessionUser{Telefono: "912345678", Sede: "Arequipa"})
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "r1", u.RefreshToken)
	assert.Equal(t, "912345678", u.Telefono)
	assert.Equal(t, "Arequipa", u.Sede)
}

func TestCitaChainHelpers(t *testing.T) {
	root := &Cita{ID: 1, Motivo: "ansiedad por exámenes", AtencionCita: &AtencionCita{Recomendaciones: "respiración"}}
	middle := &Cita{ID: 2, Motivo: "seguimiento", CitaPrevia: root, AtencionCita: &AtencionCita{Recomendaciones: "  "}}
	current := &Cita{ID: 3, Motivo: "seguimiento", CitaPrevia: middle}

	assert.Equal(t, "ansiedad por exámenes", current.OriginalMotivo())
	assert.Equal(t, "respiración", current.PreviousRecommendation())
	assert.Equal(t, "", root.PreviousRecommendation())
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("2025-03-10T00:00:00.000Z")
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())

	_, ok = ParseDay("10/03")
	assert.False(t, ok)
}

func TestEstudianteAge(t *testing.T) {
	e := Estudiante{FechaNacimiento: "2000-06-15"}
	assert.Equal(t, 24, e.Age(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, e.Age(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, (&Estudiante{}).Age(time.Now()))
}

func TestFlexStringAcceptsNumbersAndStrings(t *testing.T) {
	var out []Estudiante
	err := json.Unmarshal([]byte(`[{"ciclo":5},{"ciclo":"VI"},{"ciclo":null}]`), &out)
	require.NoError(t, err)
	assert.Equal(t, FlexString("5"), out[0].Ciclo)
	assert.Equal(t, FlexString("VI"), out[1].Ciclo)
	assert.Equal(t, FlexString(""), out[2].Ciclo)
}

func TestHorarioBuckets(t *testing.T) {
	h := NewHorario(12, "09:30")
	assert.Equal(t, "12-09:30", h.ID)
	assert.True(t, h.Morning())
	assert.False(t, NewHorario(12, "12:00").Morning())
	assert.Equal(t, -1, Horario{Hora: "tarde"}.Hour())
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "987654321", DigitsOnly("987-654 321"))
}

func TestIsSede(t *testing.T) {
	assert.True(t, IsSede("Lima - Los Olivos"))
	assert.False(t, IsSede("Trujillo"))
}
