package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	assert.Len(t, c.Options(Estado), 5)
	assert.Len(t, c.Options(MedioContacto), 8)
	assert.Len(t, c.Options(AreaDerivacion), 10)
	assert.Equal(t, "tutoria", c.Options(AreaDerivacion)[0].Value)
}

func TestLabelFallsBackToCapitalizedValue(t *testing.T) {
	c := Default()
	assert.Equal(t, "No asistió", c.Label(Estado, "no_asistio"))
	assert.Equal(t, "Oficina (boca a boca)", c.Label(MedioContacto, "boca_a_boca"))
	assert.Equal(t, "Social", c.Label(Diagnostico, "servicio_social"))
	assert.Equal(t, "Servicio Social", c.Label(AreaDerivacion, "servicio_social"))
	assert.Equal(t, "Ingeniería", c.Label(Modalidad, "ingeniería"))
	assert.Equal(t, "", c.Label(Modalidad, ""))
}

func TestUpperLabels(t *testing.T) {
	c := Default()
	assert.Equal(t, "NO ASISTIÓ", c.Upper("no_asistio"))
	assert.Equal(t, "PENDIENTE", c.Upper("pendiente"))
	assert.Equal(t, "OTRO", c.Upper("otro"))
}

func TestLongDate(t *testing.T) {
	d := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "lunes, 10 de marzo de 2025", Default().LongDate(d))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Área", Capitalize("área"))
	assert.Equal(t, "Lima - los olivos", Capitalize("LIMA - Los Olivos"))
}

func TestParseRejectsIncompleteCalendar(t *testing.T) {
	_, err := Parse([]byte("meses: [enero]\ndias: []\n"))
	require.Error(t, err)
}
