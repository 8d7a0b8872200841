package report

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/models"
)

func sample() []models.Cita {
	return []models.Cita{
		{
			ID: 1, Fecha: "2025-03-10T00:00:00.000Z", Estado: models.EstadoAtendida, Tipo: "presencial",
			Estudiante:   &models.Estudiante{Nombre: "juan pérez", Codigo: "76543210", Carrera: "PSICOLOGÍA", Ciclo: "3", Modalidad: "presencial", Sede: "Huancayo"},
			AtencionCita: &models.AtencionCita{AreaDerivacion: "tutoria", DiagnosticoPresuntivo: "ansiedad", MedioContacto: "boca_a_boca", Observaciones: "ok"},
		},
		{
			ID: 2, Fecha: "2024-11-05", Estado: models.EstadoNoAsistio, Tipo: "virtual",
			Estudiante: &models.Estudiante{Nombre: "Ana María Torres", Carrera: "Derecho", Ciclo: "5", Modalidad: "a_distancia", Sede: "Cusco"},
		},
		{
			ID: 3, Fecha: "2025-01-20", Estado: models.EstadoAtendida, Tipo: "virtual",
			Estudiante:   &models.Estudiante{Nombre: "Luis Alberto Quispe Mamani", Carrera: "Derecho", Ciclo: "3", Sede: "Cusco"},
			AtencionCita: &models.AtencionCita{AreaDerivacion: "mentoria", DiagnosticoPresuntivo: "estres"},
		},
	}
}

func ids(citas []models.Cita) []int64 {
	out := make([]int64, 0, len(citas))
	for _, c := range citas {
		out = append(out, c.ID)
	}
	return out
}

func TestReorderName(t *testing.T) {
	assert.Equal(t, "Pérez Juan", ReorderName("Juan Pérez"))
	assert.Equal(t, "Torres Ana María", ReorderName("ana maría TORRES"))
	assert.Equal(t, "Quispe Mamani Luis Alberto", ReorderName("Luis Alberto Quispe Mamani"))
	assert.Equal(t, "Cher", ReorderName("  cher "))
	assert.Equal(t, "", ReorderName(""))
}

func TestColumnFiltersAreConjunctive(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	out, err := Apply(sample(), Filters{Columns: map[Column][]string{
		ColCarrera: {"Derecho"},
		ColCiclo:   {"3"},
	}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(out))

	out, err = Apply(sample(), Filters{Columns: map[Column][]string{
		ColTipoAtencion: {"virtual", "presencial"},
		ColEstado:       {"atendida"},
	}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(out))

	out, err = Apply(sample(), Filters{Columns: map[Column][]string{ColAreaDerivacion: {"tutoria"}}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestDateFilters(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	out, err := Apply(sample(), Filters{Date: DateFilter{Days: 60}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(out))

	out, err = Apply(sample(), Filters{Date: DateFilter{Years: []int{2025}, Months: []time.Month{time.January}}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(out))

	out, err = Apply(sample(), Filters{Date: DateFilter{Months: []time.Month{time.November, time.March}}}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(out))

	_, err = Apply(sample(), Filters{Date: DateFilter{Days: 7, Years: []int{2025}}}, now)
	assert.ErrorIs(t, err, ErrDateFilterConflict)
}

func TestDateFilterStateIsExclusive(t *testing.T) {
	var s DateFilterState
	assert.Equal(t, "none", s.Kind())

	s.ToggleYear(2025)
	s.ToggleMonth(time.March)
	assert.Equal(t, "yearMonth", s.Kind())

	s.SetDays("3a0")
	assert.Equal(t, "customDays", s.Kind())
	assert.Equal(t, 30, s.Days)
	assert.Empty(t, s.Years)
	assert.Empty(t, s.Months)

	s.ToggleMonth(time.May)
	assert.Equal(t, "yearMonth", s.Kind())
	assert.Zero(t, s.Days)

	s.ToggleMonth(time.May)
	assert.Equal(t, "none", s.Kind())
	require.NoError(t, s.Validate())

	require.NoError(t, s.Apply(Action{Type: "dias", Value: "15"}))
	require.NoError(t, s.Apply(Action{Type: "anio", Value: "2024"}))
	assert.Equal(t, "yearMonth", s.Kind())
	require.NoError(t, s.Apply(Action{Type: "limpiar"}))
	assert.Equal(t, "none", s.Kind())
	assert.Error(t, s.Apply(Action{Type: "mes", Value: "13"}))
}

func TestParseQuery(t *testing.T) {
	q := url.Values{"estado": {"atendida", "pendiente"}, "sede": {""}, "anio": {"2025"}, "mes": {"3"}}
	f, err := ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"atendida", "pendiente"}, f.Columns[ColEstado])
	_, hasSede := f.Columns[ColSede]
	assert.False(t, hasSede)
	assert.Equal(t, []time.Month{time.March}, f.Date.Months)

	_, err = ParseQuery(url.Values{"dias": {"7"}, "anio": {"2025"}})
	assert.ErrorIs(t, err, ErrDateFilterConflict)
}

func TestOptionsFirstSeenOrder(t *testing.T) {
	opts := Options(sample())
	assert.Equal(t, []string{"PSICOLOGÍA", "Derecho"}, opts[ColCarrera])
	assert.Equal(t, []string{"3", "5"}, opts[ColCiclo])
	assert.Equal(t, []string{"tutoria", "mentoria"}, opts[ColAreaDerivacion])
	assert.Equal(t, []int{2025, 2024}, Years(sample()))
}

func TestRowsDisplay(t *testing.T) {
	rows := Rows(sample(), catalog.Default())
	r := rows[0]
	assert.Equal(t, "10/3/2025", r.Fecha)
	assert.Equal(t, "Atendida", r.Estado)
	assert.Equal(t, "Pérez Juan", r.Nombre)
	assert.Equal(t, "Psicología", r.Carrera)
	assert.Equal(t, "Presencial", r.Modalidad)
	assert.Equal(t, "Tutoría", r.AreaDerivacion)
	assert.Equal(t, "Oficina (boca a boca)", r.MedioContacto)
	assert.Equal(t, "/appointment/1", r.Href)
	assert.Equal(t, "A distancia", rows[1].Modalidad)
	assert.Equal(t, "No asistió", rows[1].Estado)
	assert.Equal(t, "", rows[1].AreaDerivacion)
}

func TestExportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, Rows(sample(), catalog.Default())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Headers(), rows[0])
	assert.Len(t, rows[0], 15)
	assert.Equal(t, "Quispe Mamani Luis Alberto", rows[3][5])

	width, err := f.GetColWidth(SheetName, "F")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.Equal(t, 1, style.Fill.Pattern)
}

type fakeSource struct {
	calls int
	citas []models.Cita
}

func (f *fakeSource) Report(ctx context.Context, psicologoID int64) ([]models.Cita, error) {
	f.calls++
	return f.citas, nil
}

func TestServiceBuild(t *testing.T) {
	src := &fakeSource{citas: sample()}
	svc := NewService(src, catalog.Default(), time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }

	res, err := svc.Build(context.Background(), 7, Filters{Columns: map[Column][]string{ColSede: {"Cusco"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []string{"Huancayo", "Cusco"}, res.Options[ColSede])
	assert.Equal(t, "none", res.DateKind)

	_, err = svc.Build(context.Background(), 7, Filters{Date: DateFilter{Days: 3, Months: []time.Month{time.May}}})
	assert.ErrorIs(t, err, ErrDateFilterConflict)
	assert.Equal(t, 1, src.calls)
}
