package report

import (
	"fmt"
	"strings"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/models"
)

// Row is one appointment as the report table and the spreadsheet show it.
type Row struct {
	ID             int64  `json:"id"`
	Fecha          string `json:"fecha"`
	Estado         string `json:"estado"`
	Codigo         string `json:"codigo"`
	Telefono       string `json:"telefono"`
	Nombre         string `json:"nombre"`
	Carrera        string `json:"carrera"`
	Ciclo          string `json:"ciclo"`
	Modalidad      string `json:"modalidad"`
	Sede           string `json:"sede"`
	TipoAtencion   string `json:"tipoAtencion"`
	AreaDerivacion string `json:"areaDerivacion"`
	Diagnostico    string `json:"diagnostico"`
	MedioContacto  string `json:"medioContacto"`
	Observaciones  string `json:"observaciones"`
	Href           string `json:"href"`
}

// ReorderName puts surnames first: two words are swapped, three words become
// last + first two, and four or more become last two + the rest. Every word
// is capitalized.
func ReorderName(full string) string {
	words := strings.Fields(full)
	var ordered []string
	switch n := len(words); {
	case n >= 4:
		ordered = append(append(ordered, words[n-2:]...), words[:n-2]...)
	case n == 3:
		ordered = []string{words[2], words[0], words[1]}
	case n == 2:
		ordered = []string{words[1], words[0]}
	default:
		ordered = words
	}
	for i, w := range ordered {
		ordered[i] = catalog.Capitalize(w)
	}
	return strings.Join(ordered, " ")
}

// DisplayDate renders the calendar date of fecha as d/m/yyyy.
func DisplayDate(fecha string) string {
	day, ok := models.ParseDay(fecha)
	if !ok {
		return fecha
	}
	return day.Format("2/1/2006")
}

// Rows renders citas for display.
func Rows(citas []models.Cita, cat *catalog.Catalog) []Row {
	rows := make([]Row, 0, len(citas))
	for i := range citas {
		c := &citas[i]
		row := Row{
			ID:           c.ID,
			Fecha:        DisplayDate(c.Fecha),
			Estado:       cat.Label(catalog.Estado, string(c.Estado)),
			TipoAtencion: cat.Label(catalog.TipoAtencion, c.Tipo),
			Href:         fmt.Sprintf("/appointment/%d", c.ID),
		}
		if e := c.Estudiante; e != nil {
			row.Codigo = catalog.Capitalize(e.Codigo)
			row.Telefono = e.Telefono
			row.Nombre = ReorderName(e.Nombre)
			row.Carrera = catalog.Capitalize(e.Carrera)
			row.Ciclo = e.Ciclo.String()
			row.Modalidad = cat.Label(catalog.Modalidad, e.Modalidad)
			row.Sede = catalog.Capitalize(e.Sede)
		}
		if a := c.AtencionCita; a != nil {
			row.AreaDerivacion = cat.Label(catalog.AreaDerivacion, a.AreaDerivacion)
			row.Diagnostico = cat.Label(catalog.Diagnostico, a.DiagnosticoPresuntivo)
			row.MedioContacto = cat.Label(catalog.MedioContacto, a.MedioContacto)
			row.Observaciones = a.Observaciones
		}
		rows = append(rows, row)
	}
	return rows
}
