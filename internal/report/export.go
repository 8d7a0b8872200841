package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"psicocitas-web/internal/metrics"
)

// SheetName is the worksheet the export writes.
const SheetName = "Reporte"

// HeaderColor fills the header row.
const HeaderColor = "8C68CE"

type exportColumn struct {
	Header string
	Width  float64
	Value  func(Row) interface{}
}

var exportColumns = []exportColumn{
	{"ID", 10, func(r Row) interface{} { return r.ID }},
	{"Fecha", 15, func(r Row) interface{} { return r.Fecha }},
	{"Estado", 15, func(r Row) interface{} { return r.Estado }},
	{"Código", 15, func(r Row) interface{} { return r.Codigo }},
	{"Teléfono", 15, func(r Row) interface{} { return r.Telefono }},
	{"Apellidos y Nombres", 30, func(r Row) interface{} { return r.Nombre }},
	{"Carrera", 20, func(r Row) interface{} { return r.Carrera }},
	{"Ciclo", 10, func(r Row) interface{} { return r.Ciclo }},
	{"Modalidad", 15, func(r Row) interface{} { return r.Modalidad }},
	{"Sede", 15, func(r Row) interface{} { return r.Sede }},
	{"Tipo de atención", 15, func(r Row) interface{} { return r.TipoAtencion }},
	{"Área de derivación", 20, func(r Row) interface{} { return r.AreaDerivacion }},
	{"Diagnóstico presuntivo", 20, func(r Row) interface{} { return r.Diagnostico }},
	{"Medio de contacto", 20, func(r Row) interface{} { return r.MedioContacto }},
	{"Observaciones", 30, func(r Row) interface{} { return r.Observaciones }},
}

// Headers lists the spreadsheet column titles.
func Headers() []string {
	out := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		out[i] = c.Header
	}
	return out
}

// Export writes rows as an xlsx workbook to w.
func Export(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HeaderColor}},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create body style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return err
	}

	header := make([]interface{}, len(exportColumns))
	for i, c := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, c.Width); err != nil {
			return err
		}
		header[i] = c.Header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]interface{}, len(exportColumns))
		for j, c := range exportColumns {
			values[j] = c.Value(row)
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(SheetName, "A2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), bodyStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	metrics.Exports.Inc()
	return nil
}
