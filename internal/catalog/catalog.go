// Package catalog holds the display labels for the coded values the
// appointments API stores.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Table names.
const (
	Estado         = "estado"
	Modalidad      = "modalidad"
	TipoAtencion   = "tipoAtencion"
	MedioContacto  = "medioContacto"
	AreaDerivacion = "areaDerivacion"
	Diagnostico    = "diagnostico"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Option is one coded value and its label.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Upper string `yaml:"upper,omitempty" json:"-"`
}

type document struct {
	Estado         []Option `yaml:"estado"`
	Modalidad      []Option `yaml:"modalidad"`
	TipoAtencion   []Option `yaml:"tipoAtencion"`
	MedioContacto  []Option `yaml:"medioContacto"`
	AreaDerivacion []Option `yaml:"areaDerivacion"`
	Diagnostico    []Option `yaml:"diagnostico"`
	Meses          []string `yaml:"meses"`
	Dias           []string `yaml:"dias"`
}

// Catalog is an immutable set of label tables.
type Catalog struct {
	tables map[string][]Option
	labels map[string]map[string]Option
	months []string
	days   []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Meses) != 12 || len(doc.Dias) != 7 {
		return nil, fmt.Errorf("catalog needs 12 months and 7 weekdays, got %d and %d", len(doc.Meses), len(doc.Dias))
	}

	c := &Catalog{
		tables: map[string][]Option{
			Estado:         doc.Estado,
			Modalidad:      doc.Modalidad,
			TipoAtencion:   doc.TipoAtencion,
			MedioContacto:  doc.MedioContacto,
			AreaDerivacion: doc.AreaDerivacion,
			Diagnostico:    doc.Diagnostico,
		},
		labels: make(map[string]map[string]Option),
		months: doc.Meses,
		days:   doc.Dias,
	}
	for name, options := range c.tables {
		index := make(map[string]Option, len(options))
		for _, o := range options {
			index[o.Value] = o
		}
		c.labels[name] = index
	}
	return c, nil
}

// Options lists a table in catalog order.
func (c *Catalog) Options(table string) []Option {
	return append([]Option(nil), c.tables[table]...)
}

// Has reports whether value is a known code in table.
func (c *Catalog) Has(table, value string) bool {
	_, ok := c.labels[table][value]
	return ok
}

// Label maps a code to its label, falling back to the capitalized raw value.
func (c *Catalog) Label(table, value string) string {
	if o, ok := c.labels[table][value]; ok {
		return o.Label
	}
	return Capitalize(value)
}

// Upper returns the upper-case status label the dashboard cards show.
func (c *Catalog) Upper(estado string) string {
	if o, ok := c.labels[Estado][estado]; ok && o.Upper != "" {
		return o.Upper
	}
	return strings.ToUpper(estado)
}

// MonthName returns the Spanish name of m.
func (c *Catalog) MonthName(m time.Month) string {
	return c.months[int(m)-1]
}

// LongDate renders d as "lunes, 10 de marzo de 2025".
func (c *Catalog) LongDate(d time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", c.days[d.Weekday()], d.Day(), c.MonthName(d.Month()), d.Year())
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Spanish).String(string(r)) + cases.Lower(language.Spanish).String(s[size:])
}
