package report

import (
	"context"
	"net/url"
	"strings"
	"time"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/models"
)

// Source fetches the full history of a professional.
type Source interface {
	Report(ctx context.Context, psicologoID int64) ([]models.Cita, error)
}

// Result is a filtered report.
type Result struct {
	Rows       []Row               `json:"rows"`
	Options    map[Column][]string `json:"options"`
	Years      []int               `json:"anios"`
	Total      int                 `json:"total"`
	DateFilter DateFilter          `json:"dateFilter"`
	DateKind   string              `json:"dateKind"`
}

// Service builds reports.
type Service struct {
	api     Source
	catalog *catalog.Catalog
	loc     *time.Location
	now     func() time.Time
}

// NewService creates a report service that evaluates day windows in loc.
func NewService(api Source, cat *catalog.Catalog, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{api: api, catalog: cat, loc: loc, now: time.Now}
}

// Build fetches the history once and applies filters. Options are computed
// from the unfiltered history.
func (s *Service) Build(ctx context.Context, psicologoID int64, filters Filters) (*Result, error) {
	if err := filters.Date.Validate(); err != nil {
		return nil, err
	}
	citas, err := s.api.Report(ctx, psicologoID)
	if err != nil {
		return nil, err
	}
	filtered, err := Apply(citas, filters, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	return &Result{
		Rows:       Rows(filtered, s.catalog),
		Options:    Options(citas),
		Years:      Years(citas),
		Total:      len(filtered),
		DateFilter: filters.Date,
		DateKind:   filters.Date.Kind(),
	}, nil
}

// ParseQuery reads filters from repeatable query parameters: one per column,
// plus dias, anio and mes.
func ParseQuery(q url.Values) (Filters, error) {
	f := Filters{Columns: make(map[Column][]string)}
	for _, col := range Columns {
		if values := nonEmpty(q[string(col)]); len(values) > 0 {
			f.Columns[col] = values
		}
	}

	var state DateFilterState
	if dias := strings.TrimSpace(q.Get("dias")); dias != "" {
		state.SetDays(dias)
	}
	years, err := ParseYears(nonEmpty(q["anio"]))
	if err != nil {
		return f, err
	}
	months, err := ParseMonths(nonEmpty(q["mes"]))
	if err != nil {
		return f, err
	}
	f.Date = DateFilter{Days: state.Days, Years: years, Months: months}
	if err := f.Date.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
