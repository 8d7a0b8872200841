// Package dashboard builds the professional's daily appointment list.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"psicocitas-web/internal/catalog"
	"psicocitas-web/internal/jobs"
	"psicocitas-web/internal/models"
)

// DateLayout is the wire format of the fecha parameter.
const DateLayout = "2006-01-02"

// CitaLister fetches a professional's appointments for a day.
type CitaLister interface {
	CitasByDate(ctx context.Context, psicologoID int64, fecha string) ([]models.Cita, error)
}

// Card is one appointment on the dashboard.
type Card struct {
	ID          int64         `json:"id"`
	Hora        string        `json:"hora"`
	Estudiante  string        `json:"estudiante"`
	Estado      models.Estado `json:"estado"`
	EstadoLabel string        `json:"estadoLabel"`
	Href        string        `json:"href"`
}

// DayView is the dashboard for one day.
type DayView struct {
	Fecha      string `json:"fecha"`
	FechaLabel string `json:"fechaLabel"`
	Citas      []Card `json:"citas"`
}

// Service builds day views.
type Service struct {
	api         CitaLister
	catalog     *catalog.Catalog
	pendingOnly bool
}

// NewService creates a dashboard service. With pendingOnly set only
// appointments still waiting for attention are listed.
func NewService(api CitaLister, cat *catalog.Catalog, pendingOnly bool) *Service {
	return &Service{api: api, catalog: cat, pendingOnly: pendingOnly}
}

// Day lists the appointments of psicologoID on day.
func (s *Service) Day(ctx context.Context, psicologoID int64, day time.Time) (*DayView, error) {
	fecha := day.Format(DateLayout)
	citas, err := s.api.CitasByDate(ctx, psicologoID, fecha)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(citas))
	for _, cita := range citas {
		if s.pendingOnly && cita.Estado != models.EstadoPendiente {
			continue
		}
		card := Card{
			ID:          cita.ID,
			Hora:        cita.Hora,
			Estado:      cita.Estado,
			EstadoLabel: s.catalog.Upper(string(cita.Estado)),
			Href:        fmt.Sprintf("/appointment/%d", cita.ID),
		}
		if cita.Estudiante != nil {
			card.Estudiante = cita.Estudiante.Nombre
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Hora < cards[j].Hora })

	return &DayView{
		Fecha:      fecha,
		FechaLabel: s.catalog.LongDate(day),
		Citas:      cards,
	}, nil
}

// Watch polls Day every interval and delivers the latest view on the
// returned channel, which is closed once the handle stops. A slow reader
// only ever sees the newest view.
func (s *Service) Watch(ctx context.Context, psicologoID int64, day time.Time, interval, timeout time.Duration) (<-chan DayView, *jobs.Handle) {
	out := make(chan DayView, 1)
	h := jobs.Task{
		Name:     "dashboard-watch",
		Interval: interval,
		Timeout:  timeout,
		Run: func(ctx context.Context) error {
			view, err := s.Day(ctx, psicologoID, day)
			if err != nil {
				return err
			}
			select {
			case out <- *view:
			default:
				select {
				case <-out:
				default:
				}
				out <- *view
			}
			return nil
		},
	}.Start(ctx)

	go func() {
		<-h.Done()
		close(out)
	}()
	return out, h
}
