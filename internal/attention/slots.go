package attention

import (
	"context"
	"log/slog"
	"strconv"

	"psicocitas-web/internal/models"
)

// SlotLister fetches the free hours of a professional.
type SlotLister interface {
	Slots(ctx context.Context, psicologoID int64, fecha string) ([]models.Horario, error)
}

// SlotBuckets splits slots into morning and afternoon.
type SlotBuckets struct {
	Manana []models.Horario `json:"manana"`
	Tarde  []models.Horario `json:"tarde"`
}

// Bucket splits slots at noon. Slots whose hour cannot be read go to the
// afternoon.
func Bucket(slots []models.Horario) SlotBuckets {
	b := SlotBuckets{Manana: []models.Horario{}, Tarde: []models.Horario{}}
	for _, s := range slots {
		if s.Morning() {
			b.Manana = append(b.Manana, s)
		} else {
			b.Tarde = append(b.Tarde, s)
		}
	}
	return b
}

// SlotFinder loads slots with latest-wins semantics per professional.
type SlotFinder struct {
	api SlotLister
	seq *Sequencer
}

// NewSlotFinder creates a finder on api.
func NewSlotFinder(api SlotLister) *SlotFinder {
	return &SlotFinder{api: api, seq: NewSequencer()}
}

// Find lists the slots of psicologoID on fecha. If another Find for the same
// professional starts before this one returns, this one reports
// ErrSuperseded. Upstream failures yield no slots.
func (f *SlotFinder) Find(ctx context.Context, psicologoID int64, fecha string) (*SlotBuckets, error) {
	ticket := f.seq.Next(strconv.FormatInt(psicologoID, 10))
	slots, err := f.api.Slots(ctx, psicologoID, fecha)
	if !ticket.Current() {
		return nil, ErrSuperseded
	}
	if err != nil {
		slog.Error("failed to load slots", "psicologo", psicologoID, "fecha", fecha, "error", err)
		slots = nil
	}
	b := Bucket(slots)
	return &b, nil
}
