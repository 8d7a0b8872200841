package attention

import (
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request for the same key was issued
// while this one was in flight.
var ErrSuperseded = errors.New("attention: superseded by a newer request")

// Sequencer hands out tickets per key; only the latest ticket is current.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Ticket marks one request.
type Ticket struct {
	seq *Sequencer
	key string
	n   uint64
}

// Next issues a ticket for key, superseding any earlier one.
func (s *Sequencer) Next(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[key]++
	return Ticket{seq: s, key: key, n: s.latest[key]}
}

// Current reports whether no newer ticket was issued for the same key.
func (t Ticket) Current() bool {
	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()
	return t.seq.latest[t.key] == t.n
}
