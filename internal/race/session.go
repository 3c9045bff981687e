package race

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"champtimer/internal/timer"
)

// Session scopes race numbering to one capture run. Numbers are strictly
// increasing and never reused, no matter how many parse failures occur
// between successful builds. Reconnecting the serial link keeps the same
// session; a process restart starts a new one unless the counter is seeded
// from the results store.
type Session struct {
	id        string
	laneCount int
	startedAt time.Time

	mu   sync.Mutex
	next int64
}

// NewSession creates a session for the configured lane count.
func NewSession(laneCount int) *Session {
	return &Session{
		id:        uuid.NewString(),
		laneCount: laneCount,
		startedAt: time.Now().UTC(),
		next:      1,
	}
}

// ID returns the session identifier used by the results store.
func (s *Session) ID() string { return s.id }

// LaneCount returns the configured number of lanes.
func (s *Session) LaneCount() int { return s.laneCount }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Seed advances the counter so the next race number follows lastNumber.
// Used to continue numbering from persisted results across process restarts.
// Seeding backwards is ignored; the counter never regresses.
func (s *Session) Seed(lastNumber int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lastNumber+1 > s.next {
		s.next = lastNumber + 1
	}
}

// Build assigns the next race number and capture timestamp and computes the
// winner. The lane vector is normalized to the session's lane count, padding
// missing lanes with the sentinel.
func (s *Session) Build(lanes timer.LaneTimes, rawLine string) Record {
	normalized := make(timer.LaneTimes, s.laneCount)
	copy(normalized, lanes)

	s.mu.Lock()
	number := s.next
	s.next++
	s.mu.Unlock()

	return Record{
		Number:     number,
		CapturedAt: time.Now(),
		Lanes:      normalized,
		Winner:     Winner(normalized),
		RawLine:    rawLine,
	}
}

// NextNumber reports the number the next successful build will receive.
func (s *Session) NextNumber() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
