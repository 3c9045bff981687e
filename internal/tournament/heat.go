package tournament

import (
	"strings"

	"champtimer/internal/race"
)

// Status represents the lifecycle of a heat. Transitions only move forward.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Heat is one round of racing. Lanes maps lane number to contestant name;
// unassigned lanes are still timed but ignored for standings. A heat freezes
// once a race record is bound to it.
type Heat struct {
	ID     int
	Lanes  map[int]string
	Status Status
	Result *race.Record
}

// Contestant returns the name assigned to a lane, if any.
func (h Heat) Contestant(lane int) (string, bool) {
	name, ok := h.Lanes[lane]
	return name, ok
}

// WinnerName resolves the bound record's winning lane to a contestant name.
// Empty when the heat is incomplete, had no winner, or the winning lane was
// unassigned.
func (h Heat) WinnerName() string {
	if h.Result == nil || h.Result.Winner == race.NoWinner {
		return ""
	}
	return h.Lanes[h.Result.Winner]
}

func (h Heat) snapshot() Heat {
	cp := h
	cp.Lanes = make(map[int]string, len(h.Lanes))
	for lane, name := range h.Lanes {
		cp.Lanes[lane] = name
	}
	if h.Result != nil {
		result := *h.Result
		cp.Result = &result
	}
	return cp
}
