package race

import (
	"fmt"
	"time"

	"champtimer/internal/timer"
)

// NoWinner is the Winner value of a record where no lane produced a valid
// time. That is a legitimate outcome (false start, sensor failure on every
// lane), not an error.
const NoWinner = 0

// Record is one captured race. Immutable once built.
type Record struct {
	Number     int64
	CapturedAt time.Time
	Lanes      timer.LaneTimes
	Winner     int // lane number 1..len(Lanes), or NoWinner
	RawLine    string
}

// WinnerLabel renders the winner cell used in the CSV schema.
func (r Record) WinnerLabel() string {
	if r.Winner == NoWinner {
		return "No winner"
	}
	return fmt.Sprintf("Lane %d", r.Winner)
}

// Winner returns the lane number with the strictly smallest valid time.
// Exact ties resolve to the lowest lane index; device resolution is four
// decimals, so exact ties do happen.
func Winner(lanes timer.LaneTimes) int {
	winner := NoWinner
	var best float64
	for i, t := range lanes {
		if !t.Valid {
			continue
		}
		if winner == NoWinner || t.Seconds < best {
			winner = i + 1
			best = t.Seconds
		}
	}
	return winner
}
