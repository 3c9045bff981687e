package timer

import "strconv"

// LaneTime is one lane's elapsed time in seconds for a single race. The zero
// value means no time was recorded for the lane (sensor miss or did not
// finish).
type LaneTime struct {
	Seconds float64
	Valid   bool
}

// Time returns a recorded lane time.
func Time(seconds float64) LaneTime {
	return LaneTime{Seconds: seconds, Valid: true}
}

// NoTime returns the "no time recorded" sentinel.
func NoTime() LaneTime {
	return LaneTime{}
}

// String renders the time with the fixed four-decimal resolution the timer
// reports, or an empty string for the sentinel. This is the exact cell format
// used in the CSV schema.
func (t LaneTime) String() string {
	if !t.Valid {
		return ""
	}
	return strconv.FormatFloat(t.Seconds, 'f', 4, 64)
}

// ParseLaneTime reads a lane cell back from its String form. An empty cell is
// the sentinel.
func ParseLaneTime(cell string) (LaneTime, error) {
	if cell == "" {
		return NoTime(), nil
	}
	seconds, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return NoTime(), err
	}
	return Time(seconds), nil
}

// LaneTimes is the ordered per-lane result of one race; index 0 is lane 1.
type LaneTimes []LaneTime

// ValidCount reports how many lanes recorded a time.
func (l LaneTimes) ValidCount() int {
	count := 0
	for _, t := range l {
		if t.Valid {
			count++
		}
	}
	return count
}
