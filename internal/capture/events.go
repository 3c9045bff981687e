package capture

import "champtimer/internal/race"

// Event is the union of everything a capture session can report.
type Event interface {
	eventType() string
}

// RaceEvent carries a fully built race record.
type RaceEvent struct {
	Record race.Record
}

// ParseFailureEvent reports a line the parser could not understand. The
// session keeps running after emitting one.
type ParseFailureEvent struct {
	Line string
	Err  error
}

// DisconnectedEvent reports that the port failed mid-read. It is the last
// event a session emits.
type DisconnectedEvent struct {
	Err error
}

func (RaceEvent) eventType() string         { return "race" }
func (ParseFailureEvent) eventType() string { return "parse_failure" }
func (DisconnectedEvent) eventType() string { return "disconnected" }

// EventType returns a stable name for logging.
func EventType(ev Event) string {
	if ev == nil {
		return "none"
	}
	return ev.eventType()
}
