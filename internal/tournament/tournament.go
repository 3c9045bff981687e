package tournament

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"champtimer/internal/race"
)

// InvalidTransitionError reports an operation applied to a heat in the wrong
// state: starting a completed heat, binding an unstarted one, or binding
// twice. The double bind case usually signals a device retransmission, so it
// is surfaced rather than silently ignored. State is never changed by a
// rejected transition.
type InvalidTransitionError struct {
	HeatID int
	Status Status
	Op     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("heat %d: cannot %s while %s", e.HeatID, e.Op, e.Status)
}

// ErrUnknownHeat is returned for operations on heat IDs that were never
// scheduled.
var ErrUnknownHeat = errors.New("unknown heat")

// AdvancePolicy decides the next heat's lane assignment given the heats run
// so far. Bracket seeding, round-robin rotation, and manual assignment are
// all policies; the state machine itself never decides who races next.
type AdvancePolicy func(completed []Heat) (map[int]string, error)

// Tournament owns the heat sequence for one event. All mutation happens
// under one mutex, so a capture goroutine calling Bind and a control surface
// calling Schedule or Advance never interleave partially.
type Tournament struct {
	laneCount int

	mu     sync.Mutex
	heats  []*Heat
	nextID int
}

// New creates a tournament for the configured lane count.
func New(laneCount int) (*Tournament, error) {
	if laneCount < 2 {
		return nil, fmt.Errorf("tournament needs at least 2 lanes, got %d", laneCount)
	}
	return &Tournament{laneCount: laneCount, nextID: 1}, nil
}

// LaneCount returns the number of lanes heats are bounded by.
func (t *Tournament) LaneCount() int { return t.laneCount }

// Schedule creates a pending heat with the given lane assignment. Partial
// assignments are allowed; lanes out of range or the same contestant on two
// lanes are rejected.
func (t *Tournament) Schedule(assignment map[int]string) (Heat, error) {
	lanes := make(map[int]string, len(assignment))
	seen := make(map[string]int, len(assignment))
	for lane, name := range assignment {
		if lane < 1 || lane > t.laneCount {
			return Heat{}, fmt.Errorf("lane %d out of range 1..%d", lane, t.laneCount)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if other, dup := seen[strings.ToLower(name)]; dup {
			return Heat{}, fmt.Errorf("contestant %q assigned to both lane %d and lane %d", name, other, lane)
		}
		seen[strings.ToLower(name)] = lane
		lanes[lane] = name
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	heat := &Heat{ID: t.nextID, Lanes: lanes, Status: StatusPending}
	t.nextID++
	t.heats = append(t.heats, heat)
	return heat.snapshot(), nil
}

// Start opens a pending heat to receive exactly one race record.
func (t *Tournament) Start(heatID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	heat, err := t.find(heatID)
	if err != nil {
		return err
	}
	if heat.Status != StatusPending {
		return &InvalidTransitionError{HeatID: heatID, Status: heat.Status, Op: "start"}
	}
	heat.Status = StatusInProgress
	return nil
}

// Bind attaches a race record to an in-progress heat and completes it. A
// second bind, or a bind against a heat that was never started, fails with
// InvalidTransitionError and leaves the heat untouched.
func (t *Tournament) Bind(heatID int, record race.Record) (Heat, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	heat, err := t.find(heatID)
	if err != nil {
		return Heat{}, err
	}
	if heat.Status != StatusInProgress || heat.Result != nil {
		return Heat{}, &InvalidTransitionError{HeatID: heatID, Status: heat.Status, Op: "bind"}
	}
	heat.Result = &record
	heat.Status = StatusCompleted
	return heat.snapshot(), nil
}

// Advance asks the policy for the next assignment and schedules it as a
// pending heat. It never runs implicitly; a race arriving with no heat in
// progress does not create one.
func (t *Tournament) Advance(policy AdvancePolicy) (Heat, error) {
	if policy == nil {
		return Heat{}, errors.New("advance policy is required")
	}
	assignment, err := policy(t.Completed())
	if err != nil {
		return Heat{}, fmt.Errorf("advance policy: %w", err)
	}
	return t.Schedule(assignment)
}

// Current returns the most recently scheduled heat that has not completed.
func (t *Tournament) Current() (Heat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.heats) - 1; i >= 0; i-- {
		if t.heats[i].Status != StatusCompleted {
			return t.heats[i].snapshot(), true
		}
	}
	return Heat{}, false
}

// Heat returns a snapshot of one heat by ID.
func (t *Tournament) Heat(heatID int) (Heat, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	heat, err := t.find(heatID)
	if err != nil {
		return Heat{}, err
	}
	return heat.snapshot(), nil
}

// Completed returns snapshots of all completed heats in heat order. This is
// the sole input to Standings.
func (t *Tournament) Completed() []Heat {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Heat
	for _, heat := range t.heats {
		if heat.Status == StatusCompleted {
			out = append(out, heat.snapshot())
		}
	}
	return out
}

// Standings computes standings over the heats completed so far.
func (t *Tournament) Standings() []Standing {
	return Standings(t.Completed())
}

func (t *Tournament) find(heatID int) (*Heat, error) {
	for _, heat := range t.heats {
		if heat.ID == heatID {
			return heat, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownHeat, heatID)
}
