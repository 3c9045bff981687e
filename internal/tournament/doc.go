// Package tournament runs the heat progression state machine and derives
// standings from completed heats.
//
// Heats move strictly forward through pending, in_progress, and completed;
// binding a race record to a heat is the single transition the capture
// pipeline may trigger, and it is atomic with respect to scheduling and
// advancing, which belong to the control side. Standings are a pure
// projection over the ordered sequence of completed heats and are recomputed
// on demand rather than cached.
package tournament
