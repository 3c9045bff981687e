// Package race builds immutable race records from parsed lane times.
//
// A Session owns the monotonic race counter for one capture run and is the
// only thing Build mutates; records themselves are value types and never
// change after construction. Winner determination lives here so every
// consumer (CSV log, SQLite store, tournament binding, console output)
// agrees on the same tie-break rule.
package race
