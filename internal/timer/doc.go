// Package timer turns the raw byte stream emitted by a track timer into
// structured per-lane elapsed times.
//
// The Framer splits arbitrary read chunks into complete lines regardless of
// how the serial layer fragments them, and Parse recognizes the line layouts
// observed across timer hardware revisions (labeled, indexed, and delimited).
// New layouts slot into the ordered strategy list in parse.go without
// touching callers.
//
// Nothing in this package talks to hardware; it operates purely on bytes and
// strings so the capture pipeline and tests can drive it identically.
package timer
