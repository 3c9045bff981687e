package timer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a line the detector could not turn into lane times. The
// raw line is retained for diagnostics.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse timer line %q: %s", e.Line, e.Reason)
}

// ReasonOversized marks frames the framer cut off before a terminator arrived.
const ReasonOversized = "oversized or unterminated line"

// layout is one known timer output format. match reports whether the line is
// structurally in this layout at all; when it is, times holds one entry per
// lane with sentinels for fields that did not parse.
type layout interface {
	name() string
	match(line string, laneCount int) (times LaneTimes, ok bool)
}

// layouts are tried in priority order; the first structural match wins and
// lower-priority layouts are never consulted for that line. Add new device
// formats here.
var layouts = []layout{
	labeledLayout{},
	indexedLayout{},
	delimitedLayout{},
}

// Parse detects the layout of one candidate line and extracts per-lane
// elapsed times. The result always has laneCount entries; lanes the line did
// not mention carry the sentinel. A line that matches no layout, or matches
// one but yields zero usable times, is a *ParseError.
func Parse(line string, laneCount int) (LaneTimes, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, &ParseError{Line: line, Reason: "empty line"}
	}
	for _, l := range layouts {
		times, ok := l.match(trimmed, laneCount)
		if !ok {
			continue
		}
		if times.ValidCount() == 0 {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("%s layout matched but no lane time parsed", l.name())}
		}
		return times, nil
	}
	return nil, &ParseError{Line: line, Reason: "unrecognized format"}
}

// parseSeconds accepts a non-negative finite decimal; anything else maps the
// lane to the sentinel.
func parseSeconds(token string) (LaneTime, bool) {
	seconds, err := strconv.ParseFloat(token, 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return NoTime(), false
	}
	return Time(seconds), true
}

// labeledLayout handles "Lane1: 3.2450  Lane2: 3.2678" style output. Tokens
// carry explicit lane numbers, so ordering on the wire is irrelevant.
type labeledLayout struct{}

var labeledToken = regexp.MustCompile(`(?i)\blane\s*(\d+)\s*:\s*([0-9.]*)`)

func (labeledLayout) name() string { return "labeled" }

func (labeledLayout) match(line string, laneCount int) (LaneTimes, bool) {
	tokens := labeledToken.FindAllStringSubmatch(line, -1)
	if len(tokens) == 0 {
		return nil, false
	}
	times := make(LaneTimes, laneCount)
	for _, tok := range tokens {
		lane, err := strconv.Atoi(tok[1])
		if err != nil || lane < 1 || lane > laneCount {
			continue
		}
		if t, ok := parseSeconds(tok[2]); ok {
			times[lane-1] = t
		}
	}
	return times, true
}

// indexedLayout handles "1:3.2450 2:3.2678" style output: whitespace-separated
// tokens of lane number, colon, time.
type indexedLayout struct{}

var indexedToken = regexp.MustCompile(`^(\d+):(.+)$`)

func (indexedLayout) name() string { return "indexed" }

func (indexedLayout) match(line string, laneCount int) (LaneTimes, bool) {
	fields := strings.Fields(line)
	times := make(LaneTimes, laneCount)
	matched := false
	for _, field := range fields {
		tok := indexedToken.FindStringSubmatch(field)
		if tok == nil {
			// Unknown trailing tokens are ignored.
			continue
		}
		lane, err := strconv.Atoi(tok[1])
		if err != nil || lane < 1 || lane > laneCount {
			continue
		}
		matched = true
		if t, ok := parseSeconds(tok[2]); ok {
			times[lane-1] = t
		}
	}
	if !matched {
		return nil, false
	}
	return times, true
}

// delimitedLayout handles positional comma- or tab-separated output. It only
// claims a line when the field count equals the configured lane count, so
// labeled or indexed lines that happen to contain a delimiter are not
// misattributed positionally.
type delimitedLayout struct{}

func (delimitedLayout) name() string { return "delimited" }

func (delimitedLayout) match(line string, laneCount int) (LaneTimes, bool) {
	sep := ","
	if !strings.Contains(line, sep) {
		sep = "\t"
		if !strings.Contains(line, sep) {
			return nil, false
		}
	}
	fields := strings.Split(line, sep)
	if len(fields) != laneCount {
		return nil, false
	}
	times := make(LaneTimes, laneCount)
	for i, field := range fields {
		if t, ok := parseSeconds(strings.TrimSpace(field)); ok {
			times[i] = t
		}
	}
	return times, true
}
