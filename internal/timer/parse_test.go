package timer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"champtimer/internal/timer"
)

func TestParseWellFormedLinesAllLayouts(t *testing.T) {
	for _, lanes := range []int{2, 3, 4} {
		values := []string{"3.2450", "3.2678", "3.3012", "3.2891"}[:lanes]

		var labeled, indexed []string
		for i, v := range values {
			labeled = append(labeled, fmt.Sprintf("Lane%d: %s", i+1, v))
			indexed = append(indexed, fmt.Sprintf("%d:%s", i+1, v))
		}
		lines := map[string]string{
			"labeled": strings.Join(labeled, "  "),
			"indexed": strings.Join(indexed, " "),
			"comma":   strings.Join(values, ","),
			"tab":     strings.Join(values, "\t"),
		}

		for layout, line := range lines {
			t.Run(fmt.Sprintf("%s_%d_lanes", layout, lanes), func(t *testing.T) {
				times, err := timer.Parse(line, lanes)
				if err != nil {
					t.Fatalf("Parse failed: %v", err)
				}
				if len(times) != lanes {
					t.Fatalf("expected %d lanes, got %d", lanes, len(times))
				}
				if times.ValidCount() != lanes {
					t.Fatalf("expected all lanes valid, got %d of %d", times.ValidCount(), lanes)
				}
				for i, v := range values {
					if times[i].String() != v {
						t.Fatalf("lane %d: expected %s, got %s", i+1, v, times[i])
					}
				}
			})
		}
	}
}

func TestParseLabeledOutOfOrder(t *testing.T) {
	times, err := timer.Parse("Lane2: 3.2678  Lane1: 3.2450", 4)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times[0].String() != "3.2450" || times[1].String() != "3.2678" {
		t.Fatalf("labeled tokens misattributed: %v", times)
	}
	if times[2].Valid || times[3].Valid {
		t.Fatal("unmentioned lanes must carry the sentinel")
	}
}

func TestParseLabeledCaseAndSpacing(t *testing.T) {
	times, err := timer.Parse("LANE 1 : 2.5  lane2:2.6", 2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times[0].String() != "2.5000" || times[1].String() != "2.6000" {
		t.Fatalf("unexpected times: %v", times)
	}
}

func TestParseLabeledWinsOverDelimited(t *testing.T) {
	// A labeled line containing commas must never be reinterpreted
	// positionally by the delimited layout.
	times, err := timer.Parse("Lane1: 9.0, Lane2: 1.0", 2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times[0].String() != "9.0000" || times[1].String() != "1.0000" {
		t.Fatalf("labeled layout lost priority: %v", times)
	}
}

func TestParseDelimitedRequiresExactFieldCount(t *testing.T) {
	if _, err := timer.Parse("3.1,3.2,3.3", 4); err == nil {
		t.Fatal("expected error for field count mismatch")
	}
	var parseErr *timer.ParseError
	_, err := timer.Parse("3.1,3.2,3.3,3.4,3.5", 4)
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *timer.ParseError, got %v", err)
	}
}

func TestParsePartialFieldMapsToSentinel(t *testing.T) {
	times, err := timer.Parse("3.2450,junk,3.3012,3.2891", 4)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times[1].Valid {
		t.Fatal("unparseable field must map to sentinel")
	}
	if times.ValidCount() != 3 {
		t.Fatalf("expected 3 valid lanes, got %d", times.ValidCount())
	}
}

func TestParseRejectsNegativeTimes(t *testing.T) {
	times, err := timer.Parse("Lane1: -1.0  Lane2: 2.0", 2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times[0].Valid {
		t.Fatal("negative time must map to sentinel")
	}
	if !times[1].Valid {
		t.Fatal("lane 2 should have parsed")
	}
}

func TestParseUnrecognizedLine(t *testing.T) {
	var parseErr *timer.ParseError
	_, err := timer.Parse("garbage data", 4)
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *timer.ParseError, got %v", err)
	}
	if parseErr.Line != "garbage data" {
		t.Fatalf("raw line not retained: %q", parseErr.Line)
	}
}

func TestParseMatchedLayoutWithZeroTimesIsError(t *testing.T) {
	// Structurally labeled but nothing parseable: the line must fail rather
	// than fall through to a lower-priority layout.
	if _, err := timer.Parse("Lane1: x Lane2: y", 2); err == nil {
		t.Fatal("expected error for labeled line with no parseable times")
	}
}

func TestParseIgnoresUnknownTrailingTokens(t *testing.T) {
	times, err := timer.Parse("1:3.2450 2:3.2678 END", 2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if times.ValidCount() != 2 {
		t.Fatalf("expected 2 valid lanes, got %d", times.ValidCount())
	}
}

func TestLaneTimeRoundTrip(t *testing.T) {
	original := timer.Time(3.2450)
	parsed, err := timer.ParseLaneTime(original.String())
	if err != nil {
		t.Fatalf("ParseLaneTime failed: %v", err)
	}
	if parsed != original {
		t.Fatalf("round trip mismatch: %v != %v", parsed, original)
	}

	sentinel, err := timer.ParseLaneTime("")
	if err != nil {
		t.Fatalf("ParseLaneTime sentinel failed: %v", err)
	}
	if sentinel.Valid {
		t.Fatal("empty cell must parse as sentinel")
	}
}
