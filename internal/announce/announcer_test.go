package announce

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"champtimer/internal/race"
	"champtimer/internal/timer"
	"champtimer/internal/tournament"
)

func sampleRecord() race.Record {
	return race.Record{
		Number:     3,
		CapturedAt: time.Date(2026, 8, 28, 14, 30, 0, 0, time.Local),
		Lanes:      timer.LaneTimes{timer.Time(3.201), timer.NoTime(), timer.Time(2.998), timer.NoTime()},
		Winner:     3,
		RawLine:    "Lane1: 3.201 Lane3: 2.998",
	}
}

func TestRaceOutput(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Race(sampleRecord())

	out := buf.String()
	for _, want := range []string{
		"Race #3  2026-08-28 14:30:00",
		"Lane 1: 3.2010s",
		"Lane 2: --",
		"Lane 3: 2.9980s",
		"Winner: Lane 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRaceOutputNoWinner(t *testing.T) {
	rec := sampleRecord()
	rec.Lanes = timer.LaneTimes{timer.NoTime(), timer.NoTime()}
	rec.Winner = race.NoWinner

	var buf bytes.Buffer
	New(&buf).Race(rec)
	if !strings.Contains(buf.String(), "No winner") {
		t.Fatalf("expected no-winner line:\n%s", buf.String())
	}
}

func TestHeatResultNamesWinner(t *testing.T) {
	rec := sampleRecord()
	heat := tournament.Heat{
		ID:     2,
		Lanes:  map[int]string{1: "ada", 3: "grace"},
		Status: tournament.StatusCompleted,
		Result: &rec,
	}

	var buf bytes.Buffer
	New(&buf).HeatResult(heat)

	out := buf.String()
	for _, want := range []string{"Heat 2 complete", "Ada", "Grace", "(empty)", "Winner: Grace"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHeatResultSkipsIncompleteHeat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).HeatResult(tournament.Heat{ID: 1, Status: tournament.StatusPending})
	if buf.Len() != 0 {
		t.Fatalf("expected no output for incomplete heat, got %q", buf.String())
	}
}

func TestStandingsTable(t *testing.T) {
	standings := []tournament.Standing{
		{Rank: 1, Name: "grace", Best: timer.Time(2.998), Average: timer.Time(3.1), Races: 2, Wins: 2},
		{Rank: 2, Name: "ada", Best: timer.Time(3.201), Average: timer.Time(3.201), Races: 1, Wins: 0},
	}

	var buf bytes.Buffer
	New(&buf).Standings(standings)

	out := buf.String()
	for _, want := range []string{"Rank", "Grace", "Ada", "2.9980", "3.2010"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Grace") > strings.Index(out, "Ada") {
		t.Fatal("rows out of rank order")
	}
}

func TestStandingsEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Standings(nil)
	if !strings.Contains(buf.String(), "No completed heats") {
		t.Fatalf("expected empty-standings message, got %q", buf.String())
	}
}

func TestPorts(t *testing.T) {
	var buf bytes.Buffer
	a := New(&buf)

	a.Ports(nil)
	if !strings.Contains(buf.String(), "No serial ports") {
		t.Fatalf("expected empty-ports message, got %q", buf.String())
	}

	buf.Reset()
	a.Ports([]string{"/dev/ttyUSB0", "/dev/ttyACM0"})
	out := buf.String()
	if !strings.Contains(out, "/dev/ttyUSB0") || !strings.Contains(out, "/dev/ttyACM0") {
		t.Fatalf("ports missing from output:\n%s", out)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("speed racer"); got != "Speed Racer" {
		t.Fatalf("DisplayName = %q", got)
	}
}
