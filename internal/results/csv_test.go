package results_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"champtimer/internal/race"
	"champtimer/internal/results"
	"champtimer/internal/timer"
	"champtimer/internal/tournament"
)

func buildRecord(t *testing.T, sess *race.Session, raw string) race.Record {
	t.Helper()
	times, err := timer.Parse(raw, sess.LaneCount())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return sess.Build(times, raw)
}

func TestRaceLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "races.csv")
	log, err := results.NewRaceLog(path, 4)
	if err != nil {
		t.Fatalf("NewRaceLog failed: %v", err)
	}

	sess := race.NewSession(4)
	want := []race.Record{
		buildRecord(t, sess, "3.2450,3.2678,3.3012,3.2891"),
		buildRecord(t, sess, "Lane2: 4.0  Lane3: 3.9"),
	}
	noWinner := sess.Build(make(timer.LaneTimes, 4), "x,x,x,x")
	want = append(want, noWinner)

	for _, rec := range want {
		if err := log.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := results.ReadRaceLog(path)
	if err != nil {
		t.Fatalf("ReadRaceLog failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Number != want[i].Number {
			t.Fatalf("record %d: number %d != %d", i, got[i].Number, want[i].Number)
		}
		if got[i].Winner != want[i].Winner {
			t.Fatalf("record %d: winner %d != %d", i, got[i].Winner, want[i].Winner)
		}
		for lane := range want[i].Lanes {
			if got[i].Lanes[lane] != want[i].Lanes[lane] {
				t.Fatalf("record %d lane %d: %v != %v", i, lane+1, got[i].Lanes[lane], want[i].Lanes[lane])
			}
		}
		if got[i].RawLine != want[i].RawLine {
			t.Fatalf("record %d: raw line %q != %q", i, got[i].RawLine, want[i].RawLine)
		}
	}
}

func TestRaceLogHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "races.csv")
	log, err := results.NewRaceLog(path, 2)
	if err != nil {
		t.Fatalf("NewRaceLog failed: %v", err)
	}
	sess := race.NewSession(2)
	if err := log.Append(buildRecord(t, sess, "1.0,2.0")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Reopening an existing log must not duplicate the header.
	log2, err := results.NewRaceLog(path, 2)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := log2.Append(buildRecord(t, sess, "3.0,4.0")); err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if count := strings.Count(string(data), "Race #"); count != 1 {
		t.Fatalf("expected exactly one header row, found %d", count)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Race #,Timestamp,Lane 1,Lane 2,Winner") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestHeatLogRejectsIncompleteHeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heats.csv")
	log, err := results.NewHeatLog(path, 4)
	if err != nil {
		t.Fatalf("NewHeatLog failed: %v", err)
	}

	tm, _ := tournament.New(4)
	heat, _ := tm.Schedule(map[int]string{1: "Ada"})
	if err := log.Append(heat); err == nil {
		t.Fatal("expected error appending a pending heat")
	}
}

func TestHeatLogRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heats.csv")
	log, err := results.NewHeatLog(path, 4)
	if err != nil {
		t.Fatalf("NewHeatLog failed: %v", err)
	}

	tm, _ := tournament.New(4)
	heat, _ := tm.Schedule(map[int]string{1: "Ada", 2: "Grace"})
	_ = tm.Start(heat.ID)
	sess := race.NewSession(4)
	completed, err := tm.Bind(heat.ID, buildRecord(t, sess, "3.2450,3.2678,3.3012,3.2891"))
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := log.Append(completed); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	row := lines[1]
	for _, want := range []string{"Ada", "Grace", "3.2450", "3.2678"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row missing %q: %q", want, row)
		}
	}
	if !strings.HasSuffix(row, "Ada") {
		t.Fatalf("expected heat winner Ada at end of row: %q", row)
	}
}

func TestWriteStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standings.csv")
	standings := []tournament.Standing{
		{Rank: 1, Name: "Grace", Best: timer.Time(3.1), Average: timer.Time(3.25), Races: 2},
		{Rank: 2, Name: "Ada", Best: timer.Time(3.2450), Average: timer.Time(3.3225), Races: 2},
	}
	if err := results.WriteStandings(path, standings); err != nil {
		t.Fatalf("WriteStandings failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Rank,Name,Best Time,Average Time,Total Races") {
		t.Fatalf("unexpected header: %q", content)
	}
	if !strings.Contains(content, "1,Grace,3.1000,3.2500,2") {
		t.Fatalf("missing Grace row: %q", content)
	}

	// Rewriting is idempotent; the file always reflects exactly one snapshot.
	if err := results.WriteStandings(path, standings[:1]); err != nil {
		t.Fatalf("second WriteStandings failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "Ada") {
		t.Fatal("rewritten standings must not retain stale rows")
	}
}
