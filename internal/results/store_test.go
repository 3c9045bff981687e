package results_test

import (
	"context"
	"testing"

	"champtimer/internal/race"
	"champtimer/internal/results"
	"champtimer/internal/testsupport"
)

func openStore(t *testing.T) *results.Store {
	t.Helper()
	return testsupport.MustOpenStore(t)
}

func TestStoreAppendAndReadBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	sess := race.NewSession(4)
	if err := store.BeginSession(ctx, sess, "/dev/ttyUSB0", 9600); err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}

	want := []race.Record{
		buildRecord(t, sess, "3.2450,3.2678,3.3012,3.2891"),
		buildRecord(t, sess, "Lane1: 2.9  Lane4: 3.0"),
	}
	for _, rec := range want {
		if err := store.AppendRace(ctx, sess.ID(), rec); err != nil {
			t.Fatalf("AppendRace failed: %v", err)
		}
	}

	got, err := store.RacesBySession(ctx, sess.ID())
	if err != nil {
		t.Fatalf("RacesBySession failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 races, got %d", len(got))
	}
	for i := range want {
		if got[i].Number != want[i].Number || got[i].Winner != want[i].Winner {
			t.Fatalf("race %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
		for lane := range want[i].Lanes {
			if got[i].Lanes[lane] != want[i].Lanes[lane] {
				t.Fatalf("race %d lane %d: %v != %v", i, lane+1, got[i].Lanes[lane], want[i].Lanes[lane])
			}
		}
		if got[i].RawLine != want[i].RawLine {
			t.Fatalf("race %d raw line mismatch: %q != %q", i, got[i].RawLine, want[i].RawLine)
		}
	}
}

func TestStoreDuplicateRaceNumberRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	sess := race.NewSession(4)
	if err := store.BeginSession(ctx, sess, "/dev/ttyUSB0", 9600); err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	rec := buildRecord(t, sess, "1.0,2.0,3.0,4.0")
	if err := store.AppendRace(ctx, sess.ID(), rec); err != nil {
		t.Fatalf("AppendRace failed: %v", err)
	}
	if err := store.AppendRace(ctx, sess.ID(), rec); err == nil {
		t.Fatal("expected duplicate race number to be rejected")
	}
}

func TestLastRaceNumberSeedsAcrossSessions(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	last, err := store.LastRaceNumber(ctx)
	if err != nil {
		t.Fatalf("LastRaceNumber failed: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected 0 on empty store, got %d", last)
	}

	first := race.NewSession(4)
	if err := store.BeginSession(ctx, first, "/dev/ttyUSB0", 9600); err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := store.AppendRace(ctx, first.ID(), buildRecord(t, first, "1.0,2.0,3.0,4.0")); err != nil {
			t.Fatalf("AppendRace failed: %v", err)
		}
	}

	last, err = store.LastRaceNumber(ctx)
	if err != nil {
		t.Fatalf("LastRaceNumber failed: %v", err)
	}
	if last != 3 {
		t.Fatalf("expected last race number 3, got %d", last)
	}

	// A new process seeds its session from the store and keeps numbering
	// monotonic.
	second := race.NewSession(4)
	second.Seed(last)
	rec := buildRecord(t, second, "1.0,2.0,3.0,4.0")
	if rec.Number != 4 {
		t.Fatalf("expected seeded session to continue at 4, got %d", rec.Number)
	}
}

func TestSessionsListing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	sess := race.NewSession(3)
	if err := store.BeginSession(ctx, sess, "/dev/ttyACM0", 19200); err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	if err := store.AppendRace(ctx, sess.ID(), buildRecord(t, sess, "1.0,2.0,3.0")); err != nil {
		t.Fatalf("AppendRace failed: %v", err)
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	info := sessions[0]
	if info.ID != sess.ID() || info.Device != "/dev/ttyACM0" || info.Baud != 19200 || info.LaneCount != 3 || info.Races != 1 {
		t.Fatalf("unexpected session info: %+v", info)
	}
}
