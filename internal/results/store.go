package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"champtimer/internal/race"
	"champtimer/internal/timer"
)

// Store persists capture sessions and their races in SQLite. Races are
// append-only; nothing ever updates or deletes a persisted row.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SessionInfo summarizes one persisted capture session.
type SessionInfo struct {
	ID        string
	Device    string
	Baud      int
	LaneCount int
	StartedAt time.Time
	Races     int
}

// OpenStore initializes or connects to the results database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// BeginSession records a new capture session.
func (s *Store) BeginSession(ctx context.Context, sess *race.Session, device string, baud int) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO sessions (id, device, baud, lane_count, started_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID(),
		device,
		baud,
		sess.LaneCount(),
		sess.StartedAt().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// AppendRace persists one fully built record. The unique (session, number)
// index makes accidental double-writes an error instead of a silent
// duplicate.
func (s *Store) AppendRace(ctx context.Context, sessionID string, rec race.Record) error {
	cells := make([]string, len(rec.Lanes))
	for i, t := range rec.Lanes {
		cells[i] = t.String()
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO races (session_id, race_number, captured_at, lane_times, winner, raw_line)
         VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID,
		rec.Number,
		rec.CapturedAt.UTC().Format(time.RFC3339Nano),
		strings.Join(cells, ","),
		rec.Winner,
		rec.RawLine,
	); err != nil {
		return fmt.Errorf("insert race %d: %w", rec.Number, err)
	}
	return nil
}

// LastRaceNumber returns the highest persisted race number across all
// sessions, or zero when no races exist. Sessions seed their counter from
// this so numbering stays monotonic across process restarts.
func (s *Store) LastRaceNumber(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var last sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(race_number) FROM races`).Scan(&last); err != nil {
		return 0, fmt.Errorf("query last race number: %w", err)
	}
	if !last.Valid {
		return 0, nil
	}
	return last.Int64, nil
}

// RacesBySession returns the races of one session in race-number order.
func (s *Store) RacesBySession(ctx context.Context, sessionID string) ([]race.Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT race_number, captured_at, lane_times, winner, raw_line
         FROM races WHERE session_id = ? ORDER BY race_number`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query races: %w", err)
	}
	defer rows.Close()

	var records []race.Record
	for rows.Next() {
		var (
			rec        race.Record
			capturedAt string
			laneCells  string
		)
		if err := rows.Scan(&rec.Number, &capturedAt, &laneCells, &rec.Winner, &rec.RawLine); err != nil {
			return nil, fmt.Errorf("scan race: %w", err)
		}
		if rec.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt); err != nil {
			return nil, fmt.Errorf("parse captured_at: %w", err)
		}
		cells := strings.Split(laneCells, ",")
		rec.Lanes = make(timer.LaneTimes, len(cells))
		for i, cell := range cells {
			if rec.Lanes[i], err = timer.ParseLaneTime(cell); err != nil {
				return nil, fmt.Errorf("parse lane %d: %w", i+1, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Sessions lists persisted sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.id, s.device, s.baud, s.lane_count, s.started_at, COUNT(r.id)
         FROM sessions s LEFT JOIN races r ON r.session_id = s.id
         GROUP BY s.id ORDER BY s.started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var (
			info      SessionInfo
			startedAt string
		)
		if err := rows.Scan(&info.ID, &info.Device, &info.Baud, &info.LaneCount, &startedAt, &info.Races); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if info.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
