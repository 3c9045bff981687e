package results

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    device     TEXT NOT NULL,
    baud       INTEGER NOT NULL,
    lane_count INTEGER NOT NULL,
    started_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS races (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL REFERENCES sessions(id),
    race_number INTEGER NOT NULL,
    captured_at TEXT NOT NULL,
    lane_times  TEXT NOT NULL,
    winner      INTEGER NOT NULL,
    raw_line    TEXT NOT NULL DEFAULT '',
    UNIQUE (session_id, race_number)
);

CREATE INDEX IF NOT EXISTS idx_races_session ON races(session_id);
`

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
