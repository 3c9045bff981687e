package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"champtimer/internal/race"
	"champtimer/internal/timer"
)

// timestampLayout is the schema's timestamp format, shared with the embedded
// logger.
const timestampLayout = "2006-01-02 15:04:05"

// RaceLog appends race records to a CSV file with the fixed schema
//
//	Race #,Timestamp,Lane 1..Lane N,Winner,Notes
//
// Rows are never rewritten. The Notes column carries the raw timer line for
// diagnostics.
type RaceLog struct {
	path      string
	laneCount int

	mu sync.Mutex
}

// NewRaceLog opens (creating if needed) an append-only race log. The header
// row is written once, when the file is new or empty.
func NewRaceLog(path string, laneCount int) (*RaceLog, error) {
	l := &RaceLog{path: path, laneCount: laneCount}
	if err := l.ensureHeader(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the file backing the log.
func (l *RaceLog) Path() string { return l.path }

// Append writes one record as a single row.
func (l *RaceLog) Append(rec race.Record) error {
	row := make([]string, 0, l.laneCount+4)
	row = append(row, strconv.FormatInt(rec.Number, 10), rec.CapturedAt.Format(timestampLayout))
	for lane := 0; lane < l.laneCount; lane++ {
		cell := ""
		if lane < len(rec.Lanes) {
			cell = rec.Lanes[lane].String()
		}
		row = append(row, cell)
	}
	row = append(row, rec.WinnerLabel(), rec.RawLine)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendRow(row)
}

func (l *RaceLog) ensureHeader() error {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("stat race log %s: %w", l.path, err)
	}

	header := make([]string, 0, l.laneCount+4)
	header = append(header, "Race #", "Timestamp")
	for lane := 1; lane <= l.laneCount; lane++ {
		header = append(header, fmt.Sprintf("Lane %d", lane))
	}
	header = append(header, "Winner", "Notes")
	return l.appendRow(header)
}

func (l *RaceLog) appendRow(row []string) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open race log %s: %w", l.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write race log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush race log: %w", err)
	}
	return file.Sync()
}

// ReadRaceLog reads a race log back into records. Files produced by the host
// pipeline and by the embedded logger round-trip identically.
func ReadRaceLog(path string) ([]race.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open race log %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read race log header: %w", err)
	}
	laneCount := 0
	for _, col := range header {
		var lane int
		if _, scanErr := fmt.Sscanf(col, "Lane %d", &lane); scanErr == nil && lane > laneCount {
			laneCount = lane
		}
	}
	if laneCount == 0 {
		return nil, fmt.Errorf("race log %s: header has no lane columns", path)
	}

	var records []race.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read race log row: %w", err)
		}
		if len(row) < laneCount+3 {
			return nil, fmt.Errorf("race log %s line %d: expected at least %d fields, got %d", path, line, laneCount+3, len(row))
		}

		rec := race.Record{Lanes: make(timer.LaneTimes, laneCount)}
		if rec.Number, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return nil, fmt.Errorf("race log %s line %d: race number: %w", path, line, err)
		}
		if rec.CapturedAt, err = time.ParseInLocation(timestampLayout, row[1], time.Local); err != nil {
			return nil, fmt.Errorf("race log %s line %d: timestamp: %w", path, line, err)
		}
		for lane := 0; lane < laneCount; lane++ {
			if rec.Lanes[lane], err = timer.ParseLaneTime(row[2+lane]); err != nil {
				return nil, fmt.Errorf("race log %s line %d: lane %d: %w", path, line, lane+1, err)
			}
		}
		if winner := row[2+laneCount]; winner != "No winner" {
			if _, err := fmt.Sscanf(winner, "Lane %d", &rec.Winner); err != nil {
				return nil, fmt.Errorf("race log %s line %d: winner %q: %w", path, line, winner, err)
			}
		}
		if len(row) > laneCount+3 {
			rec.RawLine = row[3+laneCount]
		}
		records = append(records, rec)
	}
	return records, nil
}
