package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"champtimer/internal/tournament"
)

// HeatLog appends completed heats to a CSV file with the schema the embedded
// logger mirrors:
//
//	Heat #,Timestamp,Lane 1 Name,Lane 1 Time,...,Lane N Name,Lane N Time,Heat Winner
type HeatLog struct {
	path      string
	laneCount int

	mu sync.Mutex
}

// NewHeatLog opens (creating if needed) an append-only heat log.
func NewHeatLog(path string, laneCount int) (*HeatLog, error) {
	l := &HeatLog{path: path, laneCount: laneCount}
	if err := l.ensureHeader(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the file backing the log.
func (l *HeatLog) Path() string { return l.path }

// Append writes one completed heat. Heats without a bound record are
// rejected; partially run heats are never persisted.
func (l *HeatLog) Append(heat tournament.Heat) error {
	if heat.Status != tournament.StatusCompleted || heat.Result == nil {
		return fmt.Errorf("heat %d: only completed heats are persisted", heat.ID)
	}

	row := make([]string, 0, 2*l.laneCount+3)
	row = append(row, strconv.Itoa(heat.ID), heat.Result.CapturedAt.Format(timestampLayout))
	for lane := 1; lane <= l.laneCount; lane++ {
		name := heat.Lanes[lane]
		cell := ""
		if lane <= len(heat.Result.Lanes) {
			cell = heat.Result.Lanes[lane-1].String()
		}
		row = append(row, name, cell)
	}
	row = append(row, heat.WinnerName())

	l.mu.Lock()
	defer l.mu.Unlock()
	return appendCSVRow(l.path, row)
}

func (l *HeatLog) ensureHeader() error {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("stat heat log %s: %w", l.path, err)
	}

	header := make([]string, 0, 2*l.laneCount+3)
	header = append(header, "Heat #", "Timestamp")
	for lane := 1; lane <= l.laneCount; lane++ {
		header = append(header, fmt.Sprintf("Lane %d Name", lane), fmt.Sprintf("Lane %d Time", lane))
	}
	header = append(header, "Heat Winner")
	return appendCSVRow(l.path, header)
}

// WriteStandings replaces the standings file with the current projection.
// Standings are derived data, so unlike the race and heat logs this file is
// rewritten whole each time.
func WriteStandings(path string, standings []tournament.Standing) error {
	file, err := os.CreateTemp(filepath.Dir(path), ".standings-*")
	if err != nil {
		return fmt.Errorf("create standings temp file: %w", err)
	}
	tmp := file.Name()
	defer os.Remove(tmp)

	w := csv.NewWriter(file)
	rows := [][]string{{"Rank", "Name", "Best Time", "Average Time", "Total Races"}}
	for _, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Name,
			s.Best.String(),
			s.Average.String(),
			strconv.Itoa(s.Races),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("write standings: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close standings temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace standings file: %w", err)
	}
	return nil
}

// DefaultLogNames returns the timestamped file names the tournament command
// creates inside the results directory, matching the embedded logger's
// naming.
func DefaultLogNames(now time.Time) (heats, standings string) {
	stamp := now.Format("20060102_150405")
	return fmt.Sprintf("heats_%s.csv", stamp), fmt.Sprintf("standings_%s.csv", stamp)
}

// RaceLogName returns the timestamped file name the capture command uses for
// its race log.
func RaceLogName(now time.Time) string {
	return fmt.Sprintf("races_%s.csv", now.Format("20060102_150405"))
}

func appendCSVRow(path string, row []string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Sync()
}
