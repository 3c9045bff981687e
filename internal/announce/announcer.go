package announce

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"champtimer/internal/race"
	"champtimer/internal/results"
	"champtimer/internal/tournament"
)

const timestampLayout = "2006-01-02 15:04:05"

// Announcer writes human-readable race and tournament output.
type Announcer struct {
	out io.Writer
}

// New creates an announcer writing to out.
func New(out io.Writer) *Announcer {
	return &Announcer{out: out}
}

// DisplayName title-cases a contestant name for presentation. Stored names
// keep whatever casing the operator typed.
func DisplayName(name string) string {
	return cases.Title(language.Und).String(name)
}

// Race prints one captured race record.
func (a *Announcer) Race(rec race.Record) {
	fmt.Fprintf(a.out, "\nRace #%d  %s\n", rec.Number, rec.CapturedAt.Format(timestampLayout))
	for i, t := range rec.Lanes {
		cell := "--"
		if t.Valid {
			cell = t.String() + "s"
		}
		fmt.Fprintf(a.out, "  Lane %d: %s\n", i+1, cell)
	}
	if rec.Winner == race.NoWinner {
		fmt.Fprintln(a.out, "  No winner")
	} else {
		fmt.Fprintf(a.out, "  Winner: %s\n", rec.WinnerLabel())
	}
}

// HeatResult prints a completed heat with contestant names.
func (a *Announcer) HeatResult(heat tournament.Heat) {
	if heat.Result == nil {
		return
	}
	fmt.Fprintf(a.out, "\nHeat %d complete\n", heat.ID)
	for i, t := range heat.Result.Lanes {
		lane := i + 1
		name, assigned := heat.Contestant(lane)
		label := "(empty)"
		if assigned {
			label = DisplayName(name)
		}
		cell := "--"
		if t.Valid {
			cell = t.String() + "s"
		}
		fmt.Fprintf(a.out, "  Lane %d  %-20s %s\n", lane, label, cell)
	}
	if winner := heat.WinnerName(); winner != "" {
		fmt.Fprintf(a.out, "  Winner: %s\n", DisplayName(winner))
	} else {
		fmt.Fprintln(a.out, "  No winner")
	}
}

// Standings prints the ranked standings table.
func (a *Announcer) Standings(standings []tournament.Standing) {
	if len(standings) == 0 {
		fmt.Fprintln(a.out, "No completed heats yet.")
		return
	}

	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		best := "--"
		if s.Best.Valid {
			best = s.Best.String()
		}
		avg := "--"
		if s.Average.Valid {
			avg = s.Average.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			DisplayName(s.Name),
			best,
			avg,
			strconv.Itoa(s.Races),
			strconv.Itoa(s.Wins),
		})
	}

	out := renderTable(
		[]string{"Rank", "Name", "Best", "Average", "Races", "Wins"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(a.out, out)
}

// Sessions prints persisted capture sessions, newest first.
func (a *Announcer) Sessions(sessions []results.SessionInfo) {
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No capture sessions recorded.")
		return
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.StartedAt.Local().Format(timestampLayout),
			s.Device,
			strconv.Itoa(s.Baud),
			strconv.Itoa(s.LaneCount),
			strconv.Itoa(s.Races),
		})
	}

	out := renderTable(
		[]string{"Session", "Started", "Device", "Baud", "Lanes", "Races"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(a.out, out)
}

// Races prints persisted race records as a table.
func (a *Announcer) Races(records []race.Record) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No races recorded.")
		return
	}

	laneCount := 0
	for _, rec := range records {
		if len(rec.Lanes) > laneCount {
			laneCount = len(rec.Lanes)
		}
	}

	headers := []string{"Race #", "Timestamp"}
	aligns := []columnAlignment{alignRight, alignLeft}
	for lane := 1; lane <= laneCount; lane++ {
		headers = append(headers, fmt.Sprintf("Lane %d", lane))
		aligns = append(aligns, alignRight)
	}
	headers = append(headers, "Winner")
	aligns = append(aligns, alignLeft)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{strconv.FormatInt(rec.Number, 10), rec.CapturedAt.Local().Format(timestampLayout)}
		for lane := 0; lane < laneCount; lane++ {
			cell := "--"
			if lane < len(rec.Lanes) && rec.Lanes[lane].Valid {
				cell = rec.Lanes[lane].String()
			}
			row = append(row, cell)
		}
		row = append(row, rec.WinnerLabel())
		rows = append(rows, row)
	}

	fmt.Fprintln(a.out, renderTable(headers, rows, aligns))
}

// Ports prints the available serial devices.
func (a *Announcer) Ports(ports []string) {
	if len(ports) == 0 {
		fmt.Fprintln(a.out, "No serial ports found.")
		return
	}
	fmt.Fprintln(a.out, "Available serial ports:")
	for _, port := range ports {
		fmt.Fprintf(a.out, "  %s\n", port)
	}
}
