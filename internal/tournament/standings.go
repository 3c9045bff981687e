package tournament

import (
	"sort"

	"champtimer/internal/race"
	"champtimer/internal/timer"
)

// Standing is one contestant's line in the standings table.
type Standing struct {
	Rank    int
	Name    string
	Best    timer.LaneTime
	Average timer.LaneTime
	Races   int
	Wins    int
}

// Standings projects completed heats into ranked standings. It is a pure
// function of the heat sequence: same input, same output, no stored state.
// Contestants rank by best time; those without a recorded time sort last,
// then ties break alphabetically so output is deterministic.
func Standings(completed []Heat) []Standing {
	type tally struct {
		name  string
		total float64
		races int
		wins  int
		best  timer.LaneTime
	}

	tallies := map[string]*tally{}
	for _, heat := range completed {
		if heat.Result == nil {
			continue
		}
		winner := heat.WinnerName()
		for lane, name := range heat.Lanes {
			entry, ok := tallies[name]
			if !ok {
				entry = &tally{name: name}
				tallies[name] = entry
			}
			if lane < 1 || lane > len(heat.Result.Lanes) {
				continue
			}
			t := heat.Result.Lanes[lane-1]
			if !t.Valid {
				continue
			}
			entry.races++
			entry.total += t.Seconds
			if !entry.best.Valid || t.Seconds < entry.best.Seconds {
				entry.best = timer.Time(t.Seconds)
			}
			if name == winner && heat.Result.Winner != race.NoWinner {
				entry.wins++
			}
		}
	}

	all := make([]*tally, 0, len(tallies))
	for _, entry := range tallies {
		all = append(all, entry)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch {
		case a.best.Valid != b.best.Valid:
			return a.best.Valid
		case a.best.Valid && a.best.Seconds != b.best.Seconds:
			return a.best.Seconds < b.best.Seconds
		default:
			return a.name < b.name
		}
	})

	standings := make([]Standing, len(all))
	for i, entry := range all {
		avg := timer.NoTime()
		if entry.races > 0 {
			avg = timer.Time(entry.total / float64(entry.races))
		}
		standings[i] = Standing{
			Rank:    i + 1,
			Name:    entry.name,
			Best:    entry.best,
			Average: avg,
			Races:   entry.races,
			Wins:    entry.wins,
		}
	}
	return standings
}
