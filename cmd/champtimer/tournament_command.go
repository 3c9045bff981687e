package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"champtimer/internal/announce"
	"champtimer/internal/capture"
	"champtimer/internal/race"
	"champtimer/internal/results"
	"champtimer/internal/tournament"
)

func newTournamentCommand(ctx *commandContext) *cobra.Command {
	var deviceFlag string
	var baudFlag int

	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Run an interactive tournament of timed heats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			device := cfg.Timer.Device
			if deviceFlag != "" {
				device = deviceFlag
			}
			baud := cfg.Timer.Baud
			if baudFlag > 0 {
				baud = baudFlag
			}

			logger, err := ctx.newLogger(true)
			if err != nil {
				return err
			}

			release, err := acquireInstanceLock(cfg.Paths.LogDir)
			if err != nil {
				return err
			}
			defer release()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			heatsName, standingsName := results.DefaultLogNames(time.Now())
			heatLog, err := results.NewHeatLog(filepath.Join(cfg.Paths.ResultsDir, heatsName), cfg.Timer.LaneCount)
			if err != nil {
				return err
			}
			standingsPath := filepath.Join(cfg.Paths.ResultsDir, standingsName)

			sess, err := capture.Connect(device, baud, cfg.ReadTimeout(), capture.Options{
				LaneCount:    cfg.Timer.LaneCount,
				MaxLineBytes: cfg.Capture.MaxLineBytes,
				EventBuffer:  cfg.Capture.EventBuffer,
				Logger:       logger,
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := seedAndRegister(sigCtx, store, sess, device, baud); err != nil {
				return err
			}

			runner := &tournamentRunner{
				laneCount:     cfg.Timer.LaneCount,
				sess:          sess,
				store:         store,
				heatLog:       heatLog,
				standingsPath: standingsPath,
				in:            bufio.NewScanner(cmd.InOrStdin()),
				out:           cmd.OutOrStdout(),
				announcer:     announce.New(cmd.OutOrStdout()),
			}
			return runner.run(sigCtx)
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Serial device (overrides config)")
	cmd.Flags().IntVarP(&baudFlag, "baud", "b", 0, "Baud rate (overrides config)")
	return cmd
}

type tournamentRunner struct {
	laneCount     int
	sess          *capture.Session
	store         *results.Store
	heatLog       *results.HeatLog
	standingsPath string
	in            *bufio.Scanner
	out           io.Writer
	announcer     *announce.Announcer
}

func (r *tournamentRunner) run(ctx context.Context) error {
	tourney, err := tournament.New(r.laneCount)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Tournament mode: %d lanes. Leave a lane blank to run it empty.\n", r.laneCount)

	for {
		assignment, ok := r.promptAssignment(ctx)
		if !ok {
			break
		}

		heat, err := tourney.Schedule(assignment)
		if err != nil {
			fmt.Fprintf(r.out, "Cannot schedule heat: %v\n", err)
			continue
		}
		if err := tourney.Start(heat.ID); err != nil {
			return err
		}

		fmt.Fprintf(r.out, "\nHeat %d armed. Waiting for the timer...\n", heat.ID)
		record, err := r.awaitRace(ctx)
		if err != nil {
			r.finish(tourney)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		completed, err := tourney.Bind(heat.ID, record)
		if err != nil {
			return err
		}

		r.announcer.HeatResult(completed)
		if err := r.heatLog.Append(completed); err != nil {
			fmt.Fprintf(r.out, "Warning: could not write heat log: %v\n", err)
		}
		if err := r.store.AppendRace(ctx, r.sess.Race().ID(), record); err != nil {
			fmt.Fprintf(r.out, "Warning: could not persist race: %v\n", err)
		}

		standings := tourney.Standings()
		r.announcer.Standings(standings)
		if err := results.WriteStandings(r.standingsPath, standings); err != nil {
			fmt.Fprintf(r.out, "Warning: could not write standings: %v\n", err)
		}

		if !r.promptYes("Run another heat? [Y/n] ") {
			break
		}
	}

	r.finish(tourney)
	return nil
}

// promptAssignment reads contestant names lane by lane. Returns ok=false
// when input is exhausted or the operator quits.
func (r *tournamentRunner) promptAssignment(ctx context.Context) (map[int]string, bool) {
	for {
		if ctx.Err() != nil {
			return nil, false
		}
		assignment := make(map[int]string, r.laneCount)
		fmt.Fprintln(r.out, "\nEnter contestants (or 'quit'):")
		for lane := 1; lane <= r.laneCount; lane++ {
			fmt.Fprintf(r.out, "  Lane %d: ", lane)
			line, ok := r.readLine()
			if !ok {
				return nil, false
			}
			if strings.EqualFold(strings.TrimSpace(line), "quit") {
				return nil, false
			}
			if name := strings.TrimSpace(line); name != "" {
				assignment[lane] = name
			}
		}
		if len(assignment) == 0 {
			fmt.Fprintln(r.out, "At least one lane needs a contestant.")
			continue
		}
		return assignment, true
	}
}

// awaitRace blocks until the next complete race record arrives. Parse
// failures are announced and skipped; the heat keeps waiting.
func (r *tournamentRunner) awaitRace(ctx context.Context) (race.Record, error) {
	for {
		ev, err := r.sess.NextEvent(ctx)
		if err != nil {
			return race.Record{}, err
		}
		switch event := ev.(type) {
		case capture.RaceEvent:
			return event.Record, nil
		case capture.ParseFailureEvent:
			fmt.Fprintf(r.out, "Ignored timer noise: %q\n", event.Line)
		case capture.DisconnectedEvent:
			return race.Record{}, fmt.Errorf("timer disconnected: %w", event.Err)
		}
	}
}

func (r *tournamentRunner) promptYes(prompt string) bool {
	fmt.Fprint(r.out, prompt)
	line, ok := r.readLine()
	if !ok {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

func (r *tournamentRunner) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}

// finish prints and persists the final standings.
func (r *tournamentRunner) finish(tourney *tournament.Tournament) {
	standings := tourney.Standings()
	if len(standings) == 0 {
		return
	}
	fmt.Fprintln(r.out, "\nFinal standings:")
	r.announcer.Standings(standings)
	if err := results.WriteStandings(r.standingsPath, standings); err != nil {
		fmt.Fprintf(r.out, "Warning: could not write standings: %v\n", err)
	}
	fmt.Fprintf(r.out, "Heat log: %s\nStandings: %s\n", r.heatLog.Path(), r.standingsPath)
}
