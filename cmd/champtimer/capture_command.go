package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"champtimer/internal/announce"
	"champtimer/internal/capture"
	"champtimer/internal/logging"
	"champtimer/internal/results"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var deviceFlag string
	var baudFlag int
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture races from the timer until interrupted",
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

			logPath := outputFlag
			if logPath == "" {
				logPath = filepath.Join(cfg.Paths.ResultsDir, results.RaceLogName(time.Now()))
			}
			raceLog, err := results.NewRaceLog(logPath, cfg.Timer.LaneCount)
			if err != nil {
				return err
			}

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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Capturing from %s at %d baud. Race log: %s\n", device, baud, raceLog.Path())
			fmt.Fprintln(out, "Press Ctrl-C to stop.")

			return runCaptureLoop(sigCtx, sess, store, raceLog, announce.New(out), logger)
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Serial device (overrides config)")
	cmd.Flags().IntVarP(&baudFlag, "baud", "b", 0, "Baud rate (overrides config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Race log CSV path (defaults to a timestamped file in the results dir)")
	return cmd
}

// acquireInstanceLock prevents two commands from opening the timer at once.
func acquireInstanceLock(lockDir string) (func(), error) {
	lockPath := filepath.Join(lockDir, "champtimer.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, errors.New("another champtimer instance is already using the timer")
	}
	return func() { _ = lock.Unlock() }, nil
}

// seedAndRegister continues race numbering from the store and records the
// new session.
func seedAndRegister(ctx context.Context, store *results.Store, sess *capture.Session, device string, baud int) error {
	last, err := store.LastRaceNumber(ctx)
	if err != nil {
		return err
	}
	sess.Race().Seed(last)
	return store.BeginSession(ctx, sess.Race(), device, baud)
}

func runCaptureLoop(
	ctx context.Context,
	sess *capture.Session,
	store *results.Store,
	raceLog *results.RaceLog,
	announcer *announce.Announcer,
	logger *slog.Logger,
) error {
	for {
		ev, err := sess.NextEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, capture.ErrClosed) {
				return nil
			}
			return err
		}

		switch event := ev.(type) {
		case capture.RaceEvent:
			announcer.Race(event.Record)
			if err := raceLog.Append(event.Record); err != nil {
				logger.Error("race log append failed", logging.Error(err),
					logging.Int64(logging.FieldRaceNum, event.Record.Number))
			}
			if err := store.AppendRace(ctx, sess.Race().ID(), event.Record); err != nil {
				logger.Error("database append failed", logging.Error(err),
					logging.Int64(logging.FieldRaceNum, event.Record.Number))
			}
		case capture.ParseFailureEvent:
			logger.Warn("ignored unparseable timer line",
				logging.String(logging.FieldRawLine, event.Line),
				logging.Error(event.Err))
		case capture.DisconnectedEvent:
			return fmt.Errorf("timer disconnected: %w", event.Err)
		}
	}
}
