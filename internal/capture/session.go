package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"champtimer/internal/logging"
	"champtimer/internal/race"
	"champtimer/internal/timer"
)

// ErrClosed is returned by NextEvent after the session has shut down and
// all buffered events have been drained.
var ErrClosed = errors.New("capture session closed")

const readChunkBytes = 512

// Options tunes a capture session.
type Options struct {
	LaneCount    int
	MaxLineBytes int
	EventBuffer  int
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.LaneCount <= 0 {
		o.LaneCount = 4
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = 16
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// Session reads timer lines from a port and publishes capture events.
type Session struct {
	port      Port
	raceState *race.Session
	framer    *timer.Framer
	laneCount int
	logger    *slog.Logger

	events    chan Event
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Connect opens the serial device and starts a capture session on it.
func Connect(device string, baud int, readTimeout time.Duration, opts Options) (*Session, error) {
	port, err := OpenPort(device, baud, readTimeout)
	if err != nil {
		return nil, err
	}
	return Attach(port, opts), nil
}

// Attach starts a capture session on an already open port. The session
// takes ownership of the port and closes it on shutdown.
func Attach(port Port, opts Options) *Session {
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		port:      port,
		raceState: race.NewSession(opts.LaneCount),
		framer:    timer.NewFramer(opts.MaxLineBytes),
		laneCount: opts.LaneCount,
		logger:    logging.NewComponentLogger(opts.Logger, "capture"),
		events:    make(chan Event, opts.EventBuffer),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go s.readLoop(ctx)
	return s
}

// Race exposes the session's race numbering state so callers can seed it
// from durable storage before the first line arrives.
func (s *Session) Race() *race.Session {
	return s.raceState
}

// NextEvent blocks until an event is available, the context is canceled,
// or the session is closed and drained.
func (s *Session) NextEvent(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return nil, ErrClosed
		}
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the reader, closes the port, and closes the event channel.
// Buffered events remain readable until drained.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.port.Close()
		<-s.done
		close(s.events)
	})
	return nil
}

func (s *Session) readLoop(ctx context.Context) {
	defer close(s.done)

	buf := make([]byte, readChunkBytes)
	for {
		if ctx.Err() != nil {
			return
		}

		n, err := s.port.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("serial read failed", logging.Error(err))
			s.emit(ctx, DisconnectedEvent{Err: err})
			return
		}
		if n == 0 {
			// Poll timeout, loop back to check for cancellation.
			continue
		}

		for _, frame := range s.framer.Push(buf[:n]) {
			s.handleFrame(ctx, frame)
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, frame timer.Frame) {
	if frame.Oversized {
		err := &timer.ParseError{Line: frame.Data, Reason: timer.ReasonOversized}
		s.logger.Warn("oversized line cut",
			logging.Int("bytes", len(frame.Data)))
		s.emit(ctx, ParseFailureEvent{Line: frame.Data, Err: err})
		return
	}

	lanes, err := timer.Parse(frame.Data, s.laneCount)
	if err != nil {
		s.logger.Warn("unparseable line",
			logging.String(logging.FieldRawLine, frame.Data),
			logging.Error(err))
		s.emit(ctx, ParseFailureEvent{Line: frame.Data, Err: err})
		return
	}

	record := s.raceState.Build(lanes, frame.Data)
	s.logger.Info("race captured",
		logging.Int64(logging.FieldRaceNum, record.Number),
		logging.String("winner", record.WinnerLabel()))
	s.emit(ctx, RaceEvent{Record: record})
}

// emit delivers ev without ever blocking the reader. When the buffer is
// full the oldest event is discarded to make room. Only the reader
// goroutine sends, so discarding one always makes the next send succeed.
func (s *Session) emit(_ context.Context, ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
		}
		select {
		case dropped := <-s.events:
			s.logger.Warn("event buffer full, dropping oldest event",
				logging.String(logging.FieldEventType, EventType(dropped)))
		default:
		}
	}
}
