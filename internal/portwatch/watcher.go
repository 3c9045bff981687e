package portwatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"champtimer/internal/logging"
)

// DeviceEvent describes one hotplug change on a tty device.
type DeviceEvent struct {
	Device string
	Action string
}

// Handler receives matched device events.
type Handler func(ctx context.Context, event DeviceEvent)

// Watcher listens for udev netlink events on the tty subsystem and
// forwards add/remove notifications for serial-looking devices.
type Watcher struct {
	logger  *slog.Logger
	handler Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewWatcher creates a watcher. A nil handler yields a nil watcher, which
// is safe to Start and Stop.
func NewWatcher(logger *slog.Logger, handler Handler) *Watcher {
	if handler == nil {
		return nil
	}
	return &Watcher{
		logger:  logging.NewComponentLogger(logger, "portwatch"),
		handler: handler,
	}
}

// Start begins listening for netlink events. Failure to open the netlink
// socket is non-fatal; the watcher simply stays idle.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket, hotplug events unavailable",
			logging.Error(err))
		return nil
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.watchLoop(ctx, quit)

	w.logger.Debug("port watcher started")
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false

	w.logger.Debug("port watcher stopped")
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			w.handleEvent(ctx, uevent)
		case err := <-errs:
			w.logger.Warn("netlink watcher error", logging.Error(err))
		}
	}
}

// buildMatcher matches SUBSYSTEM=tty, ACTION=add|remove.
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "tty",
		},
	})
	return rules
}

func (w *Watcher) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := deviceName(uevent)
	if devname == "" {
		w.logger.Debug("ignoring tty event without device name",
			logging.String("action", string(uevent.Action)))
		return
	}
	if !looksLikeSerial(devname) {
		w.logger.Debug("ignoring non-serial tty device",
			logging.String(logging.FieldDevice, devname))
		return
	}

	w.handler(ctx, DeviceEvent{Device: devname, Action: string(uevent.Action)})
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if strings.HasPrefix(devname, "/") {
			return devname
		}
		return "/dev/" + devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}

// looksLikeSerial filters virtual consoles and pseudo-terminals out of the
// tty event stream.
func looksLikeSerial(devname string) bool {
	base := strings.TrimPrefix(devname, "/dev/")
	for _, prefix := range []string{"ttyUSB", "ttyACM", "ttyAMA", "ttyS"} {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
