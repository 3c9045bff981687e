package portwatch

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestNewWatcherNilHandler(t *testing.T) {
	w := NewWatcher(nil, nil)
	if w != nil {
		t.Fatal("expected nil watcher without handler")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil watcher should be a no-op, got %v", err)
	}
	w.Stop()
	if w.Running() {
		t.Fatal("nil watcher must not report running")
	}
}

func TestStopUnstartedWatcher(t *testing.T) {
	w := NewWatcher(nil, func(context.Context, DeviceEvent) {})
	w.Stop()
	w.Stop()
	if w.Running() {
		t.Fatal("unstarted watcher must not report running")
	}
}

func TestBuildMatcher(t *testing.T) {
	matcher := buildMatcher()

	addEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "tty"},
	}
	if !matcher.Evaluate(addEvent) {
		t.Error("expected matcher to accept tty add event")
	}

	removeEvent := netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{"SUBSYSTEM": "tty"},
	}
	if !matcher.Evaluate(removeEvent) {
		t.Error("expected matcher to accept tty remove event")
	}

	blockEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "block"},
	}
	if matcher.Evaluate(blockEvent) {
		t.Error("expected matcher to reject non-tty subsystem")
	}

	changeEvent := netlink.UEvent{
		Action: netlink.CHANGE,
		Env:    map[string]string{"SUBSYSTEM": "tty"},
	}
	if matcher.Evaluate(changeEvent) {
		t.Error("expected matcher to reject change action")
	}
}

func TestHandleEventFiltering(t *testing.T) {
	var got []DeviceEvent
	w := NewWatcher(nil, func(_ context.Context, ev DeviceEvent) {
		got = append(got, ev)
	})

	w.handleEvent(context.Background(), netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"DEVNAME": "ttyUSB0"},
	})
	w.handleEvent(context.Background(), netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"DEVNAME": "tty1"},
	})
	w.handleEvent(context.Background(), netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{},
	})
	w.handleEvent(context.Background(), netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{"DEVNAME": "/dev/ttyACM3"},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 forwarded events, got %d: %+v", len(got), got)
	}
	if got[0].Device != "/dev/ttyUSB0" || got[0].Action != "add" {
		t.Fatalf("first event = %+v", got[0])
	}
	if got[1].Device != "/dev/ttyACM3" || got[1].Action != "remove" {
		t.Fatalf("second event = %+v", got[1])
	}
}

func TestDeviceNameFromDevpath(t *testing.T) {
	name := deviceName(netlink.UEvent{
		Env: map[string]string{
			"DEVPATH": "/devices/pci0000:00/usb1/1-2/1-2:1.0/ttyUSB0/tty/ttyUSB0",
		},
	})
	if name != "/dev/ttyUSB0" {
		t.Fatalf("deviceName = %q, want /dev/ttyUSB0", name)
	}
}

func TestLooksLikeSerial(t *testing.T) {
	cases := map[string]bool{
		"/dev/ttyUSB0": true,
		"/dev/ttyACM1": true,
		"/dev/ttyS0":   true,
		"/dev/ttyAMA0": true,
		"/dev/tty1":    false,
		"/dev/pts/3":   false,
	}
	for device, want := range cases {
		if got := looksLikeSerial(device); got != want {
			t.Fatalf("looksLikeSerial(%q) = %v, want %v", device, got, want)
		}
	}
}
