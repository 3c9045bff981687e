package capture

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Port is the minimal surface Session needs from a serial device. Reads
// are expected to return (0, nil) on poll timeout so the reader can check
// for cancellation between polls.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// OpenPort opens device at the given baud rate with 8N1 framing and a
// bounded read timeout.
func OpenPort(device string, baud int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	return port, nil
}

// ListPorts returns the serial devices visible to the process.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
