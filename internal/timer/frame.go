package timer

import "bytes"

// DefaultMaxLineBytes bounds how much unterminated data the framer buffers
// before giving up on the line.
const DefaultMaxLineBytes = 4096

// Frame is one candidate timer line. Oversized frames carry data that grew
// past the framer's limit without a terminator; downstream treats them as
// parse failures, not fatal errors.
type Frame struct {
	Data      string
	Oversized bool
}

// Framer assembles complete lines from arbitrarily fragmented serial reads.
// It accepts both \n and \r\n terminators (and bare \r, which some firmware
// revisions emit), drops empty lines, and never buffers an unterminated line
// past its byte limit.
type Framer struct {
	buf    bytes.Buffer
	max    int
	skipLF bool
}

// NewFramer returns a framer with the given partial-line limit. Zero or
// negative limits fall back to DefaultMaxLineBytes.
func NewFramer(maxLineBytes int) *Framer {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Framer{max: maxLineBytes}
}

// Push feeds one read chunk and returns the frames completed by it, in wire
// order. Partial trailing data stays buffered for the next push.
func (f *Framer) Push(chunk []byte) []Frame {
	var frames []Frame
	for _, b := range chunk {
		if f.skipLF {
			f.skipLF = false
			if b == '\n' {
				continue
			}
		}
		switch b {
		case '\n':
			frames = f.cut(frames)
		case '\r':
			frames = f.cut(frames)
			f.skipLF = true
		default:
			f.buf.WriteByte(b)
			if f.buf.Len() >= f.max {
				frames = append(frames, Frame{Data: f.buf.String(), Oversized: true})
				f.buf.Reset()
			}
		}
	}
	return frames
}

// Reset discards any buffered partial line, e.g. when a session is torn down.
func (f *Framer) Reset() {
	f.buf.Reset()
	f.skipLF = false
}

func (f *Framer) cut(frames []Frame) []Frame {
	line := bytes.TrimSpace(f.buf.Bytes())
	if len(line) > 0 {
		frames = append(frames, Frame{Data: string(line)})
	}
	f.buf.Reset()
	return frames
}
