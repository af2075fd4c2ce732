// Package input turns raw terminal bytes into player intents.
package input

import (
	"bufio"

	"github.com/tomz197/gridsnake/internal/sim"
)

// Input is everything read since the previous frame, in arrival order.
type Input struct {
	Intents []sim.Intent
	Quit    bool
	Closed  bool   // Underlying reader hit EOF or an error
	Pressed []byte // Raw bytes, for activity tracking
}

// Stream delivers input bytes via a channel filled by a reader goroutine.
type Stream struct {
	ch      chan byte
	closed  bool
	partial []byte // Unfinished escape sequence carried into the next drain
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking
// and decodes them. Arrow keys arrive as ESC [ A..D.
func ReadInput(s *Stream) Input {
	buf := s.partial
	s.partial = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	if !s.closed {
		buf, s.partial = splitPartialEscape(buf)
	}
	in := Decode(buf)
	in.Closed = s.closed
	return in
}

// splitPartialEscape cuts a trailing ESC or ESC [ off buf: the rest of the
// arrow sequence has not arrived yet.
func splitPartialEscape(buf []byte) (complete, partial []byte) {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return buf[:n-1], []byte{'\x1b'}
	case n >= 2 && buf[n-2] == '\x1b' && buf[n-1] == '[':
		return buf[:n-2], []byte{'\x1b', '['}
	}
	return buf, nil
}

// Decode maps a byte sequence to intents.
func Decode(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if intent, ok := arrowIntent(buf[i+2]); ok {
				in.Intents = append(in.Intents, intent)
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03': // ctrl-c arrives as a byte in raw mode
			in.Quit = true
		default:
			if intent := byteIntent(b); intent != sim.IntentNone {
				in.Intents = append(in.Intents, intent)
			}
		}
	}
	return in
}

func arrowIntent(code byte) (sim.Intent, bool) {
	switch code {
	case 'A':
		return sim.IntentUp, true
	case 'B':
		return sim.IntentDown, true
	case 'C':
		return sim.IntentRight, true
	case 'D':
		return sim.IntentLeft, true
	}
	return sim.IntentNone, false
}

func byteIntent(b byte) sim.Intent {
	switch b {
	case 'w', 'W', 'k', 'K':
		return sim.IntentUp
	case 's', 'S', 'j', 'J':
		return sim.IntentDown
	case 'a', 'A', 'h', 'H':
		return sim.IntentLeft
	case 'd', 'D', 'l', 'L':
		return sim.IntentRight
	case 'p', 'P', ' ':
		return sim.IntentTogglePause
	case 'r', 'R', '\n', '\r':
		return sim.IntentRestart
	}
	return sim.IntentNone
}
