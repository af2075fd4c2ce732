package draw

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once. Around one MTU keeps
// SSH output smooth.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and hands it to the
// underlying writer in MTU-sized pieces on Flush. Positions are 1-based
// screen coordinates.
type ChunkWriter struct {
	frame strings.Builder
	out   *bufio.Writer
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{out: bufio.NewWriterSize(w, 8192)}
}

// Pending is the number of bytes waiting for Flush.
func (cw *ChunkWriter) Pending() int {
	return cw.frame.Len()
}

// Write implements io.Writer so the cursor helpers and Canvas.Render can
// target the frame.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.frame.Write(p)
}

// WriteAt places s at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	writeCursor(&cw.frame, col, row)
	cw.frame.WriteString(s)
}

// WriteLinesAt writes each line of s on its own row, left-aligned at col.
func (cw *ChunkWriter) WriteLinesAt(col, row int, s string) {
	for i, line := range strings.Split(s, "\n") {
		cw.WriteAt(col, row+i, line)
	}
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer in chunks, then resets it.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame.String()
	cw.frame.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.out.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FixedTermSize returns a TermSizeFunc that always reports width x height.
func FixedTermSize(width, height int) TermSizeFunc {
	return func() (int, int, error) {
		return width, height, nil
	}
}
