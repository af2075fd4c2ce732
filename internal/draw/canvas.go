package draw

import (
	"io"
	"math"
	"strings"

	"github.com/muesli/termenv"
)

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters, so one terminal cell holds two square pixels.
// Logical coordinates are scaled to terminal pixels.
//
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int             // Actual terminal columns
	termHeight     int             // Actual terminal rows
	subPixelHeight int             // termHeight * 2
	pixels         []termenv.Color // Flat slice: [y * termWidth + x]; nil is empty
	drawn          []string        // Last emitted content per terminal cell; "" forces a redraw

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets used to centre the canvas.
	offsetCol int
	offsetRow int

	profile   termenv.Profile
	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels, styling cells for the given colour profile.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64, profile termenv.Profile) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		profile:       profile,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]termenv.Color, subPixelHeight*termWidth)
		c.drawn = make([]string, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	clear(c.drawn)
}

// Color converts a "#rrggbb" or ANSI number string for this canvas' profile.
func (c *Canvas) Color(s string) termenv.Color {
	return c.profile.Color(s)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col termenv.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the colour at terminal pixel (x, y), or nil.
func (c *Canvas) Pixel(x, y int) termenv.Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return nil
	}
	return c.pixels[y*c.termWidth+x]
}

// Set sets the pixel under logical point (x, y).
func (c *Canvas) Set(x, y float64, col termenv.Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), col)
}

// FillRect fills the logical rectangle [x, x+w) x [y, y+h). At least one
// pixel is filled so tiny rectangles stay visible when scaled down.
func (c *Canvas) FillRect(x, y, w, h float64, col termenv.Color) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Floor((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Floor((y+h)*c.scaleY)), y0+1)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.setPixel(px, py, col)
		}
	}
}

// cellContent returns the styled half-block for one terminal cell.
func (c *Canvas) cellContent(top, bottom termenv.Color) string {
	switch {
	case top == nil && bottom == nil:
		return " "
	case bottom == nil:
		return c.profile.String(string(BlockUpperHalf)).Foreground(top).String()
	case top == nil:
		return c.profile.String(string(BlockLowerHalf)).Foreground(bottom).String()
	case top == bottom:
		return c.profile.String(string(BlockFull)).Foreground(top).String()
	default:
		return c.profile.String(string(BlockUpperHalf)).Foreground(top).Background(bottom).String()
	}
}

// Render writes every changed cell to w.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			content := c.cellContent(c.pixels[topOffset+col], c.pixels[bottomOffset+col])
			idx := row*c.termWidth + col
			if c.drawn[idx] == content {
				continue
			}
			c.drawn[idx] = content
			writeCursor(&c.renderBuf, col+1+c.offsetCol, row+1+c.offsetRow)
			c.renderBuf.WriteString(content)
		}
	}

	io.WriteString(w, c.renderBuf.String())
}

// RenderBorder draws a box around the canvas area when there is room for it.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)
	writeCursor(&buf, left, top)
	buf.WriteString("┌" + line + "┐")
	writeCursor(&buf, left, bottom)
	buf.WriteString("└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		writeCursor(&buf, left, row)
		buf.WriteString("│")
		writeCursor(&buf, right, row)
		buf.WriteString("│")
	}
	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal
// position (col, row), offset included.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1 + c.offsetCol, py/2 + 1 + c.offsetRow
}
