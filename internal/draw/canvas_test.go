package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestFillRectScalesToPixels(t *testing.T) {
	c := NewScaledCanvas(8, 4, 4, 4, termenv.Ascii)
	red := c.Color("#ff0000")

	// Logical cell (1,1) at scale 2x2 covers pixels x 2..3, y 2..3.
	c.FillRect(1, 1, 1, 1, red)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := x >= 2 && x < 4 && y >= 2 && y < 4
			if got := c.Pixel(x, y) != nil; got != want {
				t.Errorf("pixel (%d,%d) set = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRectMinimumOnePixel(t *testing.T) {
	c := NewScaledCanvas(2, 1, 24, 24, termenv.Ascii)
	c.FillRect(0, 0, 1, 1, c.Color("1"))
	if c.Pixel(0, 0) == nil {
		t.Error("scaled-down rect left no pixel")
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2, termenv.Ascii)
	c.Set(1, 0, c.Color("1"))

	var first bytes.Buffer
	c.Render(&first)
	if !strings.Contains(first.String(), string(BlockUpperHalf)) {
		t.Fatalf("first render missing upper half block: %q", first.String())
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged canvas re-rendered %q", second.String())
	}

	c.Set(1, 1, c.Color("1"))
	var third bytes.Buffer
	c.Render(&third)
	if !strings.Contains(third.String(), string(BlockFull)) || strings.Count(third.String(), "\033[") != 1 {
		t.Errorf("expected exactly one full-block update, got %q", third.String())
	}

	c.ForceRedraw()
	var fourth bytes.Buffer
	c.Render(&fourth)
	if strings.Count(fourth.String(), "\033[") != 3 {
		t.Errorf("ForceRedraw should emit all 3 cells, got %q", fourth.String())
	}
}

func TestChunkWriterBuffersUntilFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	cw.WriteAt(11, 6, "hi")
	cw.WriteLinesAt(1, 2, "a\nb")
	if out.Len() != 0 || cw.Pending() == 0 {
		t.Fatal("ChunkWriter wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[6;11Hhi\033[2;1Ha\033[3;1Hb"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if cw.Pending() != 0 {
		t.Error("Flush should empty the frame")
	}
}

func TestChunkWriterLargeFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	big := strings.Repeat("x", 3*maxChunkSize+17)
	cw.Write([]byte(big))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != big {
		t.Errorf("flushed %d bytes, want %d", out.Len(), len(big))
	}
}
