// Package render turns frame snapshots into pictures: a terminal view for
// play and an isometric PNG for previews. Renderers only read snapshots.
package render

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/sim"
)

// Renderer draws one frame.
type Renderer interface {
	Render(frame driver.FrameSnapshot) error
}

var (
	headColor  = color.RGBA{0xf5, 0xe0, 0x5a, 0xff}
	neckColor  = color.RGBA{0x4c, 0xd9, 0x64, 0xff}
	tailColor  = color.RGBA{0x1c, 0x6b, 0x3a, 0xff}
	foodLow    = color.RGBA{0xb3, 0x1b, 0x2a, 0xff}
	foodHigh   = color.RGBA{0xff, 0x5c, 0x5c, 0xff}
	floorLight = color.RGBA{0x24, 0x29, 0x30, 0xff}
	floorDark  = color.RGBA{0x1c, 0x20, 0x26, 0xff}
)

// foodBobHz is how often food bobs per second; it keeps moving while paused.
const foodBobHz = 1.2

// segmentColor colours snake cell i of n (0 = tail). The head is distinct
// and the body fades toward the tail.
func segmentColor(i, n int) color.RGBA {
	if i == n-1 {
		return headColor
	}
	if n <= 2 {
		return neckColor
	}
	return lerp(tailColor, neckColor, float64(i)/float64(n-2))
}

// foodPhase is the bob position in [0,1] at the given elapsed time.
func foodPhase(elapsed time.Duration) float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*foodBobHz*elapsed.Seconds())
}

func foodColor(elapsed time.Duration) color.RGBA {
	return lerp(foodLow, foodHigh, foodPhase(elapsed))
}

// headLead is the part of the next cell the head has already slid into,
// alpha of the way to the next tick, as a rectangle in board units. ok is
// false when the snake is not moving or the next cell is off the board.
func headLead(snap sim.Snapshot, alpha float64) (x, y, w, h float64, ok bool) {
	if snap.State != sim.StateRunning || alpha <= 0 || len(snap.Snake) == 0 {
		return 0, 0, 0, 0, false
	}
	next := snap.Head().Add(snap.Direction)
	if !next.InBounds(snap.GridCells) {
		return 0, 0, 0, 0, false
	}
	alpha = math.Min(alpha, 1)
	x, y, w, h = float64(next.X), float64(next.Y), 1, 1
	switch {
	case snap.Direction.DX > 0:
		w = alpha
	case snap.Direction.DX < 0:
		x, w = x+1-alpha, alpha
	case snap.Direction.DY > 0:
		h = alpha
	default:
		y, h = y+1-alpha, alpha
	}
	return x, y, w, h, true
}

func floorColor(c sim.Cell) color.RGBA {
	if (c.X+c.Y)%2 == 0 {
		return floorLight
	}
	return floorDark
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(x uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(x)*f))))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Headline is the overlay title and detail line for a non-running state.
// ok is false while running.
func Headline(snap sim.Snapshot) (title, detail string, ok bool) {
	switch snap.State {
	case sim.StatePaused:
		return "PAUSED", "press p to resume", true
	case sim.StateGameOver:
		reason := "game over"
		switch snap.Last {
		case sim.OutcomeWallCollision:
			reason = "you hit the wall"
		case sim.OutcomeSelfCollision:
			reason = "you ran into yourself"
		}
		return "GAME OVER", fmt.Sprintf("%s · score %d · r to restart", reason, snap.Score), true
	case sim.StateWon:
		return "YOU WIN", fmt.Sprintf("the board is full · score %d · r to play again", snap.Score), true
	}
	return "", "", false
}
