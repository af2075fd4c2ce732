package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/tomz197/gridsnake/internal/draw"
	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/sim"
)

func newFrame(t *testing.T) (*sim.Simulation, driver.FrameSnapshot) {
	t.Helper()
	opts := sim.DefaultOptions()
	opts.Seed = 7
	s := sim.New(opts)
	return s, driver.FrameSnapshot{Snapshot: s.Snapshot()}
}

func TestTerminalDrawsHUDAndBorder(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, draw.FixedTermSize(80, 30), termenv.Ascii)

	_, frame := newFrame(t)
	if err := term.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SCORE 0", "HIGH 0", "┌", "┘", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "PAUSED") {
		t.Error("running frame should have no overlay")
	}
}

func TestTerminalOverlayFollowsState(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, draw.FixedTermSize(80, 30), termenv.Ascii)

	s, _ := newFrame(t)
	s.TogglePause()
	if err := term.Render(driver.FrameSnapshot{Snapshot: s.Snapshot()}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "PAUSED") {
		t.Fatal("paused frame should show PAUSED")
	}

	buf.Reset()
	term.SetNotice("SERVER SHUTTING DOWN", "closing in 5s")
	if err := term.Render(driver.FrameSnapshot{Snapshot: s.Snapshot()}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SERVER SHUTTING DOWN") || strings.Contains(out, "PAUSED") {
		t.Errorf("notice should replace the state overlay, got %q", out)
	}
}

func TestTerminalTooSmall(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, draw.FixedTermSize(12, 6), termenv.Ascii)
	_, frame := newFrame(t)
	if err := term.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "too small") {
		t.Errorf("expected size warning, got %q", buf.String())
	}
}

func TestTerminalSecondFrameIsIncremental(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, draw.FixedTermSize(80, 30), termenv.Ascii)
	_, frame := newFrame(t)
	if err := term.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	first := buf.Len()
	buf.Reset()
	if err := term.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() >= first {
		t.Errorf("unchanged frame wrote %d bytes, first frame %d", buf.Len(), first)
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		snap  sim.Snapshot
		title string
		ok    bool
	}{
		{sim.Snapshot{State: sim.StateRunning}, "", false},
		{sim.Snapshot{State: sim.StatePaused}, "PAUSED", true},
		{sim.Snapshot{State: sim.StateGameOver, Last: sim.OutcomeWallCollision}, "GAME OVER", true},
		{sim.Snapshot{State: sim.StateWon}, "YOU WIN", true},
	}
	for _, tt := range tests {
		title, _, ok := Headline(tt.snap)
		if title != tt.title || ok != tt.ok {
			t.Errorf("Headline(%v) = %q, %v; want %q, %v", tt.snap.State, title, ok, tt.title, tt.ok)
		}
	}

	_, detail, _ := Headline(sim.Snapshot{State: sim.StateGameOver, Last: sim.OutcomeSelfCollision, Score: 9})
	if !strings.Contains(detail, "yourself") || !strings.Contains(detail, "9") {
		t.Errorf("self collision detail = %q", detail)
	}
}

func TestSegmentColorHeadDistinct(t *testing.T) {
	n := 5
	if segmentColor(n-1, n) != headColor {
		t.Error("head should use the head colour")
	}
	if segmentColor(0, n) != tailColor {
		t.Errorf("tail colour = %v, want %v", segmentColor(0, n), tailColor)
	}
	if segmentColor(n-2, n) != neckColor {
		t.Errorf("neck colour = %v, want %v", segmentColor(n-2, n), neckColor)
	}
}

func TestFoodPhaseBounded(t *testing.T) {
	for ms := 0; ms < 3000; ms += 37 {
		p := foodPhase(time.Duration(ms) * time.Millisecond)
		if p < 0 || p > 1 {
			t.Fatalf("foodPhase(%dms) = %v", ms, p)
		}
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		term    string
		environ []string
		want    termenv.Profile
	}{
		{"xterm-256color", nil, termenv.ANSI256},
		{"xterm", []string{"COLORTERM=truecolor"}, termenv.TrueColor},
		{"xterm", nil, termenv.ANSI},
		{"dumb", nil, termenv.Ascii},
		{"", nil, termenv.Ascii},
	}
	for _, tt := range tests {
		if got := ProfileFor(tt.term, tt.environ); got != tt.want {
			t.Errorf("ProfileFor(%q, %v) = %v, want %v", tt.term, tt.environ, got, tt.want)
		}
	}
}

func TestPNGEncodeWidth(t *testing.T) {
	_, frame := newFrame(t)
	var buf bytes.Buffer
	if err := NewPNG(PNGOptions{Width: 320}).Encode(&buf, frame); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("width = %d, want 320", img.Bounds().Dx())
	}
}

func TestPNGChangesWithState(t *testing.T) {
	s, frame := newFrame(t)
	r := NewPNG(PNGOptions{TileSize: 6})
	before := r.Image(frame)
	s.Tick()
	after := r.Image(driver.FrameSnapshot{Snapshot: s.Snapshot()})

	if before.Bounds() != after.Bounds() {
		t.Fatalf("bounds changed: %v vs %v", before.Bounds(), after.Bounds())
	}
	b := before.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if before.At(x, y) != after.At(x, y) {
				return
			}
		}
	}
	t.Error("moving the snake did not change the image")
}

func TestHeadLead(t *testing.T) {
	base := sim.Snapshot{
		Snake:     []sim.Cell{{X: 4, Y: 5}, {X: 5, Y: 5}},
		Direction: sim.Right,
		State:     sim.StateRunning,
		GridCells: 10,
	}
	tests := []struct {
		name       string
		dir        sim.Direction
		head       sim.Cell
		state      sim.State
		alpha      float64
		x, y, w, h float64
		ok         bool
	}{
		{"right", sim.Right, sim.Cell{X: 5, Y: 5}, sim.StateRunning, 0.25, 6, 5, 0.25, 1, true},
		{"left", sim.Left, sim.Cell{X: 5, Y: 5}, sim.StateRunning, 0.25, 4.75, 5, 0.25, 1, true},
		{"down", sim.Down, sim.Cell{X: 5, Y: 5}, sim.StateRunning, 0.5, 5, 6, 1, 0.5, true},
		{"up", sim.Up, sim.Cell{X: 5, Y: 5}, sim.StateRunning, 0.5, 5, 4.5, 1, 0.5, true},
		{"no progress", sim.Right, sim.Cell{X: 5, Y: 5}, sim.StateRunning, 0, 0, 0, 0, 0, false},
		{"paused", sim.Right, sim.Cell{X: 5, Y: 5}, sim.StatePaused, 0.5, 0, 0, 0, 0, false},
		{"facing wall", sim.Right, sim.Cell{X: 9, Y: 5}, sim.StateRunning, 0.5, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base
			snap.Snake = []sim.Cell{tt.head}
			snap.Direction = tt.dir
			snap.State = tt.state
			x, y, w, h, ok := headLead(snap, tt.alpha)
			if ok != tt.ok || x != tt.x || y != tt.y || w != tt.w || h != tt.h {
				t.Errorf("headLead = (%v,%v,%v,%v,%v), want (%v,%v,%v,%v,%v)",
					x, y, w, h, ok, tt.x, tt.y, tt.w, tt.h, tt.ok)
			}
		})
	}
}

func TestPNGInterpolatesHead(t *testing.T) {
	_, frame := newFrame(t)
	r := NewPNG(PNGOptions{TileSize: 6})
	still := r.Image(frame)
	frame.Alpha = 0.5
	moving := r.Image(frame)

	b := still.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if still.At(x, y) != moving.At(x, y) {
				return
			}
		}
	}
	t.Error("alpha did not move the head")
}

func TestTerminalDrawsHeadLead(t *testing.T) {
	_, frame := newFrame(t)
	// Full blocks redrawn on a second frame, after a first frame at alpha 0.
	redrawn := func(alpha float64) int {
		var buf bytes.Buffer
		term := NewTerminal(&buf, draw.FixedTermSize(80, 30), termenv.TrueColor)
		if err := term.Render(frame); err != nil {
			t.Fatalf("Render: %v", err)
		}
		buf.Reset()
		next := frame
		next.Alpha = alpha
		if err := term.Render(next); err != nil {
			t.Fatalf("Render: %v", err)
		}
		return strings.Count(buf.String(), string(draw.BlockFull))
	}

	if got := redrawn(0); got != 0 {
		t.Errorf("unchanged frame redrew %d blocks", got)
	}
	if got := redrawn(0.5); got == 0 {
		t.Error("head lead at alpha 0.5 redrew no cells")
	}
}
