package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/gridsnake/internal/draw"
	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/loop/config"
	"github.com/tomz197/gridsnake/internal/sim"
)

const controlsHint = "arrows/wasd move · p pause · r restart · q quit"

// Terminal draws frames as half-block pixels with a HUD line above the
// board, a controls line below it and a centred box for pause, game over,
// win and host notices.
//
// The board is scaled by the largest whole factor that fits the terminal.
type Terminal struct {
	cw       *draw.ChunkWriter
	canvas   *draw.Canvas
	styles   *lipgloss.Renderer
	profile  termenv.Profile
	termSize draw.TermSizeFunc
	colors   map[color.RGBA]termenv.Color

	width, height int
	grid          int
	scale         int
	tooSmall      bool
	started       bool

	overlay      string
	noticeTitle  string
	noticeDetail string
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer, termSize draw.TermSizeFunc, profile termenv.Profile) *Terminal {
	styles := lipgloss.NewRenderer(w)
	styles.SetColorProfile(profile)
	styles.SetHasDarkBackground(true)
	return &Terminal{
		cw:       draw.NewChunkWriter(w),
		styles:   styles,
		profile:  profile,
		termSize: termSize,
		colors:   make(map[color.RGBA]termenv.Color),
	}
}

// SetNotice shows a host message (shutdown countdown, idle warning) in
// place of the state overlay. An empty title clears it.
func (t *Terminal) SetNotice(title, detail string) {
	t.noticeTitle = title
	t.noticeDetail = detail
}

// Render draws one frame and flushes it.
func (t *Terminal) Render(frame driver.FrameSnapshot) error {
	w, h, err := t.termSize()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	if !t.started {
		draw.HideCursor(t.cw)
		t.started = true
	}
	if w != t.width || h != t.height || frame.GridCells != t.grid {
		t.layout(w, h, frame.GridCells)
	}
	if t.tooSmall {
		return t.cw.Flush()
	}

	title, detail, hasOverlay := Headline(frame.Snapshot)
	if t.noticeTitle != "" {
		title, detail, hasOverlay = t.noticeTitle, t.noticeDetail, true
	}
	overlay := ""
	if hasOverlay {
		overlay = title + "\n" + detail
	}
	if overlay != t.overlay {
		t.repaint()
		t.overlay = overlay
	}

	t.drawBoard(frame)
	t.canvas.Render(t.cw)
	t.drawHUD(frame.Snapshot)
	if hasOverlay {
		t.drawOverlay(title, detail)
	}
	return t.cw.Flush()
}

// Close restores the cursor and clears the screen.
func (t *Terminal) Close() error {
	draw.ResetStyle(t.cw)
	draw.ClearScreen(t.cw)
	draw.ShowCursor(t.cw)
	return t.cw.Flush()
}

func (t *Terminal) layout(w, h, grid int) {
	t.width, t.height, t.grid = w, h, grid
	draw.ClearScreen(t.cw)

	grid = max(grid, 1)

	// One HUD row, two border rows and one hint row around the board. Big
	// terminals get a centred board no larger than the max render size.
	availW := min(w, config.MaxTermWidth) - 2
	availH := min(h, config.MaxTermHeight) - 4
	t.scale = min(availW/grid, availH*2/grid)
	t.tooSmall = t.scale < 1
	if t.tooSmall {
		msg := fmt.Sprintf("terminal too small: need %dx%d", grid+2, (grid+1)/2+4)
		t.cw.WriteAt(1, 1, msg)
		t.canvas = nil
		return
	}

	cols := grid * t.scale
	rows := (grid*t.scale + 1) / 2
	offsetCol := (w - cols) / 2
	offsetRow := 2 + (h-rows-4)/2
	logicalHeight := float64(rows*2) / float64(t.scale)

	t.canvas = draw.NewScaledCanvas(cols, rows, float64(grid), logicalHeight, t.profile)
	t.canvas.SetOffset(offsetCol, offsetRow)
	t.canvas.RenderBorder(t.cw)
	t.overlay = ""
}

func (t *Terminal) repaint() {
	draw.ClearScreen(t.cw)
	t.canvas.ForceRedraw()
	t.canvas.RenderBorder(t.cw)
}

func (t *Terminal) color(c color.RGBA) termenv.Color {
	if tc, ok := t.colors[c]; ok {
		return tc
	}
	tc := t.profile.Color(hex(c))
	t.colors[c] = tc
	return tc
}

func (t *Terminal) drawBoard(frame driver.FrameSnapshot) {
	t.canvas.Clear()
	for y := 0; y < frame.GridCells; y++ {
		for x := 0; x < frame.GridCells; x++ {
			cell := sim.Cell{X: x, Y: y}
			t.canvas.FillRect(float64(x), float64(y), 1, 1, t.color(floorColor(cell)))
		}
	}

	if frame.State != sim.StateWon {
		f := frame.Food
		t.canvas.FillRect(float64(f.X), float64(f.Y), 1, 1, t.color(foodColor(frame.Elapsed)))
	}

	n := len(frame.Snake)
	for i, c := range frame.Snake {
		t.canvas.FillRect(float64(c.X), float64(c.Y), 1, 1, t.color(segmentColor(i, n)))
	}

	// Only whole pixels move, so the lead shows from scale 2 up.
	if t.scale >= 2 {
		if x, y, w, h, ok := headLead(frame.Snapshot, frame.Alpha); ok {
			t.canvas.FillRect(x, y, w, h, t.color(headColor))
		}
	}
}

func (t *Terminal) drawHUD(snap sim.Snapshot) {
	cols := t.canvas.TerminalWidth() + 2
	left := fmt.Sprintf(" SCORE %d  SPEED %d", snap.Score, snap.Speed)
	right := fmt.Sprintf("HIGH %d ", snap.HighScore)
	if snap.Score > 0 && snap.Score >= snap.HighScore {
		right = fmt.Sprintf("NEW BEST %d ", snap.HighScore)
	}
	gap := max(cols-len(left)-len(right), 1)
	line := left + strings.Repeat(" ", gap) + right

	hud := t.styles.NewStyle().Bold(true).Foreground(lipgloss.Color(hex(headColor)))
	t.cw.WriteAt(t.canvas.OffsetCol(), t.canvas.OffsetRow()-1, hud.Render(line))

	hint := controlsHint
	if lipgloss.Width(hint) > cols {
		hint = "wasd/p/r/q"
	}
	faint := t.styles.NewStyle().Foreground(lipgloss.Color("#6c7680"))
	hintCol := t.canvas.OffsetCol() + max((cols-lipgloss.Width(hint))/2, 0)
	hintRow := t.canvas.OffsetRow() + t.canvas.TerminalHeight() + 2
	t.cw.WriteAt(hintCol, hintRow, faint.Render(hint))
}

func (t *Terminal) drawOverlay(title, detail string) {
	titleStyle := t.styles.NewStyle().Bold(true).Foreground(lipgloss.Color(hex(foodHigh)))
	box := t.styles.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(hex(neckColor))).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(titleStyle.Render(title) + "\n" + detail)

	boxW := lipgloss.Width(box)
	boxH := lipgloss.Height(box)
	centreCol := t.canvas.OffsetCol() + 1 + t.canvas.TerminalWidth()/2
	centreRow := t.canvas.OffsetRow() + 1 + t.canvas.TerminalHeight()/2
	col := max(centreCol-boxW/2, 1)
	row := max(centreRow-boxH/2, 1)
	t.cw.WriteLinesAt(col, row, box)
}
