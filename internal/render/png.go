package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/sim"
)

const (
	defaultTileSize = 12.0
	hudHeight       = 28.0
	pngMargin       = 16.0
	cubeInset       = 0.08
	cubeHeight      = 0.8 // in tile units
)

var (
	pngBackground = color.RGBA{0x12, 0x14, 0x18, 0xff}
	pngText       = color.RGBA{0xe6, 0xe6, 0xe6, 0xff}
	pngShadow     = color.RGBA{0x00, 0x00, 0x00, 0x60}
	pngVeil       = color.RGBA{0x00, 0x00, 0x00, 0xa0}
)

// PNGOptions configures the isometric image renderer.
type PNGOptions struct {
	TileSize float64 // Half-width of one floor tile in pixels; 0 uses the default
	Width    int     // Output width in pixels; 0 keeps the native size
}

// PNG draws frames as an isometric board: a checkered floor with the snake
// as cubes and the food as a bobbing ball.
type PNG struct {
	opts PNGOptions
}

// NewPNG creates an image renderer.
func NewPNG(opts PNGOptions) *PNG {
	if opts.TileSize <= 0 {
		opts.TileSize = defaultTileSize
	}
	return &PNG{opts: opts}
}

// iso maps board point (x, y) at height z (all in tile units) to pixels.
type iso struct {
	s      float64
	ox, oy float64
}

func (p iso) at(x, y, z float64) (float64, float64) {
	return p.ox + (x-y)*p.s, p.oy + (x+y)*p.s/2 - z*p.s
}

func (p iso) poly(dc *gg.Context, pts ...[3]float64) {
	for i, pt := range pts {
		sx, sy := p.at(pt[0], pt[1], pt[2])
		if i == 0 {
			dc.MoveTo(sx, sy)
		} else {
			dc.LineTo(sx, sy)
		}
	}
	dc.ClosePath()
	dc.Fill()
}

type sprite struct {
	cell sim.Cell
	draw func()
}

// Image draws the frame at native resolution, resized when Width is set.
func (r *PNG) Image(frame driver.FrameSnapshot) image.Image {
	g := float64(frame.GridCells)
	s := r.opts.TileSize
	width := 2*g*s + 2*pngMargin
	height := hudHeight + cubeHeight*s + g*s + 2*pngMargin

	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(pngBackground)
	dc.Clear()

	proj := iso{s: s, ox: width / 2, oy: hudHeight + pngMargin + cubeHeight*s}

	for y := 0; y < frame.GridCells; y++ {
		for x := 0; x < frame.GridCells; x++ {
			fx, fy := float64(x), float64(y)
			dc.SetColor(floorColor(sim.Cell{X: x, Y: y}))
			proj.poly(dc, [3]float64{fx, fy, 0}, [3]float64{fx + 1, fy, 0}, [3]float64{fx + 1, fy + 1, 0}, [3]float64{fx, fy + 1, 0})
		}
	}

	var sprites []sprite
	n := len(frame.Snake)
	for i, c := range frame.Snake {
		col := segmentColor(i, n)
		sprites = append(sprites, sprite{cell: c, draw: func() { drawCube(dc, proj, c, col) }})
	}
	if x, y, w, h, ok := headLead(frame.Snapshot, frame.Alpha); ok {
		next := frame.Head().Add(frame.Direction)
		sprites = append(sprites, sprite{cell: next, draw: func() { drawBox(dc, proj, x, y, x+w, y+h, headColor) }})
	}
	if frame.State != sim.StateWon {
		sprites = append(sprites, sprite{cell: frame.Food, draw: func() { drawFood(dc, proj, frame) }})
	}
	// Back to front.
	sort.SliceStable(sprites, func(i, j int) bool {
		a, b := sprites[i].cell, sprites[j].cell
		if a.X+a.Y != b.X+b.Y {
			return a.X+a.Y < b.X+b.Y
		}
		return a.X < b.X
	})
	for _, sp := range sprites {
		sp.draw()
	}

	dc.SetColor(pngText)
	dc.DrawStringAnchored(fmt.Sprintf("SCORE %d   HIGH %d   SPEED %d", frame.Score, frame.HighScore, frame.Speed),
		pngMargin, pngMargin+hudHeight/2, 0, 0.5)

	if title, detail, ok := Headline(frame.Snapshot); ok {
		dc.SetColor(pngVeil)
		dc.DrawRectangle(0, height/2-30, width, 60)
		dc.Fill()
		dc.SetColor(foodHigh)
		dc.DrawStringAnchored(title, width/2, height/2-8, 0.5, 0.5)
		dc.SetColor(pngText)
		dc.DrawStringAnchored(detail, width/2, height/2+12, 0.5, 0.5)
	}

	img := dc.Image()
	if r.opts.Width > 0 && r.opts.Width != img.Bounds().Dx() {
		return imaging.Resize(img, r.opts.Width, 0, imaging.Lanczos)
	}
	return img
}

// Encode writes the frame as a PNG.
func (r *PNG) Encode(w io.Writer, frame driver.FrameSnapshot) error {
	if err := imaging.Encode(w, r.Image(frame), imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawCube(dc *gg.Context, p iso, c sim.Cell, col color.RGBA) {
	drawBox(dc, p, float64(c.X)+cubeInset, float64(c.Y)+cubeInset, float64(c.X+1)-cubeInset, float64(c.Y+1)-cubeInset, col)
}

// drawBox draws a box of cubeHeight over the floor rectangle [x0,x1]x[y0,y1].
func drawBox(dc *gg.Context, p iso, x0, y0, x1, y1 float64, col color.RGBA) {
	h := cubeHeight

	dc.SetColor(shade(col, 0.7))
	p.poly(dc, [3]float64{x0, y1, 0}, [3]float64{x1, y1, 0}, [3]float64{x1, y1, h}, [3]float64{x0, y1, h})
	dc.SetColor(shade(col, 0.5))
	p.poly(dc, [3]float64{x1, y0, 0}, [3]float64{x1, y1, 0}, [3]float64{x1, y1, h}, [3]float64{x1, y0, h})
	dc.SetColor(col)
	p.poly(dc, [3]float64{x0, y0, h}, [3]float64{x1, y0, h}, [3]float64{x1, y1, h}, [3]float64{x0, y1, h})
}

func drawFood(dc *gg.Context, p iso, frame driver.FrameSnapshot) {
	cx, cy := float64(frame.Food.X)+0.5, float64(frame.Food.Y)+0.5
	phase := foodPhase(frame.Elapsed)

	sx, sy := p.at(cx, cy, 0)
	dc.SetColor(pngShadow)
	dc.DrawEllipse(sx, sy, p.s*0.5*(1.1-0.3*phase), p.s*0.25*(1.1-0.3*phase))
	dc.Fill()

	bx, by := p.at(cx, cy, 0.45+0.35*phase)
	dc.SetColor(foodColor(frame.Elapsed))
	dc.DrawCircle(bx, by, p.s*0.4)
	dc.Fill()
}
