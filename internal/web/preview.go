package web

import (
	"time"

	"github.com/tomz197/gridsnake/internal/demo"
	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/sim"
)

// Preview limits.
const (
	MaxPreviewTicks = 5000
	MinPreviewWidth = 64
	MaxPreviewWidth = 1024
)

// Preview plays a seeded game under the autopilot for up to ticks moves and
// returns the last frame. Time is fed to the driver one step at a time so
// every frame runs exactly one tick; the clamp is widened to the slowest step.
func Preview(seed int64, ticks int) driver.FrameSnapshot {
	opts := sim.DefaultOptions()
	opts.Seed = seed
	s := sim.New(opts)
	d := driver.New(s, driver.Options{MaxFrameDelta: time.Second})

	var pilot demo.Autopilot
	frame := d.Advance(0)
	for i := 0; i < ticks && s.State() == sim.StateRunning; i++ {
		if intent, ok := pilot.Next(frame.Snapshot); ok {
			s.Submit(intent)
		}
		frame = d.Advance(time.Second / time.Duration(s.Speed()))
	}
	return frame
}
