// Package driver runs a simulation on a fixed timestep independent of the
// render rate. The host calls Advance once per frame with the real elapsed
// time; Advance runs zero or more ticks and returns one snapshot to render.
package driver

import (
	"time"

	"github.com/tomz197/gridsnake/internal/loop/config"
	"github.com/tomz197/gridsnake/internal/sim"
)

// FrameSnapshot is everything a renderer needs for one frame.
type FrameSnapshot struct {
	sim.Snapshot

	Steps        int           // Ticks run during this frame
	Outcomes     []sim.Outcome // One entry per tick, in order
	Alpha        float64       // Fraction of the next tick already accumulated, [0,1)
	Elapsed      time.Duration // Total clamped frame time fed so far; drives idle animations
	NewHighScore bool          // High score rose during this frame and should be persisted
}

// Options configures a Driver.
type Options struct {
	MaxFrameDelta time.Duration // Frame deltas above this are clamped
}

// DefaultOptions returns the standard clamp.
func DefaultOptions() Options {
	return Options{MaxFrameDelta: config.MaxFrameDelta}
}

// Driver owns the accumulator for a single simulation.
type Driver struct {
	sim         *sim.Simulation
	opts        Options
	accumulator time.Duration
	elapsed     time.Duration
}

// New creates a driver for s.
func New(s *sim.Simulation, opts Options) *Driver {
	if opts.MaxFrameDelta <= 0 {
		opts.MaxFrameDelta = config.MaxFrameDelta
	}
	return &Driver{sim: s, opts: opts}
}

// Simulation returns the driven simulation.
func (d *Driver) Simulation() *sim.Simulation {
	return d.sim
}

// stepDuration is the simulated time per tick at the current speed.
func (d *Driver) stepDuration() time.Duration {
	return time.Second / time.Duration(d.sim.Speed())
}

// Advance feeds dt of real time and runs every tick that became due.
// Speed can change mid-frame, so the step length is re-read after each tick.
func (d *Driver) Advance(dt time.Duration) FrameSnapshot {
	if dt < 0 {
		dt = 0
	}
	if dt > d.opts.MaxFrameDelta {
		dt = d.opts.MaxFrameDelta
	}
	d.accumulator += dt
	d.elapsed += dt

	high := d.sim.HighScore()
	frame := FrameSnapshot{}
	for step := d.stepDuration(); d.accumulator >= step; step = d.stepDuration() {
		d.accumulator -= step
		frame.Outcomes = append(frame.Outcomes, d.sim.Tick())
		frame.Steps++
	}

	frame.Snapshot = d.sim.Snapshot()
	frame.Alpha = float64(d.accumulator) / float64(d.stepDuration())
	frame.Elapsed = d.elapsed
	frame.NewHighScore = frame.HighScore > high
	return frame
}

// Reset drops any accumulated time, e.g. after a restart.
func (d *Driver) Reset() {
	d.accumulator = 0
}
