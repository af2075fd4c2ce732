package demo

import (
	"testing"

	"github.com/tomz197/gridsnake/internal/sim"
)

func TestAutopilotEats(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		opts := sim.DefaultOptions()
		opts.Seed = seed
		s := sim.New(opts)

		snap := Play(s, 400)
		if snap.Score < 1 {
			t.Errorf("seed %d: autopilot scored %d, want at least 1", seed, snap.Score)
		}
	}
}

func TestAutopilotAvoidsWall(t *testing.T) {
	snap := sim.Snapshot{
		Snake:     []sim.Cell{{X: 21, Y: 0}, {X: 22, Y: 0}, {X: 23, Y: 0}},
		Food:      sim.Cell{X: 23, Y: 23},
		Direction: sim.Right,
		State:     sim.StateRunning,
		GridCells: 24,
	}
	intent, ok := Autopilot{}.Next(snap)
	if !ok {
		t.Fatal("no move found")
	}
	if intent != sim.IntentDown {
		t.Errorf("intent = %v, want down", intent)
	}
}

func TestAutopilotIdleWhenNotRunning(t *testing.T) {
	s := sim.New(sim.DefaultOptions())
	s.TogglePause()
	if _, ok := (Autopilot{}).Next(s.Snapshot()); ok {
		t.Error("autopilot moved a paused game")
	}
}
