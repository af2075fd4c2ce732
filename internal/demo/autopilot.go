// Package demo drives a simulation without a player, for previews and
// attract screens.
package demo

import "github.com/tomz197/gridsnake/internal/sim"

// Autopilot picks a greedy food-seeking direction that never walks straight
// into a wall or into the body on the next move. It is not a solver and
// will eventually trap itself on a long snake.
type Autopilot struct{}

var candidates = []sim.Direction{sim.Up, sim.Right, sim.Down, sim.Left}

// Next returns the intent to submit before the next tick. ok is false when
// every move is fatal or the game is not running.
func (Autopilot) Next(snap sim.Snapshot) (sim.Intent, bool) {
	if snap.State != sim.StateRunning || len(snap.Snake) == 0 {
		return sim.IntentNone, false
	}
	head := snap.Head()

	best := sim.Direction{}
	bestDist := -1
	for _, d := range candidates {
		if d.IsReverseOf(snap.Direction) {
			continue
		}
		next := head.Add(d)
		if !safe(snap, next) {
			continue
		}
		dist := manhattan(next, snap.Food)
		// Prefer keeping the current heading on ties to avoid zig-zagging.
		if bestDist < 0 || dist < bestDist || (dist == bestDist && d == snap.Direction) {
			best, bestDist = d, dist
		}
	}
	if bestDist < 0 {
		return sim.IntentNone, false
	}
	return sim.IntentFor(best), true
}

func safe(snap sim.Snapshot, c sim.Cell) bool {
	if !c.InBounds(snap.GridCells) {
		return false
	}
	for _, seg := range snap.Snake {
		if seg == c {
			return false
		}
	}
	return true
}

func manhattan(a, b sim.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Play runs s for up to ticks moves under the autopilot and returns the
// final snapshot. It stops early once the game ends.
func Play(s *sim.Simulation, ticks int) sim.Snapshot {
	var pilot Autopilot
	for i := 0; i < ticks && s.State() == sim.StateRunning; i++ {
		if intent, ok := pilot.Next(s.Snapshot()); ok {
			s.Submit(intent)
		}
		s.Tick()
	}
	return s.Snapshot()
}
