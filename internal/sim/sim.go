// Package sim implements the snake simulation: a discrete-time automaton that
// advances one cell per tick, with single-slot input buffering, wall and self
// collision, food placement and score-driven speed progression.
//
// A Simulation is owned by one goroutine and does no locking.
package sim

import (
	"math/rand"

	"github.com/tomz197/gridsnake/internal/loop/config"
)

// State is the session phase.
type State uint8

const (
	StateRunning State = iota
	StatePaused
	StateGameOver
	StateWon
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game-over"
	case StateWon:
		return "won"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state only leaves via restart.
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateWon
}

// Outcome describes what a single tick did.
type Outcome uint8

const (
	OutcomeIdle          Outcome = iota // Tick swallowed (not running)
	OutcomeMoved                        // Translated by one cell
	OutcomeAte                          // Moved onto food and grew
	OutcomeWallCollision                // Head would leave the board; game over
	OutcomeSelfCollision                // Head would hit the body; game over
	OutcomeBoardFilled                  // Snake covers every cell; won
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeWallCollision:
		return "wall collision"
	case OutcomeSelfCollision:
		return "self collision"
	case OutcomeBoardFilled:
		return "board filled"
	default:
		return "unknown"
	}
}

// Options configures a Simulation. Start from DefaultOptions; New clamps
// out-of-range fields to the smallest playable board.
type Options struct {
	GridCells          int
	StartLength        int
	BaseSpeed          int
	MaxSpeed           int
	PointsPerSpeedStep int
	FoodRetryCap       int
	Seed               int64 // Seeds food placement
	HighScore          int   // Previously persisted high score
}

// DefaultOptions returns the standard game rules.
func DefaultOptions() Options {
	return Options{
		GridCells:          config.GridCells,
		StartLength:        config.StartLength,
		BaseSpeed:          config.BaseSpeed,
		MaxSpeed:           config.MaxSpeed,
		PointsPerSpeedStep: config.PointsPerSpeedStep,
		FoodRetryCap:       config.FoodRetryCap,
	}
}

// Simulation owns the snake, food, score, direction and input buffer of
// one game.
type Simulation struct {
	opts Options
	rng  *rand.Rand

	snake     Snake
	dir       Direction
	input     InputBuffer
	food      Cell
	score     int
	highScore int
	speed     int
	state     State
	last      Outcome
	ticks     uint64
}

// New creates a simulation in the running state with a fresh board.
func New(opts Options) *Simulation {
	opts.GridCells = max(opts.GridCells, 2)
	// The starting line must fit left of the centre column.
	opts.StartLength = min(max(opts.StartLength, 1), opts.GridCells/2)
	opts.FoodRetryCap = max(opts.FoodRetryCap, 1)
	if opts.BaseSpeed < 1 {
		opts.BaseSpeed = 1
	}
	if opts.MaxSpeed < opts.BaseSpeed {
		opts.MaxSpeed = opts.BaseSpeed
	}
	s := &Simulation{
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		highScore: max(opts.HighScore, 0),
	}
	s.Restart()
	return s
}

// Restart reinitialises the board and clears any paused or terminal state.
// The high score is kept.
func (s *Simulation) Restart() {
	s.snake = newSnake(s.opts.GridCells, s.opts.StartLength)
	s.dir = Right
	s.input.Reset()
	s.score = 0
	s.speed = s.opts.BaseSpeed
	s.state = StateRunning
	s.last = OutcomeIdle
	s.food = s.placeFood(s.food)
}

// TogglePause switches between running and paused. Terminal states ignore it.
func (s *Simulation) TogglePause() {
	switch s.state {
	case StateRunning:
		s.state = StatePaused
	case StatePaused:
		s.state = StateRunning
	}
}

// Submit feeds one player intent. Directions go through the input buffer;
// commands take effect immediately.
func (s *Simulation) Submit(i Intent) {
	if d, ok := i.Direction(); ok {
		s.input.Offer(d, s.dir)
		return
	}
	switch i {
	case IntentTogglePause:
		s.TogglePause()
	case IntentRestart:
		s.Restart()
	}
}

// Tick advances the game by one move. It is a no-op unless running.
func (s *Simulation) Tick() Outcome {
	if s.state != StateRunning {
		return OutcomeIdle
	}
	s.ticks++

	s.dir = s.input.Consume(s.dir)
	next := s.snake.Head().Add(s.dir)

	if !next.InBounds(s.opts.GridCells) {
		return s.finish(StateGameOver, OutcomeWallCollision)
	}
	// Checked against the body before the tail moves: stepping into the
	// cell the tail is about to vacate counts as a hit.
	if s.snake.Contains(next) {
		return s.finish(StateGameOver, OutcomeSelfCollision)
	}

	s.snake.push(next)
	outcome := OutcomeMoved
	if next == s.food {
		s.score++
		if s.score > s.highScore {
			s.highScore = s.score
		}
		s.speed = SpeedFor(s.score, s.opts.BaseSpeed, s.opts.MaxSpeed, s.opts.PointsPerSpeedStep)
		s.food = s.placeFood(s.food)
		outcome = OutcomeAte
	} else {
		s.snake.dropTail()
	}

	if s.snake.Len() >= s.opts.GridCells*s.opts.GridCells {
		return s.finish(StateWon, OutcomeBoardFilled)
	}
	s.last = outcome
	return outcome
}

func (s *Simulation) finish(state State, o Outcome) Outcome {
	s.state = state
	s.last = o
	return o
}

// SetHighScore raises the high score to n if n is larger.
func (s *Simulation) SetHighScore(n int) {
	if n > s.highScore {
		s.highScore = n
	}
}

func (s *Simulation) State() State         { return s.state }
func (s *Simulation) Score() int           { return s.score }
func (s *Simulation) HighScore() int       { return s.highScore }
func (s *Simulation) Speed() int           { return s.speed }
func (s *Simulation) Food() Cell           { return s.food }
func (s *Simulation) Direction() Direction { return s.dir }

// Snapshot is an immutable copy of the state for presentation.
type Snapshot struct {
	Snake     []Cell // Tail first, head last
	Food      Cell
	Direction Direction
	Score     int
	HighScore int
	Speed     int
	State     State
	Last      Outcome // Outcome of the most recent effective tick
	Tick      uint64
	GridCells int
}

// Head returns the head cell of the snapshot's snake.
func (snap Snapshot) Head() Cell {
	return snap.Snake[len(snap.Snake)-1]
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Snake:     s.snake.Cells(),
		Food:      s.food,
		Direction: s.dir,
		Score:     s.score,
		HighScore: s.highScore,
		Speed:     s.speed,
		State:     s.state,
		Last:      s.last,
		Tick:      s.ticks,
		GridCells: s.opts.GridCells,
	}
}
