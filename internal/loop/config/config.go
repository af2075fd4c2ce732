// Package config centralizes all tunable game parameters.
package config

import "time"

// Board
const (
	GridCells   = 24 // Board is GridCells x GridCells
	StartLength = 4  // Snake length after (re)start
)

// Speed progression, in moves per second.
const (
	BaseSpeed          = 6
	MaxSpeed           = 14
	PointsPerSpeedStep = 4 // +1 move/sec every this many points
)

// Food placement
const (
	FoodRetryCap = 10000 // Rejection-sampling attempts before keeping the old cell
)

// Fixed-timestep driver
const (
	MaxFrameDelta = 100 * time.Millisecond // Clamp for slow or backgrounded frames
)

// Player
const (
	MaxUsernameLength = 16 // Maximum length of a high-score profile name
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Max render resolution in terminal cells. Larger terminals get a centred,
// bordered board.
const (
	MaxTermWidth  = 96
	MaxTermHeight = 40
)
