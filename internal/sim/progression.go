package sim

// SpeedFor returns the tick rate in moves per second for a score:
// base plus one per pointsPerStep points, capped at max.
func SpeedFor(score, base, max, pointsPerStep int) int {
	speed := base
	if pointsPerStep > 0 {
		speed += score / pointsPerStep
	}
	if speed > max {
		speed = max
	}
	return speed
}
