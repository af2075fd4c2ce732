package sim

// placeFood picks a uniformly random cell not covered by the snake using
// rejection sampling. After retryCap misses it gives up and returns prev;
// on a nearly full board the win check fires before this matters.
func (s *Simulation) placeFood(prev Cell) Cell {
	n := s.opts.GridCells
	for i := 0; i < s.opts.FoodRetryCap; i++ {
		c := Cell{X: s.rng.Intn(n), Y: s.rng.Intn(n)}
		if !s.snake.Contains(c) {
			return c
		}
	}
	return prev
}
