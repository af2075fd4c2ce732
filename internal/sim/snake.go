package sim

// Snake is the ordered list of occupied cells, tail first and head last.
type Snake struct {
	cells []Cell
}

// newSnake lays out length cells in a horizontal line on the middle row,
// ending just left of the grid centre and heading right.
func newSnake(gridCells, length int) Snake {
	mid := gridCells / 2
	cells := make([]Cell, 0, length)
	for i := 0; i < length; i++ {
		cells = append(cells, Cell{X: mid - length + i, Y: mid})
	}
	return Snake{cells: cells}
}

// Head returns the leading cell.
func (s *Snake) Head() Cell {
	return s.cells[len(s.cells)-1]
}

// Len returns the number of occupied cells.
func (s *Snake) Len() int {
	return len(s.cells)
}

// Contains reports whether c is occupied by any segment.
// Linear scan: the board is at most a few hundred cells.
func (s *Snake) Contains(c Cell) bool {
	for _, seg := range s.cells {
		if seg == c {
			return true
		}
	}
	return false
}

// Cells returns a copy of the segments, tail first.
func (s *Snake) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// push appends a new head.
func (s *Snake) push(c Cell) {
	s.cells = append(s.cells, c)
}

// dropTail removes the trailing cell, reusing the backing array.
func (s *Snake) dropTail() {
	copy(s.cells, s.cells[1:])
	s.cells = s.cells[:len(s.cells)-1]
}
