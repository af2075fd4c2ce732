package sim

import "fmt"

// Cell is a grid coordinate. X grows to the right, Y grows downward.
type Cell struct {
	X, Y int
}

// Add returns the cell one step away from c in direction d.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// InBounds reports whether c lies inside a square grid of the given size.
func (c Cell) InBounds(gridCells int) bool {
	return c.X >= 0 && c.X < gridCells && c.Y >= 0 && c.Y < gridCells
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a unit step on the grid.
type Direction struct {
	DX, DY int
}

// The four legal directions. Up is toward row 0.
var (
	Right = Direction{DX: 1, DY: 0}
	Left  = Direction{DX: -1, DY: 0}
	Down  = Direction{DX: 0, DY: 1}
	Up    = Direction{DX: 0, DY: -1}
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// IsReverseOf reports whether d points exactly opposite to other.
func (d Direction) IsReverseOf(other Direction) bool {
	return d == other.Reverse()
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("dir(%d,%d)", d.DX, d.DY)
	}
}
