package game

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Coords is implemented by every coordinate kind that can address a board cell.
type Coords interface {
	Axial() AxialCoords
}

// AxialCoords is the primary addressing scheme for board cells.
// See https://www.redblobgames.com/grids/hexagons/#coordinates-axial
type AxialCoords struct {
	X, Y int
}

// CubeCoords are used for straight-line and distance reasoning.
// Valid cube coordinates satisfy X+Y+Z == 0.
type CubeCoords struct {
	X, Y, Z int
}

// DoubledCoords are offset coordinates with a doubled step, used to read
// ASCII hex grids:
//
//	+--> x
//	|
//	v y
//
// Only values with X+Y even map back to axial coordinates.
type DoubledCoords struct {
	X, Y int
}

// axialDirections are the offsets of the six neighbors of a cell.
var axialDirections = [6]AxialCoords{
	{0, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, 0}, {-1, 1},
}

func NewAxial(x, y int) AxialCoords { return AxialCoords{X: x, Y: y} }

func NewCube(x, y, z int) CubeCoords { return CubeCoords{X: x, Y: y, Z: z} }

// NewValidCube returns the cube coordinates only if they lie on the x+y+z=0 plane.
func NewValidCube(x, y, z int) (CubeCoords, bool) {
	if x+y+z != 0 {
		return CubeCoords{}, false
	}
	return CubeCoords{X: x, Y: y, Z: z}, true
}

func NewDoubled(x, y int) DoubledCoords { return DoubledCoords{X: x, Y: y} }

func (c AxialCoords) Add(o AxialCoords) AxialCoords { return AxialCoords{c.X + o.X, c.Y + o.Y} }
func (c AxialCoords) Sub(o AxialCoords) AxialCoords { return AxialCoords{c.X - o.X, c.Y - o.Y} }
func (c AxialCoords) Mul(k int) AxialCoords         { return AxialCoords{c.X * k, c.Y * k} }
func (c AxialCoords) Div(k int) AxialCoords         { return AxialCoords{c.X / k, c.Y / k} }

func (c CubeCoords) Add(o CubeCoords) CubeCoords { return CubeCoords{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }
func (c CubeCoords) Sub(o CubeCoords) CubeCoords { return CubeCoords{c.X - o.X, c.Y - o.Y, c.Z - o.Z} }
func (c CubeCoords) Mul(k int) CubeCoords        { return CubeCoords{c.X * k, c.Y * k, c.Z * k} }
func (c CubeCoords) Div(k int) CubeCoords        { return CubeCoords{c.X / k, c.Y / k, c.Z / k} }

func (c DoubledCoords) Add(o DoubledCoords) DoubledCoords { return DoubledCoords{c.X + o.X, c.Y + o.Y} }
func (c DoubledCoords) Sub(o DoubledCoords) DoubledCoords { return DoubledCoords{c.X - o.X, c.Y - o.Y} }
func (c DoubledCoords) Mul(k int) DoubledCoords           { return DoubledCoords{c.X * k, c.Y * k} }
func (c DoubledCoords) Div(k int) DoubledCoords           { return DoubledCoords{c.X / k, c.Y / k} }

// Conversions. Axial<->Cube and Axial<->Doubled are direct, Cube<->Doubled goes through Axial.

func (c AxialCoords) Axial() AxialCoords { return c }

func (c AxialCoords) Cube() CubeCoords { return CubeCoords{X: c.X, Y: c.Y, Z: -(c.X + c.Y)} }

func (c AxialCoords) Doubled() DoubledCoords {
	return DoubledCoords{X: c.X - c.Y, Y: -(c.X + c.Y)}
}

func (c CubeCoords) Axial() AxialCoords { return AxialCoords{X: c.X, Y: c.Y} }

func (c CubeCoords) Cube() CubeCoords { return c }

func (c CubeCoords) Doubled() DoubledCoords { return c.Axial().Doubled() }

func (c DoubledCoords) Axial() AxialCoords {
	return AxialCoords{X: (c.X - c.Y) / 2, Y: -(c.X + c.Y) / 2}
}

func (c DoubledCoords) Cube() CubeCoords { return c.Axial().Cube() }

// Neighbors returns all six neighbors, regardless of any board boundaries.
func (c AxialCoords) Neighbors() [6]AxialCoords {
	var result [6]AxialCoords
	for i, d := range axialDirections {
		result[i] = c.Add(d)
	}
	return result
}

// IsAdjacentTo tests whether a and b are neighbors.
func IsAdjacentTo(a, b Coords) bool {
	target := b.Axial()
	for _, n := range a.Axial().Neighbors() {
		if n == target {
			return true
		}
	}
	return false
}

// FormsLineWith tests whether a and b lie on one straight line of the grid.
func FormsLineWith(a, b Coords) bool {
	ca, cb := a.Axial().Cube(), b.Axial().Cube()
	return ca.X == cb.X || ca.Y == cb.Y || ca.Z == cb.Z
}

// LineIter walks the cells strictly between two endpoints of a straight line.
type LineIter struct {
	current     CubeCoords
	destination CubeCoords
	step        CubeCoords
}

// NewLineIter returns an iterator over the cells between a and b. The iterator
// is empty if a and b are not collinear.
func NewLineIter(a, b Coords) *LineIter {
	from, to := a.Axial().Cube(), b.Axial().Cube()
	if !FormsLineWith(a, b) {
		return &LineIter{current: to, destination: to}
	}
	diff := to.Sub(from)
	step := CubeCoords{X: sign(diff.X), Y: sign(diff.Y), Z: sign(diff.Z)}
	return &LineIter{current: from.Add(step), destination: to, step: step}
}

// Next returns the next cell on the line and false once the destination is reached.
func (it *LineIter) Next() (CubeCoords, bool) {
	if it.current == it.destination {
		return CubeCoords{}, false
	}
	pos := it.current
	it.current = it.current.Add(it.step)
	return pos, true
}

// Between collects the cells strictly between a and b.
func Between(a, b Coords) []CubeCoords {
	var cells []CubeCoords
	it := NewLineIter(a, b)
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		cells = append(cells, c)
	}
	return cells
}

// Distance returns the hex distance between two cells.
func Distance(a, b Coords) int {
	d := a.Axial().Cube().Sub(b.Axial().Cube())
	return max(abs(d.X), abs(d.Y), abs(d.Z))
}

func (c AxialCoords) String() string   { return fmt.Sprintf("(%d, %d)", c.X, c.Y) }
func (c CubeCoords) String() string    { return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z) }
func (c DoubledCoords) String() string { return fmt.Sprintf("(%d, %d)", c.X, c.Y) }

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
