package game

import "fmt"

// Move is either a SetMove or a DragMove.
type Move interface {
	// To returns the coordinates the piece ends up at.
	To() AxialCoords
	String() string
	isMove()
}

// SetMove places an undeployed piece on the board.
type SetMove struct {
	Piece       Piece
	Destination PositionedField
}

// DragMove relocates a piece that is already on the board. The fields carry
// what was observed at generation time and are not used for validation.
type DragMove struct {
	Start       PositionedField
	Destination PositionedField
}

func NewSetMove(piece Piece, destination PositionedField) SetMove {
	return SetMove{Piece: piece, Destination: destination}
}

func NewDragMove(start, destination PositionedField) DragMove {
	return DragMove{Start: start, Destination: destination}
}

func (m SetMove) To() AxialCoords  { return m.Destination.Coords }
func (m DragMove) To() AxialCoords { return m.Destination.Coords }

func (m SetMove) String() string {
	return fmt.Sprintf("SetMove(%s -> %s)", m.Piece, m.Destination.Coords)
}

func (m DragMove) String() string {
	return fmt.Sprintf("DragMove(%s -> %s)", m.Start.Coords, m.Destination.Coords)
}

func (SetMove) isMove()  {}
func (DragMove) isMove() {}

// SameMove compares moves by what they do, ignoring the observed fields.
func SameMove(a, b Move) bool {
	switch a := a.(type) {
	case SetMove:
		b, ok := b.(SetMove)
		return ok && a.Piece == b.Piece && a.Destination.Coords == b.Destination.Coords
	case DragMove:
		b, ok := b.(DragMove)
		return ok && a.Start.Coords == b.Start.Coords && a.Destination.Coords == b.Destination.Coords
	}
	return false
}
