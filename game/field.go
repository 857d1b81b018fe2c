package game

import (
	"fmt"
	"strings"
)

// Field is the content of one board cell: a stack of pieces plus an
// obstruction flag that is independent of the stack.
type Field struct {
	stack      []Piece
	obstructed bool
}

// NewField creates a field holding the given stack (bottom first).
func NewField(stack []Piece, obstructed bool) Field {
	f := Field{obstructed: obstructed}
	if len(stack) > 0 {
		f.stack = append([]Piece(nil), stack...)
	}
	return f
}

// Owner returns the color of the top piece.
func (f Field) Owner() (PlayerColor, bool) {
	p, ok := f.Piece()
	return p.Owner, ok
}

func (f Field) IsOwnedBy(color PlayerColor) bool {
	owner, ok := f.Owner()
	return ok && owner == color
}

func (f Field) IsObstructed() bool { return f.obstructed }

// IsOccupied is true for obstructed fields and fields holding pieces.
func (f Field) IsOccupied() bool { return f.obstructed || f.HasPieces() }

func (f Field) IsEmpty() bool { return !f.IsOccupied() }

// Piece returns the top of the stack, the only piece that can move.
func (f Field) Piece() (Piece, bool) {
	if len(f.stack) == 0 {
		return Piece{}, false
	}
	return f.stack[len(f.stack)-1], true
}

func (f Field) HasPieces() bool { return len(f.stack) > 0 }

// PieceStack returns a copy of the stack, bottom first.
func (f Field) PieceStack() []Piece { return append([]Piece(nil), f.stack...) }

func (f Field) Height() int { return len(f.stack) }

func (f *Field) Push(p Piece) { f.stack = append(f.stack, p) }

func (f *Field) Pop() (Piece, bool) {
	if len(f.stack) == 0 {
		return Piece{}, false
	}
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return top, true
}

func (f Field) Clone() Field { return NewField(f.stack, f.obstructed) }

// Equal compares stacks and obstruction.
func (f Field) Equal(o Field) bool {
	if f.obstructed != o.obstructed || len(f.stack) != len(o.stack) {
		return false
	}
	for i := range f.stack {
		if f.stack[i] != o.stack[i] {
			return false
		}
	}
	return true
}

// ParseField reads the two-character notation of ASCII grids: owner letter
// followed by piece letter, e.g. "RG" for a red grasshopper. An empty string
// is an empty field. Stacks and obstructions are not expressible.
func ParseField(raw string) (Field, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Field{}, nil
	}
	if len(raw) != 2 || raw[0] < 'A' || raw[0] > 'Z' || raw[1] < 'A' || raw[1] > 'Z' {
		return Field{}, fmt.Errorf("%q does not match field syntax [A-Z][A-Z]", raw)
	}
	owner, err := PlayerColorFromLetter(raw[0])
	if err != nil {
		return Field{}, err
	}
	t, err := PieceTypeFromLetter(raw[1])
	if err != nil {
		return Field{}, err
	}
	return Field{stack: []Piece{{Owner: owner, Type: t}}}, nil
}

func (f Field) String() string {
	if p, ok := f.Piece(); ok {
		return p.String()
	}
	return "[]"
}

// PositionedField pairs a field with the coordinates it was observed at.
type PositionedField struct {
	Coords AxialCoords
	Field  Field
}
