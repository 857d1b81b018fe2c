package game

import (
	"fmt"
	"strings"
)

// PlayerColor identifies one of the two sides.
type PlayerColor int

const (
	Red PlayerColor = iota
	Blue
)

var PlayerColors = [2]PlayerColor{Red, Blue}

func (c PlayerColor) Opponent() PlayerColor {
	if c == Red {
		return Blue
	}
	return Red
}

// String returns the protocol literal of the color.
func (c PlayerColor) String() string {
	switch c {
	case Red:
		return "RED"
	case Blue:
		return "BLUE"
	default:
		return fmt.Sprintf("PlayerColor(%d)", int(c))
	}
}

// Letter returns the one-letter notation used by ASCII grids.
func (c PlayerColor) Letter() byte {
	if c == Red {
		return 'R'
	}
	return 'B'
}

// ParsePlayerColor parses a protocol literal such as "RED" (case-insensitive).
func ParsePlayerColor(raw string) (PlayerColor, error) {
	switch strings.ToUpper(raw) {
	case "RED":
		return Red, nil
	case "BLUE":
		return Blue, nil
	}
	return 0, fmt.Errorf("did not recognize player color %q", raw)
}

// PlayerColorFromLetter parses the one-letter notation ('R' or 'B').
func PlayerColorFromLetter(ch byte) (PlayerColor, error) {
	switch ch {
	case 'R', 'r':
		return Red, nil
	case 'B', 'b':
		return Blue, nil
	}
	return 0, fmt.Errorf("did not recognize player color %q", ch)
}

// PieceType is one of the five Hive insects.
type PieceType int

const (
	Ant PieceType = iota
	Bee
	Beetle
	Grasshopper
	Spider
)

var PieceTypes = [5]PieceType{Ant, Bee, Beetle, Grasshopper, Spider}

func (t PieceType) String() string {
	switch t {
	case Ant:
		return "ANT"
	case Bee:
		return "BEE"
	case Beetle:
		return "BEETLE"
	case Grasshopper:
		return "GRASSHOPPER"
	case Spider:
		return "SPIDER"
	default:
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
}

// Letter returns the one-letter notation. Beetles use 'T' since 'B' is the bee.
func (t PieceType) Letter() byte {
	switch t {
	case Ant:
		return 'A'
	case Bee:
		return 'B'
	case Beetle:
		return 'T'
	case Grasshopper:
		return 'G'
	default:
		return 'S'
	}
}

func ParsePieceType(raw string) (PieceType, error) {
	switch strings.ToUpper(raw) {
	case "ANT":
		return Ant, nil
	case "BEE":
		return Bee, nil
	case "BEETLE":
		return Beetle, nil
	case "GRASSHOPPER":
		return Grasshopper, nil
	case "SPIDER":
		return Spider, nil
	}
	return 0, fmt.Errorf("did not recognize piece type %q", raw)
}

func PieceTypeFromLetter(ch byte) (PieceType, error) {
	switch ch {
	case 'A', 'a':
		return Ant, nil
	case 'B', 'b':
		return Bee, nil
	case 'T', 't':
		return Beetle, nil
	case 'G', 'g':
		return Grasshopper, nil
	case 'S', 's':
		return Spider, nil
	}
	return 0, fmt.Errorf("did not recognize piece type %q", ch)
}

// Piece is an immutable (owner, type) pair.
type Piece struct {
	Owner PlayerColor
	Type  PieceType
}

func NewPiece(owner PlayerColor, t PieceType) Piece {
	return Piece{Owner: owner, Type: t}
}

func (p Piece) String() string {
	return string([]byte{p.Owner.Letter(), p.Type.Letter()})
}

// Player is the metadata of one participant.
type Player struct {
	Color       PlayerColor
	DisplayName string
}

// InitialPieceTypes is the undeployed pool of each side at the start of a game.
var InitialPieceTypes = [11]PieceType{
	Bee,
	Spider, Spider, Spider,
	Grasshopper, Grasshopper,
	Beetle, Beetle,
	Ant, Ant, Ant,
}

// InitialPieces returns a fresh undeployed pool for the given color.
func InitialPieces(color PlayerColor) []Piece {
	pieces := make([]Piece, len(InitialPieceTypes))
	for i, t := range InitialPieceTypes {
		pieces[i] = Piece{Owner: color, Type: t}
	}
	return pieces
}
