package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"hive/utils"
)

type StateHash uint64

// GameState is an immutable snapshot of the game at one turn. Operations
// that change the game return a new copy.
type GameState struct {
	Turn               int // Half-moves played so far
	StartPlayerColor   PlayerColor
	CurrentPlayerColor PlayerColor
	Board              *Board
	RedPlayer          Player
	BluePlayer         Player
	UndeployedRed      []Piece
	UndeployedBlue     []Piece
}

// NewGameState creates the opening position on an empty standard board with
// red to move.
func NewGameState(red, blue Player) *GameState {
	red.Color, blue.Color = Red, Blue
	return &GameState{
		StartPlayerColor:   Red,
		CurrentPlayerColor: Red,
		Board:              FillingRadius(BoardRadius, nil),
		RedPlayer:          red,
		BluePlayer:         blue,
		UndeployedRed:      InitialPieces(Red),
		UndeployedBlue:     InitialPieces(Blue),
	}
}

// Copy returns a deep copy, safe for what-if exploration.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		Turn:               gs.Turn,
		StartPlayerColor:   gs.StartPlayerColor,
		CurrentPlayerColor: gs.CurrentPlayerColor,
		Board:              gs.Board.Clone(),
		RedPlayer:          gs.RedPlayer,
		BluePlayer:         gs.BluePlayer,
		UndeployedRed:      append([]Piece(nil), gs.UndeployedRed...),
		UndeployedBlue:     append([]Piece(nil), gs.UndeployedBlue...),
	}
}

// Round is half the turn.
func (gs *GameState) Round() int { return gs.Turn / 2 }

func (gs *GameState) UndeployedPieces(color PlayerColor) []Piece {
	if color == Red {
		return gs.UndeployedRed
	}
	return gs.UndeployedBlue
}

func (gs *GameState) Player(color PlayerColor) Player {
	if color == Red {
		return gs.RedPlayer
	}
	return gs.BluePlayer
}

// Play validates the move for the current player and returns the state after it.
func (gs *GameState) Play(move Move) (*GameState, error) {
	color := gs.CurrentPlayerColor
	if err := gs.ValidateMove(color, move); err != nil {
		return nil, err
	}

	next := gs.Copy()
	switch m := move.(type) {
	case SetMove:
		next.Board.FieldMut(m.Destination.Coords).Push(m.Piece)
		next.removeUndeployed(m.Piece)
	case DragMove:
		piece, _ := next.Board.FieldMut(m.Start.Coords).Pop()
		next.Board.FieldMut(m.Destination.Coords).Push(piece)
	}
	next.advance()
	return next, nil
}

// Skip passes the turn, for when the current player has no possible move.
func (gs *GameState) Skip() *GameState {
	next := gs.Copy()
	next.advance()
	return next
}

func (gs *GameState) advance() {
	gs.Turn++
	gs.CurrentPlayerColor = gs.CurrentPlayerColor.Opponent()
}

func (gs *GameState) removeUndeployed(p Piece) {
	pool := &gs.UndeployedRed
	if p.Owner == Blue {
		pool = &gs.UndeployedBlue
	}
	*pool, _ = utils.RemoveFirst(*pool, p)
}

// IsBeeSurrounded tests whether the bee of the color has no free neighbor
// left. Cells outside the board count as occupied.
func (gs *GameState) IsBeeSurrounded(color PlayerColor) bool {
	bee := Piece{Owner: color, Type: Bee}
	for _, pf := range gs.Board.OccupiedFields() {
		if utils.FindIndex(pf.Field.stack, bee) < 0 {
			continue
		}
		for _, n := range pf.Coords.Neighbors() {
			if !gs.Board.IsOccupied(n) {
				return false
			}
		}
		return true
	}
	return false
}

// IsOver reports whether a bee is surrounded or the round limit is reached.
func (gs *GameState) IsOver() bool {
	return gs.IsBeeSurrounded(Red) || gs.IsBeeSurrounded(Blue) || gs.Round() >= RoundLimit
}

// Winner returns the color whose bee is free while the opponent's is
// surrounded. There is no winner while the game runs or on a draw.
func (gs *GameState) Winner() (PlayerColor, bool) {
	red, blue := gs.IsBeeSurrounded(Red), gs.IsBeeSurrounded(Blue)
	switch {
	case red && !blue:
		return Blue, true
	case blue && !red:
		return Red, true
	}
	return 0, false
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.Turn))
	binary.Write(hasher, binary.LittleEndian, int64(gs.CurrentPlayerColor))

	for _, pf := range gs.Board.OccupiedFields() {
		binary.Write(hasher, binary.LittleEndian, int64(pf.Coords.X))
		binary.Write(hasher, binary.LittleEndian, int64(pf.Coords.Y))
		binary.Write(hasher, binary.LittleEndian, pf.Field.IsObstructed())
		for _, p := range pf.Field.stack {
			binary.Write(hasher, binary.LittleEndian, int64(p.Owner))
			binary.Write(hasher, binary.LittleEndian, int64(p.Type))
		}
	}

	for _, color := range PlayerColors {
		binary.Write(hasher, binary.LittleEndian, int64(-1))
		for _, p := range gs.UndeployedPieces(color) {
			binary.Write(hasher, binary.LittleEndian, int64(p.Type))
		}
	}

	return StateHash(hasher.Sum64())
}

func (gs *GameState) String() string {
	return fmt.Sprintf("GameState(turn=%d, current=%s)\n%s", gs.Turn, gs.CurrentPlayerColor, gs.Board)
}
