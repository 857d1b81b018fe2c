package game

import (
	"errors"
	"fmt"
	"hive/utils"
)

// ErrNoPieceToMove is returned for a DragMove whose start cell holds nothing.
var ErrNoPieceToMove = errors.New("no piece to move")

// ValidationError names the rule that rejected a move.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid move: %s: %v", e.Reason, e.Err)
	}
	return "invalid move: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(reason string) error { return &ValidationError{Reason: reason} }

// ValidateMove checks the move for the given color against the current board.
// Legality is always derived from the board, the fields observed in the move
// are ignored.
func (gs *GameState) ValidateMove(color PlayerColor, move Move) error {
	switch m := move.(type) {
	case SetMove:
		return gs.validateSetMove(color, m)
	case DragMove:
		return gs.validateDragMove(color, m)
	}
	return invalid(fmt.Sprintf("unknown move kind %T", move))
}

func (gs *GameState) validateSetMove(color PlayerColor, m SetMove) error {
	if m.Piece.Owner != color {
		return invalid("piece does not belong to the player")
	}
	if utils.FindIndex(gs.UndeployedPieces(color), m.Piece) < 0 {
		return invalid("piece is not undeployed")
	}

	dest := m.Destination.Coords
	field, ok := gs.Board.Field(dest)
	if !ok {
		return invalid("destination is not on the board")
	}
	if field.IsObstructed() {
		return invalid("destination is obstructed")
	}
	if field.HasPieces() {
		return invalid("destination is occupied")
	}

	if !gs.Board.HasPieces() {
		return nil
	}

	opponent := color.Opponent()
	if len(gs.Board.FieldsOwnedBy(color)) == 0 {
		if !gs.Board.IsNextTo(opponent, dest) {
			return invalid("first piece must be placed next to the opponent")
		}
		return nil
	}

	if gs.Round() >= BeeDeadlineRound && !gs.Board.HasPlacedBee(color) && m.Piece.Type != Bee {
		return invalid("bee must be placed by the fourth round")
	}
	if !gs.Board.IsNextTo(color, dest) {
		return invalid("destination is not next to an own piece")
	}
	if gs.Board.IsNextTo(opponent, dest) {
		return invalid("destination is next to an opponent piece")
	}
	return nil
}

func (gs *GameState) validateDragMove(color PlayerColor, m DragMove) error {
	start, dest := m.Start.Coords, m.Destination.Coords

	if !gs.Board.HasPlacedBee(color) {
		return invalid("bee must be placed before pieces can move")
	}
	startField, ok := gs.Board.Field(start)
	if !ok {
		return invalid("start is not on the board")
	}
	destField, ok := gs.Board.Field(dest)
	if !ok {
		return invalid("destination is not on the board")
	}
	piece, ok := startField.Piece()
	if !ok {
		return &ValidationError{Reason: "start is empty", Err: ErrNoPieceToMove}
	}
	if piece.Owner != color {
		return invalid("piece does not belong to the player")
	}
	if start == dest {
		return invalid("start and destination are the same")
	}
	if destField.IsObstructed() {
		return invalid("destination is obstructed")
	}
	if destField.HasPieces() && piece.Type != Beetle {
		return invalid("only beetles can climb onto other pieces")
	}

	lifted := gs.Board.Clone()
	lifted.FieldMut(start).Pop()
	if !lifted.IsSwarmConnected() {
		return invalid("moving the piece would disconnect the swarm")
	}

	switch piece.Type {
	case Bee:
		return gs.validateBeeMove(start, dest)
	case Beetle:
		return gs.validateBeetleMove(start, dest, destField)
	case Grasshopper:
		return gs.validateGrasshopperMove(start, dest)
	case Spider:
		if !gs.Board.ReachableInThreeSteps(start, dest) {
			return invalid("no path of exactly three steps")
		}
	case Ant:
		if !gs.Board.ConnectedByBoundaryPath(start, dest) {
			return invalid("no path along the swarm")
		}
	}
	return nil
}

func (gs *GameState) validateBeeMove(start, dest AxialCoords) error {
	if !IsAdjacentTo(start, dest) {
		return invalid("destination is not adjacent")
	}
	if !gs.Board.CanMoveBetween(start, dest) {
		return invalid("no room to slide to the destination")
	}
	return nil
}

func (gs *GameState) validateBeetleMove(start, dest AxialCoords, destField Field) error {
	if !IsAdjacentTo(start, dest) {
		return invalid("destination is not adjacent")
	}
	if destField.HasPieces() {
		return nil
	}
	for _, n := range gs.Board.SharedNeighbors(start, dest) {
		if n.Field.HasPieces() {
			return nil
		}
	}
	return invalid("beetle would lose contact with the swarm")
}

func (gs *GameState) validateGrasshopperMove(start, dest AxialCoords) error {
	if !FormsLineWith(start, dest) {
		return invalid("destination is not on a straight line")
	}
	if IsAdjacentTo(start, dest) {
		return invalid("grasshopper must jump over at least one piece")
	}
	for _, c := range Between(start, dest) {
		if !gs.Board.IsOccupied(c) {
			return invalid("grasshopper cannot jump over empty fields")
		}
	}
	return nil
}
