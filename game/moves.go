package game

import (
	"hive/utils"

	"github.com/rs/zerolog/log"
)

// PossibleMoves lists every legal move of the color, set moves first.
func (gs *GameState) PossibleMoves(color PlayerColor) []Move {
	moves := gs.PossibleSetMoves(color)
	return append(moves, gs.PossibleDragMoves(color)...)
}

// PossibleSetMoves lists the placements available to color. The destination
// fields are those observed now.
func (gs *GameState) PossibleSetMoves(color PlayerColor) []Move {
	pool := gs.UndeployedPieces(color)
	if len(pool) == 0 {
		return nil
	}

	var destinations []AxialCoords
	if len(pool) == len(InitialPieceTypes) {
		if len(gs.UndeployedPieces(color.Opponent())) == len(InitialPieceTypes) {
			for _, f := range gs.Board.EmptyFields() {
				destinations = append(destinations, f.Coords)
			}
		} else {
			destinations = gs.cellsNextToOpponent(color)
		}
	} else {
		destinations = gs.Board.PossibleSetMoveDestinations(color)
	}

	var types []PieceType
	if gs.Turn > ForcedBeeTurn && !gs.Board.HasPlacedBee(color) {
		types = []PieceType{Bee}
	} else {
		for _, p := range pool {
			types = append(types, p.Type)
		}
		types = utils.Unique(types)
	}

	moves := make([]Move, 0, len(destinations)*len(types))
	for _, c := range destinations {
		field, _ := gs.Board.Field(c)
		for _, t := range types {
			moves = append(moves, NewSetMove(NewPiece(color, t), PositionedField{Coords: c, Field: field}))
		}
	}
	log.Trace().Stringer("color", color).Int("destinations", len(destinations)).Int("moves", len(moves)).Msg("enumerated SetMoves")
	return moves
}

func (gs *GameState) cellsNextToOpponent(color PlayerColor) []AxialCoords {
	seen := make(map[AxialCoords]bool)
	var result []AxialCoords
	for _, f := range gs.Board.FieldsOwnedBy(color.Opponent()) {
		for _, n := range gs.Board.EmptyNeighbors(f.Coords) {
			if !seen[n.Coords] {
				seen[n.Coords] = true
				result = append(result, n.Coords)
			}
		}
	}
	return result
}

// PossibleDragMoves lists the relocations available to color. Every candidate
// goes through ValidateMove.
func (gs *GameState) PossibleDragMoves(color PlayerColor) []Move {
	boundary := gs.Board.SwarmBoundary()

	var moves []Move
	for _, start := range gs.Board.FieldsOwnedBy(color) {
		targets := boundary
		if piece, _ := start.Field.Piece(); piece.Type == Beetle {
			targets = withNeighbors(gs.Board, boundary, start.Coords)
		}
		for _, dest := range targets {
			move := NewDragMove(start, dest)
			if err := gs.ValidateMove(color, move); err != nil {
				continue
			}
			moves = append(moves, move)
		}
	}
	log.Trace().Stringer("color", color).Int("moves", len(moves)).Msg("enumerated DragMoves")
	return moves
}

// withNeighbors returns the fields plus the existing neighbors of c, without duplicates.
func withNeighbors(b *Board, fields []PositionedField, c AxialCoords) []PositionedField {
	seen := make(map[AxialCoords]bool, len(fields)+6)
	result := make([]PositionedField, 0, len(fields)+6)
	for _, f := range fields {
		seen[f.Coords] = true
		result = append(result, f)
	}
	for _, n := range b.Neighbors(c) {
		if !seen[n.Coords] {
			seen[n.Coords] = true
			result = append(result, n)
		}
	}
	return result
}
