package game

const (
	// BoardRadius is the side length of the standard hexagonal board.
	BoardRadius = 6
	// FieldCount is the number of cells of the standard board.
	FieldCount = 91
	// RoundLimit ends the game after this many rounds.
	RoundLimit = 30
	// BeeDeadlineRound is the last (zero-indexed) round in which the bee may still be set.
	BeeDeadlineRound = 3
	// ForcedBeeTurn is the turn after which an unplaced bee is the only piece that can be set.
	ForcedBeeTurn = 5
)
