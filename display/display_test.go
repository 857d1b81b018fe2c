package display

import (
	"hive/game"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallBoard() *game.Board {
	return game.FillingRadius(2, map[game.AxialCoords]game.Field{
		game.NewAxial(0, -1): game.NewField(nil, true),
		game.NewAxial(0, 0):  game.NewField([]game.Piece{game.NewPiece(game.Red, game.Bee)}, false),
		game.NewAxial(1, 0): game.NewField([]game.Piece{
			game.NewPiece(game.Red, game.Ant),
			game.NewPiece(game.Blue, game.Beetle),
		}, false),
	})
}

func TestBoard(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		got := NewRenderer(WithoutColor()).Board(smallBoard())

		want := strings.Join([]string{
			"    ##  ..",
			"  ..  RB  BT2",
			"    ..  ..",
		}, "\n") + "\n"
		require.Equal(t, want, got, "Rows should be shifted by half a cell")
	})

	t.Run("highlight keeps the layout", func(t *testing.T) {
		plain := NewRenderer(WithoutColor()).Board(smallBoard())
		marked := NewRenderer(WithoutColor(), WithHighlight(game.NewAxial(-1, 1))).Board(smallBoard())
		require.Equal(t, plain, marked, "Highlight should only change colors")
	})

	t.Run("empty board", func(t *testing.T) {
		require.Empty(t, Board(game.NewBoard(nil)), "Nothing to draw")
	})
}

func TestState(t *testing.T) {
	gs := game.NewGameState(game.Player{}, game.Player{})

	got := NewRenderer(WithoutColor()).State(gs)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Equal(t, "turn 0 (round 0), RED to move", lines[0], "Header should name the mover")
	require.Len(t, lines, 1+2*game.BoardRadius-1+2, "Header, board rows and two pools")
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "BLUE undeployed: BB"), "Blue pool should be listed last")
}
