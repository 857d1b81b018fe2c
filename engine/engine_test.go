package engine

import (
	"hive/game"
	"hive/searcher"
	"testing"

	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) searcher.Policy {
	return searcher.NewRandomPolicy(searcher.WithSeed(seed), searcher.WithMetrics())
}

func TestRun(t *testing.T) {
	t.Run("full game", func(t *testing.T) {
		e := NewEngine(seeded(1), seeded(2), WithNames("alice", "bob"))

		result, err := e.Run()

		require.NoError(t, err, "Self-play should finish")
		require.True(t, result.Final.IsOver(), "Game should run until it is over")
		require.Equal(t, "alice", result.Final.RedPlayer.DisplayName, "Names should be applied")
		require.Equal(t, "RED", result.Game.StartingPlayer, "Red should start")
		require.Len(t, result.Moves, result.Game.TotalMoves, "Every turn should be recorded")
		require.Equal(t, result.Final.Turn, result.Game.TotalMoves, "One record per turn")
		require.LessOrEqual(t, result.Game.TotalMoves, MaxTurns, "Round limit should end the game")
		if result.HasWinner {
			require.Equal(t, result.Winner.String(), result.Game.Winner, "Metric should name the winner")
		} else {
			require.Empty(t, result.Game.Winner, "Draws have no winner")
		}
	})

	t.Run("move records", func(t *testing.T) {
		result, err := NewEngine(seeded(5), seeded(6), WithMaxTurns(4)).Run()

		require.NoError(t, err, "Self-play should run")
		require.Len(t, result.Moves, 4, "Turn cap should stop the game")
		require.False(t, result.HasWinner, "Unfinished game has no winner")
		require.Equal(t, 455, result.Moves[0].Candidates, "First mover can set any piece type anywhere")
		for i, m := range result.Moves {
			require.Equal(t, i+1, m.Step, "Steps should count from one")
		}
		require.Equal(t, "set", result.Moves[0].Kind, "First move is a placement")
		require.Equal(t, "set", result.Moves[1].Kind, "Blue has nothing to drag yet")
		require.Equal(t, "RED", result.Moves[0].Player, "Red moves first")
		require.Equal(t, "BLUE", result.Moves[1].Player, "Blue moves second")
	})

	t.Run("seeded games repeat", func(t *testing.T) {
		a, err := NewEngine(seeded(9), seeded(10), WithMaxTurns(12)).Run()
		require.NoError(t, err, "Self-play should run")
		b, err := NewEngine(seeded(9), seeded(10), WithMaxTurns(12)).Run()
		require.NoError(t, err, "Self-play should run")

		require.Equal(t, a.Final.Hash(), b.Final.Hash(), "Same seeds should reach the same position")
	})

	t.Run("default names", func(t *testing.T) {
		e := NewEngine(seeded(1), seeded(2))
		require.NotEmpty(t, e.names[game.Red], "Red should get a generated name")
		require.NotEmpty(t, e.names[game.Blue], "Blue should get a generated name")
	})
}
