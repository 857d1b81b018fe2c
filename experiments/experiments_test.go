package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSelfPlay(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		summary, err := RunSelfPlay(Config{Games: 2, Seed: 1, MaxTurns: 6, OutDir: t.TempDir()})

		require.NoError(t, err, "Experiment should run")
		require.Equal(t, 2, summary.Draws, "Capped games have no winner")
		for _, name := range []string{"game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(summary.Dir, name))
			require.NoError(t, err, "%s should be written", name)
		}
	})

	t.Run("full games", func(t *testing.T) {
		summary, err := RunSelfPlay(Config{Games: 2, Seed: 4})

		require.NoError(t, err, "Experiment should run")
		require.Equal(t, 2, summary.RedWins+summary.BlueWins+summary.Draws, "Every game should be counted")
		require.Empty(t, summary.Dir, "Nothing should be stored without an output directory")
	})
}
