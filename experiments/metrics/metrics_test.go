package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err, "CSV file should exist")
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "CSV file should parse")
	return rows
}

func TestCollector(t *testing.T) {
	t.Run("counts candidates", func(t *testing.T) {
		c := NewCollector()
		c.Start(12)
		m := c.Complete()
		require.Equal(t, 12, m.Candidates, "Collector should report the candidates")
		require.GreaterOrEqual(t, m.Duration, time.Duration(0), "Duration should not be negative")
	})

	t.Run("dummy reports nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(12)
		require.Equal(t, SearchMetric{}, c.Complete(), "Dummy collector should stay empty")
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err, "Writer should create its directory")

	t.Run("game records", func(t *testing.T) {
		start := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
		records := []GameRecord{{ID: 1, GameMetric: GameMetric{
			StartingPlayer: "RED",
			Winner:         "BLUE",
			StartTime:      start,
			EndTime:        start.Add(time.Second),
			Duration:       time.Second,
			TotalMoves:     40,
			Skips:          2,
		}}}

		require.NoError(t, w.WriteGameRecords(records), "Game records should be written")

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2, "File should hold the header and one record")
		require.Equal(t, []string{"1", "RED", "BLUE", "2020-01-01T12:00:00Z", "2020-01-01T12:00:01Z", "1s", "40", "2"},
			rows[1], "Record should be written in column order")
	})

	t.Run("move records", func(t *testing.T) {
		records := []MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: "RED", Kind: "set", SearchMetric: SearchMetric{Candidates: 455}}},
			{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: "BLUE", Kind: "skip"}},
		}

		require.NoError(t, w.WriteMoveRecords(records), "Move records should be written")

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 3, "File should hold the header and two records")
		require.Equal(t, []string{"game", "step", "player", "kind", "duration", "candidates"}, rows[0], "Header should come first")
		require.Equal(t, []string{"1", "1", "RED", "set", "0s", "455"}, rows[1], "First move should be written")
		require.Equal(t, "skip", rows[2][3], "Skip should be recorded")
	})
}
