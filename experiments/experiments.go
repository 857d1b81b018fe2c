package experiments

import (
	"fmt"
	"hive/engine"
	"hive/experiments/metrics"
	"hive/game"
	"hive/searcher"

	"github.com/rs/zerolog/log"
)

// Config describes a self-play experiment between two random policies.
type Config struct {
	Games    int
	Seed     uint64 // Zero picks time-based seeds
	MaxTurns int
	OutDir   string // Records are not stored when empty
}

// Summary counts the outcomes of an experiment.
type Summary struct {
	RedWins  int
	BlueWins int
	Draws    int
	Dir      string // Where the records were written
}

func RunSelfPlay(cfg Config) (Summary, error) {
	var summary Summary
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting self-play experiment with %d games...", cfg.Games)

	for i := 1; i <= cfg.Games; i++ {
		log.Info().Msgf("starting game %d of %d...", i, cfg.Games)

		e := engine.NewEngine(newPolicy(cfg.Seed, 2*i), newPolicy(cfg.Seed, 2*i+1), engine.WithMaxTurns(maxTurns(cfg)))
		result, err := e.Run()
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", i, err)
		}

		gameRecords = append(gameRecords, metrics.GameRecord{ID: i, GameMetric: result.Game})
		for _, mm := range result.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i, MoveMetric: mm})
		}

		switch {
		case !result.HasWinner:
			summary.Draws++
		case result.Winner == game.Red:
			summary.RedWins++
		default:
			summary.BlueWins++
		}
		log.Info().Msgf("completed game %d of %d with winner: %q", i, cfg.Games, result.Game.Winner)
	}

	log.Info().Msgf("completed self-play experiment: %+v", summary)
	if cfg.OutDir == "" {
		return summary, nil
	}

	writer, err := metrics.NewWriter(cfg.OutDir)
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	summary.Dir = writer.Dir()
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return summary, nil
}

func maxTurns(cfg Config) int {
	if cfg.MaxTurns > 0 {
		return cfg.MaxTurns
	}
	return engine.MaxTurns
}

// newPolicy derives a distinct seed per game and side.
func newPolicy(seed uint64, stream int) searcher.Policy {
	options := []searcher.Option{searcher.WithMetrics()}
	if seed != 0 {
		options = append(options, searcher.WithSeed(seed*1000+uint64(stream)))
	}
	return searcher.NewRandomPolicy(options...)
}
