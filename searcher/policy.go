package searcher

import (
	"errors"
	"hive/experiments/metrics"
	"hive/game"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// ErrNoMoves is returned when a policy is asked to choose from nothing.
var ErrNoMoves = errors.New("no legal moves")

// Policy picks one of the legal moves of a state.
type Policy interface {
	SelectMove(state *game.GameState, moves []game.Move) (game.Move, metrics.SearchMetric, error)
}

type Option func(r *RandomPolicy)

// WithSeed makes the choices reproducible.
func WithSeed(seed uint64) Option {
	return func(r *RandomPolicy) {
		r.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(r *RandomPolicy) {
		r.metrics = metrics.NewCollector()
	}
}

// RandomPolicy chooses uniformly among the legal moves. It is not safe for
// concurrent use.
type RandomPolicy struct {
	rng     *rand.Rand
	metrics metrics.Collector
}

func NewRandomPolicy(options ...Option) *RandomPolicy {
	r := &RandomPolicy{ // Default values
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *RandomPolicy) SelectMove(state *game.GameState, moves []game.Move) (game.Move, metrics.SearchMetric, error) {
	r.metrics.Start(len(moves))
	if len(moves) == 0 {
		return nil, r.metrics.Complete(), ErrNoMoves
	}
	move := moves[r.rng.Intn(len(moves))]
	log.Debug().Msgf("chose %s from %d moves", move, len(moves))
	return move, r.metrics.Complete(), nil
}
