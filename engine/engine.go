package engine

import (
	"fmt"
	"hive/experiments/metrics"
	"hive/game"
	"hive/gamemaster"
	"hive/searcher"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"
)

// MaxTurns caps a self-play game. The round limit ends games earlier.
const MaxTurns = 2 * game.RoundLimit

type Option func(e *Engine)

func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		e.maxTurns = n
	}
}

// WithNames sets the display names of red and blue.
func WithNames(red, blue string) Option {
	return func(e *Engine) {
		e.names = [2]string{red, blue}
	}
}

// Engine plays one game between two policies through a local game master.
type Engine struct {
	master   gamemaster.Engine
	policies [2]searcher.Policy // Indexed by game.PlayerColor
	names    [2]string
	maxTurns int
}

func NewEngine(red, blue searcher.Policy, options ...Option) *Engine {
	e := &Engine{ // Default values
		master:   gamemaster.NewLocalEngine(),
		policies: [2]searcher.Policy{red, blue},
		names:    [2]string{petname.Generate(2, "-"), petname.Generate(2, "-")},
		maxTurns: MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Result is the outcome of a finished game.
type Result struct {
	Winner    game.PlayerColor
	HasWinner bool // False on a draw or an unfinished game
	Final     *game.GameState
	Game      metrics.GameMetric
	Moves     []metrics.MoveMetric
}

// Run plays until the game is over or the turn cap is reached.
func (e *Engine) Run() (Result, error) {
	red := game.Player{Color: game.Red, DisplayName: e.names[game.Red]}
	blue := game.Player{Color: game.Blue, DisplayName: e.names[game.Blue]}
	state, getUpdate := e.master.Init(red, blue)

	startTime := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: state.StartPlayerColor.String(),
		StartTime:      startTime,
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s (%s) against %s (%s)", red.DisplayName, game.Red, blue.DisplayName, game.Blue)

	for turn := 1; !state.IsOver() && turn <= e.maxTurns; turn++ {
		color := state.CurrentPlayerColor
		moveMetric, err := e.takeTurn(state, color)
		if err != nil {
			return Result{}, fmt.Errorf("turn %d (%s): %w", turn, color, err)
		}
		moveMetric.Step = turn
		moveMetrics = append(moveMetrics, moveMetric)
		if moveMetric.Kind == "skip" {
			gameMetric.Skips++
		}

		u, ok := getUpdate()
		if !ok {
			return Result{}, fmt.Errorf("turn %d (%s): no update published", turn, color)
		}
		log.Debug().Int("turn", u.State.Turn).Uint64("hash", uint64(u.Hash)).Msgf("%s played %v", color, u.Move)
		state = u.State
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(startTime)
	gameMetric.TotalMoves = len(moveMetrics)

	result := Result{Final: state, Moves: moveMetrics}
	if state.IsOver() {
		result.Winner, result.HasWinner = state.Winner()
	}
	if result.HasWinner {
		gameMetric.Winner = result.Winner.String()
		log.Info().Msgf("%s wins after %d turns", state.Player(result.Winner).DisplayName, state.Turn)
	} else {
		log.Info().Msgf("no winner after %d turns", state.Turn)
	}
	result.Game = gameMetric
	return result, nil
}

func (e *Engine) takeTurn(state *game.GameState, color game.PlayerColor) (metrics.MoveMetric, error) {
	moveMetric := metrics.MoveMetric{Player: color.String()}

	moves := state.PossibleMoves(color)
	if len(moves) == 0 {
		moveMetric.Kind = "skip"
		return moveMetric, e.master.Skip()
	}

	move, searchMetric, err := e.policies[color].SelectMove(state, moves)
	if err != nil {
		return moveMetric, err
	}
	moveMetric.SearchMetric = searchMetric
	switch move.(type) {
	case game.SetMove:
		moveMetric.Kind = "set"
	case game.DragMove:
		moveMetric.Kind = "drag"
	}
	return moveMetric, e.master.Play(move)
}
