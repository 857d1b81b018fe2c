package gamemaster

import (
	"errors"
	"fmt"
	"hive/game"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrNotStarted   = errors.New("game has not been initialized")
	ErrIllegalMove  = errors.New("illegal move")
	ErrCannotSkip   = errors.New("cannot skip while legal moves exist")
	ErrNoLegalMoves = errors.New("no legal moves available")
)

// Update is published after every applied move. Move is nil for a skip.
type Update struct {
	Move  game.Move
	State *game.GameState
	Hash  game.StateHash
}

// UpdateGetter returns the next pending update without blocking. ok is false
// when no update is pending or the game is over and all updates were read.
type UpdateGetter func() (u Update, ok bool)

// Engine arbitrates one game: it owns the authoritative state and only
// applies legal moves.
type Engine interface {
	Init(red, blue game.Player) (*game.GameState, UpdateGetter)
	Play(game.Move) error
	Skip() error
	State() *game.GameState
}

type localEngine struct {
	mu       sync.Mutex
	state    *game.GameState
	updateCh chan Update
	gameOver bool
}

func NewLocalEngine() Engine {
	return &localEngine{}
}

func (e *localEngine) Init(red, blue game.Player) (*game.GameState, UpdateGetter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = game.NewGameState(red, blue)
	e.gameOver = false
	// One slot per turn the game can last, so publishing never blocks.
	updateCh := make(chan Update, 2*game.RoundLimit)
	e.updateCh = updateCh

	return e.state.Copy(), func() (Update, bool) {
		select {
		case u, ok := <-updateCh:
			if !ok { // Game over
				return Update{}, false
			}
			u.State = u.State.Copy()
			return u, true
		default:
			return Update{}, false
		}
	}
}

// State returns a copy of the current state.
func (e *localEngine) State() *game.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	return e.state.Copy()
}

func (e *localEngine) Play(move game.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRunning(); err != nil {
		return err
	}

	color := e.state.CurrentPlayerColor
	legalMoves := e.state.PossibleMoves(color)
	if len(legalMoves) == 0 {
		return fmt.Errorf("%w: %s must skip", ErrNoLegalMoves, color)
	}

	isLegal := false
	for _, lm := range legalMoves {
		if game.SameMove(lm, move) {
			isLegal = true
			break
		}
	}
	if !isLegal {
		if err := e.state.ValidateMove(color, move); err != nil {
			return fmt.Errorf("%w %s: %w", ErrIllegalMove, move, err)
		}
		return fmt.Errorf("%w %s", ErrIllegalMove, move)
	}

	next, err := e.state.Play(move)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIllegalMove, move, err)
	}
	e.publish(move, next)
	return nil
}

func (e *localEngine) Skip() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRunning(); err != nil {
		return err
	}
	if n := len(e.state.PossibleMoves(e.state.CurrentPlayerColor)); n > 0 {
		return fmt.Errorf("%w: %d moves", ErrCannotSkip, n)
	}
	e.publish(nil, e.state.Skip())
	return nil
}

func (e *localEngine) checkRunning() error {
	if e.state == nil {
		return ErrNotStarted
	}
	if e.gameOver {
		return ErrGameOver
	}
	return nil
}

func (e *localEngine) publish(move game.Move, next *game.GameState) {
	e.state = next
	e.updateCh <- Update{Move: move, State: next, Hash: next.Hash()}
	if next.IsOver() {
		e.gameOver = true
		close(e.updateCh)
		log.Debug().Int("turn", next.Turn).Msg("game over")
	}
}
