package player

import (
	"errors"
	"fmt"
	"hive/communication"
	"hive/game"
	"hive/protocol"
	"hive/searcher"
	"io"

	"github.com/rs/zerolog/log"
)

// ErrNoState is returned when a move is requested before any memento arrived.
var ErrNoState = errors.New("move requested before any game state")

// Player answers the server's move requests with moves chosen by its policy.
type Player struct {
	Communicator communication.Communicator
	Policy       searcher.Policy
	Color        game.PlayerColor
	State        *game.GameState // Latest state received from the server
	RoomID       string
	Result       *protocol.GameResult
}

// NewPlayer creates a new Player instance.
func NewPlayer(comm communication.Communicator, policy searcher.Policy) *Player {
	return &Player{
		Communicator: comm,
		Policy:       policy,
	}
}

// Play handles messages until the server leaves the room or closes the
// protocol.
func (p *Player) Play() error {
	for {
		msg, err := p.Communicator.Receive()
		if errors.Is(err, io.EOF) {
			log.Info().Msg("server closed the protocol")
			return nil
		}
		if err != nil {
			return fmt.Errorf("receiving message: %w", err)
		}

		done, err := p.Handle(msg)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Handle processes one message and reports whether the game is finished.
func (p *Player) Handle(msg protocol.Message) (bool, error) {
	switch m := msg.(type) {
	case protocol.Joined:
		p.RoomID = m.RoomID
		log.Info().Msgf("joined room %s", m.RoomID)
	case protocol.Left:
		log.Info().Msgf("left room %s", m.RoomID)
		return true, nil
	case protocol.Room:
		return false, p.handleData(m.RoomID, m.Data)
	}
	return false, nil
}

func (p *Player) handleData(roomID string, data protocol.Data) error {
	switch d := data.(type) {
	case protocol.WelcomeMessage:
		p.Color = d.Color
		log.Info().Msgf("playing as %s", d.Color)
	case protocol.Memento:
		p.State = d.State
		log.Debug().Msgf("new board:\n%s", d.State.Board)
	case protocol.MoveRequest:
		return p.TakeTurn(roomID)
	case protocol.GameResult:
		p.Result = &d
		for _, w := range d.Winners {
			log.Info().Msgf("winner: %s (%s)", w.DisplayName, w.Color)
		}
		if len(d.Winners) == 0 {
			log.Info().Msg("game ended without a winner")
		}
	case protocol.ErrorData:
		log.Error().Str("room", roomID).Msg(d.Message)
	}
	return nil
}

// TakeTurn chooses a move for the latest state and sends it to the room.
func (p *Player) TakeTurn(roomID string) error {
	if p.State == nil {
		return ErrNoState
	}
	moves := p.State.PossibleMoves(p.Color)
	if len(moves) == 0 {
		log.Warn().Int("turn", p.State.Turn).Msg("no legal moves, not answering the request")
		return nil
	}

	move, _, err := p.Policy.SelectMove(p.State, moves)
	if err != nil {
		return fmt.Errorf("choosing move: %w", err)
	}
	if err := p.Communicator.SendMove(roomID, move); err != nil {
		return fmt.Errorf("sending move: %w", err)
	}
	return nil
}
