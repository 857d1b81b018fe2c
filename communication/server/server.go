package server

import (
	"context"
	"errors"
	"fmt"
	"hive/game"
	"hive/gamemaster"
	"hive/protocol"
	"net"
	"strconv"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"
)

const (
	defaultTurnTimeout = 10 * time.Second
	defaultJoinTimeout = 30 * time.Second
)

var scoreDefinition = protocol.ScoreDefinition{Fragments: []protocol.ScoreFragment{
	{Name: "Siegpunkte", Aggregation: protocol.AggregationSum, RelevantForRanking: true},
}}

type Option func(s *Server)

// WithTurnTimeout bounds how long a client may think about a move.
func WithTurnTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.turnTimeout = d
	}
}

func WithJoinTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.joinTimeout = d
	}
}

// Server hosts games between pairs of clients speaking the room protocol.
// The first client of a pair plays red.
type Server struct {
	listener    net.Listener
	turnTimeout time.Duration
	joinTimeout time.Duration
	games       int
}

// Listen opens a TCP listener on addr.
func Listen(addr string, options ...Option) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return NewServer(l, options...), nil
}

func NewServer(l net.Listener, options ...Option) *Server {
	s := &Server{ // Default values
		listener:    l,
		turnTimeout: defaultTurnTimeout,
		joinTimeout: defaultJoinTimeout,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Close() error {
	return s.listener.Close()
}

// Serve hosts games one after another until the context is canceled or the
// listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	log.Info().Msgf("serving games on %s", s.Addr())

	for {
		result, err := s.ServeGame()
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			log.Error().Err(err).Msg("game aborted")
			continue
		}
		log.Info().Int("winners", len(result.Winners)).Msg("game finished")
	}
}

// ServeGame waits for two clients and plays one game between them.
func (s *Server) ServeGame() (protocol.GameResult, error) {
	s.games++
	roomID := "room-" + strconv.Itoa(s.games)

	var sessions [2]*session
	defer func() {
		for _, sess := range sessions {
			if sess != nil {
				sess.close()
			}
		}
	}()

	for _, color := range game.PlayerColors {
		sess, err := s.accept(color)
		if err != nil {
			return protocol.GameResult{}, err
		}
		sessions[color] = sess
		if err := sess.send(protocol.NewNode("joined").WithAttr("roomId", roomID)); err != nil {
			return protocol.GameResult{}, err
		}
	}

	r := &room{id: roomID, sessions: sessions, master: gamemaster.NewLocalEngine(), turnTimeout: s.turnTimeout}
	return r.play()
}

func (s *Server) accept(color game.PlayerColor) (*session, error) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return nil, err
		}
		sess := newSession(conn)
		sess.color = color
		if err := sess.handshake(s.joinTimeout); err != nil {
			log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("rejecting client")
			conn.Close()
			continue
		}
		log.Info().Str("remote", conn.RemoteAddr().String()).Msgf("client joined as %s", color)
		return sess, nil
	}
}

// room runs one game over two sessions.
type room struct {
	id          string
	sessions    [2]*session
	master      gamemaster.Engine
	turnTimeout time.Duration
}

func (r *room) broadcast(data protocol.Data) error {
	for _, sess := range r.sessions {
		if err := sess.sendRoom(r.id, data); err != nil {
			return err
		}
	}
	return nil
}

func (r *room) play() (protocol.GameResult, error) {
	red := game.Player{DisplayName: petname.Generate(2, "-")}
	blue := game.Player{DisplayName: petname.Generate(2, "-")}
	state, _ := r.master.Init(red, blue)

	for _, sess := range r.sessions {
		if err := sess.sendRoom(r.id, protocol.WelcomeMessage{Color: sess.color}); err != nil {
			return protocol.GameResult{}, err
		}
	}
	if err := r.broadcast(protocol.Memento{State: state}); err != nil {
		return protocol.GameResult{}, err
	}

	for !state.IsOver() {
		color := state.CurrentPlayerColor
		if violation, err := r.takeTurn(state, color); err != nil {
			return protocol.GameResult{}, err
		} else if violation != "" {
			if err := r.sessions[color].sendRoom(r.id, protocol.ErrorData{Message: violation}); err != nil {
				log.Warn().Err(err).Msgf("could not report the violation to %s", color)
			}
			return r.finish(state, resultByViolation(state, color, violation))
		}
		state = r.master.State()
		if err := r.broadcast(protocol.Memento{State: state}); err != nil {
			return protocol.GameResult{}, err
		}
	}
	return r.finish(state, regularResult(state))
}

// takeTurn asks the current client for a move. A non-empty violation means
// the client broke the rules and lost.
func (r *room) takeTurn(state *game.GameState, color game.PlayerColor) (violation string, err error) {
	if len(state.PossibleMoves(color)) == 0 {
		log.Debug().Msgf("%s has no moves and skips", color)
		return "", r.master.Skip()
	}

	sess := r.sessions[color]
	if err := sess.sendRoom(r.id, protocol.MoveRequest{}); err != nil {
		return "", err
	}
	move, err := sess.receiveMove(r.id, r.turnTimeout)
	if err != nil {
		return fmt.Sprintf("no valid move received: %v", err), nil
	}
	if err := r.master.Play(move); err != nil {
		return err.Error(), nil
	}
	log.Debug().Msgf("%s played %s", color, move)
	return "", nil
}

// finish reports the result to every client still connected.
func (r *room) finish(state *game.GameState, result protocol.GameResult) (protocol.GameResult, error) {
	for _, sess := range r.sessions {
		err := sess.sendRoom(r.id, result)
		if err == nil {
			err = sess.send(protocol.NewNode("left").WithAttr("roomId", r.id))
		}
		if err != nil {
			log.Warn().Err(err).Msgf("could not send the result to %s", sess.color)
		}
	}
	log.Info().Msgf("room %s closed after %d turns", r.id, state.Turn)
	return result, nil
}

func regularResult(state *game.GameState) protocol.GameResult {
	result := protocol.GameResult{
		Definition: scoreDefinition,
		Scores:     []protocol.PlayerScore{{Cause: protocol.CauseRegular}, {Cause: protocol.CauseRegular}},
	}
	if winner, ok := state.Winner(); ok {
		result.Winners = []game.Player{state.Player(winner)}
	}
	return result
}

func resultByViolation(state *game.GameState, offender game.PlayerColor, reason string) protocol.GameResult {
	log.Warn().Msgf("%s broke the rules: %s", offender, reason)
	scores := make([]protocol.PlayerScore, 2)
	scores[offender] = protocol.PlayerScore{Cause: protocol.CauseRuleViolation, Reason: reason}
	scores[offender.Opponent()] = protocol.PlayerScore{Cause: protocol.CauseRegular}
	return protocol.GameResult{
		Definition: scoreDefinition,
		Scores:     scores,
		Winners:    []game.Player{state.Player(offender.Opponent())},
	}
}
