package protocol

import (
	"fmt"
	"hive/game"
	"strconv"
)

// Message is a top-level element sent by the game server inside <protocol>.
type Message interface{ isMessage() }

// Joined confirms that the client entered a room.
type Joined struct{ RoomID string }

// Left is sent when the client was removed from a room, ending the game.
type Left struct{ RoomID string }

// Room carries game data addressed to a room.
type Room struct {
	RoomID string
	Data   Data
}

func (Joined) isMessage() {}
func (Left) isMessage()   {}
func (Room) isMessage()   {}

// Data is the payload of a Room, distinguished by its class attribute.
type Data interface{ isData() }

type WelcomeMessage struct{ Color game.PlayerColor }

// Memento replaces the client's game state.
type Memento struct{ State *game.GameState }

type MoveRequest struct{}

// MoveData is the move a client sends in reply to a MoveRequest.
type MoveData struct{ Move game.Move }

type GameResult struct {
	Definition ScoreDefinition
	Scores     []PlayerScore
	Winners    []game.Player
}

type ErrorData struct{ Message string }

func (WelcomeMessage) isData() {}
func (Memento) isData()        {}
func (MoveRequest) isData()    {}
func (MoveData) isData()       {}
func (GameResult) isData()     {}
func (ErrorData) isData()      {}

const (
	classWelcome     = "welcomeMessage"
	classMemento     = "memento"
	classMoveRequest = "sc.framework.plugins.protocol.MoveRequest"
	classResult      = "result"
	classError       = "error"
)

// DecodeMessage converts a top-level node into a Message.
func DecodeMessage(n *Node) (Message, error) {
	switch n.Name {
	case "joined":
		id, err := n.Attr("roomId")
		if err != nil {
			return nil, err
		}
		return Joined{RoomID: id}, nil
	case "left":
		id, err := n.Attr("roomId")
		if err != nil {
			return nil, err
		}
		return Left{RoomID: id}, nil
	case "room":
		id, err := n.Attr("roomId")
		if err != nil {
			return nil, err
		}
		dataNode, err := n.Child("data")
		if err != nil {
			return nil, err
		}
		data, err := DecodeData(dataNode)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", id, err)
		}
		return Room{RoomID: id, Data: data}, nil
	}
	return nil, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: n.Name}
}

// DecodeData converts a <data> node by its class.
func DecodeData(n *Node) (Data, error) {
	class, err := n.Attr("class")
	if err != nil {
		return nil, err
	}

	switch class {
	case classWelcome:
		color, err := colorAttr(n, "color")
		if err != nil {
			return nil, err
		}
		return WelcomeMessage{Color: color}, nil
	case classMemento:
		stateNode, err := n.Child("state")
		if err != nil {
			return nil, err
		}
		state, err := DecodeState(stateNode)
		if err != nil {
			return nil, err
		}
		return Memento{State: state}, nil
	case classMoveRequest:
		return MoveRequest{}, nil
	case classResult:
		return decodeResult(n)
	case classError:
		msg, err := n.Attr("message")
		if err != nil {
			return nil, err
		}
		return ErrorData{Message: msg}, nil
	case classSetMove, classDragMove:
		m, err := DecodeMove(n)
		if err != nil {
			return nil, err
		}
		return MoveData{Move: m}, nil
	}
	return nil, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: n.Name, Attribute: "class", Value: class}
}

// EncodeRoom writes a room message.
func EncodeRoom(r Room) (*Node, error) {
	data, err := EncodeData(r.Data)
	if err != nil {
		return nil, err
	}
	return NewNode("room").WithAttr("roomId", r.RoomID).WithChildren(data), nil
}

func EncodeData(d Data) (*Node, error) {
	switch d := d.(type) {
	case MoveData:
		return EncodeMove(d.Move)
	case WelcomeMessage:
		return NewNode("data").WithAttr("class", classWelcome).WithAttr("color", d.Color.String()), nil
	case Memento:
		return NewNode("data").WithAttr("class", classMemento).WithChildren(EncodeState(d.State)), nil
	case MoveRequest:
		return NewNode("data").WithAttr("class", classMoveRequest), nil
	case ErrorData:
		return NewNode("data").WithAttr("class", classError).WithAttr("message", d.Message), nil
	case GameResult:
		return encodeResult(d), nil
	}
	return nil, fmt.Errorf("%T can currently not be serialized", d)
}

// ScoreCause explains how a player's score came about.
type ScoreCause int

const (
	CauseRegular ScoreCause = iota
	CauseLeft
	CauseRuleViolation
	CauseSoftTimeout
	CauseHardTimeout
	CauseUnknown
)

var scoreCauses = map[string]ScoreCause{
	"REGULAR":        CauseRegular,
	"LEFT":           CauseLeft,
	"RULE_VIOLATION": CauseRuleViolation,
	"SOFT_TIMEOUT":   CauseSoftTimeout,
	"HARD_TIMEOUT":   CauseHardTimeout,
	"UNKNOWN":        CauseUnknown,
}

func (c ScoreCause) String() string {
	for k, v := range scoreCauses {
		if v == c {
			return k
		}
	}
	return "ScoreCause(" + strconv.Itoa(int(c)) + ")"
}

type ScoreAggregation int

const (
	AggregationSum ScoreAggregation = iota
	AggregationAverage
)

func (a ScoreAggregation) String() string {
	if a == AggregationAverage {
		return "AVERAGE"
	}
	return "SUM"
}

type ScoreFragment struct {
	Name               string
	Aggregation        ScoreAggregation
	RelevantForRanking bool
}

type ScoreDefinition struct {
	Fragments []ScoreFragment
}

type PlayerScore struct {
	Cause  ScoreCause
	Reason string
}

func decodeResult(n *Node) (GameResult, error) {
	var result GameResult

	defNode, err := n.Child("definition")
	if err != nil {
		return result, err
	}
	for _, f := range defNode.ChildrenNamed("fragment") {
		fragment, err := decodeFragment(f)
		if err != nil {
			return result, err
		}
		result.Definition.Fragments = append(result.Definition.Fragments, fragment)
	}

	for _, s := range n.ChildrenNamed("score") {
		raw, err := s.Attr("cause")
		if err != nil {
			return result, err
		}
		cause, ok := scoreCauses[raw]
		if !ok {
			return result, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: s.Name, Attribute: "cause", Value: raw}
		}
		// The reason is optional.
		result.Scores = append(result.Scores, PlayerScore{Cause: cause, Reason: s.Attributes["reason"]})
	}

	for _, w := range n.ChildrenNamed("winner") {
		p, err := DecodePlayer(w)
		if err != nil {
			return result, err
		}
		result.Winners = append(result.Winners, p)
	}
	return result, nil
}

func encodeResult(r GameResult) *Node {
	def := NewNode("definition")
	for _, f := range r.Definition.Fragments {
		def.WithChildren(NewNode("fragment").WithAttr("name", f.Name).WithChildren(
			NewNode("aggregation").WithContent(f.Aggregation.String()),
			NewNode("relevantForRanking").WithContent(strconv.FormatBool(f.RelevantForRanking)),
		))
	}
	n := NewNode("data").WithAttr("class", classResult).WithChildren(def)
	for _, s := range r.Scores {
		n.WithChildren(NewNode("score").WithAttr("cause", s.Cause.String()).WithAttr("reason", s.Reason))
	}
	for _, w := range r.Winners {
		n.WithChildren(EncodePlayer("winner", w))
	}
	return n
}

func decodeFragment(n *Node) (ScoreFragment, error) {
	name, err := n.Attr("name")
	if err != nil {
		return ScoreFragment{}, err
	}
	agg, err := n.Child("aggregation")
	if err != nil {
		return ScoreFragment{}, err
	}
	var aggregation ScoreAggregation
	switch agg.Content {
	case "SUM":
		aggregation = AggregationSum
	case "AVERAGE":
		aggregation = AggregationAverage
	default:
		return ScoreFragment{}, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: agg.Name, Value: agg.Content}
	}
	relevant, err := n.Child("relevantForRanking")
	if err != nil {
		return ScoreFragment{}, err
	}
	ranking, err := parseBool(relevant.Name, "", relevant.Content)
	if err != nil {
		return ScoreFragment{}, err
	}
	return ScoreFragment{Name: name, Aggregation: aggregation, RelevantForRanking: ranking}, nil
}

// Join asks the server for any open game of the given type.
func Join(gameType string) *Node {
	return NewNode("join").WithAttr("gameType", gameType)
}

// JoinPrepared enters a game reserved for the client.
func JoinPrepared(reservation string) *Node {
	return NewNode("joinPrepared").WithAttr("reservationCode", reservation)
}
