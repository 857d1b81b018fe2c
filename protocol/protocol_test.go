package protocol

import (
	"encoding/xml"
	"errors"
	"hive/game"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const mementoXML = `
<room roomId="abc">
  <data class="memento">
    <state class="state" startPlayerColor="RED" currentPlayerColor="BLUE" turn="1">
      <red class="player" displayName="alice" color="RED"/>
      <blue class="player" displayName="bob" color="BLUE"/>
      <board>
        <fields>
          <field class="field" x="0" y="0" z="0" isObstructed="false">
            <piece owner="RED" type="ANT"/>
            <piece owner="BLUE" type="BEETLE"/>
          </field>
          <field class="field" x="1" y="-1" z="0" isObstructed="true"/>
          <field class="field" x="-1" y="0" z="1" isObstructed="false"/>
        </fields>
      </board>
      <undeployedRedPieces>
        <piece owner="RED" type="BEE"/>
        <piece owner="RED" type="SPIDER"/>
      </undeployedRedPieces>
      <undeployedBluePieces/>
    </state>
  </data>
</room>`

func TestReadNode(t *testing.T) {
	t.Run("stream of messages", func(t *testing.T) {
		dec := xml.NewDecoder(strings.NewReader(`<protocol>
  <joined roomId="r1"/>
  <room roomId="r1"><data class="welcomeMessage" color="blue"></data></room>
</protocol>`))
		_, err := dec.Token()
		require.NoError(t, err, "Opening element should be readable")

		first, err := ReadNode(dec)
		require.NoError(t, err, "First message should be read")
		require.Equal(t, "joined", first.Name, "First message should be joined")
		require.Equal(t, "r1", first.Attributes["roomId"], "Attributes should be kept")

		second, err := ReadNode(dec)
		require.NoError(t, err, "Second message should be read")
		require.Len(t, second.Children, 1, "Nested elements should become children")

		_, err = ReadNode(dec)
		require.ErrorIs(t, err, io.EOF, "Closing the protocol should end the stream")
	})

	t.Run("text content", func(t *testing.T) {
		n, err := ParseNode(`<aggregation>SUM</aggregation>`)
		require.NoError(t, err, "Element should parse")
		require.Equal(t, "SUM", n.Content, "Text should become content")
	})

	t.Run("truncated element", func(t *testing.T) {
		_, err := ParseNode(`<room roomId="x"><data>`)
		require.Error(t, err, "Unterminated element should fail")
	})
}

func TestNodeWrite(t *testing.T) {
	n := NewNode("room").WithAttr("roomId", "r").WithAttr("a", "1").WithChildren(NewNode("data").WithContent("x"))

	raw, err := n.Bytes()

	require.NoError(t, err, "Node should encode")
	require.Equal(t, `<room a="1" roomId="r"><data>x</data></room>`, string(raw), "Attributes should be sorted")
}

func TestDecodeState(t *testing.T) {
	root, err := ParseNode(mementoXML)
	require.NoError(t, err, "Fixture should parse")

	msg, err := DecodeMessage(root)
	require.NoError(t, err, "Memento should decode")
	room, ok := msg.(Room)
	require.True(t, ok, "Message should be a room")
	require.Equal(t, "abc", room.RoomID, "Room id should be kept")
	memento, ok := room.Data.(Memento)
	require.True(t, ok, "Data should be a memento")
	gs := memento.State

	require.Equal(t, 1, gs.Turn, "Turn should be decoded")
	require.Equal(t, game.Red, gs.StartPlayerColor, "Start color should be decoded")
	require.Equal(t, game.Blue, gs.CurrentPlayerColor, "Current color should be decoded")
	require.Equal(t, game.Player{Color: game.Red, DisplayName: "alice"}, gs.RedPlayer, "Red player should be decoded")
	require.Equal(t, game.Player{Color: game.Blue, DisplayName: "bob"}, gs.BluePlayer, "Blue player should be decoded")
	require.Equal(t, game.FieldCount, gs.Board.Len(), "Board should be padded to the standard size")
	require.Equal(t, []game.Piece{game.NewPiece(game.Red, game.Bee), game.NewPiece(game.Red, game.Spider)},
		gs.UndeployedRed, "Red pool should be decoded in order")
	require.Empty(t, gs.UndeployedBlue, "Blue pool should be empty")

	origin, _ := gs.Board.Field(game.NewAxial(0, 0))
	require.Equal(t, []game.Piece{game.NewPiece(game.Red, game.Ant), game.NewPiece(game.Blue, game.Beetle)},
		origin.PieceStack(), "Stack should be decoded bottom first")
	require.True(t, origin.IsOwnedBy(game.Blue), "Top piece should own the field")
	obstructed, _ := gs.Board.Field(game.NewAxial(1, -1))
	require.True(t, obstructed.IsObstructed(), "Obstruction should be decoded")
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		xml  string
		kind error
	}{
		{"missing attribute", `<state startPlayerColor="RED" currentPlayerColor="RED"/>`, ErrMissingField},
		{"malformed turn", `<state turn="one" startPlayerColor="RED" currentPlayerColor="RED"/>`, ErrMalformedNumber},
		{"unknown color", `<state turn="0" startPlayerColor="GREEN" currentPlayerColor="RED"/>`, ErrUnrecognizedLiteral},
		{"missing child", `<state turn="0" startPlayerColor="RED" currentPlayerColor="RED"/>`, ErrMissingField},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := ParseNode(c.xml)
			require.NoError(t, err, "Fixture should parse")

			_, err = DecodeState(n)

			require.ErrorIs(t, err, c.kind, "Error should carry its kind")
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "Error should be a DecodeError")
		})
	}

	t.Run("bad field", func(t *testing.T) {
		n, err := ParseNode(`<field x="1" y="1" z="1" isObstructed="false"/>`)
		require.NoError(t, err, "Fixture should parse")
		_, err = DecodeField(n)
		require.ErrorIs(t, err, ErrMalformedNumber, "Coordinates off the plane should be malformed")

		n, err = ParseNode(`<field x="0" y="0" z="0" isObstructed="maybe"/>`)
		require.NoError(t, err, "Fixture should parse")
		_, err = DecodeField(n)
		require.ErrorIs(t, err, ErrUnrecognizedLiteral, "Unknown boolean should be unrecognized")
	})

	t.Run("unknown piece type", func(t *testing.T) {
		n, err := ParseNode(`<piece owner="RED" type="QUEEN"/>`)
		require.NoError(t, err, "Fixture should parse")
		_, err = DecodePiece(n)
		require.ErrorIs(t, err, ErrUnrecognizedLiteral, "Unknown piece type should be unrecognized")
	})
}

func TestEncodeMove(t *testing.T) {
	t.Run("set move", func(t *testing.T) {
		m := game.NewSetMove(game.NewPiece(game.Red, game.Grasshopper), game.PositionedField{Coords: game.NewAxial(1, -1)})

		n, err := EncodeMove(m)
		require.NoError(t, err, "Set move should encode")
		raw, err := n.Bytes()
		require.NoError(t, err, "Node should serialize")

		require.Equal(t, `<data class="setmove">`+
			`<piece owner="RED" type="GRASSHOPPER"></piece>`+
			`<destination class="field" isObstructed="false" x="1" y="-1" z="0"></destination>`+
			`</data>`, string(raw), "Set move should carry the piece and destination")
	})

	t.Run("drag move", func(t *testing.T) {
		start := game.PositionedField{
			Coords: game.NewAxial(0, 0),
			Field:  game.NewField([]game.Piece{game.NewPiece(game.Blue, game.Beetle)}, false),
		}
		m := game.NewDragMove(start, game.PositionedField{Coords: game.NewAxial(-1, 0)})

		n, err := EncodeMove(m)
		require.NoError(t, err, "Drag move should encode")
		require.Equal(t, "dragmove", n.Attributes["class"], "Move kind should be tagged")
		startNode, err := n.Child("start")
		require.NoError(t, err, "Start should be written")
		require.Len(t, startNode.ChildrenNamed("piece"), 1, "Start should carry its stack")
		dest, err := n.Child("destination")
		require.NoError(t, err, "Destination should be written")
		require.Equal(t, "1", dest.Attributes["z"], "Destination should use cube coordinates")

		decoded, err := DecodeMove(n)
		require.NoError(t, err, "Encoded move should decode")
		require.True(t, game.SameMove(m, decoded), "Decoded move should do the same")
	})
}

func TestDecodeMessages(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		n, err := ParseNode(`<room roomId="r"><data class="result">
  <definition>
    <fragment name="Siegpunkte"><aggregation>SUM</aggregation><relevantForRanking>true</relevantForRanking></fragment>
  </definition>
  <score cause="REGULAR" reason=""><part>2</part></score>
  <score cause="RULE_VIOLATION" reason="bad move"><part>0</part></score>
  <winner class="player" displayName="alice" color="RED"/>
</data></room>`)
		require.NoError(t, err, "Fixture should parse")

		msg, err := DecodeMessage(n)
		require.NoError(t, err, "Result should decode")
		result, ok := msg.(Room).Data.(GameResult)
		require.True(t, ok, "Data should be a game result")
		require.Equal(t, []ScoreFragment{{Name: "Siegpunkte", Aggregation: AggregationSum, RelevantForRanking: true}},
			result.Definition.Fragments, "Definition should be decoded")
		require.Equal(t, []PlayerScore{{Cause: CauseRegular}, {Cause: CauseRuleViolation, Reason: "bad move"}},
			result.Scores, "Scores should be decoded")
		require.Equal(t, []game.Player{{Color: game.Red, DisplayName: "alice"}}, result.Winners, "Winner should be decoded")
	})

	t.Run("simple messages", func(t *testing.T) {
		cases := []struct {
			xml  string
			want Message
		}{
			{`<joined roomId="r"/>`, Joined{RoomID: "r"}},
			{`<left roomId="r"/>`, Left{RoomID: "r"}},
			{`<room roomId="r"><data class="welcomeMessage" color="RED"/></room>`, Room{RoomID: "r", Data: WelcomeMessage{Color: game.Red}}},
			{`<room roomId="r"><data class="sc.framework.plugins.protocol.MoveRequest"/></room>`, Room{RoomID: "r", Data: MoveRequest{}}},
			{`<room roomId="r"><data class="error" message="oops"/></room>`, Room{RoomID: "r", Data: ErrorData{Message: "oops"}}},
		}
		for _, c := range cases {
			n, err := ParseNode(c.xml)
			require.NoError(t, err, "Fixture should parse")
			got, err := DecodeMessage(n)
			require.NoError(t, err, "%s should decode", c.xml)
			require.Equal(t, c.want, got, "%s should decode to the expected message", c.xml)
		}
	})

	t.Run("unknown messages", func(t *testing.T) {
		n, err := ParseNode(`<room roomId="r"><data class="chat"/></room>`)
		require.NoError(t, err, "Fixture should parse")
		_, err = DecodeMessage(n)
		require.ErrorIs(t, err, ErrUnrecognizedLiteral, "Unknown data class should be unrecognized")

		n, err = ParseNode(`<sc.framework.plugins.protocol.Ping/>`)
		require.NoError(t, err, "Fixture should parse")
		_, err = DecodeMessage(n)
		require.ErrorIs(t, err, ErrUnrecognizedLiteral, "Unknown element should be unrecognized")
	})

	t.Run("room with a move", func(t *testing.T) {
		m := game.NewSetMove(game.NewPiece(game.Blue, game.Ant), game.PositionedField{Coords: game.NewAxial(0, 1)})
		n, err := EncodeRoom(Room{RoomID: "r", Data: MoveData{Move: m}})
		require.NoError(t, err, "Room should encode")

		msg, err := DecodeMessage(n)
		require.NoError(t, err, "Encoded room should decode")
		got := msg.(Room).Data.(MoveData).Move
		require.True(t, game.SameMove(m, got), "Move should survive encoding")

		_, err = EncodeRoom(Room{RoomID: "r"})
		require.Error(t, err, "Room without data should not be encodable")
	})

	t.Run("result survives encoding", func(t *testing.T) {
		result := GameResult{
			Definition: ScoreDefinition{Fragments: []ScoreFragment{
				{Name: "Siegpunkte", Aggregation: AggregationSum, RelevantForRanking: true},
				{Name: "Felder", Aggregation: AggregationAverage},
			}},
			Scores:  []PlayerScore{{Cause: CauseRegular}, {Cause: CauseLeft, Reason: "gone"}},
			Winners: []game.Player{{Color: game.Blue, DisplayName: "bob"}},
		}
		n, err := EncodeRoom(Room{RoomID: "r", Data: result})
		require.NoError(t, err, "Result should encode")

		msg, err := DecodeMessage(n)

		require.NoError(t, err, "Encoded result should decode")
		require.Equal(t, Room{RoomID: "r", Data: result}, msg, "Result should survive encoding")
	})

	t.Run("state survives encoding", func(t *testing.T) {
		gs, err := game.NewGameState(game.Player{DisplayName: "a"}, game.Player{DisplayName: "b"}).
			Play(game.NewSetMove(game.NewPiece(game.Red, game.Bee), game.PositionedField{Coords: game.NewAxial(0, 0)}))
		require.NoError(t, err, "First move should be legal")

		decoded, err := DecodeState(EncodeState(gs))

		require.NoError(t, err, "Encoded state should decode")
		require.Equal(t, gs.Hash(), decoded.Hash(), "Decoded state should hash like the original")
	})
}
