package client

import (
	"context"
	"encoding/xml"
	"hive/game"
	"hive/protocol"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeServer collects every element the client writes inside <protocol>.
func fakeServer(conn net.Conn) <-chan *protocol.Node {
	received := make(chan *protocol.Node, 8)
	go func() {
		defer close(received)
		dec := xml.NewDecoder(conn)
		if _, err := dec.Token(); err != nil {
			return
		}
		for {
			n, err := protocol.ReadNode(dec)
			if err != nil {
				return
			}
			received <- n
		}
	}()
	return received
}

func serve(conn net.Conn, raw string) {
	go io.WriteString(conn, raw)
}

func TestTCPClient(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()
	received := fakeServer(serverConn)

	c, err := NewTCPClient(clientConn)
	require.NoError(t, err, "Client should open the protocol")

	t.Run("join", func(t *testing.T) {
		require.NoError(t, c.Join("swc_2020_hive"), "Join should be sent")
		join := <-received
		require.Equal(t, "join", join.Name, "Server should receive a join")
		require.Equal(t, "swc_2020_hive", join.Attributes["gameType"], "Join should carry the game type")
	})

	t.Run("receive", func(t *testing.T) {
		serve(serverConn, `<protocol><joined roomId="r"/><sc.ping/>`+
			`<room roomId="r"><data class="sc.framework.plugins.protocol.MoveRequest"/></room>`)

		msg, err := c.Receive()
		require.NoError(t, err, "Joined should be received")
		require.Equal(t, protocol.Joined{RoomID: "r"}, msg, "First message should be joined")

		msg, err = c.Receive()
		require.NoError(t, err, "Unknown elements should be skipped")
		require.Equal(t, protocol.Room{RoomID: "r", Data: protocol.MoveRequest{}}, msg, "Move request should follow")
	})

	t.Run("send move", func(t *testing.T) {
		move := game.NewSetMove(game.NewPiece(game.Red, game.Bee), game.PositionedField{Coords: game.NewAxial(0, 0)})

		require.NoError(t, c.SendMove("r", move), "Move should be sent")

		n := <-received
		msg, err := protocol.DecodeMessage(n)
		require.NoError(t, err, "Server should decode the move")
		room := msg.(protocol.Room)
		require.Equal(t, "r", room.RoomID, "Move should be sent to the room")
		require.True(t, game.SameMove(move, room.Data.(protocol.MoveData).Move), "Server should receive the same move")
	})

	t.Run("end of protocol", func(t *testing.T) {
		serve(serverConn, `<left roomId="r"/></protocol>`)

		msg, err := c.Receive()
		require.NoError(t, err, "Left should be received")
		require.Equal(t, protocol.Left{RoomID: "r"}, msg, "Server should leave the room")

		_, err = c.Receive()
		require.ErrorIs(t, err, io.EOF, "Closing the protocol should end the stream")
	})

	t.Run("close", func(t *testing.T) {
		require.NoError(t, c.Close(), "Close should succeed")
		_, open := <-received
		require.False(t, open, "Server should see the protocol end")
		require.NoError(t, c.Close(), "Closing twice should be harmless")
		require.ErrorIs(t, c.Join("x"), net.ErrClosed, "Closed client should not send")
	})
}

func TestReceiveRejectsOtherDocuments(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()
	fakeServer(serverConn)

	c, err := NewTCPClient(clientConn)
	require.NoError(t, err, "Client should open the protocol")
	defer c.Close()

	serve(serverConn, `<html>`)
	_, err = c.Receive()
	require.Error(t, err, "Client should only accept the protocol element")
}

func TestDialCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dial(ctx, "127.0.0.1:13050")

	require.Error(t, err, "Dialing with a canceled context should fail")
}
