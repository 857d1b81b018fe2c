package server

import (
	"encoding/xml"
	"fmt"
	"hive/game"
	"hive/protocol"
	"io"
	"net"
	"time"
)

// session is one client connection inside a room.
type session struct {
	conn  net.Conn
	dec   *xml.Decoder
	enc   *xml.Encoder
	color game.PlayerColor
}

func newSession(conn net.Conn) *session {
	return &session{
		conn: conn,
		dec:  xml.NewDecoder(conn),
		enc:  xml.NewEncoder(conn),
	}
}

// handshake waits for the opening <protocol> and the join request.
func (s *session) handshake(timeout time.Duration) error {
	s.conn.SetReadDeadline(time.Now().Add(timeout))
	defer s.conn.SetReadDeadline(time.Time{})

	for {
		tok, err := s.dec.Token()
		if err != nil {
			return fmt.Errorf("awaiting protocol: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "protocol" {
				return fmt.Errorf("expected <protocol>, got <%s>", start.Name.Local)
			}
			break
		}
	}

	n, err := protocol.ReadNode(s.dec)
	if err != nil {
		return fmt.Errorf("awaiting join: %w", err)
	}
	switch n.Name {
	case "join", "joinPrepared":
	default:
		return fmt.Errorf("expected a join request, got <%s>", n.Name)
	}
	_, err = io.WriteString(s.conn, "<protocol>")
	return err
}

func (s *session) send(n *protocol.Node) error {
	if err := n.Write(s.enc); err != nil {
		return fmt.Errorf("writing <%s> to %s: %w", n.Name, s.color, err)
	}
	return s.enc.Flush()
}

func (s *session) sendRoom(roomID string, data protocol.Data) error {
	n, err := protocol.EncodeRoom(protocol.Room{RoomID: roomID, Data: data})
	if err != nil {
		return err
	}
	return s.send(n)
}

// receiveMove reads the client's answer to a move request.
func (s *session) receiveMove(roomID string, timeout time.Duration) (game.Move, error) {
	s.conn.SetReadDeadline(time.Now().Add(timeout))
	defer s.conn.SetReadDeadline(time.Time{})

	n, err := protocol.ReadNode(s.dec)
	if err != nil {
		return nil, err
	}
	msg, err := protocol.DecodeMessage(n)
	if err != nil {
		return nil, err
	}
	room, ok := msg.(protocol.Room)
	if !ok || room.RoomID != roomID {
		return nil, fmt.Errorf("expected a move for room %s, got <%s>", roomID, n.Name)
	}
	data, ok := room.Data.(protocol.MoveData)
	if !ok {
		return nil, fmt.Errorf("expected move data, got %T", room.Data)
	}
	return data.Move, nil
}

// close ends the protocol. Errors are ignored since the client may be gone.
func (s *session) close() {
	s.conn.SetWriteDeadline(time.Now().Add(time.Second))
	io.WriteString(s.conn, "</protocol>")
	s.conn.Close()
}
