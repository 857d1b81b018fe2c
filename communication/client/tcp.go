package client

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"hive/game"
	"hive/protocol"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	protocolOpen  = "<protocol>"
	protocolClose = "</protocol>"

	closeTimeout = time.Second
)

// TCPClient speaks the XML room protocol over a stream connection.
type TCPClient struct {
	conn   net.Conn
	dec    *xml.Decoder
	enc    *xml.Encoder
	mu     sync.Mutex // guards enc and closed
	closed bool
	opened bool // <protocol> received from the server
}

// Dial connects to a game server and opens the protocol.
func Dial(ctx context.Context, addr string) (*TCPClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	log.Info().Msgf("connected to %s", addr)
	return NewTCPClient(conn)
}

// NewTCPClient wraps an established connection and sends the opening
// <protocol> element.
func NewTCPClient(conn net.Conn) (*TCPClient, error) {
	c := &TCPClient{
		conn: conn,
		dec:  xml.NewDecoder(conn),
		enc:  xml.NewEncoder(conn),
	}
	if _, err := io.WriteString(conn, protocolOpen); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening protocol: %w", err)
	}
	return c, nil
}

// Join asks for any open game of the given type.
func (c *TCPClient) Join(gameType string) error {
	return c.send(protocol.Join(gameType))
}

// JoinPrepared enters the game reserved under the code.
func (c *TCPClient) JoinPrepared(reservation string) error {
	return c.send(protocol.JoinPrepared(reservation))
}

func (c *TCPClient) SendMove(roomID string, move game.Move) error {
	n, err := protocol.EncodeRoom(protocol.Room{RoomID: roomID, Data: protocol.MoveData{Move: move}})
	if err != nil {
		return err
	}
	log.Debug().Str("room", roomID).Stringer("move", move).Msg("sending move")
	return c.send(n)
}

func (c *TCPClient) send(n *protocol.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return net.ErrClosed
	}
	if err := n.Write(c.enc); err != nil {
		return fmt.Errorf("writing <%s>: %w", n.Name, err)
	}
	return c.enc.Flush()
}

// Receive reads messages until one is understood. Unknown elements are
// logged and skipped.
func (c *TCPClient) Receive() (protocol.Message, error) {
	if !c.opened {
		if err := c.awaitProtocol(); err != nil {
			return nil, err
		}
		c.opened = true
	}

	for {
		n, err := protocol.ReadNode(c.dec)
		if err != nil {
			return nil, err
		}
		switch n.Name {
		case "joined", "left", "room":
		default:
			log.Warn().Str("element", n.Name).Msg("ignoring unknown message")
			continue
		}
		msg, err := protocol.DecodeMessage(n)
		if err != nil {
			return nil, fmt.Errorf("decoding <%s>: %w", n.Name, err)
		}
		return msg, nil
	}
}

func (c *TCPClient) awaitProtocol() error {
	for {
		tok, err := c.dec.Token()
		if err != nil {
			return fmt.Errorf("awaiting protocol: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "protocol" {
				return fmt.Errorf("expected <protocol>, got <%s>", start.Name.Local)
			}
			return nil
		}
	}
}

// Close ends the protocol and closes the connection. It is safe to call
// more than once.
func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
	_, werr := io.WriteString(c.conn, protocolClose)
	cerr := c.conn.Close()
	if werr != nil && !errors.Is(werr, net.ErrClosed) && !errors.Is(werr, os.ErrDeadlineExceeded) {
		return werr
	}
	return cerr
}
