package communication

import (
	"hive/game"
	"hive/protocol"
)

// Communicator abstracts the connection between a player and a game server.
type Communicator interface {
	// Receive blocks until the next message arrives. It returns io.EOF once
	// the server closes the protocol.
	Receive() (protocol.Message, error)
	// SendMove answers a move request in the given room.
	SendMove(roomID string, move game.Move) error
	Close() error
}
