package protocol

import (
	"fmt"
	"hive/game"
)

const (
	classSetMove  = "setmove"
	classDragMove = "dragmove"
)

// EncodeMove converts a move into its <data> node, tagged by the move kind.
func EncodeMove(m game.Move) (*Node, error) {
	switch m := m.(type) {
	case game.SetMove:
		return NewNode("data").
			WithAttr("class", classSetMove).
			WithChildren(
				EncodePiece(m.Piece),
				EncodeField("destination", m.Destination),
			), nil
	case game.DragMove:
		return NewNode("data").
			WithAttr("class", classDragMove).
			WithChildren(
				EncodeField("start", m.Start),
				EncodeField("destination", m.Destination),
			), nil
	}
	return nil, fmt.Errorf("cannot encode move of type %T", m)
}

// DecodeMove reads a <data> node written by EncodeMove.
func DecodeMove(n *Node) (game.Move, error) {
	class, err := n.Attr("class")
	if err != nil {
		return nil, err
	}

	switch class {
	case classSetMove:
		pieceNode, err := n.Child("piece")
		if err != nil {
			return nil, err
		}
		piece, err := DecodePiece(pieceNode)
		if err != nil {
			return nil, err
		}
		dest, err := childField(n, "destination")
		if err != nil {
			return nil, err
		}
		return game.NewSetMove(piece, dest), nil
	case classDragMove:
		start, err := childField(n, "start")
		if err != nil {
			return nil, err
		}
		dest, err := childField(n, "destination")
		if err != nil {
			return nil, err
		}
		return game.NewDragMove(start, dest), nil
	}
	return nil, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: n.Name, Attribute: "class", Value: class}
}

func childField(n *Node, name string) (game.PositionedField, error) {
	c, err := n.Child(name)
	if err != nil {
		return game.PositionedField{}, err
	}
	return DecodeField(c)
}
