package protocol

import (
	"errors"
	"fmt"
	"hive/game"
	"strconv"
)

// DecodeState converts a <state> node into a GameState. The board is padded
// to the standard radius with empty fields.
func DecodeState(n *Node) (*game.GameState, error) {
	turn, err := n.IntAttr("turn")
	if err != nil {
		return nil, err
	}
	start, err := colorAttr(n, "startPlayerColor")
	if err != nil {
		return nil, err
	}
	current, err := colorAttr(n, "currentPlayerColor")
	if err != nil {
		return nil, err
	}

	red, err := childPlayer(n, "red")
	if err != nil {
		return nil, err
	}
	blue, err := childPlayer(n, "blue")
	if err != nil {
		return nil, err
	}

	boardNode, err := n.Child("board")
	if err != nil {
		return nil, err
	}
	board, err := DecodeBoard(boardNode)
	if err != nil {
		return nil, err
	}

	undeployedRed, err := childPieces(n, "undeployedRedPieces")
	if err != nil {
		return nil, err
	}
	undeployedBlue, err := childPieces(n, "undeployedBluePieces")
	if err != nil {
		return nil, err
	}

	return &game.GameState{
		Turn:               turn,
		StartPlayerColor:   start,
		CurrentPlayerColor: current,
		Board:              board,
		RedPlayer:          red,
		BluePlayer:         blue,
		UndeployedRed:      undeployedRed,
		UndeployedBlue:     undeployedBlue,
	}, nil
}

// DecodeBoard reads every <fields>/<field> of a <board> node.
func DecodeBoard(n *Node) (*game.Board, error) {
	fields := make(map[game.AxialCoords]game.Field)
	for _, group := range n.ChildrenNamed("fields") {
		for _, f := range group.ChildrenNamed("field") {
			pf, err := DecodeField(f)
			if err != nil {
				return nil, err
			}
			fields[pf.Coords] = pf.Field
		}
	}
	return game.FillingRadius(game.BoardRadius, fields), nil
}

// DecodeField reads cube coordinates, the obstruction flag and the piece stack.
func DecodeField(n *Node) (game.PositionedField, error) {
	var xyz [3]int
	for i, key := range []string{"x", "y", "z"} {
		v, err := n.IntAttr(key)
		if err != nil {
			return game.PositionedField{}, err
		}
		xyz[i] = v
	}
	cube, ok := game.NewValidCube(xyz[0], xyz[1], xyz[2])
	if !ok {
		return game.PositionedField{}, &DecodeError{
			Kind:    ErrMalformedNumber,
			Element: n.Name,
			Value:   fmt.Sprintf("%d,%d,%d", xyz[0], xyz[1], xyz[2]),
			Err:     errors.New("cube coordinates must sum to zero"),
		}
	}

	obstructed, err := n.BoolAttr("isObstructed")
	if err != nil {
		return game.PositionedField{}, err
	}
	stack, err := decodePieces(n.ChildrenNamed("piece"))
	if err != nil {
		return game.PositionedField{}, err
	}
	return game.PositionedField{Coords: cube.Axial(), Field: game.NewField(stack, obstructed)}, nil
}

func DecodePiece(n *Node) (game.Piece, error) {
	owner, err := colorAttr(n, "owner")
	if err != nil {
		return game.Piece{}, err
	}
	raw, err := n.Attr("type")
	if err != nil {
		return game.Piece{}, err
	}
	t, err := game.ParsePieceType(raw)
	if err != nil {
		return game.Piece{}, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: n.Name, Attribute: "type", Value: raw, Err: err}
	}
	return game.NewPiece(owner, t), nil
}

func DecodePlayer(n *Node) (game.Player, error) {
	color, err := colorAttr(n, "color")
	if err != nil {
		return game.Player{}, err
	}
	name, err := n.Attr("displayName")
	if err != nil {
		return game.Player{}, err
	}
	return game.Player{Color: color, DisplayName: name}, nil
}

func colorAttr(n *Node, key string) (game.PlayerColor, error) {
	raw, err := n.Attr(key)
	if err != nil {
		return 0, err
	}
	c, err := game.ParsePlayerColor(raw)
	if err != nil {
		return 0, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: n.Name, Attribute: key, Value: raw, Err: err}
	}
	return c, nil
}

func childPlayer(n *Node, name string) (game.Player, error) {
	c, err := n.Child(name)
	if err != nil {
		return game.Player{}, err
	}
	return DecodePlayer(c)
}

func childPieces(n *Node, name string) ([]game.Piece, error) {
	c, err := n.Child(name)
	if err != nil {
		return nil, err
	}
	return decodePieces(c.ChildrenNamed("piece"))
}

func decodePieces(nodes []*Node) ([]game.Piece, error) {
	pieces := make([]game.Piece, 0, len(nodes))
	for _, p := range nodes {
		piece, err := DecodePiece(p)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// EncodeState is the inverse of DecodeState. Only occupied or obstructed
// fields are written.
func EncodeState(gs *game.GameState) *Node {
	fields := NewNode("fields")
	for _, pf := range gs.Board.Fields() {
		if pf.Field.IsEmpty() {
			continue
		}
		fields.WithChildren(EncodeField("field", pf))
	}

	return NewNode("state").
		WithAttr("class", "state").
		WithAttr("turn", strconv.Itoa(gs.Turn)).
		WithAttr("startPlayerColor", gs.StartPlayerColor.String()).
		WithAttr("currentPlayerColor", gs.CurrentPlayerColor.String()).
		WithChildren(
			EncodePlayer("red", gs.RedPlayer),
			EncodePlayer("blue", gs.BluePlayer),
			NewNode("board").WithChildren(fields),
			encodePieces("undeployedRedPieces", gs.UndeployedRed),
			encodePieces("undeployedBluePieces", gs.UndeployedBlue),
		)
}

func EncodePlayer(name string, p game.Player) *Node {
	return NewNode(name).
		WithAttr("class", "player").
		WithAttr("color", p.Color.String()).
		WithAttr("displayName", p.DisplayName)
}

func EncodePiece(p game.Piece) *Node {
	return NewNode("piece").
		WithAttr("owner", p.Owner.String()).
		WithAttr("type", p.Type.String())
}

// EncodeField writes a positioned field under the given element name with
// cube coordinates and its piece stack, bottom first.
func EncodeField(name string, pf game.PositionedField) *Node {
	cube := pf.Coords.Cube()
	n := NewNode(name).
		WithAttr("class", "field").
		WithAttr("x", strconv.Itoa(cube.X)).
		WithAttr("y", strconv.Itoa(cube.Y)).
		WithAttr("z", strconv.Itoa(cube.Z)).
		WithAttr("isObstructed", strconv.FormatBool(pf.Field.IsObstructed()))
	for _, p := range pf.Field.PieceStack() {
		n.WithChildren(EncodePiece(p))
	}
	return n
}

func encodePieces(name string, pieces []game.Piece) *Node {
	n := NewNode(name)
	for _, p := range pieces {
		n.WithChildren(EncodePiece(p))
	}
	return n
}
