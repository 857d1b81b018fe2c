package game

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseASCIIHexGrid reads a board from a plain text hex grid like
//
//	    /\  /\
//	   /  \/  \
//	   |BR |   |
//	  /\  /\  /\
//	 /  \/  \/  \
//	 |   |GB |   |
//	 \  /\  /\  /
//	  \/  \/  \/
//	   |   |   |
//	   \  /\  /
//	    \/  \/
//
// Rows are indented alternately, starting indented, and the grid must have a
// centered cell. Every cell may hold a two-letter field (see ParseField);
// cells that cannot be parsed become empty fields. The origin of the result
// is the center cell, x pointing right and y to the top-left.
func ParseASCIIHexGrid(grid string) (*Board, error) {
	lines := strings.Split(grid, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	type cell struct {
		pos   DoubledCoords
		field Field
	}
	var cells []cell
	var maxX, maxY int
	for y, row := 0, 2; row < len(lines); y, row = y+1, row+3 {
		x := 0
		for _, frag := range strings.Split(lines[row], "|") {
			if frag == "" {
				continue
			}
			field, err := ParseField(frag)
			if err != nil {
				log.Debug().Err(err).Str("fragment", frag).Msg("could not parse grid cell")
				field = Field{}
			}
			pos := DoubledCoords{X: 2*x + (y+1)%2, Y: y}
			maxX, maxY = max(maxX, pos.X), max(maxY, pos.Y)
			cells = append(cells, cell{pos: pos, field: field})
			x++
		}
	}
	if len(cells) == 0 {
		return nil, errors.New("no hex cells found in grid")
	}

	center := DoubledCoords{X: maxX, Y: maxY}.Div(2)
	log.Debug().Stringer("center", center).Msg("determined grid center")

	fields := make(map[AxialCoords]Field, len(cells))
	for _, c := range cells {
		fields[c.pos.Sub(center).Axial()] = c.field
	}
	return NewBoard(fields), nil
}
