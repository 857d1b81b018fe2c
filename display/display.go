// Package display renders boards for terminals.
package display

import (
	"fmt"
	"hive/game"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const cellWidth = 4

type Option func(r *Renderer)

// WithHighlight marks cells, e.g. the destinations of the legal moves.
func WithHighlight(coords ...game.AxialCoords) Option {
	return func(r *Renderer) {
		for _, c := range coords {
			r.highlight[c] = true
		}
	}
}

// WithoutColor renders plain text regardless of the terminal.
func WithoutColor() Option {
	return func(r *Renderer) {
		for _, c := range []*color.Color{r.red, r.blue, r.obstructed, r.empty, r.marked} {
			c.DisableColor()
		}
	}
}

// Renderer draws the hex grid with each row shifted by half a cell.
type Renderer struct {
	highlight  map[game.AxialCoords]bool
	red        *color.Color
	blue       *color.Color
	obstructed *color.Color
	empty      *color.Color
	marked     *color.Color
}

func NewRenderer(options ...Option) *Renderer {
	r := &Renderer{
		highlight:  make(map[game.AxialCoords]bool),
		red:        color.New(color.FgRed, color.Bold),
		blue:       color.New(color.FgBlue, color.Bold),
		obstructed: color.New(color.FgHiBlack),
		empty:      color.New(color.Faint),
		marked:     color.New(color.FgBlack, color.BgYellow),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Board renders b with the default colors.
func Board(b *game.Board) string {
	return NewRenderer().Board(b)
}

func (r *Renderer) Board(b *game.Board) string {
	fields := b.Fields()
	if len(fields) == 0 {
		return ""
	}
	minX, maxX := fields[0].Coords.X, fields[0].Coords.X
	minY, maxY := fields[0].Coords.Y, fields[0].Coords.Y
	for _, pf := range fields {
		minX, maxX = min(minX, pf.Coords.X), max(maxX, pf.Coords.X)
		minY, maxY = min(minY, pf.Coords.Y), max(maxY, pf.Coords.Y)
	}

	var sb strings.Builder
	for y := minY; y <= maxY; y++ {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", (y-minY)*cellWidth/2))
		for x := minX; x <= maxX; x++ {
			c := game.NewAxial(x, y)
			f, ok := b.Field(c)
			if !ok {
				line.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			line.WriteString(r.cell(c, f))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Renderer) cell(c game.AxialCoords, f game.Field) string {
	text, paint := "..", r.empty
	switch {
	case f.IsObstructed():
		text, paint = "##", r.obstructed
	case f.HasPieces():
		p, _ := f.Piece()
		text = p.String()
		if f.Height() > 1 {
			text += strconv.Itoa(f.Height())
		}
		paint = r.red
		if p.Owner == game.Blue {
			paint = r.blue
		}
	}
	if r.highlight[c] {
		paint = r.marked
	}
	// Pad before coloring, escape codes have no width.
	return paint.Sprint(fmt.Sprintf("%-*s", cellWidth-1, text)) + " "
}

// State renders the turn, the board and both undeployed pools.
func (r *Renderer) State(gs *game.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn %d (round %d), %s to move\n", gs.Turn, gs.Round(), gs.CurrentPlayerColor)
	sb.WriteString(r.Board(gs.Board))
	for _, c := range game.PlayerColors {
		pieces := make([]string, 0, len(gs.UndeployedPieces(c)))
		for _, p := range gs.UndeployedPieces(c) {
			pieces = append(pieces, p.String())
		}
		fmt.Fprintf(&sb, "%s undeployed: %s\n", c, strings.Join(pieces, " "))
	}
	return sb.String()
}
