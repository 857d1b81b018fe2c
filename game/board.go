package game

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Board is a sparse hex grid. Coordinates missing from the board do not
// exist, which is different from a present but empty field.
type Board struct {
	fields map[AxialCoords]*Field
	order  []AxialCoords // sorted keys of fields, fixed at construction
}

// NewBoard creates a board holding exactly the given fields.
func NewBoard(fields map[AxialCoords]Field) *Board {
	b := &Board{fields: make(map[AxialCoords]*Field, len(fields))}
	for c, f := range fields {
		field := f.Clone()
		b.fields[c] = &field
	}
	b.sortOrder()
	return b
}

// FillingRadius creates a hexagonal board of the given radius. The provided
// fields are kept as they are, every other cell within radius-1 of the origin
// is padded with an empty field.
func FillingRadius(radius int, fields map[AxialCoords]Field) *Board {
	if radius < 1 {
		panic(fmt.Sprintf("board radius must be positive, got %d", radius))
	}
	b := &Board{fields: make(map[AxialCoords]*Field, len(fields)+FieldCountFor(radius))}
	for c, f := range fields {
		field := f.Clone()
		b.fields[c] = &field
	}

	inner := radius - 1
	for y := -inner; y <= inner; y++ {
		for x := max(-(inner + y), -inner); x <= min(inner-y, inner); x++ {
			c := AxialCoords{X: x, Y: y}
			if _, ok := b.fields[c]; !ok {
				b.fields[c] = &Field{}
			}
		}
	}
	b.sortOrder()

	log.Trace().Int("radius", radius).Int("fields", len(b.fields)).Msg("filled up board")
	return b
}

// FieldCountFor returns the number of cells of a hexagonal board:
// f(1) = 1, f(r) = f(r-1) + 6(r-1).
func FieldCountFor(radius int) int {
	if radius < 1 {
		return 0
	}
	return 3*radius*(radius-1) + 1
}

func (b *Board) sortOrder() {
	b.order = make([]AxialCoords, 0, len(b.fields))
	for c := range b.fields {
		b.order = append(b.order, c)
	}
	slices.SortFunc(b.order, compareCoords)
}

func compareCoords(a, c AxialCoords) int {
	if a.X != c.X {
		return cmp.Compare(a.X, c.X)
	}
	return cmp.Compare(a.Y, c.Y)
}

// Clone returns a deep copy that shares nothing mutable with b.
func (b *Board) Clone() *Board {
	fields := make(map[AxialCoords]*Field, len(b.fields))
	for c, f := range b.fields {
		field := f.Clone()
		fields[c] = &field
	}
	return &Board{fields: fields, order: b.order}
}

// Field returns the field at the given coordinates of any kind.
func (b *Board) Field(c Coords) (Field, bool) {
	f, ok := b.fields[c.Axial()]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// FieldMut returns the field for in-place changes, nil if absent. Only the
// owner of the board may mutate it.
func (b *Board) FieldMut(c Coords) *Field {
	return b.fields[c.Axial()]
}

func (b *Board) Contains(c Coords) bool {
	_, ok := b.fields[c.Axial()]
	return ok
}

func (b *Board) Len() int { return len(b.fields) }

// IsOccupied treats absent cells as occupied, since nothing can move there.
func (b *Board) IsOccupied(c Coords) bool {
	f, ok := b.fields[c.Axial()]
	return !ok || f.IsOccupied()
}

// Fields returns every field in a fixed coordinate order.
func (b *Board) Fields() []PositionedField {
	return b.filter(func(Field) bool { return true })
}

func (b *Board) FieldsOwnedBy(color PlayerColor) []PositionedField {
	return b.filter(func(f Field) bool { return f.IsOwnedBy(color) })
}

func (b *Board) EmptyFields() []PositionedField {
	return b.filter(Field.IsEmpty)
}

func (b *Board) OccupiedFields() []PositionedField {
	return b.filter(Field.IsOccupied)
}

func (b *Board) filter(keep func(Field) bool) []PositionedField {
	var result []PositionedField
	for _, c := range b.order {
		if f := b.fields[c]; keep(*f) {
			result = append(result, PositionedField{Coords: c, Field: *f})
		}
	}
	return result
}

// SwarmBoundary returns the empty fields adjacent to an occupied field, each once.
func (b *Board) SwarmBoundary() []PositionedField {
	seen := make(map[AxialCoords]bool)
	var result []PositionedField
	for _, occupied := range b.OccupiedFields() {
		for _, n := range b.EmptyNeighbors(occupied.Coords) {
			if !seen[n.Coords] {
				seen[n.Coords] = true
				result = append(result, n)
			}
		}
	}
	return result
}

func (b *Board) HasPieces() bool {
	for _, f := range b.fields {
		if f.HasPieces() {
			return true
		}
	}
	return false
}

// Neighbors returns the neighbor fields that exist on the board.
func (b *Board) Neighbors(c Coords) []PositionedField {
	result := make([]PositionedField, 0, 6)
	for _, n := range c.Axial().Neighbors() {
		if f, ok := b.fields[n]; ok {
			result = append(result, PositionedField{Coords: n, Field: *f})
		}
	}
	return result
}

func (b *Board) EmptyNeighbors(c Coords) []PositionedField {
	result := make([]PositionedField, 0, 6)
	for _, n := range b.Neighbors(c) {
		if n.Field.IsEmpty() {
			result = append(result, n)
		}
	}
	return result
}

// HasPlacedBee scans every stack for a bee of the given color.
func (b *Board) HasPlacedBee(color PlayerColor) bool {
	bee := Piece{Owner: color, Type: Bee}
	for _, f := range b.fields {
		for _, p := range f.stack {
			if p == bee {
				return true
			}
		}
	}
	return false
}

// IsNextTo tests whether a neighbor of c is owned by color.
func (b *Board) IsNextTo(color PlayerColor, c Coords) bool {
	for _, n := range b.Neighbors(c) {
		if n.Field.IsOwnedBy(color) {
			return true
		}
	}
	return false
}

// IsNextToPiece tests whether a neighbor of c holds a piece.
func (b *Board) IsNextToPiece(c Coords) bool {
	for _, n := range b.Neighbors(c) {
		if n.Field.HasPieces() {
			return true
		}
	}
	return false
}

// PossibleSetMoveDestinations returns the empty fields next to an own field
// that do not touch a field of the opponent.
func (b *Board) PossibleSetMoveDestinations(color PlayerColor) []AxialCoords {
	opponent := color.Opponent()
	seen := make(map[AxialCoords]bool)
	var result []AxialCoords
	for _, own := range b.FieldsOwnedBy(color) {
		for _, n := range b.EmptyNeighbors(own.Coords) {
			if seen[n.Coords] {
				continue
			}
			seen[n.Coords] = true
			if b.IsNextTo(opponent, n.Coords) {
				continue
			}
			result = append(result, n.Coords)
		}
	}
	log.Trace().Stringer("color", color).Int("count", len(result)).Msg("found SetMove destinations")
	return result
}

// IsSwarmConnected tests whether all fields holding pieces form one connected
// group. An empty board is connected.
func (b *Board) IsSwarmConnected() bool {
	unvisited := make(map[AxialCoords]bool)
	var start AxialCoords
	for _, c := range b.order {
		if b.fields[c].HasPieces() {
			if len(unvisited) == 0 {
				start = c
			}
			unvisited[c] = true
		}
	}
	if len(unvisited) == 0 {
		return true
	}

	stack := []AxialCoords{start}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !unvisited[c] {
			continue
		}
		delete(unvisited, c)
		for _, n := range c.Neighbors() {
			if unvisited[n] {
				stack = append(stack, n)
			}
		}
	}
	return len(unvisited) == 0
}

// SharedNeighbors returns the fields adjacent to both a and c.
func (b *Board) SharedNeighbors(a, c Coords) []PositionedField {
	return b.sharedNeighbors(a, c, AxialCoords{}, false)
}

// SharedNeighborsExcept is SharedNeighbors where the exception cell is seen as
// vacated when it holds exactly one piece: the piece about to leave it.
func (b *Board) SharedNeighborsExcept(exception AxialCoords, a, c Coords) []PositionedField {
	return b.sharedNeighbors(a, c, exception, true)
}

func (b *Board) sharedNeighbors(a, c Coords, exception AxialCoords, hasException bool) []PositionedField {
	target := c.Axial()
	var shared []PositionedField
	for _, n := range b.Neighbors(a) {
		if !IsAdjacentTo(n.Coords, target) {
			continue
		}
		if hasException && n.Coords == exception && n.Field.Height() == 1 {
			n.Field = NewField(nil, n.Field.IsObstructed())
		}
		shared = append(shared, n)
	}
	return shared
}

// CanMoveBetween tests whether a piece can slide from a to the adjacent c:
// the gap must touch the swarm and must not be closed on both sides.
func (b *Board) CanMoveBetween(a, c Coords) bool {
	return canSlide(b.SharedNeighbors(a, c))
}

func (b *Board) CanMoveBetweenExcept(exception AxialCoords, a, c Coords) bool {
	return canSlide(b.SharedNeighborsExcept(exception, a, c))
}

func canSlide(shared []PositionedField) bool {
	open, touching := false, false
	for _, n := range shared {
		if n.Field.IsEmpty() {
			open = true
		}
		if n.Field.HasPieces() {
			touching = true
		}
	}
	return (len(shared) == 1 || open) && touching
}

// AccessibleNeighbors returns the empty neighbors of c that can be slid into.
func (b *Board) AccessibleNeighbors(c Coords) []PositionedField {
	return b.accessibleNeighbors(c, AxialCoords{}, false)
}

func (b *Board) AccessibleNeighborsExcept(exception AxialCoords, c Coords) []PositionedField {
	return b.accessibleNeighbors(c, exception, true)
}

func (b *Board) accessibleNeighbors(c Coords, exception AxialCoords, hasException bool) []PositionedField {
	var result []PositionedField
	for _, n := range b.EmptyNeighbors(c) {
		if canSlide(b.sharedNeighbors(c, n.Coords, exception, hasException)) {
			result = append(result, n)
		}
	}
	return result
}

// ConnectedByBoundaryPath tests whether destination can be reached from start
// by sliding along the swarm any number of steps. The piece at start is the
// one moving.
func (b *Board) ConnectedByBoundaryPath(start, destination Coords) bool {
	from, to := start.Axial(), destination.Axial()
	return b.bfsAccessible(from, func(c AxialCoords) bool { return c == to })
}

// bfsAccessible breadth-first searches the fields accessible from start.
func (b *Board) bfsAccessible(start AxialCoords, found func(AxialCoords) bool) bool {
	visited := map[AxialCoords]bool{start: true}
	queue := []AxialCoords{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !b.Contains(current) {
			continue
		}
		if found(current) {
			return true
		}
		for _, n := range b.AccessibleNeighborsExcept(start, current) {
			if !visited[n.Coords] {
				visited[n.Coords] = true
				queue = append(queue, n.Coords)
			}
		}
	}
	return false
}

// ReachableInThreeSteps tests whether destination is the end of a path of
// exactly three accessible steps from start that never revisits a cell of
// that same path.
func (b *Board) ReachableInThreeSteps(start, destination Coords) bool {
	from, to := start.Axial(), destination.Axial()

	type path struct {
		cells [3]AxialCoords
		n     int
	}
	contains := func(p path, c AxialCoords) bool {
		for i := 0; i < p.n; i++ {
			if p.cells[i] == c {
				return true
			}
		}
		return false
	}

	queue := []path{{cells: [3]AxialCoords{from}, n: 1}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		last := p.cells[p.n-1]
		for _, next := range b.AccessibleNeighborsExcept(from, last) {
			if contains(p, next.Coords) {
				continue
			}
			if p.n == 3 {
				if next.Coords == to {
					return true
				}
				continue
			}
			extended := p
			extended.cells[p.n] = next.Coords
			extended.n++
			queue = append(queue, extended)
		}
	}
	return false
}

// String prints the board row by row, "00" marking cells outside the board.
func (b *Board) String() string {
	if len(b.order) == 0 {
		return ""
	}
	minX, maxX := b.order[0].X, b.order[0].X
	minY, maxY := b.order[0].Y, b.order[0].Y
	for _, c := range b.order {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}

	var sb strings.Builder
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if f, ok := b.fields[AxialCoords{X: -y, Y: -x}]; ok {
				sb.WriteString(f.String())
			} else {
				sb.WriteString("00")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
