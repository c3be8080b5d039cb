package engine

import "fmt"

// Board is a height × width grid of cells bounded by shared edges. Edges
// live in a single arena; horizontal edges come first ((height+1) × width),
// then vertical edges (height × (width+1)). A cell never stores its edges,
// BoxEdges derives them, so the bottom edge of (r,c) is the top edge of
// (r+1,c) by construction.
type Board struct {
	height int
	width  int
	edges  []Edge
}

// NewBoard creates a board with every edge undrawn.
func NewBoard(height, width int) *Board {
	if height <= 0 || width <= 0 {
		panic(fmt.Errorf("%w: board dimensions %dx%d", ErrOutOfRange, height, width))
	}
	return &Board{
		height: height,
		width:  width,
		edges:  make([]Edge, (height+1)*width+height*(width+1)),
	}
}

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Cells returns the number of cells on the board.
func (b *Board) Cells() int { return b.height * b.width }

// EdgeCount returns the size of the edge arena.
func (b *Board) EdgeCount() int { return len(b.edges) }

// InBounds reports whether (row, col) is a cell of the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.height && col >= 0 && col < b.width
}

func (b *Board) mustInBounds(row, col int) {
	if !b.InBounds(row, col) {
		panic(fmt.Errorf("%w: cell (%d,%d) on %dx%d board", ErrOutOfRange, row, col, b.height, b.width))
	}
}

func (b *Board) mustEdge(id EdgeID) {
	if id < 0 || int(id) >= len(b.edges) {
		panic(fmt.Errorf("%w: edge %d of %d", ErrOutOfRange, id, len(b.edges)))
	}
}

// CellID converts a 0-based position to the 1-based row-major cell number.
func (b *Board) CellID(row, col int) int {
	b.mustInBounds(row, col)
	return row*b.width + col + 1
}

// Coords converts a 1-based cell number back to its position.
func (b *Board) Coords(id int) (row, col int) {
	if id < 1 || id > b.Cells() {
		panic(fmt.Errorf("%w: cell id %d of %d", ErrOutOfRange, id, b.Cells()))
	}
	return (id - 1) / b.width, (id - 1) % b.width
}

// ValidCellID reports whether id numbers a cell of the board.
func (b *Board) ValidCellID(id int) bool {
	return id >= 1 && id <= b.Cells()
}

// Neighbor returns the cell one step from (row, col) in direction d and
// whether it is on the board.
func (b *Board) Neighbor(row, col int, d Direction) (int, int, bool) {
	dr, dc := d.Delta()
	r, c := row+dr, col+dc
	return r, c, b.InBounds(r, c)
}

func (b *Board) horizontal(row, col int) EdgeID {
	return EdgeID(row*b.width + col)
}

func (b *Board) vertical(row, col int) EdgeID {
	return EdgeID((b.height+1)*b.width + row*(b.width+1) + col)
}

// BoxEdges returns the four edges of a cell in North, East, South, West order.
func (b *Board) BoxEdges(row, col int) [4]EdgeID {
	b.mustInBounds(row, col)
	return [4]EdgeID{
		North: b.horizontal(row, col),
		East:  b.vertical(row, col+1),
		South: b.horizontal(row+1, col),
		West:  b.vertical(row, col),
	}
}

// Edge returns the edge on side d of a cell.
func (b *Board) Edge(row, col int, d Direction) EdgeID {
	return b.BoxEdges(row, col)[d]
}

// UndrawnEdges returns the undrawn edges of a cell, tagged with their side,
// in North, East, South, West order.
func (b *Board) UndrawnEdges(row, col int) []BoxEdge {
	var undrawn []BoxEdge
	for d, id := range b.BoxEdges(row, col) {
		if !b.edges[id].Drawn {
			undrawn = append(undrawn, BoxEdge{ID: id, Dir: Direction(d)})
		}
	}
	return undrawn
}

// IsDrawn reports whether an edge is drawn.
func (b *Board) IsDrawn(id EdgeID) bool {
	b.mustEdge(id)
	return b.edges[id].Drawn
}

// Draw marks an edge drawn.
func (b *Board) Draw(id EdgeID) {
	b.mustEdge(id)
	b.edges[id].Drawn = true
}

// Erase marks an edge undrawn. Used to revert a tentative wall.
func (b *Board) Erase(id EdgeID) {
	b.mustEdge(id)
	b.edges[id].Drawn = false
}

// Open reports whether a step from (row, col) in direction d stays on the
// board and crosses an undrawn edge.
func (b *Board) Open(row, col int, d Direction) bool {
	if _, _, ok := b.Neighbor(row, col, d); !ok {
		return false
	}
	return !b.edges[b.Edge(row, col, d)].Drawn
}

// BoxIsDrawn reports whether all four edges of a cell are drawn.
func (b *Board) BoxIsDrawn(row, col int) bool {
	for _, id := range b.BoxEdges(row, col) {
		if !b.edges[id].Drawn {
			return false
		}
	}
	return true
}

// BoardIsDrawn reports whether every cell is closed.
func (b *Board) BoardIsDrawn() bool {
	for r := 0; r < b.height; r++ {
		for c := 0; c < b.width; c++ {
			if !b.BoxIsDrawn(r, c) {
				return false
			}
		}
	}
	return true
}

// AdjacentBoxCompleted reports whether the cell across side d of (row, col)
// is closed. The exterior never counts as a box.
func (b *Board) AdjacentBoxCompleted(row, col int, d Direction) bool {
	b.mustInBounds(row, col)
	r, c, ok := b.Neighbor(row, col, d)
	if !ok {
		return false
	}
	return b.BoxIsDrawn(r, c)
}

// FillBorderWalls draws every perimeter edge.
func (b *Board) FillBorderWalls() {
	for c := 0; c < b.width; c++ {
		b.edges[b.horizontal(0, c)].Drawn = true
		b.edges[b.horizontal(b.height, c)].Drawn = true
	}
	for r := 0; r < b.height; r++ {
		b.edges[b.vertical(r, 0)].Drawn = true
		b.edges[b.vertical(r, b.width)].Drawn = true
	}
}

// IsBorder reports whether an edge lies on the board perimeter.
func (b *Board) IsBorder(id EdgeID) bool {
	b.mustEdge(id)
	split := EdgeID((b.height + 1) * b.width)
	if id < split {
		row := int(id) / b.width
		return row == 0 || row == b.height
	}
	col := int(id-split) % (b.width + 1)
	return col == 0 || col == b.width
}

// DrawnEdges lists drawn edge ids in ascending order.
func (b *Board) DrawnEdges() []EdgeID {
	drawn := []EdgeID{}
	for id, e := range b.edges {
		if e.Drawn {
			drawn = append(drawn, EdgeID(id))
		}
	}
	return drawn
}

// DrawnCount returns the number of drawn edges.
func (b *Board) DrawnCount() int {
	n := 0
	for _, e := range b.edges {
		if e.Drawn {
			n++
		}
	}
	return n
}

// Clear erases every edge.
func (b *Board) Clear() {
	for i := range b.edges {
		b.edges[i].Drawn = false
	}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	edges := make([]Edge, len(b.edges))
	copy(edges, b.edges)
	return &Board{height: b.height, width: b.width, edges: edges}
}
