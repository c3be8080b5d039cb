package engine

import "fmt"

// WallOption says which extensions can pair with a chosen edge to form a
// two-unit wall.
type WallOption int

const (
	WallBlocked    WallOption = iota // neither extension free, or the edge itself is drawn
	WallFirstOnly                    // only the decreasing-index neighbor is free
	WallSecondOnly                   // only the increasing-index neighbor is free
	WallEither                       // both free, the player must choose
)

func (o WallOption) String() string {
	switch o {
	case WallBlocked:
		return "blocked"
	case WallFirstOnly:
		return "first"
	case WallSecondOnly:
		return "second"
	case WallEither:
		return "either"
	}
	return "unknown"
}

// Extension picks the side a wall grows towards from the chosen edge.
type Extension int

const (
	ExtendAuto   Extension = iota // only valid when a single extension exists
	ExtendFirst                   // left for N/S edges, up for E/W edges
	ExtendSecond                  // right for N/S edges, down for E/W edges
)

// ExtensionNames returns the labels for ExtendFirst and ExtendSecond as seen
// from the board for a wall on side d.
func ExtensionNames(d Direction) [2]string {
	if d.Horizontal() {
		return [2]string{"left", "right"}
	}
	return [2]string{"up", "down"}
}

// Wall is a placed or tentative wall: two colinear edges drawn together.
type Wall struct {
	Cell   int       `json:"cell"`
	Dir    Direction `json:"dir"`
	First  EdgeID    `json:"first"`
	Second EdgeID    `json:"second"`
}

func (w Wall) String() string {
	return fmt.Sprintf("%s of cell %d (edges %d+%d)", w.Dir, w.Cell, w.First, w.Second)
}

// extensionCell returns the neighbor whose side-d edge would extend a wall
// chosen on side d of (row, col). Walls on N/S sides grow along the row,
// walls on E/W sides grow along the column.
func extensionCell(row, col int, d Direction, ext Extension) (int, int) {
	step := -1
	if ext == ExtendSecond {
		step = 1
	}
	if d.Horizontal() {
		return row, col + step
	}
	return row + step, col
}

func (b *Board) extensionFree(row, col int, d Direction, ext Extension) bool {
	r, c := extensionCell(row, col, d, ext)
	if !b.InBounds(r, c) {
		return false
	}
	return !b.edges[b.Edge(r, c, d)].Drawn
}

// WallOption classifies the edge on side d of (row, col).
func (b *Board) WallOption(row, col int, d Direction) WallOption {
	if b.edges[b.Edge(row, col, d)].Drawn {
		return WallBlocked
	}
	first := b.extensionFree(row, col, d, ExtendFirst)
	second := b.extensionFree(row, col, d, ExtendSecond)
	switch {
	case first && second:
		return WallEither
	case first:
		return WallFirstOnly
	case second:
		return WallSecondOnly
	}
	return WallBlocked
}

// WallOptions classifies all four sides of a cell.
func (b *Board) WallOptions(row, col int) [4]WallOption {
	var opts [4]WallOption
	for _, d := range Directions {
		opts[d] = b.WallOption(row, col, d)
	}
	return opts
}

// ResolveWall returns the two edges a wall on side d of (row, col) would
// draw. ext is ignored when only one extension exists and required when
// both do. The board is not modified.
func (b *Board) ResolveWall(row, col int, d Direction, ext Extension) (Wall, error) {
	opt := b.WallOption(row, col, d)
	switch opt {
	case WallBlocked:
		if b.edges[b.Edge(row, col, d)].Drawn {
			return Wall{}, ErrEdgeDrawn
		}
		return Wall{}, fmt.Errorf("%w: no free extension for %s edge of (%d,%d)", ErrIllegalWallPlacement, d, row, col)
	case WallFirstOnly:
		ext = ExtendFirst
	case WallSecondOnly:
		ext = ExtendSecond
	case WallEither:
		if ext != ExtendFirst && ext != ExtendSecond {
			return Wall{}, ErrExtensionRequired
		}
	}
	r, c := extensionCell(row, col, d, ext)
	return Wall{
		Cell:   b.CellID(row, col),
		Dir:    d,
		First:  b.Edge(row, col, d),
		Second: b.Edge(r, c, d),
	}, nil
}

// DrawWall draws both edges of w.
func (b *Board) DrawWall(w Wall) {
	b.Draw(w.First)
	b.Draw(w.Second)
}

// EraseWall reverts both edges of w.
func (b *Board) EraseWall(w Wall) {
	b.Erase(w.First)
	b.Erase(w.Second)
}
