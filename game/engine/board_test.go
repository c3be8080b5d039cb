package engine

import (
	"errors"
	"testing"
)

func expectOutOfRange(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected panic", name)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange panic, got %v", name, r)
		}
	}()
	fn()
}

func TestBoard_SharedEdges(t *testing.T) {
	b := NewBoard(5, 7)

	for r := 0; r < b.Height(); r++ {
		for c := 0; c < b.Width(); c++ {
			edges := b.BoxEdges(r, c)
			if r+1 < b.Height() {
				below := b.BoxEdges(r+1, c)
				if edges[South] != below[North] {
					t.Errorf("(%d,%d) south %d != (%d,%d) north %d", r, c, edges[South], r+1, c, below[North])
				}
			}
			if c+1 < b.Width() {
				right := b.BoxEdges(r, c+1)
				if edges[East] != right[West] {
					t.Errorf("(%d,%d) east %d != (%d,%d) west %d", r, c, edges[East], r, c+1, right[West])
				}
			}
		}
	}
}

func TestBoard_EdgeArenaCoversEveryEdgeOnce(t *testing.T) {
	b := NewBoard(4, 6)

	expected := 5*6 + 4*7
	if b.EdgeCount() != expected {
		t.Fatalf("Expected %d edges, got %d", expected, b.EdgeCount())
	}

	seen := make(map[EdgeID]bool)
	for r := 0; r < b.Height(); r++ {
		for c := 0; c < b.Width(); c++ {
			edges := b.BoxEdges(r, c)
			local := make(map[EdgeID]bool)
			for _, id := range edges {
				if local[id] {
					t.Errorf("Cell (%d,%d) lists edge %d twice", r, c, id)
				}
				local[id] = true
				seen[id] = true
			}
		}
	}
	if len(seen) != expected {
		t.Errorf("Expected cells to reference %d distinct edges, got %d", expected, len(seen))
	}
}

func TestBoard_DrawSharedEdgeVisibleFromBothCells(t *testing.T) {
	b := NewBoard(4, 4)

	b.Draw(b.Edge(1, 1, North))
	if !b.IsDrawn(b.Edge(0, 1, South)) {
		t.Error("Expected south edge of (0,1) to be drawn")
	}

	b.Draw(b.Edge(2, 2, West))
	if !b.IsDrawn(b.Edge(2, 1, East)) {
		t.Error("Expected east edge of (2,1) to be drawn")
	}

	b.Erase(b.Edge(0, 1, South))
	if b.IsDrawn(b.Edge(1, 1, North)) {
		t.Error("Expected north edge of (1,1) to be erased")
	}
}

func TestBoard_UndrawnEdges(t *testing.T) {
	b := NewBoard(4, 4)
	b.FillBorderWalls()

	first := b.UndrawnEdges(0, 0)
	second := b.UndrawnEdges(0, 0)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 undrawn edges on corner cell, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Expected identical results, got %v and %v", first[i], second[i])
		}
	}
	if first[0].Dir != East || first[1].Dir != South {
		t.Errorf("Expected east and south tags, got %s and %s", first[0].Dir, first[1].Dir)
	}

	center := b.UndrawnEdges(1, 1)
	if len(center) != 4 {
		t.Errorf("Expected 4 undrawn edges on inner cell, got %d", len(center))
	}
}

func TestBoard_BoxCompletion(t *testing.T) {
	b := NewBoard(4, 4)

	if b.BoxIsDrawn(1, 1) {
		t.Error("Expected empty box not to be drawn")
	}
	for _, id := range b.BoxEdges(1, 1) {
		b.Draw(id)
	}
	if !b.BoxIsDrawn(1, 1) {
		t.Error("Expected box to be drawn after drawing its four edges")
	}
	if !b.AdjacentBoxCompleted(0, 1, South) {
		t.Error("Expected (1,1) to be completed as seen from (0,1)")
	}
	if b.AdjacentBoxCompleted(0, 0, North) {
		t.Error("Expected exterior never to count as a box")
	}
	if b.BoardIsDrawn() {
		t.Error("Expected board not to be fully drawn")
	}

	for id := 0; id < b.EdgeCount(); id++ {
		b.Draw(EdgeID(id))
	}
	if !b.BoardIsDrawn() {
		t.Error("Expected board to be fully drawn")
	}
}

func TestBoard_FillBorderWalls(t *testing.T) {
	b := NewBoard(5, 6)
	b.FillBorderWalls()

	if b.DrawnCount() != 2*5+2*6 {
		t.Errorf("Expected %d border edges, got %d", 2*5+2*6, b.DrawnCount())
	}
	for _, id := range b.DrawnEdges() {
		if !b.IsBorder(id) {
			t.Errorf("Expected drawn edge %d to be on the border", id)
		}
	}
	if b.IsBorder(b.Edge(2, 2, North)) {
		t.Error("Expected inner edge not to be on the border")
	}

	b.Clear()
	if b.DrawnCount() != 0 {
		t.Errorf("Expected cleared board, got %d drawn edges", b.DrawnCount())
	}
}

func TestBoard_CellIDs(t *testing.T) {
	b := NewBoard(5, 4)

	if id := b.CellID(0, 0); id != 1 {
		t.Errorf("Expected first cell id 1, got %d", id)
	}
	if id := b.CellID(4, 3); id != 20 {
		t.Errorf("Expected last cell id 20, got %d", id)
	}
	for id := 1; id <= b.Cells(); id++ {
		r, c := b.Coords(id)
		if b.CellID(r, c) != id {
			t.Errorf("Expected round trip of %d, got %d", id, b.CellID(r, c))
		}
	}
	if b.ValidCellID(0) || b.ValidCellID(21) {
		t.Error("Expected 0 and 21 to be invalid cell ids")
	}
}

func TestBoard_Clone(t *testing.T) {
	b := NewBoard(4, 4)
	b.Draw(3)

	clone := b.Clone()
	clone.Draw(4)
	if b.IsDrawn(4) {
		t.Error("Expected clone to be independent of the original")
	}
	if !clone.IsDrawn(3) {
		t.Error("Expected clone to keep drawn edges")
	}
}

func TestBoard_OutOfRangePanics(t *testing.T) {
	b := NewBoard(4, 4)

	expectOutOfRange(t, "BoxEdges", func() { b.BoxEdges(4, 0) })
	expectOutOfRange(t, "BoxEdges negative", func() { b.BoxEdges(0, -1) })
	expectOutOfRange(t, "IsDrawn", func() { b.IsDrawn(EdgeID(b.EdgeCount())) })
	expectOutOfRange(t, "Draw", func() { b.Draw(NoEdge) })
	expectOutOfRange(t, "Coords", func() { b.Coords(17) })
	expectOutOfRange(t, "NewBoard", func() { NewBoard(0, 4) })
}
