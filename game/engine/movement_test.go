package engine

import (
	"math/rand/v2"
	"testing"
)

func createTestBoard() *Board {
	b := NewBoard(5, 5)
	b.FillBorderWalls()
	return b
}

func equalMoves(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalMoves_OrthogonalSteps(t *testing.T) {
	b := createTestBoard()
	pawns := []int{b.CellID(2, 2), StartCell(1, 5, 5)}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{8, 12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}

	// A wall closes one step.
	b.Draw(b.Edge(2, 2, East))
	moves = LegalMoves(b, pawns, 0)
	expected = []int{8, 12, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v after wall, got %v", expected, moves)
	}
}

func TestLegalMoves_CornerStart(t *testing.T) {
	b := createTestBoard()
	pawns := []int{1, 25}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{2, 6}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}
}

func TestLegalMoves_ForwardJump(t *testing.T) {
	b := createTestBoard()
	// Team 0 at (2,2) facing north, team 1 directly in front at (1,2).
	pawns := []int{13, 8}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{3, 12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected jump to 3, got %v", moves)
	}
}

func TestLegalMoves_DiagonalWhenJumpWalled(t *testing.T) {
	b := createTestBoard()
	pawns := []int{13, 8}
	b.Draw(b.Edge(1, 2, North))

	moves := LegalMoves(b, pawns, 0)
	expected := []int{7, 9, 12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected diagonals 7 and 9, got %v", moves)
	}

	// A wall beside the jumped pawn removes that diagonal.
	b.Draw(b.Edge(1, 2, West))
	moves = LegalMoves(b, pawns, 0)
	expected = []int{9, 12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected only diagonal 9, got %v", moves)
	}
}

func TestLegalMoves_DiagonalAtBorder(t *testing.T) {
	b := createTestBoard()
	// Opponent sits on the top row: the border walls off the jump.
	pawns := []int{8, 3}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{2, 4, 7, 9, 13}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}
}

func TestLegalMoves_DiagonalWhenFarCellTaken(t *testing.T) {
	b := createTestBoard()
	pawns := []int{13, 8, 3}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{7, 9, 12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}
}

func TestLegalMoves_NoBackwardJump(t *testing.T) {
	b := createTestBoard()
	// Opponent directly behind team 0.
	pawns := []int{13, 18}

	moves := LegalMoves(b, pawns, 0)
	expected := []int{8, 12, 14}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}
}

func TestLegalMoves_WallBetweenPawnsBlocksJump(t *testing.T) {
	b := createTestBoard()
	pawns := []int{13, 8}
	b.Draw(b.Edge(2, 2, North))

	moves := LegalMoves(b, pawns, 0)
	expected := []int{12, 14, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Expected %v, got %v", expected, moves)
	}
}

func TestLegalMoves_HeadingPerTeam(t *testing.T) {
	b := createTestBoard()

	// Team 2 faces east and jumps over team 0.
	pawns := []int{13, 2, 12}
	moves := LegalMoves(b, pawns, 2)
	expected := []int{7, 11, 14, 17}
	if !equalMoves(moves, expected) {
		t.Errorf("Team 2: expected %v, got %v", expected, moves)
	}

	// Team 1 faces south and jumps over team 0.
	pawns = []int{13, 8}
	moves = LegalMoves(b, pawns, 1)
	expected = []int{3, 7, 9, 18}
	if !equalMoves(moves, expected) {
		t.Errorf("Team 1: expected %v, got %v", expected, moves)
	}

	if HeadingFor(3).Forward != West {
		t.Errorf("Expected team 3 to face west, got %s", HeadingFor(3).Forward)
	}
}

func TestLegalMoves_SortedUniqueSubset(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		b := createTestBoard()
		for j := 0; j < 12; j++ {
			b.Draw(EdgeID(rng.IntN(b.EdgeCount())))
		}

		pawns := make([]int, 2+rng.IntN(3))
		used := map[int]bool{}
		for k := range pawns {
			for {
				id := 1 + rng.IntN(b.Cells())
				if !used[id] {
					used[id] = true
					pawns[k] = id
					break
				}
			}
		}

		for team := range pawns {
			moves := LegalMoves(b, pawns, team)
			row, col := b.Coords(pawns[team])
			for k, id := range moves {
				if k > 0 && moves[k-1] >= id {
					t.Fatalf("Moves not strictly ascending: %v", moves)
				}
				if occupied(pawns, id) {
					t.Fatalf("Move %d lands on a pawn (%v)", id, pawns)
				}
				r, c := b.Coords(id)
				dist := abs(r-row) + abs(c-col)
				if dist < 1 || dist > 2 {
					t.Fatalf("Move %d from %d is %d steps away", id, pawns[team], dist)
				}
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
