package engine

import "slices"

// Heading is a team's orientation on the board: the direction towards its
// goal line and the two sides of that line of travel.
type Heading struct {
	Forward Direction
	Left    Direction
	Right   Direction
}

// headings is indexed by team. Jump and diagonal resolution is driven
// entirely by this table.
var headings = [MaxTeams]Heading{
	{Forward: North, Left: West, Right: East},  // team 0, goal row 0
	{Forward: South, Left: East, Right: West},  // team 1, goal last row
	{Forward: East, Left: North, Right: South}, // team 2, goal last column
	{Forward: West, Left: South, Right: North}, // team 3, goal column 0
}

// HeadingFor returns the orientation of a team.
func HeadingFor(team int) Heading {
	return headings[team]
}

func occupied(pawns []int, id int) bool {
	for _, p := range pawns {
		if p == id {
			return true
		}
	}
	return false
}

// LegalMoves returns the cells the pawn of team may move to, deduplicated
// and in ascending order:
//   - an orthogonal step onto an empty cell through an undrawn edge;
//   - a jump over an adjacent pawn in the team's forward direction when the
//     edge beyond it is undrawn and the far cell is empty;
//   - when that jump is walled off (the border counts) or the far cell is
//     taken, the cells left and right of the jumped pawn, each through its
//     own undrawn edge.
func LegalMoves(b *Board, pawns []int, team int) []int {
	row, col := b.Coords(pawns[team])
	seen := make(map[int]bool)
	var moves []int
	add := func(r, c int) {
		id := b.CellID(r, c)
		if seen[id] || occupied(pawns, id) {
			return
		}
		seen[id] = true
		moves = append(moves, id)
	}

	for _, d := range Directions {
		if !b.Open(row, col, d) {
			continue
		}
		r, c, _ := b.Neighbor(row, col, d)
		add(r, c)
	}

	h := headings[team]
	if b.Open(row, col, h.Forward) {
		or, oc, _ := b.Neighbor(row, col, h.Forward)
		if occupied(pawns, b.CellID(or, oc)) {
			fr, fc, _ := b.Neighbor(or, oc, h.Forward)
			if b.Open(or, oc, h.Forward) && !occupied(pawns, b.CellID(fr, fc)) {
				add(fr, fc)
			} else {
				for _, side := range [2]Direction{h.Left, h.Right} {
					if b.Open(or, oc, side) {
						sr, sc, _ := b.Neighbor(or, oc, side)
						add(sr, sc)
					}
				}
			}
		}
	}

	slices.Sort(moves)
	return moves
}
