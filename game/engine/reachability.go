package engine

import "fmt"

// GoalKind says whether a goal line is a row or a column.
type GoalKind string

const (
	GoalRow GoalKind = "row"
	GoalCol GoalKind = "col"
)

// Goal is the line a team must reach to win.
type Goal struct {
	Kind  GoalKind `json:"kind"`
	Index int      `json:"index"`
}

func (g Goal) String() string {
	return fmt.Sprintf("%s %d", g.Kind, g.Index)
}

// Reached reports whether (row, col) lies on the goal line.
func (g Goal) Reached(row, col int) bool {
	if g.Kind == GoalRow {
		return row == g.Index
	}
	return col == g.Index
}

// GoalFor returns the fixed goal line of a team on a height × width board:
// team 0 the top row, team 1 the bottom row, team 2 the right column and
// team 3 the left column.
func GoalFor(team, height, width int) Goal {
	switch team {
	case 0:
		return Goal{Kind: GoalRow, Index: 0}
	case 1:
		return Goal{Kind: GoalRow, Index: height - 1}
	case 2:
		return Goal{Kind: GoalCol, Index: width - 1}
	case 3:
		return Goal{Kind: GoalCol, Index: 0}
	}
	panic(fmt.Errorf("%w: team %d", ErrOutOfRange, team))
}

// StartCell returns the 1-based starting cell of a team's pawn.
func StartCell(team, height, width int) int {
	var row, col int
	switch team {
	case 0:
		row, col = height-1, (width-1)/2
	case 1:
		row, col = 0, (width-1)/2
	case 2:
		row, col = height/2, 0
	case 3:
		row, col = height/2, width-1
	default:
		panic(fmt.Errorf("%w: team %d", ErrOutOfRange, team))
	}
	return row*width + col + 1
}

// PathLength runs a breadth-first search over undrawn edges from cell id
// and returns the number of steps to the nearest cell on the goal line.
// Pawns are not obstacles.
func (b *Board) PathLength(from int, goal Goal) (int, bool) {
	row, col := b.Coords(from)
	if goal.Reached(row, col) {
		return 0, true
	}

	dist := make([]int, b.Cells())
	for i := range dist {
		dist[i] = -1
	}
	dist[from-1] = 0
	queue := []int{from - 1}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		r, c := cur/b.width, cur%b.width
		for _, d := range Directions {
			if !b.Open(r, c, d) {
				continue
			}
			nr, nc, _ := b.Neighbor(r, c, d)
			next := nr*b.width + nc
			if dist[next] >= 0 {
				continue
			}
			dist[next] = dist[cur] + 1
			if goal.Reached(nr, nc) {
				return dist[next], true
			}
			queue = append(queue, next)
		}
	}
	return 0, false
}

// CanReach reports whether any cell of the goal line is connected to cell
// id through undrawn edges.
func (b *Board) CanReach(from int, goal Goal) bool {
	_, ok := b.PathLength(from, goal)
	return ok
}

// blockedTeam returns the first team whose pawn cannot reach its goal, or
// -1 when every team still has a path.
func blockedTeam(b *Board, pawns []int) int {
	for team, pos := range pawns {
		if !b.CanReach(pos, GoalFor(team, b.height, b.width)) {
			return team
		}
	}
	return -1
}

// tryWall draws w and keeps it only if every pawn can still reach its goal.
// It returns the first team the wall would cut off, or -1 when it stands.
func tryWall(b *Board, pawns []int, w Wall) int {
	b.DrawWall(w)
	if blocked := blockedTeam(b, pawns); blocked >= 0 {
		b.EraseWall(w)
		return blocked
	}
	return -1
}
