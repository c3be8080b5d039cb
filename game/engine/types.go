package engine

import "time"

// Direction names one side of a cell. The numeric order is fixed and every
// four-element array in this package is indexed by it.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the four sides in their fixed order.
var Directions = [4]Direction{North, East, South, West}

var directionNames = [4]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d < North || d > West {
		return "unknown"
	}
	return directionNames[d]
}

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Horizontal reports whether an edge on side d runs horizontally (N/S edges).
func (d Direction) Horizontal() bool {
	return d == North || d == South
}

// Delta returns the row/col offset of one step in direction d.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	default:
		return 0, -1
	}
}

const (
	// Board and roster limits
	MinBoardSize      = 4
	MaxBoardSize      = 15
	MinTeams          = 2
	MaxTeams          = 4
	MinPlayersPerTeam = 1
	MaxPlayersPerTeam = 4
	MaxTeamNameLength = 15

	// TotalWalls is split evenly between teams when a preset does not fix
	// the per-team count.
	TotalWalls = 20
)

// EdgeID indexes the board's edge arena.
type EdgeID int

// NoEdge is returned where an edge would lie outside the board.
const NoEdge EdgeID = -1

// Edge is a drawable boundary segment between two cells or between a cell
// and the exterior.
type Edge struct {
	Drawn bool `json:"drawn"`
}

// BoxEdge is an edge reference tagged with the side of the queried cell it
// bounds.
type BoxEdge struct {
	ID  EdgeID    `json:"id"`
	Dir Direction `json:"dir"`
}

// Position is a 0-based row/column pair.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Player is a single participant acting for a team.
type Player struct {
	Name string `json:"name"`
	Team int    `json:"team"`
}

// Team owns its players, its wall supply and the end-of-game counters.
type Team struct {
	Index          int       `json:"index"`
	Name           string    `json:"name"`
	Players        []*Player `json:"players"`
	WallsRemaining int       `json:"walls_remaining"`
	OffensiveMoves int       `json:"offensive_moves"` // pawn movements
	DefensiveMoves int       `json:"defensive_moves"` // wall placements
}

// Action is what a player may do on their turn.
type Action string

const (
	ActionMove Action = "move"
	ActionWall Action = "wall"
)

// Phase is the turn engine's state.
type Phase int

const (
	PhaseAwaitAction Phase = iota
	PhaseAwaitMove
	PhaseAwaitWall
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitAction:
		return "await_action"
	case PhaseAwaitMove:
		return "await_move"
	case PhaseAwaitWall:
		return "await_wall"
	case PhaseTerminal:
		return "terminal"
	}
	return "unknown"
}

// TeamState is the per-team part of a GameState snapshot.
type TeamState struct {
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	Players        []string `json:"players"`
	Pawn           int      `json:"pawn"`
	Goal           Goal     `json:"goal"`
	WallsRemaining int      `json:"walls_remaining"`
	OffensiveMoves int      `json:"offensive_moves"`
	DefensiveMoves int      `json:"defensive_moves"`
	// PathLength is the number of steps to the goal line ignoring pawns.
	PathLength int `json:"path_length"`
}

// GameState is a read-only snapshot of a game.
type GameState struct {
	ConfigName    string      `json:"config_name"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Phase         string      `json:"phase"`
	CurrentPlayer string      `json:"current_player"`
	CurrentTeam   int         `json:"current_team"`
	Teams         []TeamState `json:"teams"`
	DrawnEdges    []EdgeID    `json:"drawn_edges"`
	Winner        int         `json:"winner"` // -1 while the game runs
	TotalMoves    int         `json:"total_moves"`
	Message       string      `json:"message"`
}

// HistoryEntry records one accepted action.
type HistoryEntry struct {
	Number    int       `json:"number"`
	Action    Action    `json:"action"`
	Player    string    `json:"player"`
	Team      int       `json:"team"`
	From      int       `json:"from,omitempty"`
	To        int       `json:"to,omitempty"`
	Wall      *Wall     `json:"wall,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
