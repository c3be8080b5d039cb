package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Turn state
	Phase() Phase
	CurrentPlayer() *Player
	CurrentTeam() *Team
	Actions() []Action
	Winner() (*Team, bool)
	Message() string

	// Turn operations
	ChooseAction(action Action) error
	LegalMoves() []int
	MovePawn(dest int) error
	WallOptions(cell int) ([4]WallOption, error)
	PlaceWall(cell int, dir Direction, ext Extension) (Wall, error)
	Pass() error

	// Views
	View() BoardView
	State() *GameState
	History() []HistoryEntry
	Config() *GameConfig

	Reset()
}

// BoardView is the read-only surface a renderer needs: the edge grid and
// the pawn of each team, indexed by team for colour coding.
type BoardView interface {
	Height() int
	Width() int
	BoxEdges(row, col int) [4]EdgeID
	IsDrawn(id EdgeID) bool
	PawnPositions() []int
}

// EventKind classifies an Event.
type EventKind string

const (
	EventTurn         EventKind = "turn"
	EventMove         EventKind = "move"
	EventWall         EventKind = "wall"
	EventWallRejected EventKind = "wall_rejected"
	EventWin          EventKind = "win"
	EventReset        EventKind = "reset"
)

// Event is delivered to the observer after every state change.
type Event struct {
	Kind   EventKind
	Player string
	Team   int
	From   int
	To     int
	Wall   *Wall
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the source used to draw the first team.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithFirstTeam fixes the team that opens every game instead of drawing it.
func WithFirstTeam(team int) Option {
	return func(g *Game) { g.firstTeam = team }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObserver registers a callback invoked synchronously for every Event.
func WithObserver(fn func(Event)) Option {
	return func(g *Game) { g.observer = fn }
}

// Game is the turn engine. It owns the board and the pawn positions and is
// not safe for concurrent use.
type Game struct {
	config   *GameConfig
	messages Messages
	board    *Board
	teams    []*Team
	pawns    []int
	queue    []*Player
	turn     int
	phase    Phase
	winner   int
	message  string

	history    []HistoryEntry
	totalMoves int

	firstTeam int
	rng       *rand.Rand
	logger    *zap.Logger
	observer  func(Event)
}

// NewGame validates config and starts a game with the first team drawn at
// random.
func NewGame(config *GameConfig, opts ...Option) (*Game, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	g := &Game{
		config:    config.Clone(),
		messages:  config.Messages.WithDefaults(),
		firstTeam: -1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.firstTeam >= len(config.Teams) {
		return nil, fmt.Errorf("first team %d out of range for %d teams", g.firstTeam, len(config.Teams))
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	g.setup()
	return g, nil
}

// setup places pawns on their start cells, hands out walls and builds the
// player queue. Shared by NewGame and Reset.
func (g *Game) setup() {
	cfg := g.config
	g.board = NewBoard(cfg.Height, cfg.Width)
	g.board.FillBorderWalls()

	walls := cfg.WallsFor()
	g.teams = make([]*Team, len(cfg.Teams))
	g.pawns = make([]int, len(cfg.Teams))
	for i, tc := range cfg.Teams {
		team := &Team{Index: i, Name: tc.Name, WallsRemaining: walls}
		for _, name := range tc.Players {
			team.Players = append(team.Players, &Player{Name: name, Team: i})
		}
		g.teams[i] = team
		g.pawns[i] = StartCell(i, cfg.Height, cfg.Width)
	}

	first := g.firstTeam
	if first < 0 {
		first = g.rng.IntN(len(g.teams))
	}
	g.queue = g.queue[:0]
	perTeam := len(cfg.Teams[0].Players)
	for p := 0; p < perTeam; p++ {
		for k := range g.teams {
			g.queue = append(g.queue, g.teams[(first+k)%len(g.teams)].Players[p])
		}
	}

	g.turn = 0
	g.phase = PhaseAwaitAction
	g.winner = -1
	g.history = nil
	g.totalMoves = 0
	g.message = fmt.Sprintf(g.messages.FirstTeam, g.teams[first].Name)

	g.logger.Info("game started",
		zap.String("config", cfg.Name),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("teams", len(g.teams)),
		zap.String("first_team", g.teams[first].Name))
	g.notify(Event{Kind: EventTurn, Player: g.CurrentPlayer().Name, Team: g.CurrentPlayer().Team})
}

func (g *Game) notify(e Event) {
	if g.observer != nil {
		g.observer(e)
	}
}

// Reset starts a new game with the same configuration and a freshly drawn
// first team.
func (g *Game) Reset() {
	g.setup()
	g.notify(Event{Kind: EventReset})
}

// Config returns a copy of the game's configuration.
func (g *Game) Config() *GameConfig {
	return g.config.Clone()
}

// Phase returns the current state of the turn machine.
func (g *Game) Phase() Phase {
	return g.phase
}

// Message returns the last status text produced by the engine.
func (g *Game) Message() string {
	return g.message
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.queue[g.turn]
}

// CurrentTeam returns the team of the current player.
func (g *Game) CurrentTeam() *Team {
	return g.teams[g.queue[g.turn].Team]
}

// Teams returns the teams in index order.
func (g *Game) Teams() []*Team {
	return append([]*Team(nil), g.teams...)
}

// Board returns the live board. Callers must not mutate it.
func (g *Game) Board() *Board {
	return g.board
}

// Height returns the number of board rows.
func (g *Game) Height() int { return g.board.Height() }

// Width returns the number of board columns.
func (g *Game) Width() int { return g.board.Width() }

// BoxEdges returns the four edges of a cell.
func (g *Game) BoxEdges(row, col int) [4]EdgeID { return g.board.BoxEdges(row, col) }

// IsDrawn reports whether an edge is drawn.
func (g *Game) IsDrawn(id EdgeID) bool { return g.board.IsDrawn(id) }

// PawnPositions returns the cell of each team's pawn, indexed by team.
func (g *Game) PawnPositions() []int {
	return append([]int(nil), g.pawns...)
}

// View returns a frozen copy of the board and pawns.
func (g *Game) View() BoardView {
	return &frozenView{Board: g.board.Clone(), pawns: g.PawnPositions()}
}

type frozenView struct {
	*Board
	pawns []int
}

func (v *frozenView) PawnPositions() []int {
	return append([]int(nil), v.pawns...)
}

// Winner returns the winning team once the game is over.
func (g *Game) Winner() (*Team, bool) {
	if g.winner < 0 {
		return nil, false
	}
	return g.teams[g.winner], true
}

// Actions lists what the current player may do. Walls are only offered
// while the team has some left.
func (g *Game) Actions() []Action {
	if g.phase == PhaseTerminal {
		return nil
	}
	actions := []Action{ActionMove}
	if g.CurrentTeam().WallsRemaining > 0 {
		actions = append(actions, ActionWall)
	}
	return actions
}

// ChooseAction moves the turn into the move or wall phase. Until a move or
// wall is accepted the player may switch between the two.
func (g *Game) ChooseAction(action Action) error {
	if g.phase == PhaseTerminal {
		return ErrGameOver
	}

	switch action {
	case ActionMove:
		g.phase = PhaseAwaitMove
	case ActionWall:
		if g.CurrentTeam().WallsRemaining <= 0 {
			g.message = fmt.Sprintf(g.messages.OutOfWalls, g.CurrentPlayer().Name)
			return ErrNoWallsRemaining
		}
		g.phase = PhaseAwaitWall
	default:
		return fmt.Errorf("%w: unknown action %q", ErrIllegalMoveChoice, action)
	}
	return nil
}

// LegalMoves returns the cells the current player's pawn may move to.
func (g *Game) LegalMoves() []int {
	if g.phase == PhaseTerminal {
		return nil
	}
	return LegalMoves(g.board, g.pawns, g.CurrentPlayer().Team)
}

// MovePawn moves the current team's pawn to dest, which must be one of
// LegalMoves. The game ends when the pawn lands on its goal line.
func (g *Game) MovePawn(dest int) error {
	if g.phase == PhaseTerminal {
		return ErrGameOver
	}
	if g.phase != PhaseAwaitMove {
		return fmt.Errorf("%w: move during %s", ErrWrongPhase, g.phase)
	}

	legal := false
	for _, id := range g.LegalMoves() {
		if id == dest {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%w: cell %d", ErrIllegalMoveChoice, dest)
	}

	player := g.CurrentPlayer()
	team := g.teams[player.Team]
	from := g.pawns[team.Index]
	g.pawns[team.Index] = dest
	team.OffensiveMoves++
	g.record(ActionMove, player, from, dest, nil)
	g.message = fmt.Sprintf(g.messages.PawnMoved, dest)

	g.logger.Debug("pawn moved",
		zap.String("player", player.Name),
		zap.String("team", team.Name),
		zap.Int("from", from),
		zap.Int("to", dest))
	g.notify(Event{Kind: EventMove, Player: player.Name, Team: team.Index, From: from, To: dest})

	row, col := g.board.Coords(dest)
	if GoalFor(team.Index, g.board.height, g.board.width).Reached(row, col) {
		g.phase = PhaseTerminal
		g.winner = team.Index
		g.message = fmt.Sprintf(g.messages.Victory, team.Name)
		g.logger.Info("game won",
			zap.String("team", team.Name),
			zap.Int("total_moves", g.totalMoves))
		g.notify(Event{Kind: EventWin, Player: player.Name, Team: team.Index, To: dest})
		return nil
	}

	g.advance()
	return nil
}

// WallOptions classifies the four sides of a cell for the current wall
// choice. A cell on which no wall can start is rejected.
func (g *Game) WallOptions(cell int) ([4]WallOption, error) {
	if !g.board.ValidCellID(cell) {
		return [4]WallOption{}, fmt.Errorf("%w: %d", ErrInvalidCell, cell)
	}
	opts := g.board.WallOptions(g.board.Coords(cell))
	for _, o := range opts {
		if o != WallBlocked {
			return opts, nil
		}
	}
	return opts, ErrNoWallEdges
}

// PlaceWall draws a two-unit wall on side dir of cell. ext is only
// consulted when both extensions are free. A wall that would leave any
// team without a path to its goal is reverted and rejected; the player
// keeps the turn and the wall.
func (g *Game) PlaceWall(cell int, dir Direction, ext Extension) (Wall, error) {
	if g.phase == PhaseTerminal {
		return Wall{}, ErrGameOver
	}
	if g.phase != PhaseAwaitWall {
		return Wall{}, fmt.Errorf("%w: wall during %s", ErrWrongPhase, g.phase)
	}
	player := g.CurrentPlayer()
	team := g.teams[player.Team]
	if team.WallsRemaining <= 0 {
		return Wall{}, ErrNoWallsRemaining
	}
	if !g.board.ValidCellID(cell) {
		return Wall{}, fmt.Errorf("%w: %d", ErrInvalidCell, cell)
	}
	if dir < North || dir > West {
		return Wall{}, fmt.Errorf("%w: direction %d", ErrIllegalWallPlacement, dir)
	}

	row, col := g.board.Coords(cell)
	wall, err := g.board.ResolveWall(row, col, dir, ext)
	if err != nil {
		return Wall{}, err
	}

	if blocked := tryWall(g.board, g.pawns, wall); blocked >= 0 {
		g.message = g.messages.WallBlocked
		g.logger.Debug("wall rejected",
			zap.String("player", player.Name),
			zap.Stringer("wall", wall),
			zap.String("blocked_team", g.teams[blocked].Name))
		g.notify(Event{Kind: EventWallRejected, Player: player.Name, Team: team.Index, Wall: &wall})
		return Wall{}, fmt.Errorf("%w: team %s", ErrWallBlocksPath, g.teams[blocked].Name)
	}

	team.WallsRemaining--
	team.DefensiveMoves++
	g.record(ActionWall, player, 0, 0, &wall)
	g.message = g.messages.WallPlaced

	g.logger.Debug("wall placed",
		zap.String("player", player.Name),
		zap.String("team", team.Name),
		zap.Stringer("wall", wall),
		zap.Int("walls_remaining", team.WallsRemaining))
	g.notify(Event{Kind: EventWall, Player: player.Name, Team: team.Index, Wall: &wall})

	g.advance()
	return wall, nil
}

// Pass gives up the turn. It is only allowed when the pawn is hemmed in by
// other pawns and the team has no walls left.
func (g *Game) Pass() error {
	if g.phase == PhaseTerminal {
		return ErrGameOver
	}
	if g.phase == PhaseAwaitWall {
		return fmt.Errorf("%w: pass during %s", ErrWrongPhase, g.phase)
	}
	if len(g.LegalMoves()) > 0 || g.CurrentTeam().WallsRemaining > 0 {
		return fmt.Errorf("%w: a move or wall is available", ErrIllegalMoveChoice)
	}
	player := g.CurrentPlayer()
	g.logger.Debug("turn passed", zap.String("player", player.Name))
	g.advance()
	return nil
}

// advance rotates the queue to the next player.
func (g *Game) advance() {
	g.turn = (g.turn + 1) % len(g.queue)
	g.phase = PhaseAwaitAction
	next := g.CurrentPlayer()
	g.notify(Event{Kind: EventTurn, Player: next.Name, Team: next.Team})
}

// State returns a snapshot of the game.
func (g *Game) State() *GameState {
	state := &GameState{
		ConfigName:    g.config.Name,
		Width:         g.board.width,
		Height:        g.board.height,
		Phase:         g.phase.String(),
		CurrentPlayer: g.CurrentPlayer().Name,
		CurrentTeam:   g.CurrentPlayer().Team,
		DrawnEdges:    g.board.DrawnEdges(),
		Winner:        g.winner,
		TotalMoves:    g.totalMoves,
		Message:       g.message,
	}
	for i, team := range g.teams {
		goal := GoalFor(i, g.board.height, g.board.width)
		path, ok := g.board.PathLength(g.pawns[i], goal)
		if !ok {
			path = -1
		}
		names := make([]string, len(team.Players))
		for j, p := range team.Players {
			names[j] = p.Name
		}
		state.Teams = append(state.Teams, TeamState{
			Index:          i,
			Name:           team.Name,
			Players:        names,
			Pawn:           g.pawns[i],
			Goal:           goal,
			WallsRemaining: team.WallsRemaining,
			OffensiveMoves: team.OffensiveMoves,
			DefensiveMoves: team.DefensiveMoves,
			PathLength:     path,
		})
	}
	return state
}
