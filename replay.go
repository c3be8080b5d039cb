package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/transport/console"
)

// replay reads one action per line and applies it to a fresh session:
//
//	move <cell>
//	wall <cell> <side> [extension]
//
// Sides are up, right, down and left. The extension is first/second or the
// side's own names (left/right for up and down walls, up/down otherwise) and
// may be omitted when only one is possible. Blank lines and lines starting
// with # are skipped.
func (a *app) replay(ctx context.Context, cmd *cli.Command) error {
	preset, file := cmd.Args().Get(0), cmd.Args().Get(1)
	if file == "" {
		return errors.New("usage: replay <preset> <file|->")
	}

	var r io.Reader = a.in
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	info, err := a.service.CreateSession(ctx, preset)
	if err != nil {
		return err
	}
	defer a.service.DeleteSession(context.Background(), info.ID)

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := a.applyLine(ctx, info.ID, line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if !result.Success {
			return fmt.Errorf("line %d: %s", n, result.Message)
		}
		if result.GameState.Winner >= 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	state, err := a.service.GetGameState(ctx, info.ID)
	if err != nil {
		return err
	}
	console.NewRenderer(a.out, teamNames(info.GameConfig)).Render(stateView(state), nil)

	history, err := a.service.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Limit: 100, Order: "asc"})
	if err != nil {
		return err
	}
	for _, entry := range history.Moves {
		fmt.Fprintln(a.out, describeEntry(entry, state))
	}
	if state.Winner >= 0 {
		fmt.Fprintf(a.out, "Team %s has won.\n", state.Teams[state.Winner].Name)
	} else {
		fmt.Fprintf(a.out, "Player %s of team %s is to play.\n", state.CurrentPlayer, state.Teams[state.CurrentTeam].Name)
	}
	return nil
}

// applyLine runs one replay line against the session.
func (a *app) applyLine(ctx context.Context, sessionID, line string) (*service.TurnResult, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("cannot parse %q", line)
	}
	cell, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cell %q", fields[1])
	}

	switch fields[0] {
	case "move":
		if result, err := a.service.ChooseAction(ctx, sessionID, engine.ActionMove); err != nil || !result.Success {
			return result, err
		}
		return a.service.MovePawn(ctx, sessionID, cell)

	case "wall":
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("cannot parse %q", line)
		}
		dir, err := parseDirection(fields[2])
		if err != nil {
			return nil, err
		}
		ext := engine.ExtendAuto
		if len(fields) == 4 {
			if ext, err = parseExtension(dir, fields[3]); err != nil {
				return nil, err
			}
		}

		if result, err := a.service.ChooseAction(ctx, sessionID, engine.ActionWall); err != nil || !result.Success {
			return result, err
		}
		options, err := a.service.WallOptions(ctx, sessionID, cell)
		if err != nil {
			return nil, err
		}
		if options.Options[dir] == engine.WallBlocked {
			return nil, fmt.Errorf("no wall fits on the %s side of cell %d", dir, cell)
		}
		return a.service.PlaceWall(ctx, sessionID, cell, dir, ext)
	}
	return nil, fmt.Errorf("unknown action %q", fields[0])
}

func parseDirection(text string) (engine.Direction, error) {
	switch strings.ToLower(text) {
	case "up", "north", "n":
		return engine.North, nil
	case "right", "east", "e":
		return engine.East, nil
	case "down", "south", "s":
		return engine.South, nil
	case "left", "west", "w":
		return engine.West, nil
	}
	return 0, fmt.Errorf("unknown side %q", text)
}

func parseExtension(dir engine.Direction, text string) (engine.Extension, error) {
	names := engine.ExtensionNames(dir)
	switch text = strings.ToLower(text); text {
	case "first", names[0]:
		return engine.ExtendFirst, nil
	case "second", names[1]:
		return engine.ExtendSecond, nil
	}
	return 0, fmt.Errorf("extension %q does not fit a %s wall, use %s or %s", text, dir, names[0], names[1])
}

// describeEntry renders one history entry for the terminal.
func describeEntry(e engine.HistoryEntry, state *engine.GameState) string {
	team := ""
	if e.Team >= 0 && e.Team < len(state.Teams) {
		team = state.Teams[e.Team].Name
	}
	if e.Action == engine.ActionWall && e.Wall != nil {
		return fmt.Sprintf("%d. %s (%s) wall %s", e.Number, e.Player, team, e.Wall)
	}
	return fmt.Sprintf("%d. %s (%s) move %d -> %d", e.Number, e.Player, team, e.From, e.To)
}

// boardState adapts a state snapshot to engine.BoardView.
type boardState struct {
	*engine.Board
	pawns []int
}

func (b boardState) PawnPositions() []int { return b.pawns }

func stateView(state *engine.GameState) engine.BoardView {
	board := engine.NewBoard(state.Height, state.Width)
	for _, id := range state.DrawnEdges {
		board.Draw(id)
	}
	pawns := make([]int, len(state.Teams))
	for i, t := range state.Teams {
		pawns[i] = t.Pawn
	}
	return boardState{Board: board, pawns: pawns}
}
