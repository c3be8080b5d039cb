package engine

import (
	"errors"
	"fmt"
)

// Input supplies player choices. Every call blocks until the player answers
// and returns a value within the offered domain; domain legality is still
// checked by the engine.
type Input interface {
	// ChooseAction picks one of actions.
	ChooseAction(actions []Action) (Action, error)
	// ChooseCell returns a cell number in [0, max]. Zero means the player
	// wants to move the pawn instead of placing a wall.
	ChooseCell(max int) (int, error)
	// ChooseDirection returns an index into options.
	ChooseDirection(options []string) (int, error)
	// ChooseFromSet returns one member of set.
	ChooseFromSet(set []int) (int, error)
}

// Renderer presents the board and status texts. The engine never formats
// the board itself.
type Renderer interface {
	Render(view BoardView, highlight []int)
	Message(text string)
}

// Play runs a game to completion over the given collaborators and returns
// the winning team. Retryable rejections are reported through out and the
// player is asked again; any error from in aborts the game.
func Play(g Engine, in Input, out Renderer) (*Team, error) {
	out.Message(g.Config().Messages.WithDefaults().Welcome)
	out.Message(g.Message())

	for {
		if team, ok := g.Winner(); ok {
			out.Render(g.View(), nil)
			return team, nil
		}

		out.Render(g.View(), nil)
		if err := playTurn(g, in, out); err != nil {
			return nil, err
		}
	}
}

func playTurn(g Engine, in Input, out Renderer) error {
	player := g.CurrentPlayer()
	out.Message(fmt.Sprintf(g.Config().Messages.WithDefaults().Turn, player.Name, g.CurrentTeam().Name))

	actions := g.Actions()
	action := ActionMove
	if len(actions) > 1 {
		a, err := in.ChooseAction(actions)
		if err != nil {
			return err
		}
		action = a
	} else if len(g.LegalMoves()) == 0 {
		return g.Pass()
	} else {
		out.Message(fmt.Sprintf(g.Config().Messages.WithDefaults().OutOfWalls, player.Name))
	}

	for {
		if err := g.ChooseAction(action); err != nil {
			if IsRetryable(err) {
				report(g, out, err)
				action = ActionMove
				continue
			}
			return err
		}

		var err error
		if action == ActionMove {
			err = playMove(g, in, out)
		} else {
			err = playWall(g, in, out)
		}
		if errors.Is(err, errSwitchAction) {
			action = switchAction(action)
			continue
		}
		return err
	}
}

// errSwitchAction signals that the player abandoned the current action.
var errSwitchAction = errors.New("switch action")

func switchAction(a Action) Action {
	if a == ActionMove {
		return ActionWall
	}
	return ActionMove
}

func playMove(g Engine, in Input, out Renderer) error {
	for {
		moves := g.LegalMoves()
		if len(moves) == 0 {
			// Boxed in by pawns; the only way forward is a wall.
			return errSwitchAction
		}
		out.Render(g.View(), moves)
		dest, err := in.ChooseFromSet(moves)
		if err != nil {
			return err
		}
		if err := g.MovePawn(dest); err != nil {
			if IsRetryable(err) {
				report(g, out, err)
				continue
			}
			return err
		}
		out.Message(g.Message())
		return nil
	}
}

func playWall(g Engine, in Input, out Renderer) error {
	view := g.View()
	cells := view.Height() * view.Width()
	for {
		cell, err := in.ChooseCell(cells)
		if err != nil {
			return err
		}
		if cell == 0 {
			return errSwitchAction
		}

		opts, err := g.WallOptions(cell)
		if err != nil {
			if IsRetryable(err) {
				report(g, out, err)
				continue
			}
			return err
		}

		var sides []Direction
		var labels []string
		for _, d := range Directions {
			if opts[d] != WallBlocked {
				sides = append(sides, d)
				labels = append(labels, d.String())
			}
		}
		i, err := in.ChooseDirection(labels)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(sides) {
			return fmt.Errorf("%w: direction choice %d of %d", ErrOutOfRange, i, len(sides))
		}
		dir := sides[i]

		ext := ExtendAuto
		if opts[dir] == WallEither {
			names := ExtensionNames(dir)
			j, err := in.ChooseDirection(names[:])
			if err != nil {
				return err
			}
			if j < 0 || j > 1 {
				return fmt.Errorf("%w: extension choice %d", ErrOutOfRange, j)
			}
			ext = ExtendFirst + Extension(j)
		}

		if _, err := g.PlaceWall(cell, dir, ext); err != nil {
			if IsRetryable(err) {
				report(g, out, err)
				continue
			}
			return err
		}
		out.Message(g.Message())
		return nil
	}
}

// report tells the player why a choice was refused.
func report(g Engine, out Renderer, err error) {
	switch {
	case errors.Is(err, ErrWallBlocksPath), errors.Is(err, ErrNoWallsRemaining):
		out.Message(g.Message())
	default:
		out.Message(err.Error())
	}
}
