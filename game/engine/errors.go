package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange marks a cell or edge index outside the board. It is only
	// ever raised through panic: the input collaborator bounds every value
	// before it reaches the board.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrIllegalWallPlacement is the parent of every rejected wall attempt.
	ErrIllegalWallPlacement = errors.New("illegal wall placement")
	ErrEdgeDrawn            = fmt.Errorf("%w: edge already drawn", ErrIllegalWallPlacement)
	ErrNoWallEdges          = fmt.Errorf("%w: cell has no free wall edges", ErrIllegalWallPlacement)
	ErrExtensionRequired    = fmt.Errorf("%w: both extensions free, direction required", ErrIllegalWallPlacement)
	ErrWallBlocksPath       = fmt.Errorf("%w: wall blocks a pawn from its goal", ErrIllegalWallPlacement)

	ErrIllegalMoveChoice = errors.New("illegal move choice")
	ErrNoWallsRemaining  = errors.New("no walls remaining")
	ErrWrongPhase        = errors.New("action not allowed in current phase")
	ErrGameOver          = errors.New("game is over")
	ErrInvalidCell       = errors.New("invalid cell")
)

// IsRetryable reports whether err is a user-facing rejection that should be
// answered by prompting the same player again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrIllegalWallPlacement) ||
		errors.Is(err, ErrIllegalMoveChoice) ||
		errors.Is(err, ErrNoWallsRemaining) ||
		errors.Is(err, ErrInvalidCell)
}
