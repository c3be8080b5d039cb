package service

import (
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// TurnResult contains the result of a turn operation
type TurnResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`

	// Wall is set when a wall was placed.
	Wall *engine.Wall `json:"wall,omitempty"`
	// LastMove is the action this turn recorded, if any.
	LastMove *engine.HistoryEntry `json:"last_move,omitempty"`

	// What the next player may do
	Actions    []engine.Action `json:"actions,omitempty"`
	LegalMoves []int           `json:"legal_moves,omitempty"`
}

// WallOptionsResult lists the sides of a cell a wall can start from
type WallOptionsResult struct {
	Cell    int                  `json:"cell"`
	Options [4]engine.WallOption `json:"options"`
	Sides   []WallSide           `json:"sides"`
}

// WallSide describes one usable side of a cell and the extensions it allows
type WallSide struct {
	Direction  engine.Direction `json:"direction"`
	Name       string           `json:"name"`
	Option     string           `json:"option"`
	Extensions []string         `json:"extensions,omitempty"` // only when the player must choose
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "turn", "move", "wall", "wall_rejected", "win", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Player    string    `json:"player,omitempty"`
	Team      int       `json:"team"`
	Cell      int       `json:"cell,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.HistoryEntry `json:"moves"`
	TotalMoves  int                   `json:"total_moves"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	TotalPages  int                   `json:"total_pages"`
	HasNext     bool                  `json:"has_next"`
	HasPrevious bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Teams          int    `json:"teams"`
	PlayersPerTeam int    `json:"players_per_team"`
	WallsPerTeam   int    `json:"walls_per_team"`
}
