package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CleanupExpiredSessions(ctx context.Context, maxAge time.Duration) (int, error)

	// Turn Operations
	ChooseAction(ctx context.Context, sessionID string, action engine.Action) (*TurnResult, error)
	MovePawn(ctx context.Context, sessionID string, dest int) (*TurnResult, error)
	WallOptions(ctx context.Context, sessionID string, cell int) (*WallOptionsResult, error)
	PlaceWall(ctx context.Context, sessionID string, cell int, dir engine.Direction, ext engine.Extension) (*TurnResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Play drives a session to completion through interactive collaborators.
	Play(ctx context.Context, sessionID string, in engine.Input, out engine.Renderer) (*engine.Team, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) []string
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID        string
	Engine    *engine.Game
	Config    *engine.GameConfig
	CreatedAt time.Time

	// mu serialises every call into Engine.
	mu sync.Mutex

	// accessMu guards lastAccessed, which is touched while mu may be held
	// by a running Play.
	accessMu     sync.Mutex
	lastAccessed time.Time
}

// Touch records an access at the given time.
func (s *Session) Touch(at time.Time) {
	s.accessMu.Lock()
	s.lastAccessed = at
	s.accessMu.Unlock()
}

// LastAccessed returns the time of the latest Touch.
func (s *Session) LastAccessed() time.Time {
	s.accessMu.Lock()
	defer s.accessMu.Unlock()
	return s.lastAccessed
}
