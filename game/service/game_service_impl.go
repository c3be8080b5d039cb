package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/quoridor/game/engine"
)

var ErrConfigNotFound = errors.New("configuration not found")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	metrics  *Metrics
	options  []engine.Option

	// events holds the engine events of each session created here.
	events map[string]*eventLog
	mu     sync.RWMutex
}

// eventLog buffers engine events between two service calls. It is only
// touched while the owning session is locked.
type eventLog struct {
	events []engine.Event
}

func (l *eventLog) add(e engine.Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) drain() []engine.Event {
	if l == nil {
		return nil
	}
	events := l.events
	l.events = nil
	return events
}

// NewGameService creates a new game service instance. A nil logger discards
// output and nil metrics are replaced by an unregistered set. Engine options
// apply to every session the service creates.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger, metrics *Metrics, opts ...engine.Option) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
		metrics:  metrics,
		options:  opts,
		events:   make(map[string]*eventLog),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	log := &eventLog{}
	teams := config.Clone().Teams
	observer := func(e engine.Event) {
		name := ""
		if e.Team >= 0 && e.Team < len(teams) {
			name = teams[e.Team].Name
		}
		s.metrics.observe(e, name)
		log.add(e)
	}

	opts := append([]engine.Option{
		engine.WithObserver(observer),
		engine.WithLogger(s.logger.Named("engine")),
	}, s.options...)
	sess, err := s.sessions.Create("", config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.mu.Lock()
	s.events[sess.ID] = log
	s.mu.Unlock()
	s.metrics.GamesStarted.Inc()
	s.metrics.ActiveSessions.Inc()

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("config", configID),
		zap.String("first_player", sess.Engine.CurrentPlayer().Name))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}, nil
}

// DeleteSession removes a session. The ID is resolved first so the event
// log is dropped under the session's own ID whatever case the caller used.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(sess.ID); err != nil {
		return err
	}
	s.forget(sess.ID)
	s.logger.Info("session deleted", zap.String("session", sess.ID))
	return nil
}

// CleanupExpiredSessions removes sessions idle for longer than maxAge and
// returns how many were removed.
func (s *gameServiceImpl) CleanupExpiredSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed := s.sessions.CleanupExpiredSessions(maxAge)
	for _, id := range removed {
		s.forget(id)
	}
	if len(removed) > 0 {
		s.logger.Info("expired sessions cleaned up", zap.Strings("sessions", removed))
	}
	return len(removed), nil
}

// forget drops the bookkeeping of a session that left the manager.
func (s *gameServiceImpl) forget(sessionID string) {
	s.mu.Lock()
	delete(s.events, sessionID)
	s.mu.Unlock()
	s.metrics.ActiveSessions.Dec()
}

// session looks a session up and marks it accessed.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.logger.Debug("session access not recorded", zap.String("session", sess.ID), zap.Error(err))
	}
	return sess, nil
}

// ChooseAction selects move or wall for the current player
func (s *gameServiceImpl) ChooseAction(ctx context.Context, sessionID string, action engine.Action) (*TurnResult, error) {
	return s.turn(sessionID, func(g *engine.Game) (*engine.Wall, error) {
		return nil, g.ChooseAction(action)
	})
}

// MovePawn moves the current player's pawn
func (s *gameServiceImpl) MovePawn(ctx context.Context, sessionID string, dest int) (*TurnResult, error) {
	return s.turn(sessionID, func(g *engine.Game) (*engine.Wall, error) {
		return nil, g.MovePawn(dest)
	})
}

// PlaceWall places a wall for the current player
func (s *gameServiceImpl) PlaceWall(ctx context.Context, sessionID string, cell int, dir engine.Direction, ext engine.Extension) (*TurnResult, error) {
	return s.turn(sessionID, func(g *engine.Game) (*engine.Wall, error) {
		w, err := g.PlaceWall(cell, dir, ext)
		if err != nil {
			return nil, err
		}
		return &w, nil
	})
}

// turn runs one engine operation under the session lock. Retryable
// rejections are reported as an unsuccessful result, everything else as an
// error.
func (s *gameServiceImpl) turn(sessionID string, op func(*engine.Game) (*engine.Wall, error)) (*TurnResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	log := s.eventLog(sess.ID)
	log.drain()
	prev := sess.Engine.LastMove()
	wall, err := op(sess.Engine)
	if err != nil && !engine.IsRetryable(err) {
		return nil, err
	}

	result := &TurnResult{
		Success:   err == nil,
		GameState: sess.Engine.State(),
		Message:   sess.Engine.Message(),
		Events:    toGameEvents(log.drain()),
		Wall:      wall,
		Actions:   sess.Engine.Actions(),
	}
	if last := sess.Engine.LastMove(); last != nil && (prev == nil || last.Number != prev.Number) {
		result.LastMove = last
	}
	if err != nil {
		s.logger.Debug("turn rejected",
			zap.String("session", sess.ID),
			zap.String("player", sess.Engine.CurrentPlayer().Name),
			zap.Error(err))
		result.Message = err.Error()
		if errors.Is(err, engine.ErrWallBlocksPath) || errors.Is(err, engine.ErrNoWallsRemaining) {
			result.Message = sess.Engine.Message()
		}
	}
	if sess.Engine.Phase() == engine.PhaseAwaitMove {
		result.LegalMoves = sess.Engine.LegalMoves()
	}
	return result, nil
}

func (s *gameServiceImpl) eventLog(sessionID string) *eventLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events[sessionID]
}

// toGameEvents converts engine events for the API.
func toGameEvents(raised []engine.Event) []GameEvent {
	if len(raised) == 0 {
		return nil
	}
	now := time.Now()
	events := make([]GameEvent, 0, len(raised))
	for _, e := range raised {
		events = append(events, GameEvent{
			Type:      string(e.Kind),
			Message:   eventMessage(e),
			Timestamp: now,
			Player:    e.Player,
			Team:      e.Team,
			Cell:      e.To,
		})
	}
	return events
}

func eventMessage(e engine.Event) string {
	switch e.Kind {
	case engine.EventMove:
		return fmt.Sprintf("%s moved from %d to %d", e.Player, e.From, e.To)
	case engine.EventWall:
		return fmt.Sprintf("%s placed a wall %s", e.Player, e.Wall)
	case engine.EventWallRejected:
		return fmt.Sprintf("%s tried a wall that blocks a path", e.Player)
	case engine.EventWin:
		return fmt.Sprintf("%s reached the goal", e.Player)
	case engine.EventTurn:
		return fmt.Sprintf("%s to play", e.Player)
	case engine.EventReset:
		return "Game reset to initial state"
	}
	return string(e.Kind)
}

// WallOptions describes where a wall can start on a cell
func (s *gameServiceImpl) WallOptions(ctx context.Context, sessionID string, cell int) (*WallOptionsResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	opts, err := sess.Engine.WallOptions(cell)
	if err != nil {
		return nil, err
	}

	result := &WallOptionsResult{Cell: cell, Options: opts}
	for _, d := range engine.Directions {
		if opts[d] == engine.WallBlocked {
			continue
		}
		side := WallSide{Direction: d, Name: d.String(), Option: opts[d].String()}
		if opts[d] == engine.WallEither {
			names := engine.ExtensionNames(d)
			side.Extensions = names[:]
		}
		result.Sides = append(result.Sides, side)
	}
	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Engine.Reset()
	s.eventLog(sess.ID).drain()
	s.logger.Info("session reset", zap.String("session", sess.ID))
	return sess.Engine.State(), nil
}

// Play runs the session's game to the end over the given collaborators.
// The session stays locked for the whole game.
func (s *gameServiceImpl) Play(ctx context.Context, sessionID string, in engine.Input, out engine.Renderer) (*engine.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := time.Now()
	winner, err := engine.Play(sess.Engine, in, out)
	s.eventLog(sess.ID).drain()
	if err != nil {
		s.logger.Warn("play aborted", zap.String("session", sess.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("game finished",
		zap.String("session", sess.ID),
		zap.String("winner", winner.Name),
		zap.Int("moves", len(sess.Engine.History())),
		zap.Duration("duration", time.Since(start)))
	return winner, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Engine.State(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	sess.mu.Lock()
	history := sess.Engine.History()
	sess.mu.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.HistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.HistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}
