package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

// MockSessionManager implements service.SessionManager for testing. Every
// game it creates lets the first team start.
type MockSessionManager struct {
	sessions map[string]*service.Session
	mu       sync.Mutex
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, opts ...engine.Option) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, errors.New("session already exists")
	}

	game, err := engine.NewGame(config, append(opts, engine.WithFirstTeam(0))...)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:        id,
		Engine:    game,
		Config:    config,
		CreatedAt: time.Now(),
	}
	session.Touch(time.Now())
	m.sessions[strings.ToLower(id)] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[strings.ToLower(id)]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, strings.ToLower(id))
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists := m.sessions[strings.ToLower(id)]; exists {
		session.Touch(time.Now())
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) CleanupExpiredSessions(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for key, session := range m.sessions {
		if time.Since(session.LastAccessed()) > maxAge {
			delete(m.sessions, key)
			removed = append(removed, session.ID)
		}
	}
	return removed
}

func (m *MockSessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test": createTestConfig(),
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func createTestConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Width:       5,
		Height:      5,
		Teams: []engine.TeamConfig{
			{Name: "Red", Players: []string{"alice"}},
			{Name: "Green", Players: []string{"bob"}},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if config, exists := m.configs[name]; exists {
		return config.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, name)
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	for id, c := range m.configs {
		configs = append(configs, &service.ConfigInfo{
			Filename: id + ".json",
			ConfigID: id,
			Name:     c.Name,
			Width:    c.Width,
			Height:   c.Height,
			Teams:    len(c.Teams),
		})
	}
	return configs, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return createTestConfig()
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

func newTestService() (service.GameService, *MockSessionManager, *service.Metrics) {
	sessions := NewMockSessionManager()
	metrics := service.NewMetrics(prometheus.NewRegistry())
	return service.NewGameService(sessions, NewMockConfigManager(), nil, metrics), sessions, metrics
}

func hasEvent(events []service.GameEvent, kind string) bool {
	for _, e := range events {
		if e.Type == kind {
			return true
		}
	}
	return false
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _, metrics := newTestService()
	ctx := context.Background()

	t.Run("create with default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID to be set")
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected config ID 'test', got '%s'", info.ConfigName)
		}
		if info.GameState.CurrentPlayer != "alice" {
			t.Errorf("Expected alice to start, got %s", info.GameState.CurrentPlayer)
		}
	})

	t.Run("create with named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.GameConfig.Width != 5 {
			t.Errorf("Expected width 5, got %d", info.GameConfig.Width)
		}
	})

	t.Run("create with unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "missing")
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Fatalf("Expected ErrConfigNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected available configs in error, got %q", err.Error())
		}
	})

	if got := testutil.ToFloat64(metrics.GamesStarted); got != 2 {
		t.Errorf("Expected 2 games started, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 2 {
		t.Errorf("Expected 2 active sessions, got %v", got)
	}
}

func TestGameService_MovePawn(t *testing.T) {
	svc, _, metrics := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "test")

	t.Run("move before choosing an action", func(t *testing.T) {
		_, err := svc.MovePawn(ctx, info.ID, 18)
		if !errors.Is(err, engine.ErrWrongPhase) {
			t.Errorf("Expected ErrWrongPhase, got %v", err)
		}
	})

	t.Run("choose move lists legal moves", func(t *testing.T) {
		result, err := svc.ChooseAction(ctx, info.ID, engine.ActionMove)
		if err != nil {
			t.Fatalf("Failed to choose action: %v", err)
		}
		if !result.Success {
			t.Error("Expected success")
		}
		want := []int{18, 22, 24}
		if fmt.Sprint(result.LegalMoves) != fmt.Sprint(want) {
			t.Errorf("Expected legal moves %v, got %v", want, result.LegalMoves)
		}
	})

	t.Run("illegal destination is retryable", func(t *testing.T) {
		result, err := svc.MovePawn(ctx, info.ID, 13)
		if err != nil {
			t.Fatalf("Expected retryable rejection, got error %v", err)
		}
		if result.Success {
			t.Error("Expected unsuccessful result")
		}
		if !strings.Contains(result.Message, "illegal move choice") {
			t.Errorf("Expected illegal move message, got %q", result.Message)
		}
		if result.LastMove != nil {
			t.Errorf("Expected no recorded move, got %+v", result.LastMove)
		}
	})

	t.Run("legal move", func(t *testing.T) {
		result, err := svc.MovePawn(ctx, info.ID, 18)
		if err != nil {
			t.Fatalf("Failed to move: %v", err)
		}
		if !result.Success {
			t.Fatal("Expected success")
		}
		if result.Message != "Your pawn has successfully moved to tile: 18" {
			t.Errorf("Unexpected message %q", result.Message)
		}
		if !hasEvent(result.Events, "move") || !hasEvent(result.Events, "turn") {
			t.Errorf("Expected move and turn events, got %+v", result.Events)
		}
		if result.GameState.CurrentPlayer != "bob" {
			t.Errorf("Expected bob's turn, got %s", result.GameState.CurrentPlayer)
		}
		if result.GameState.Teams[0].Pawn != 18 {
			t.Errorf("Expected Red pawn on 18, got %d", result.GameState.Teams[0].Pawn)
		}
		if last := result.LastMove; last == nil || last.Action != engine.ActionMove || last.From != 23 || last.To != 18 {
			t.Errorf("Expected last move 23 -> 18, got %+v", result.LastMove)
		}
	})

	if got := testutil.ToFloat64(metrics.Actions.WithLabelValues("move")); got != 1 {
		t.Errorf("Expected 1 move counted, got %v", got)
	}

	t.Run("unknown session", func(t *testing.T) {
		if _, err := svc.MovePawn(ctx, "nope", 18); err == nil {
			t.Error("Expected error for unknown session")
		}
	})
}

func TestGameService_Walls(t *testing.T) {
	svc, sessions, metrics := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "test")
	sess, _ := sessions.Get(info.ID)

	if _, err := svc.ChooseAction(ctx, info.ID, engine.ActionWall); err != nil {
		t.Fatalf("Failed to choose wall: %v", err)
	}

	options, err := svc.WallOptions(ctx, info.ID, 13)
	if err != nil {
		t.Fatalf("Failed to get wall options: %v", err)
	}
	if len(options.Sides) != 4 {
		t.Fatalf("Expected 4 sides for the center cell, got %d", len(options.Sides))
	}
	for _, side := range options.Sides {
		if len(side.Extensions) != 2 {
			t.Errorf("Expected two extensions on %s, got %v", side.Name, side.Extensions)
		}
	}

	if _, err := svc.WallOptions(ctx, info.ID, 99); !errors.Is(err, engine.ErrInvalidCell) {
		t.Errorf("Expected ErrInvalidCell, got %v", err)
	}

	// Leave bob's start cell open only to the south, then try to close it.
	b := sess.Engine.Board()
	b.Draw(b.Edge(0, 2, engine.West))
	b.Draw(b.Edge(0, 2, engine.East))

	result, err := svc.PlaceWall(ctx, info.ID, 3, engine.South, engine.ExtendFirst)
	if err != nil {
		t.Fatalf("Expected retryable rejection, got error %v", err)
	}
	if result.Success {
		t.Error("Expected blocking wall to be refused")
	}
	if result.Message != engine.DefaultMessages().WallBlocked {
		t.Errorf("Expected blocked message, got %q", result.Message)
	}
	if !hasEvent(result.Events, "wall_rejected") {
		t.Errorf("Expected wall_rejected event, got %+v", result.Events)
	}
	if result.GameState.Teams[0].WallsRemaining != 10 {
		t.Errorf("Expected no wall consumed, got %d left", result.GameState.Teams[0].WallsRemaining)
	}

	result, err = svc.PlaceWall(ctx, info.ID, 13, engine.West, engine.ExtendFirst)
	if err != nil {
		t.Fatalf("Failed to place wall: %v", err)
	}
	if !result.Success || result.Wall == nil {
		t.Fatalf("Expected placed wall, got %+v", result)
	}
	if result.GameState.Teams[0].WallsRemaining != 9 {
		t.Errorf("Expected 9 walls left, got %d", result.GameState.Teams[0].WallsRemaining)
	}

	if got := testutil.ToFloat64(metrics.WallsRejected); got != 1 {
		t.Errorf("Expected 1 rejected wall, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.Actions.WithLabelValues("wall")); got != 1 {
		t.Errorf("Expected 1 wall counted, got %v", got)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "test")
	for _, dest := range []int{18, 4, 13, 5} {
		if _, err := svc.ChooseAction(ctx, info.ID, engine.ActionMove); err != nil {
			t.Fatalf("Failed to choose move: %v", err)
		}
		if result, err := svc.MovePawn(ctx, info.ID, dest); err != nil || !result.Success {
			t.Fatalf("Failed to move to %d: %v", dest, err)
		}
	}

	t.Run("default order is newest first", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("Failed to get history: %v", err)
		}
		if history.TotalMoves != 4 {
			t.Errorf("Expected 4 moves, got %d", history.TotalMoves)
		}
		if history.Moves[0].To != 5 || history.Moves[0].Player != "bob" {
			t.Errorf("Expected bob's move to 5 first, got %+v", history.Moves[0])
		}
	})

	t.Run("ascending pages", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 3, Order: "asc"})
		if err != nil {
			t.Fatalf("Failed to get history: %v", err)
		}
		if len(history.Moves) != 1 || history.Moves[0].Number != 4 {
			t.Errorf("Expected only move 4 on page 2, got %+v", history.Moves)
		}
		if history.TotalPages != 2 || history.HasNext || !history.HasPrevious {
			t.Errorf("Unexpected pagination %+v", history)
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 5, Limit: 10})
		if err != nil {
			t.Fatalf("Failed to get history: %v", err)
		}
		if len(history.Moves) != 0 {
			t.Errorf("Expected no moves, got %d", len(history.Moves))
		}
	})
}

func TestGameService_DeleteSession(t *testing.T) {
	svc, sessions, metrics := newTestService()
	ctx := context.Background()

	first, _ := svc.CreateSession(ctx, "test")
	svc.CreateSession(ctx, "test")

	if err := svc.DeleteSession(ctx, strings.ToUpper(first.ID)); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := svc.GetSession(ctx, first.ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 stored session, got %d", sessions.Count())
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 1 {
		t.Errorf("Expected 1 active session, got %v", got)
	}

	if err := svc.DeleteSession(ctx, first.ID); err == nil {
		t.Error("Expected error deleting a session twice")
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 1 {
		t.Errorf("Expected failed delete to leave the gauge at 1, got %v", got)
	}
}

func TestGameService_CleanupExpiredSessions(t *testing.T) {
	svc, sessions, metrics := newTestService()
	ctx := context.Background()

	svc.CreateSession(ctx, "test")
	svc.CreateSession(ctx, "test")
	time.Sleep(50 * time.Millisecond)
	kept, _ := svc.CreateSession(ctx, "test")

	removed, err := svc.CleanupExpiredSessions(ctx, 25*time.Millisecond)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 sessions removed, got %d", removed)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 stored session, got %d", sessions.Count())
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 1 {
		t.Errorf("Expected gauge to follow cleanup down to 1, got %v", got)
	}
	if _, err := svc.GetSession(ctx, kept.ID); err != nil {
		t.Errorf("Expected recent session to survive, got %v", err)
	}

	removed, _ = svc.CleanupExpiredSessions(ctx, time.Hour)
	if removed != 0 {
		t.Errorf("Expected nothing removed, got %d", removed)
	}
}

func TestGameService_Reset(t *testing.T) {
	svc, _, metrics := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "test")
	svc.ChooseAction(ctx, info.ID, engine.ActionMove)
	svc.MovePawn(ctx, info.ID, 18)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	if state.TotalMoves != 0 {
		t.Errorf("Expected 0 moves after reset, got %d", state.TotalMoves)
	}
	if state.Teams[0].Pawn != 23 {
		t.Errorf("Expected Red pawn back on 23, got %d", state.Teams[0].Pawn)
	}

	history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
	if history.TotalMoves != 0 {
		t.Errorf("Expected empty history after reset, got %d", history.TotalMoves)
	}
	if got := testutil.ToFloat64(metrics.GamesStarted); got != 2 {
		t.Errorf("Expected reset to count as a started game, got %v", got)
	}
}

// scriptedInput always moves and picks destinations from a fixed list.
type scriptedInput struct {
	moves []int
}

func (s *scriptedInput) ChooseAction(actions []engine.Action) (engine.Action, error) {
	return engine.ActionMove, nil
}

func (s *scriptedInput) ChooseCell(max int) (int, error) { return 0, io.EOF }

func (s *scriptedInput) ChooseDirection(options []string) (int, error) { return 0, io.EOF }

func (s *scriptedInput) ChooseFromSet(set []int) (int, error) {
	if len(s.moves) == 0 {
		return 0, io.EOF
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, nil
}

type discardRenderer struct {
	messages []string
}

func (r *discardRenderer) Render(view engine.BoardView, highlight []int) {}

func (r *discardRenderer) Message(text string) { r.messages = append(r.messages, text) }

func TestGameService_Play(t *testing.T) {
	svc, _, metrics := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "test")
	out := &discardRenderer{}
	winner, err := svc.Play(ctx, info.ID, &scriptedInput{moves: []int{18, 4, 13, 5, 8, 4, 3}}, out)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if winner.Name != "Red" {
		t.Errorf("Expected Red to win, got %s", winner.Name)
	}
	if got := testutil.ToFloat64(metrics.GamesWon.WithLabelValues("Red")); got != 1 {
		t.Errorf("Expected 1 win for Red, got %v", got)
	}

	state, _ := svc.GetGameState(ctx, info.ID)
	if state.Winner != 0 || state.Phase != "terminal" {
		t.Errorf("Expected terminal state won by team 0, got %+v", state)
	}

	t.Run("aborted input", func(t *testing.T) {
		other, _ := svc.CreateSession(ctx, "test")
		_, err := svc.Play(ctx, other.ID, &scriptedInput{}, &discardRenderer{})
		if !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := svc.Play(cancelled, info.ID, &scriptedInput{}, out); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestGameService_SaveConfig(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.SaveConfig(ctx, "custom", createTestConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	bad := createTestConfig()
	bad.Width = 1
	if err := svc.SaveConfig(ctx, "bad", bad); err == nil {
		t.Error("Expected invalid config to be refused")
	}
}

func TestGameService_ConcurrentAccess(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			if _, err := svc.GetGameState(ctx, info.ID); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{}); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.GetSession(ctx, info.ID); err != nil {
				errs <- err
			}
		}()
	}

	result, err := svc.ChooseAction(ctx, info.ID, engine.ActionMove)
	if err != nil || !result.Success {
		t.Errorf("Expected ChooseAction to succeed, got %v", err)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Concurrent call failed: %v", err)
	}
}
