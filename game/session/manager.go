package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// idLength is how many characters of a generated uuid make up a session ID.
const idLength = 8

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new session manager. A nil logger discards output.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*service.Session),
		logger:   logger,
	}
}

// Create creates a new session with the given ID and configuration. An empty
// ID gets a generated one. Options are passed through to the game engine.
func (m *Manager) Create(id string, config *engine.GameConfig, opts ...engine.Option) (*service.Session, error) {
	id = strings.TrimSpace(id)
	if strings.ContainsAny(id, " /\\") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	game, err := engine.NewGame(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:        id,
		Engine:    game,
		Config:    game.Config(),
		CreatedAt: now,
	}
	session.Touch(now)
	m.sessions[strings.ToLower(id)] = session

	m.logger.Debug("session stored", zap.String("session", id), zap.Int("count", len(m.sessions)))
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.Touch(time.Now())
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration and returns their IDs.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for key, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			delete(m.sessions, key)
			removed = append(removed, session.ID)
		}
	}

	if len(removed) > 0 {
		m.logger.Info("expired sessions removed", zap.Int("removed", len(removed)), zap.Duration("max_age", maxAge))
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns an unused ID cut from a random uuid. Callers hold
// the write lock.
func (m *Manager) generateSessionID() string {
	for {
		id := uuid.NewString()[:idLength]
		if !m.sessionExists(id) {
			return id
		}
	}
}

func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
