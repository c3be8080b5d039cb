package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

var (
	// ErrConfigNotFound is shared with the service so callers can match it
	// through either package.
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// classicPreset is preferred as the default when present.
const classicPreset = "classic"

// Manager handles rule preset loading and caching
type Manager struct {
	configDir     string
	defaultName   string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	logger        *zap.Logger
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. A nil logger discards
// output.
func NewManager(configDir string, logger *zap.Logger) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
		logger:    logger,
	}
	m.loadDefaultConfig()
	return m, nil
}

// presetID strips an optional .json suffix so both forms share a cache slot.
func presetID(name string) string {
	return strings.TrimSuffix(name, ".json")
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.configDir, id+".json")
}

// LoadConfig loads a preset by name, with or without the .json suffix. The
// returned config is a copy the caller may modify.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id := presetID(name)

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config.Clone(), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config.Clone(), nil
	}

	if id == "" || strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, id)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, id, err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[id] = &config
	m.logger.Debug("preset loaded", zap.String("preset", id), zap.String("name", config.Name))
	return config.Clone(), nil
}

// ListConfigs returns information about every valid preset in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := presetID(entry.Name())
		config, err := m.LoadConfig(id)
		if err != nil {
			m.logger.Warn("skipping preset", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:       entry.Name(),
			ConfigID:       id, // This is the identifier to use for session creation
			Name:           config.Name,
			Description:    config.Description,
			Width:          config.Width,
			Height:         config.Height,
			Teams:          len(config.Teams),
			PlayersPerTeam: len(config.Teams[0].Players),
			WallsPerTeam:   config.WallsFor(),
		})
	}

	return configs, nil
}

// GetDefault returns a copy of the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig.Clone()
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = presetID(name)
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached preset and reloads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// loadDefaultConfig picks the default preset: the one chosen with SetDefault,
// then classic, then the first valid file, then the built-in classic board.
func (m *Manager) loadDefaultConfig() {
	m.mu.RLock()
	candidates := []string{m.defaultName, classicPreset}
	m.mu.RUnlock()

	var chosen string
	var config *engine.GameConfig
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if c, err := m.LoadConfig(name); err == nil {
			chosen, config = name, c
			break
		}
	}
	if config == nil {
		if configs, err := m.ListConfigs(); err == nil && len(configs) > 0 {
			if c, err := m.LoadConfig(configs[0].ConfigID); err == nil {
				chosen, config = configs[0].ConfigID, c
			}
		}
	}
	if config == nil {
		m.logger.Warn("no usable preset, using the built-in default", zap.String("dir", m.configDir))
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	if chosen != "" {
		m.defaultName = chosen
	}
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig validates a preset and writes it to the directory
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := presetID(name)
	if id == "" || strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("%w: invalid preset name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config.Clone()
	m.mu.Unlock()

	return nil
}

// Watch invalidates cached presets whenever their files change and calls
// onChange (if not nil) with the preset ID. It blocks until ctx is done or
// the watcher fails.
func (m *Manager) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(m.configDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.configDir, err)
	}
	m.logger.Info("watching presets", zap.String("dir", m.configDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") || event.Op == fsnotify.Chmod {
				continue
			}
			id := presetID(filepath.Base(event.Name))
			m.invalidate(id)
			m.logger.Info("preset changed", zap.String("preset", id), zap.String("op", event.Op.String()))
			if onChange != nil {
				onChange(id)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("preset watcher: %w", err)
		}
	}
}

// invalidate drops one preset from the cache and reloads the default when
// that preset was the default.
func (m *Manager) invalidate(id string) {
	m.mu.Lock()
	delete(m.configs, id)
	isDefault := id == m.defaultName
	m.mu.Unlock()

	if isDefault {
		m.loadDefaultConfig()
	}
}
