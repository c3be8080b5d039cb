// Package settings loads the application settings: where presets live, which
// one is the default and how logging behaves. Values come from defaults, an
// optional YAML/JSON/TOML file and QUORIDOR_* environment variables, in
// increasing order of precedence.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// QUORIDOR_LOG_LEVEL overrides log.level.
const EnvPrefix = "QUORIDOR"

type Settings struct {
	ConfigsDir    string        `mapstructure:"configs_dir"`
	DefaultPreset string        `mapstructure:"default_preset"`
	WatchPresets  bool          `mapstructure:"watch_presets"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	ShowStats     bool          `mapstructure:"show_stats"`
	FirstTeam     int           `mapstructure:"first_team"` // -1 draws at random
	MetricsFile   string        `mapstructure:"metrics_file"`
	Log           LogConfig     `mapstructure:"log"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
	Level      string `mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `mapstructure:"dev"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("configs_dir", "configs")
	v.SetDefault("default_preset", "classic")
	v.SetDefault("watch_presets", false)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("show_stats", false)
	v.SetDefault("first_team", -1)
	v.SetDefault("metrics_file", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.dev", false)
}

// Validate reports settings that cannot work.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.ConfigsDir) == "" {
		errs = append(errs, errors.New("configs_dir must not be empty"))
	}
	if s.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("session_ttl must not be negative, got %s", s.SessionTTL))
	}
	if s.FirstTeam < -1 {
		errs = append(errs, fmt.Errorf("first_team must be -1 or a team index, got %d", s.FirstTeam))
	}
	if s.Log.MaxSize < 0 || s.Log.MaxBackups < 0 || s.Log.MaxAge < 0 {
		errs = append(errs, errors.New("log rotation limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Loader owns the viper instance so the settings file can be watched after
// the first load.
type Loader struct {
	v       *viper.Viper
	path    string
	mu      sync.RWMutex
	current Settings
}

// Load reads settings from path (optional) and the environment.
func Load(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
		}
	}

	l := &Loader{v: v, path: path}
	s, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.current = s
	return l, nil
}

func (l *Loader) decode() (Settings, error) {
	var s Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := l.v.Unmarshal(&s, hook); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Settings returns the most recently loaded settings.
func (l *Loader) Settings() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch reloads the settings file whenever it changes and hands the result
// to onChange. Invalid edits keep the previous settings and are reported
// through err. Without a settings file there is nothing to watch.
func (l *Loader) Watch(onChange func(s Settings, err error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		s, err := l.decode()
		if err == nil {
			l.mu.Lock()
			l.current = s
			l.mu.Unlock()
		} else {
			s = l.Settings()
		}
		if onChange != nil {
			onChange(s, err)
		}
	})
	l.v.WatchConfig()
}
