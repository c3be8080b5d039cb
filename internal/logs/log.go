// Package logs builds the process-wide zap logger: coloured console output on
// stderr and, when a file is configured, JSON lines rotated by lumberjack.
package logs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wricardo/quoridor/internal/settings"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// parseLevel accepts debug/info/warn/error/... in any case and falls back to
// info.
func parseLevel(text string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(text))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds a logger writing to console (and cfg.File when set) without
// touching the global one.
func New(appName string, cfg settings.LogConfig, console io.Writer) (*zap.Logger, zap.AtomicLevel) {
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// Colours only on the console so the file stays free of escape codes.
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(console)), atomicLevel)

	core := consoleCore
	if cfg.File != "" {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize), // MB, at least 1
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	return zap.New(core, opts...).Named(appName), atomicLevel
}

// Init replaces the global logger. The previous one is flushed first.
func Init(appName string, cfg settings.LogConfig) *zap.Logger {
	l, lvl := New(appName, cfg, os.Stderr)

	mu.Lock()
	_ = logger.Sync()
	logger = l
	level = lvl
	mu.Unlock()
	return l
}

// L returns the global logger, a no-op one before Init.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel changes the level of the global logger in place.
func SetLevel(text string) error {
	lvl, err := zapcore.ParseLevel(text)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", text, err)
	}
	mu.RLock()
	level.SetLevel(lvl)
	mu.RUnlock()
	return nil
}

// Level reports the level of the global logger.
func Level() zapcore.Level {
	mu.RLock()
	defer mu.RUnlock()
	return level.Level()
}

// Sync flushes the global logger.
func Sync() error {
	return L().Sync()
}
