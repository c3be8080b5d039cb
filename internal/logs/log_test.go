package logs

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wricardo/quoridor/internal/settings"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q): expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, lvl := New("quoridor", settings.LogConfig{Level: "info"}, &buf)

	l.Debug("hidden")
	l.Info("game started", zap.String("config", "classic"))
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug entry to be filtered at info level")
	}
	if !strings.Contains(out, "game started") || !strings.Contains(out, "classic") {
		t.Errorf("Expected info entry with fields, got %q", out)
	}
	if !strings.Contains(out, "quoridor") {
		t.Errorf("Expected logger name in output, got %q", out)
	}

	lvl.SetLevel(zapcore.DebugLevel)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("Expected debug entry after lowering the level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quoridor.log")
	var console bytes.Buffer
	l, _ := New("quoridor", settings.LogConfig{Level: "debug", File: path, MaxSize: 0}, &console)

	l.Info("wall placed", zap.Int("cell", 13))
	if err := l.Sync(); err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Expected a JSON line, got %q: %v", line, err)
	}
	if entry["msg"] != "wall placed" || entry["level"] != "INFO" {
		t.Errorf("Unexpected entry %v", entry)
	}
	if entry["cell"] != float64(13) {
		t.Errorf("Expected cell 13, got %v", entry["cell"])
	}
	if strings.Contains(line, "\x1b[") {
		t.Error("Expected no colour codes in the file")
	}
	if !strings.Contains(console.String(), "wall placed") {
		t.Error("Expected the entry on the console too")
	}
}

func TestInitAndSetLevel(t *testing.T) {
	l := Init("quoridor-test", settings.LogConfig{Level: "error"})
	if L() != l {
		t.Error("Expected L to return the initialised logger")
	}
	if Level() != zapcore.ErrorLevel {
		t.Errorf("Expected error level, got %s", Level())
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("Failed to set level: %v", err)
	}
	if Level() != zapcore.DebugLevel {
		t.Errorf("Expected debug level, got %s", Level())
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}
