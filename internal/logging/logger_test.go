package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"

	logger, err := newLogger(cfg, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("scored", zap.Float64("score", 0.74))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "scored" || entry["score"] != 0.74 || entry["logger"] != "agit" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(DefaultConfig(), zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Warn("ghost commit")

	if !strings.Contains(buf.String(), "ghost commit") {
		t.Fatalf("message missing from console output: %q", buf.String())
	}
}

func TestNewLoggerRejectsBadConfig(t *testing.T) {
	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.Level = "loud"
	if _, err := newLogger(cfg, zapcore.AddSync(&buf)); err == nil {
		t.Fatal("expected error for unknown level")
	}

	cfg = DefaultConfig()
	cfg.Format = "xml"
	if _, err := newLogger(cfg, zapcore.AddSync(&buf)); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewLoggerFileSink(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.File = filepath.Join(t.TempDir(), "agit.log")

	logger, err := newLogger(cfg, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("committed", zap.String("message", "feat: update a.go"))
	logger.Sync()

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"committed"`) {
		t.Fatalf("file sink missing entry: %q", data)
	}
}

func TestNop(t *testing.T) {
	Nop().Info("discarded")
}
