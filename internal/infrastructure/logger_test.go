package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fuelcli/internal/config"
)

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Log output is not valid JSON: %v (%s)", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	logger.Info("test message", "key", "value")
	CloseLogFile()

	entries := readLogLines(t, logFile)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0]["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", entries[0]["msg"])
	}
	if entries[0]["key"] != "value" {
		t.Errorf("Expected key='value', got %v", entries[0]["key"])
	}
	if entries[0]["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", entries[0]["level"])
	}
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	_, err := InitializeLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "run-123")
	GetLogger().InfoContext(ctx, "through handler")
	LoggerWithContext(ctx).Info("through attrs")
	GetLogger().Info("no context")
	CloseLogFile()

	entries := readLogLines(t, logFile)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 log entries, got %d", len(entries))
	}
	for _, entry := range entries[:2] {
		if entry["trace_id"] != "run-123" {
			t.Errorf("Expected trace_id='run-123' on %v, got %v", entry["msg"], entry["trace_id"])
		}
	}
	if _, ok := entries[2]["trace_id"]; ok {
		t.Errorf("Unexpected trace_id on record without context")
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level       string
		wantEntries int
	}{
		{"debug", 4},
		{"info", 3},
		{"warn", 2},
		{"error", 1},
		{"bogus", 3},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			ResetLoggerForTesting()
			defer ResetLoggerForTesting()

			logFile := filepath.Join(t.TempDir(), "test.log")
			logger, err := InitializeLogger(config.LoggingConfig{
				Level:    tt.level,
				Format:   "json",
				Output:   "file",
				FilePath: logFile,
			})
			if err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")
			CloseLogFile()

			if got := len(readLogLines(t, logFile)); got != tt.wantEntries {
				t.Errorf("level %s: expected %d entries, got %d", tt.level, tt.wantEntries, got)
			}
		})
	}
}

func TestConsoleOutputTextFormat(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var buf bytes.Buffer
	prev := stdoutOut
	stdoutOut = &buf
	defer func() { stdoutOut = prev }()

	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "console"})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	WithComponent(logger, "normalizer").Info("records normalized", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "component=normalizer") || !strings.Contains(out, "count=3") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestFileOutputRequiresPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	if _, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file"}); err == nil {
		t.Fatal("expected an error for file output without a path")
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	if id == "" {
		t.Fatal("expected a generated trace id")
	}
	if again := GetTraceID(EnsureTraceID(ctx)); again != id {
		t.Errorf("EnsureTraceID replaced an existing id: %s != %s", again, id)
	}
}
