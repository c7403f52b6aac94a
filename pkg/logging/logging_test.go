package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"Debug":   LevelDebug,
		" Error ": LevelError,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}

	for input, expected := range tests {
		if got := ParseLevel(input); got != expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestInitForCLI(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelInfo, &buf)

	if Logger() == nil {
		t.Fatal("Expected logger to be set after InitForCLI")
	}

	Info("test-subsystem", "test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("Expected log message to appear in CLI output")
	}

	if !strings.Contains(output, "test-subsystem") {
		t.Error("Expected subsystem to appear in CLI output")
	}
}

func TestCLILevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelInfo, &buf)

	Debug("test", "debug message")
	Info("test", "info message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should be filtered out at INFO level")
	}

	if !strings.Contains(output, "info message") {
		t.Error("Info message should appear at INFO level")
	}
}

func TestErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelDebug, &buf)

	Error("Pega", errors.New("connection refused"), "Failed to list case types for %s", "MyApp")

	output := buf.String()
	if !strings.Contains(output, "Failed to list case types for MyApp") {
		t.Errorf("Expected formatted message, got: %s", output)
	}
	if !strings.Contains(output, "connection refused") {
		t.Errorf("Expected error attribute, got: %s", output)
	}
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelInfo, &buf)

	Audit(AuditEvent{
		Action:  "token_acquire",
		Outcome: "failure",
		Target:  "https://pega.example.com/prweb/PRRestService/oauth2/v1/token",
		Error:   "HTTP 401",
	})

	output := buf.String()
	for _, want := range []string{"[AUDIT] token_acquire", "outcome=failure", "HTTP 401", "subsystem=Audit"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected audit output to contain %q, got: %s", want, output)
		}
	}
}

func TestFallbackBeforeInit(t *testing.T) {
	mu.Lock()
	saved, savedOutput := defaultLogger, fallbackOutput
	defaultLogger = nil
	var buf bytes.Buffer
	fallbackOutput = &buf
	mu.Unlock()
	defer func() {
		mu.Lock()
		defaultLogger, fallbackOutput = saved, savedOutput
		mu.Unlock()
	}()

	Info("Auth", "info before init")
	Warn("Auth", "token for %s expires soon", "client-1")
	Error("Pega", errors.New("connection refused"), "Failed to list case types")

	output := buf.String()
	if strings.Contains(output, "info before init") {
		t.Error("Info should be dropped before initialization")
	}
	if !strings.Contains(output, "WARN [Auth] token for client-1 expires soon") {
		t.Errorf("Expected warning line, got: %s", output)
	}
	if !strings.Contains(output, "ERROR [Pega] Failed to list case types: connection refused") {
		t.Errorf("Expected error line with cause, got: %s", output)
	}
	if strings.Contains(output, "LOGGING_ERROR") || strings.Contains(output, "not initialized") {
		t.Errorf("Fallback lines should read like ordinary log lines, got: %s", output)
	}
}
