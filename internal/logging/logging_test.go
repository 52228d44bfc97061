package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected LogLevel
	}{
		{"Debug", "debug", LevelDebug},
		{"Info", "info", LevelInfo},
		{"Warn", "warn", LevelWarn},
		{"Warning alias", "warning", LevelWarn},
		{"Error", "error", LevelError},
		{"Case insensitive", "DEBUG", LevelDebug},
		{"Surrounding spaces", "  error ", LevelError},
		{"Empty defaults to info", "", LevelInfo},
		{"Unknown defaults to info", "verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.value); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "error")
	if got := levelFromEnv(); got != LevelDebug {
		t.Errorf("DEBUG=true should win, got %v", got)
	}

	t.Setenv("DEBUG", "")
	if got := levelFromEnv(); got != LevelError {
		t.Errorf("LOG_LEVEL=error, got %v", got)
	}
}

func TestSetLevel(t *testing.T) {
	original := GetLevel()
	defer SetLevel(original)

	SetLevel(LevelWarn)
	if GetLevel() != LevelWarn {
		t.Errorf("GetLevel() = %v after SetLevel(LevelWarn)", GetLevel())
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at warn level")
	}

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be true at debug level")
	}
}

func TestLogLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestDiagnosticsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "errors.log")

	if err := OpenDiagnostics(path); err != nil {
		t.Fatalf("OpenDiagnostics() error = %v", err)
	}
	Diagnostic("availability", "http://dead.example/live", "status 404")
	Diagnostic("latency", "http://slow.example/live", "context deadline exceeded")

	if got := DiagnosticCount(); got != 2 {
		t.Errorf("DiagnosticCount() = %d, want 2", got)
	}
	if err := CloseDiagnostics(); err != nil {
		t.Fatalf("CloseDiagnostics() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read diagnostics: %v", err)
	}
	content := string(data)
	for _, want := range []string{"http://dead.example/live", "status 404", "http://slow.example/live"} {
		if !strings.Contains(content, want) {
			t.Errorf("diagnostics file missing %q:\n%s", want, content)
		}
	}
}

func TestDiagnosticsDisabled(t *testing.T) {
	if err := OpenDiagnostics(""); err != nil {
		t.Fatalf("OpenDiagnostics(\"\") error = %v", err)
	}
	// Must not panic without a sink.
	Diagnostic("availability", "http://x", "boom")
	if err := CloseDiagnostics(); err != nil {
		t.Errorf("CloseDiagnostics() error = %v", err)
	}
}
