package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	levelMu     sync.RWMutex
	levelSet    bool
	currentLev  LogLevel
	diagMu      sync.Mutex
	diagLogger  *log.Logger
	diagFile    *os.File
	diagEntries int64
)

// ParseLevel converts a LOG_LEVEL value into a LogLevel.
// Unknown or empty values map to LevelInfo.
func ParseLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// levelFromEnv reads DEBUG first, then LOG_LEVEL.
func levelFromEnv() LogLevel {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	levelMu.RLock()
	if levelSet {
		defer levelMu.RUnlock()
		return currentLev
	}
	levelMu.RUnlock()

	levelMu.Lock()
	defer levelMu.Unlock()
	if !levelSet {
		currentLev = levelFromEnv()
		levelSet = true
	}
	return currentLev
}

// SetLevel overrides the level taken from the environment.
func SetLevel(level LogLevel) {
	levelMu.Lock()
	defer levelMu.Unlock()
	currentLev = level
	levelSet = true
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// OpenDiagnostics starts appending probe diagnostics to path. The file is
// truncated so it only ever describes the latest run. An empty path disables
// the sink.
func OpenDiagnostics(path string) error {
	diagMu.Lock()
	defer diagMu.Unlock()

	closeDiagnosticsLocked()
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create diagnostics directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open diagnostics log: %w", err)
	}
	diagFile = f
	diagLogger = log.New(f, "", log.LstdFlags)
	diagEntries = 0
	return nil
}

// Diagnostic records a probe failure for endpoint. It always reaches the
// diagnostics file when one is open and is echoed to the console at debug level.
func Diagnostic(phase, endpoint, reason string) {
	Debug("%s probe failed for %s: %s", phase, endpoint, reason)

	diagMu.Lock()
	defer diagMu.Unlock()
	if diagLogger == nil {
		return
	}
	diagLogger.Printf("%s - Error testing stream %s: %s", phase, endpoint, reason)
	diagEntries++
}

// DiagnosticCount returns the number of diagnostics written since the file was opened.
func DiagnosticCount() int64 {
	diagMu.Lock()
	defer diagMu.Unlock()
	return diagEntries
}

// CloseDiagnostics flushes and closes the diagnostics file, if any.
func CloseDiagnostics() error {
	diagMu.Lock()
	defer diagMu.Unlock()
	return closeDiagnosticsLocked()
}

func closeDiagnosticsLocked() error {
	if diagFile == nil {
		return nil
	}
	err := diagFile.Close()
	diagFile = nil
	diagLogger = nil
	return err
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
