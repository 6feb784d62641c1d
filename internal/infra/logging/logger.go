// Package logging provides file-based logging for agile-notes.
// Entries go to the vault log file (.agile-notes/logs/sync.log) and,
// optionally, to a mirror writer such as stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled entries to the vault log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file   *os.File
	mirror io.Writer
	now    func() time.Time
	appDir string
	mu     sync.Mutex
	level  slog.Level
}

// New creates a new Logger that writes below appDir.
// If appDir is empty, file logging is disabled.
func New(appDir string, level slog.Level) *Logger {
	return &Logger{
		appDir: appDir,
		level:  level,
		now:    time.Now,
	}
}

// WithMirror also writes every entry to w.
func (l *Logger) WithMirror(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = w
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens or returns the log file. Caller holds l.mu.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	path := domain.LogPath(l.appDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [FP-12] [category] message
func formatLog(t time.Time, level slog.Level, key, category, msg string) string {
	if key == "" {
		key = "run"
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		key,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry at level. key is an issue key or empty for run-level entries.
func (l *Logger) log(level slog.Level, key, category, msg string) {
	if level < l.level {
		return
	}

	entry := formatLog(l.now(), level, key, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.appDir != "" {
		if f, err := l.ensureFile(); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
}

// Info logs an info message.
func (l *Logger) Info(key, category, msg string) {
	l.log(slog.LevelInfo, key, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(key, category, msg string) {
	l.log(slog.LevelDebug, key, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(key, category, msg string) {
	l.log(slog.LevelWarn, key, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(key, category, msg string) {
	l.log(slog.LevelError, key, category, msg)
}
