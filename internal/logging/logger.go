// Package logging provides structured logging with file and console output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one log line kept in the in-memory history for the
// diagnostics endpoint.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Config holds logger configuration
type Config struct {
	Dir        string // directory for log files (default: ~/.empathyengine/logs)
	Level      string // minimum log level (default: info)
	MaxHistory int    // max entries kept in memory (default: 500)
	Console    bool   // also log to console (default: true)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Dir:        filepath.Join(home, ".empathyengine", "logs"),
		Level:      "info",
		MaxHistory: 500,
		Console:    true,
	}
}

// Logger wraps zerolog with file output and a bounded history ring.
type Logger struct {
	zlog zerolog.Logger
	file *os.File

	mu      sync.RWMutex
	history []Entry
	maxHist int
}

// historyWriter appends each line to the in-memory ring.
type historyWriter struct {
	l *Logger
}

func (h historyWriter) Write(p []byte) (int, error) {
	h.l.append(Entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   string(p),
	})
	return len(p), nil
}

// New creates a Logger with file and console output.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 500
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(cfg.Dir, fmt.Sprintf("empathyengine_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := &Logger{
		file:    file,
		maxHist: cfg.MaxHistory,
		history: make([]Entry, 0, cfg.MaxHistory),
	}

	writers := []io.Writer{file, historyWriter{logger}}
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger.zlog = zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "empathyengine").
		Logger()

	return logger, nil
}

// Logger returns the underlying zerolog logger.
func (l *Logger) Logger() zerolog.Logger {
	return l.zlog
}

// History returns a copy of the retained log entries, oldest first.
func (l *Logger) History() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.history))
	copy(out, l.history)
	return out
}

func (l *Logger) append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) >= l.maxHist {
		l.history = l.history[1:]
	}
	l.history = append(l.history, e)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	return l.file.Close()
}
