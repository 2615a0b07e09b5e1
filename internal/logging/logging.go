// Package logging provides the application's slog setup: a bootstrap
// stderr-only mode for early startup, upgraded to stderr plus a rotated
// JSON log file once configuration is available.
package logging

import (
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager handles logger lifecycle including the bootstrap-to-full mode
// transition. Components obtain a logger via Logger() and use it for all
// logging; the logger stays valid across Upgrade calls.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	file    *lumberjack.Logger
	level   *slog.LevelVar
	mu      sync.Mutex
}

// NewManager creates a logging manager in bootstrap mode: text to stderr
// only. Call Upgrade() after config is available to enable file logging.
func NewManager() *Manager {
	level := new(slog.LevelVar)
	level.Set(DefaultLevel)

	opts := &slog.HandlerOptions{Level: level}
	handler := NewSwappableHandler(slog.NewTextHandler(os.Stderr, opts))

	return &Manager{
		handler: handler,
		logger:  slog.New(handler),
		level:   level,
	}
}

// Logger returns the current logger instance.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Upgrade transitions from bootstrap mode to full mode: stderr text plus
// rotated JSON file. An empty path sets the level but keeps stderr-only
// output.
func (m *Manager) Upgrade(logFilePath string, level slog.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level.Set(level)
	opts := &slog.HandlerOptions{Level: m.level}

	if logFilePath == "" {
		m.handler.Swap(slog.NewTextHandler(os.Stderr, opts))
		return nil
	}

	if m.file != nil {
		_ = m.file.Close()
	}
	m.file = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	m.handler.Swap(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, opts),
		slog.NewJSONHandler(m.file, opts),
	))

	return nil
}

// SetLevel changes the log level at runtime.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Close cleanly shuts down the logger, closing any open file handles.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file != nil {
		err := m.file.Close()
		m.file = nil
		return err
	}
	return nil
}
