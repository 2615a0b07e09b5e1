// Package graphdb owns the process-wide Neo4j connection and turns raw
// driver results into the normalizer's driver-agnostic form. One pooled
// driver is shared across requests; it is lazily created on first use and
// rebuilt when a request arrives with different connection parameters.
package graphdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config identifies one Neo4j endpoint and its credentials.
type Config struct {
	URI      string
	Username string
	Password string
}

// Manager holds the shared driver handle. Reconfiguration is last-writer-
// wins: a request carrying different connection parameters tears down the
// current pool and rebuilds it before running. Concurrent requests against
// different databases through one process are therefore not supported.
type Manager struct {
	mu     sync.Mutex
	config Config
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager with no open connection. The driver is
// created on the first call that needs it.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Driver returns the shared driver for the given config, creating or
// rebuilding the pool as needed.
func (m *Manager) Driver(ctx context.Context, cfg Config) (neo4j.DriverWithContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil && m.config == cfg {
		return m.driver, nil
	}

	if m.driver != nil {
		m.logger.Info("connection parameters changed, rebuilding driver", "uri", cfg.URI)
		if err := m.driver.Close(ctx); err != nil {
			m.logger.Warn("failed to close previous driver", "error", err)
		}
		m.driver = nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver for %s; %w", cfg.URI, err)
	}

	m.driver = driver
	m.config = cfg
	m.logger.Info("neo4j driver created", "uri", cfg.URI)

	return m.driver, nil
}

// Reconfigure tears down the current pool and rebuilds it for the new
// config, even if the parameters are unchanged.
func (m *Manager) Reconfigure(ctx context.Context, cfg Config) error {
	m.mu.Lock()
	if m.driver != nil {
		if err := m.driver.Close(ctx); err != nil {
			m.logger.Warn("failed to close previous driver", "error", err)
		}
		m.driver = nil
	}
	m.mu.Unlock()

	_, err := m.Driver(ctx, cfg)
	return err
}

// Close shuts down the shared driver if one exists.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil
	}
	err := m.driver.Close(ctx)
	m.driver = nil
	if err != nil {
		return fmt.Errorf("failed to close neo4j driver; %w", err)
	}
	return nil
}

// Runner returns an executor bound to the given config. Each Run checks out
// a session from the shared pool and closes it before returning.
func (m *Manager) Runner(cfg Config) Runner {
	return &executor{manager: m, config: cfg}
}
