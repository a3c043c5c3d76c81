// Package database manages the PostgreSQL connection pool and ties its
// readiness and teardown into the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/accordlabs/accord/pkg/lifecycle"
)

// pingInterval is the delay between connection attempts during startup.
const pingInterval = time.Second

// System exposes the connection pool and its lifecycle registration.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	pool        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool against the configured DSN. sql.Open validates the
// DSN and applies pool limits; no connection is dialed until Start runs
// its readiness ping.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &system{
		pool:        pool,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (s *system) Connection() *sql.DB {
	return s.pool
}

// Start registers a startup hook that pings the database until it answers
// or the connection timeout lapses, and a shutdown hook that closes the
// pool once the coordinator's context is cancelled.
func (s *system) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), s.connTimeout)
		defer cancel()

		if err := s.awaitReady(ctx); err != nil {
			s.logger.Error("database unreachable", "error", err)
			return
		}
		s.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.pool.Close(); err != nil {
			s.logger.Error("database close failed", "error", err)
			return
		}
		s.logger.Info("database connection closed")
	})

	return nil
}

// awaitReady pings until the database responds or ctx expires. The last
// ping error is returned so the log shows why the database never answered.
func (s *system) awaitReady(ctx context.Context) error {
	var lastErr error
	for {
		if lastErr = s.pool.PingContext(ctx); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(pingInterval):
		}
	}
}
