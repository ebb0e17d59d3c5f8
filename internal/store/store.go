// Package store provides a pgxpool-based persistence layer: CRUD
// repositories for teams, stadiums, players and fixtures, a provisional
// staging area for generated schedules, and the lookup interfaces the
// scheduling engine consumes.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carwyn/sixnations/internal/config"
)

// Store wraps pgxpool.Pool with application repositories.
type Store struct {
	pool *pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.ServerConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.pool.QueryRow(ctx, "SELECT 1").Scan(&n)
}

// Pool exposes the raw pool for seeding and migrations.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}
