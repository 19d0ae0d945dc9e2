package dal

import (
	"context"
	"fmt"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClient owns the connection pool shared by every repository.
type PostgresClient struct {
	pool   *pgxpool.Pool
	config *models.Config
	logger logger.Logger
}

// NewPostgresClient creates a connection pool from config and verifies the
// database is reachable.
func NewPostgresClient(ctx context.Context, cfg *models.Config, log logger.Logger) (*PostgresClient, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url configuration is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if cfg.DatabaseMaxConn > 0 {
		poolConfig.MaxConns = cfg.DatabaseMaxConn
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info("PostgreSQL client initialized successfully")

	return &PostgresClient{pool: pool, config: cfg, logger: log}, nil
}

// Pool exposes the underlying pgx pool.
func (c *PostgresClient) Pool() *pgxpool.Pool {
	return c.pool
}

// DB returns the pool as a Querier for non-transactional statements.
func (c *PostgresClient) DB() Querier {
	return c.pool
}

// Close releases all pooled connections.
func (c *PostgresClient) Close() {
	c.pool.Close()
}

// WithTx runs fn inside a transaction, committing on nil error and rolling
// back otherwise.
func (c *PostgresClient) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
