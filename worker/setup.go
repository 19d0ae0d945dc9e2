package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/infrastructure"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// Setup applies the database schema and runs the background maintenance
// queries.
type Setup struct {
	config *models.Config
	logger logger.Logger
	db     dal.DatabaseClientInterface
}

func NewSetup(cfg *models.Config, log logger.Logger, db dal.DatabaseClientInterface) *Setup {
	return &Setup{
		config: cfg,
		logger: log,
		db:     db,
	}
}

// Execute ensures every table exists, in dependency order. Statements are
// idempotent, so partial progress from a crashed run is picked up cleanly.
func (s *Setup) Execute(ctx context.Context, statusManager *StatusManager) error {
	s.logger.Info("Starting infrastructure setup")

	if err := statusManager.UpdateProgress(StatusRunning, "Starting infrastructure setup", nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	tables, err := infrastructure.Tables()
	if err != nil {
		statusManager.MarkFailed(fmt.Sprintf("Failed to load schema: %v", err))
		return err
	}

	for _, table := range tables {
		if err := s.ensureTableWithRetry(ctx, table); err != nil {
			s.logger.Errorf("Failed to ensure table %s: %v", table.Name, err)
			statusManager.MarkFailed(fmt.Sprintf("Failed to ensure table %s: %v", table.Name, err))
			return err
		}

		statusManager.AddTableEnsured(table.Name)
		s.logger.Debugf("Table %s is ready", table.Name)
	}

	s.logger.Infof("Infrastructure setup completed, %d tables ensured", len(tables))
	return statusManager.MarkCompleted()
}

// ensureTableWithRetry applies one table's DDL with retry and linear backoff.
func (s *Setup) ensureTableWithRetry(ctx context.Context, table infrastructure.TableSchema) error {
	maxRetries := 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * baseDelay
			s.logger.Infof("Retrying DDL for %s in %v (attempt %d/%d)", table.Name, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := s.applyStatements(ctx, table); err != nil {
			s.logger.Errorf("Attempt %d failed for table %s: %v", attempt+1, table.Name, err)
			if attempt == maxRetries {
				return fmt.Errorf("failed to ensure table %s after %d attempts: %w", table.Name, maxRetries+1, err)
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("exhausted all retry attempts for table %s", table.Name)
}

func (s *Setup) applyStatements(ctx context.Context, table infrastructure.TableSchema) error {
	for _, stmt := range table.Statements {
		if _, err := s.db.DB().Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}
	return nil
}

// RefreshSearchVectors recomputes stale search vectors across every
// translation table. The repositories maintain vectors inline on writes; this
// job catches rows touched outside the service.
func (s *Setup) RefreshSearchVectors(ctx context.Context) error {
	for _, table := range infrastructure.TranslationTables() {
		sql := fmt.Sprintf(
			`UPDATE %s SET search_vector = to_tsvector('simple', name)
			 WHERE search_vector IS DISTINCT FROM to_tsvector('simple', name)`, table)

		tag, err := s.db.DB().Exec(ctx, sql)
		if err != nil {
			return fmt.Errorf("failed to refresh search vectors in %s: %w", table, err)
		}
		if tag.RowsAffected() > 0 {
			s.logger.Infof("Refreshed %d search vectors in %s", tag.RowsAffected(), table)
		}
	}
	return nil
}

// ValidateInfrastructure checks that every expected table is visible.
func (s *Setup) ValidateInfrastructure(ctx context.Context) error {
	tables, err := infrastructure.Tables()
	if err != nil {
		return err
	}

	for _, table := range tables {
		var exists bool
		err := s.db.DB().QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)",
			table.Name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("table %s validation failed: %w", table.Name, err)
		}
		if !exists {
			return fmt.Errorf("table %s is missing", table.Name)
		}
	}
	return nil
}
