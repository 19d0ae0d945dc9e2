package worker

import (
	"context"
	"fmt"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// Service wraps the infrastructure worker for easy integration.
type Service struct {
	worker *Worker
	logger logger.Logger
}

// NewService creates a new worker service on the shared database client.
func NewService(ctx context.Context, cfg *models.Config, log logger.Logger, db dal.DatabaseClientInterface) (*Service, error) {
	worker, err := NewWorker(ctx, cfg, log, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create infrastructure worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the worker without blocking the caller.
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting infrastructure worker service in background")

	go func() {
		if err := s.worker.Start(); err != nil {
			s.logger.Errorf("Infrastructure worker failed to start: %v", err)
		}
	}()

	return nil
}

// Stop stops the infrastructure worker service.
func (s *Service) Stop() error {
	s.logger.Info("Stopping infrastructure worker service")
	return s.worker.Stop()
}

// GetStatus returns the current infrastructure setup status.
func (s *Service) GetStatus() (*ExecutionResult, error) {
	return s.worker.GetStatus()
}

// IsSetupCompleted checks if infrastructure setup is completed.
func (s *Service) IsSetupCompleted() (bool, error) {
	status, err := s.GetStatus()
	if err != nil {
		return false, err
	}
	return status.Status == StatusCompleted && status.Success, nil
}

// GetHealthStatus returns a health snapshot for monitoring.
func (s *Service) GetHealthStatus() map[string]interface{} {
	status, err := s.GetStatus()
	if err != nil {
		return map[string]interface{}{
			"status":         "error",
			"message":        fmt.Sprintf("Failed to get status: %v", err),
			"healthy":        false,
			"worker_running": s.worker.IsRunning(),
		}
	}

	return map[string]interface{}{
		"status":         string(status.Status),
		"healthy":        status.Status == StatusCompleted && status.Success,
		"worker_running": s.worker.IsRunning(),
		"tables_ensured": status.TablesEnsured,
		"retry_count":    status.RetryCount,
		"environment":    status.Environment,
		"start_time":     status.StartTime,
		"duration":       status.Duration.String(),
		"error_message":  status.ErrorMessage,
	}
}

// ForceSetup forces infrastructure setup (admin function).
func (s *Service) ForceSetup() error {
	s.logger.Info("Forcing infrastructure setup")
	return s.worker.ForceSetup()
}
