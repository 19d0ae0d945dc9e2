package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// WorkerConfig tunes the setup job and the maintenance schedules.
type WorkerConfig struct {
	SearchVectorCron  string
	HeartbeatCron     string
	HeartbeatEnabled  bool
	LockTimeout       time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	BackoffMultiplier float64
	Environment       string
	LockFilePath      string
	StatusFilePath    string
}

// Worker runs the one-time schema setup and the recurring maintenance jobs:
// the search vector refresh and, in development, a heartbeat.
type Worker struct {
	config        *models.Config
	logger        logger.Logger
	cronJob       *cron.Cron
	lockManager   *LockManager
	statusManager *StatusManager
	setup         *Setup
	workerConfig  *WorkerConfig
	ownerID       string

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
	stopChan chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger, db dal.DatabaseClientInterface) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Unique owner ID for this instance
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &WorkerConfig{
		SearchVectorCron:  cfg.SearchVectorCron,
		HeartbeatCron:     "*/30 * * * * *",
		HeartbeatEnabled:  cfg.HeartbeatEnabled && cfg.AppEnv == "development",
		LockTimeout:       30 * time.Minute,
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		BackoffMultiplier: 2.0,
		Environment:       cfg.AppEnv,
		LockFilePath:      fmt.Sprintf("/tmp/organization-service-infrastructure-%s.lock", cfg.AppEnv),
		StatusFilePath:    fmt.Sprintf("/tmp/organization-service-status-%s.json", cfg.AppEnv),
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Worker{
		config:        cfg,
		logger:        log,
		cronJob:       cron.New(),
		lockManager:   NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment),
		statusManager: NewStatusManager(workerConfig.StatusFilePath),
		setup:         NewSetup(cfg, log, db),
		workerConfig:  workerConfig,
		ownerID:       ownerID,
		stopChan:      make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func validateWorkerConfig(config *WorkerConfig) error {
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if config.BackoffMultiplier <= 1.0 {
		return fmt.Errorf("backoff multiplier must be greater than 1.0")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}

	cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if config.SearchVectorCron != "" {
		if _, err := cronParser.Parse(config.SearchVectorCron); err != nil {
			return fmt.Errorf("invalid search vector cron '%s': %w", config.SearchVectorCron, err)
		}
	}
	return nil
}

// Start launches the one-time setup and registers the maintenance jobs.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker is already running")
	}

	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.logger.Infof("Starting infrastructure worker %s", w.ownerID)

	if w.workerConfig.SearchVectorCron != "" {
		if err := w.cronJob.AddFunc(w.workerConfig.SearchVectorCron, w.searchVectorJob); err != nil {
			return fmt.Errorf("failed to schedule search vector refresh: %w", err)
		}
		w.logger.Infof("Search vector refresh scheduled: %s", w.workerConfig.SearchVectorCron)
	}

	if w.workerConfig.HeartbeatEnabled {
		if err := w.cronJob.AddFunc(w.workerConfig.HeartbeatCron, w.heartbeatJob); err != nil {
			return fmt.Errorf("failed to schedule heartbeat: %w", err)
		}
		w.logger.Info("Development heartbeat enabled")
	}

	w.cronJob.Start()
	w.running = true

	// Schema setup runs once in the background; maintenance jobs tolerate
	// tables that are not ready yet.
	go w.runOnceSetup()

	return nil
}

// runOnceSetup executes the schema setup under the file lock, retrying with
// exponential backoff on failure.
func (w *Worker) runOnceSetup() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Setup panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(w.ctx, 15*time.Minute)
	defer cancel()

	if completed, err := w.statusManager.IsSetupCompleted(); err == nil && completed {
		w.logger.Info("Infrastructure setup already completed, skipping")
		return
	}

	lockInfo, err := w.lockManager.AcquireLock(w.ownerID)
	if err != nil {
		w.logger.Warnf("Failed to acquire setup lock: %v", err)
		return
	}
	defer func() {
		if err := w.lockManager.ReleaseLock(lockInfo); err != nil {
			w.logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	w.logger.Info("Lock acquired, starting infrastructure setup")

	for attempt := 0; attempt <= w.workerConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.calculateRetryDelay(attempt - 1)
			w.logger.Warnf("Setup failed, retrying in %v (attempt %d/%d)", delay, attempt+1, w.workerConfig.MaxRetries+1)
			w.statusManager.IncrementRetryCount()

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				w.logger.Error("Setup cancelled while waiting to retry")
				return
			}
		}

		if err := w.setup.Execute(ctx, w.statusManager); err != nil {
			w.logger.Errorf("Infrastructure setup failed: %v", err)
			continue
		}

		w.logger.Info("Infrastructure setup completed successfully")
		return
	}

	w.statusManager.MarkFailed("max retries exceeded")
	w.logger.Errorf("Infrastructure setup gave up after %d attempts", w.workerConfig.MaxRetries+1)
}

// calculateRetryDelay applies exponential backoff, capped at one hour.
func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	delay := float64(w.workerConfig.RetryDelay.Nanoseconds())
	for i := 0; i < retryCount; i++ {
		delay *= w.workerConfig.BackoffMultiplier
	}

	maxDelay := float64((1 * time.Hour).Nanoseconds())
	if delay > maxDelay {
		delay = maxDelay
	}
	return time.Duration(int64(delay))
}

func (w *Worker) searchVectorJob() {
	ctx, cancel := context.WithTimeout(w.ctx, 5*time.Minute)
	defer cancel()

	if err := w.setup.RefreshSearchVectors(ctx); err != nil {
		w.logger.Errorf("Search vector refresh failed: %v", err)
	}
}

func (w *Worker) heartbeatJob() {
	status := "unknown"
	if result, err := w.statusManager.LoadStatus(); err == nil {
		status = string(result.Status)
	}
	w.logger.Debugf("Worker heartbeat: owner=%s setup=%s", w.ownerID, status)
}

// GetStatus returns the persisted setup status.
func (w *Worker) GetStatus() (*ExecutionResult, error) {
	return w.statusManager.LoadStatus()
}

// IsRunning reports whether the worker has been started.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// ForceSetup resets the status file and re-runs setup.
func (w *Worker) ForceSetup() error {
	if err := w.statusManager.ResetStatus(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to reset status: %w", err)
	}
	go w.runOnceSetup()
	return nil
}

// Stop stops the cron scheduler and cancels in-flight work.
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		if !w.running {
			return
		}

		w.logger.Info("Stopping infrastructure worker")

		if w.cancel != nil {
			w.cancel()
		}
		if w.cronJob != nil {
			w.cronJob.Stop()
		}

		w.running = false
		close(w.stopChan)

		w.logger.Info("Infrastructure worker stopped")
	})
	return nil
}
