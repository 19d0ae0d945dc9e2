package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WorkerStatus is the lifecycle state of the setup job.
type WorkerStatus string

const (
	StatusPending   WorkerStatus = "pending"
	StatusRunning   WorkerStatus = "running"
	StatusCompleted WorkerStatus = "completed"
	StatusFailed    WorkerStatus = "failed"
	StatusRetrying  WorkerStatus = "retrying"
)

// ExecutionResult is the persisted record of one setup run.
type ExecutionResult struct {
	StartTime     time.Time      `json:"start_time"`
	EndTime       *time.Time     `json:"end_time,omitempty"`
	Duration      time.Duration  `json:"duration"`
	Success       bool           `json:"success"`
	Status        WorkerStatus   `json:"status"`
	Environment   string         `json:"environment"`
	TablesEnsured []string       `json:"tables_ensured"`
	RetryCount    int            `json:"retry_count"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// StatusManager persists setup progress to a JSON status file so restarts
// can skip work that already completed.
type StatusManager struct {
	StatusFilePath string
}

func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{StatusFilePath: statusPath}
}

func (sm *StatusManager) SaveStatus(result *ExecutionResult) error {
	if err := os.MkdirAll(filepath.Dir(sm.StatusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	if result.EndTime == nil && (result.Status == StatusCompleted || result.Status == StatusFailed) {
		now := time.Now()
		result.EndTime = &now
		result.Duration = now.Sub(result.StartTime)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	// Write atomically
	tempFile := sm.StatusFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp status file: %w", err)
	}
	if err := os.Rename(tempFile, sm.StatusFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename status file: %w", err)
	}
	return nil
}

func (sm *StatusManager) LoadStatus() (*ExecutionResult, error) {
	data, err := os.ReadFile(sm.StatusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var result ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &result, nil
}

// IsSetupCompleted reports whether a previous run finished successfully.
func (sm *StatusManager) IsSetupCompleted() (bool, error) {
	status, err := sm.LoadStatus()
	if err != nil {
		return false, err
	}
	return status.Status == StatusCompleted && status.Success, nil
}

func (sm *StatusManager) UpdateProgress(status WorkerStatus, message string, metadata map[string]any) error {
	currentStatus, err := sm.LoadStatus()
	if err != nil {
		currentStatus = &ExecutionResult{
			StartTime:     time.Now(),
			TablesEnsured: make([]string, 0),
			Metadata:      make(map[string]any),
		}
	}

	currentStatus.Status = status
	if currentStatus.Metadata == nil {
		currentStatus.Metadata = make(map[string]any)
	}
	if message != "" {
		currentStatus.Metadata["last_message"] = message
		currentStatus.Metadata["last_update"] = time.Now()
	}
	for k, v := range metadata {
		currentStatus.Metadata[k] = v
	}

	return sm.SaveStatus(currentStatus)
}

// AddTableEnsured records a table whose DDL has been applied.
func (sm *StatusManager) AddTableEnsured(tableName string) error {
	status, err := sm.LoadStatus()
	if err != nil {
		return err
	}

	for _, table := range status.TablesEnsured {
		if table == tableName {
			return nil
		}
	}

	status.TablesEnsured = append(status.TablesEnsured, tableName)
	return sm.SaveStatus(status)
}

// MarkCompleted marks the setup as completed.
func (sm *StatusManager) MarkCompleted() error {
	status, err := sm.LoadStatus()
	if err != nil {
		return err
	}

	status.Success = true
	status.Status = StatusCompleted
	now := time.Now()
	status.EndTime = &now
	status.Duration = now.Sub(status.StartTime)

	return sm.SaveStatus(status)
}

// MarkFailed marks the setup as failed.
func (sm *StatusManager) MarkFailed(errorMsg string) error {
	status, err := sm.LoadStatus()
	if err != nil {
		return err
	}

	status.Success = false
	status.Status = StatusFailed
	status.ErrorMessage = errorMsg
	now := time.Now()
	status.EndTime = &now
	status.Duration = now.Sub(status.StartTime)

	return sm.SaveStatus(status)
}

func (sm *StatusManager) GetRetryCount() (int, error) {
	status, err := sm.LoadStatus()
	if err != nil {
		return 0, err
	}
	return status.RetryCount, nil
}

func (sm *StatusManager) IncrementRetryCount() error {
	status, err := sm.LoadStatus()
	if err != nil {
		return err
	}

	status.RetryCount++
	status.Status = StatusRetrying
	return sm.SaveStatus(status)
}

// ResetStatus removes the status file, allowing a forced re-run.
func (sm *StatusManager) ResetStatus() error {
	return os.Remove(sm.StatusFilePath)
}
