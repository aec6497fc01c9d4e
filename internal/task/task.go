package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a background task.
type TaskStatus string

// Task lifecycle states. A task moves pending -> processing and ends in
// completed or failed. The stuck-task monitor may move a task from
// processing back to pending after a crash or hang.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeItemGeneration is the background generation of vocabulary
	// items from the language model.
	TaskTypeItemGeneration = "item_generation"
)

// ErrNotExecutable marks a task reloaded from storage whose execution logic
// has not been rebound through a TaskFactory.
var ErrNotExecutable = errors.New("task has no execution logic bound")

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskFactory rebuilds an executable task from its stored type and payload.
// The event handler uses it for fresh submissions and the runner uses it to
// recover queued work across restarts.
type TaskFactory interface {
	CreateFromPayload(id uuid.UUID, taskType string, payload []byte) (Task, error)
}

// TaskSubmitter accepts tasks for background execution.
type TaskSubmitter interface {
	// Submit persists the task and queues it for processing.
	Submit(ctx context.Context, t Task) error
}

// TaskInfo is a read-only snapshot of a stored task, served to the
// status-polling endpoint.
type TaskInfo struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Status       TaskStatus `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskStore defines the interface for persisting tasks.
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetTaskInfo returns the stored snapshot of a task
	GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*TaskInfo, error)

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in this
	// state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}

// StoredTask is the inert form of a task loaded from the database. It
// carries identity, payload, and status but no behavior: Execute fails with
// ErrNotExecutable until the runner's factory rebuilds the real task.
type StoredTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   TaskStatus
}

// NewStoredTask wraps a database row as a Task.
func NewStoredTask(id uuid.UUID, taskType string, payload []byte, status TaskStatus) *StoredTask {
	return &StoredTask{
		id:       id,
		taskType: taskType,
		payload:  payload,
		status:   status,
	}
}

// ID returns the task's unique identifier.
func (t *StoredTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *StoredTask) Type() string {
	return t.taskType
}

// Payload returns the stored task data.
func (t *StoredTask) Payload() []byte {
	return t.payload
}

// Status returns the status the task had when it was loaded.
func (t *StoredTask) Status() TaskStatus {
	return t.status
}

// Execute always fails; stored tasks must be rebuilt by a TaskFactory first.
func (t *StoredTask) Execute(ctx context.Context) error {
	return ErrNotExecutable
}
