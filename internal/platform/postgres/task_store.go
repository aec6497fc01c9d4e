package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/task"
)

// PostgresTaskStore implements the task.TaskStore interface using a
// PostgreSQL database.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Verify PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// handler via the DBTX interface and a logger for logging operations.
// If logger is nil, a default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// SaveTask implements task.TaskStore.SaveTask.
// It persists a freshly submitted task.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, type, payload, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '', $5, $5)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		string(t.Status()),
		now,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("task already exists", slog.String("task_id", t.ID().String()))
			return fmt.Errorf("%w: task with ID %s already exists", store.ErrDuplicate, t.ID())
		}

		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()))
		return fmt.Errorf("failed to save task: %w", err)
	}

	log.Info("task saved",
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()))

	return nil
}

// UpdateTaskStatus implements task.TaskStore.UpdateTaskStatus.
// Updating a task that no longer exists is a no-op: the runner may race a
// purge, and losing a status write for a deleted task is harmless.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		string(status),
		errorMsg,
		time.Now().UTC(),
		taskID,
	)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no task found to update status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)))
		return nil
	}

	log.Debug("task status updated",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(status)))

	return nil
}

// GetTaskInfo implements task.TaskStore.GetTaskInfo.
// It returns the stored snapshot of a task for the polling endpoint.
// Returns store.ErrTaskNotFound if no task exists with the given ID.
func (s *PostgresTaskStore) GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*task.TaskInfo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, status, error_message, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var info task.TaskInfo
	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&info.ID,
		&info.Type,
		&info.Status,
		&info.ErrorMessage,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", taskID.String()))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to get task info",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, fmt.Errorf("failed to get task info: %w", err)
	}

	return &info, nil
}

// GetPendingTasks implements task.TaskStore.GetPendingTasks.
// It retrieves all tasks still waiting for a worker, oldest first.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks implements task.TaskStore.GetProcessingTasks.
// With a non-zero olderThan it returns only tasks that have sat in the
// processing state at least that long, which is how stuck tasks are found.
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

func (s *PostgresTaskStore) getTasksByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status
		FROM tasks
		WHERE status = $1
		ORDER BY created_at ASC
	`
	args := []interface{}{string(status)}

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("error closing rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []task.Task

	for rows.Next() {
		var (
			id       uuid.UUID
			taskType string
			payload  []byte
			st       string
		)
		if err := rows.Scan(&id, &taskType, &payload, &st); err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("status", string(status)))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		// Stored rows carry no execution logic; the runner rebinds it
		// through its task factory before requeueing.
		tasks = append(tasks, task.NewStoredTask(id, taskType, payload, task.TaskStatus(st)))
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// WithTx implements task.TaskStore.WithTx.
// It returns a new task store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
