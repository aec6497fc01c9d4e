package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can sit in processing state
	// before the monitor considers it stuck and resets it
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              50,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing: a persisted submit path,
// a small worker pool, startup recovery of unfinished tasks, and a monitor
// that resets tasks stuck in the processing state.
type TaskRunner struct {
	store      TaskStore
	factory    TaskFactory
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
}

// Verify TaskRunner implements TaskSubmitter
var _ TaskSubmitter = (*TaskRunner)(nil)

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "task_runner"),
	}
}

// SetTaskFactory installs the factory used to rebind execution logic to
// tasks reloaded from the database. Without a factory, recovered tasks
// cannot run and are marked failed during recovery.
func (r *TaskRunner) SetTaskFactory(factory TaskFactory) {
	r.factory = factory
}

// Submit persists the task, then puts it on the in-memory queue. The
// database write comes first so a crash between the two steps loses no
// work; recovery picks the task up again.
func (r *TaskRunner) Submit(ctx context.Context, t Task) error {
	if err := r.store.SaveTask(ctx, t); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- t:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start recovers unfinished tasks, then launches the worker pool and the
// stuck-task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner, waiting for workers to drain.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// Recover reloads unfinished tasks from the database and requeues them.
// Tasks found in the processing state were interrupted mid-flight; they go
// back to pending before requeueing.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, t := range pending {
		r.requeue(ctx, t)
	}

	for _, t := range processing {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "reset during recovery"); err != nil {
			r.logger.Error("failed to reset interrupted task",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeue(ctx, t)
	}

	return nil
}

// requeue rebinds execution logic to a stored task and puts it back on the
// queue. A task the factory cannot rebuild is marked failed rather than
// cycling through recovery forever.
func (r *TaskRunner) requeue(ctx context.Context, t Task) {
	if r.factory != nil {
		rebuilt, err := r.factory.CreateFromPayload(t.ID(), t.Type(), t.Payload())
		if err != nil {
			r.logger.Error("failed to rebuild recovered task",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
				r.logger.Error("failed to mark unrecoverable task failed",
					"task_id", t.ID(),
					"error", updateErr)
			}
			return
		}
		t = rebuilt
	}

	select {
	case r.taskChan <- t:
	default:
		r.logger.Error("failed to requeue task, queue is full",
			"task_id", t.ID(),
			"task_type", t.Type())
	}
}

// worker consumes tasks from the queue until the runner stops.
func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case t, ok := <-r.taskChan:
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask runs one task and records its outcome. Execution uses a
// background context on purpose: an in-flight task finishes even while the
// runner is shutting down.
func (r *TaskRunner) processTask(t Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", t.ID(),
		"task_type", t.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", "error", err)
		return
	}

	log.Info("processing task")

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update task status to failed", "error", updateErr)
		}
		return
	}

	log.Info("task completed successfully")
	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to update task status to completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have sat in the
// processing state longer than the configured age. That happens when a
// worker dies mid-task or an external call hangs past every timeout.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", "error", err)
				continue
			}

			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", "count", len(stuck))

			for _, t := range stuck {
				if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
					"reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task",
						"task_id", t.ID(),
						"task_type", t.Type(),
						"error", err)
					continue
				}
				r.requeue(ctx, t)
			}
		}
	}
}
