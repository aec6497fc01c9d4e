package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ali-aktas/hocalingo-api/internal/events"
)

// TaskRequestEventHandler turns TaskRequestEvents into persisted, queued
// tasks. The event's ID becomes the task's ID, so the handle a caller gets
// back at submission time is the same one the status endpoint serves.
type TaskRequestEventHandler struct {
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// Ensure TaskRequestEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskRequestEventHandler)(nil)

// NewTaskRequestEventHandler creates an event handler that builds tasks
// through the given factory and submits them to the given runner.
func NewTaskRequestEventHandler(
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *TaskRequestEventHandler {
	return &TaskRequestEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "task_request_event_handler"),
	}
}

// HandleEvent processes a task request by creating the matching task and
// submitting it for background execution. Events of types this handler
// does not know are ignored so other handlers can claim them.
func (h *TaskRequestEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := h.logger.With("event_id", event.ID, "event_type", event.Type)

	if event.Type != TaskTypeItemGeneration {
		log.Debug("ignoring event with unsupported type")
		return nil
	}

	t, err := h.factory.CreateFromPayload(event.ID, event.Type, event.Payload)
	if err != nil {
		log.Error("failed to create task from event", "error", err)
		return fmt.Errorf("failed to create task from event: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		log.Error("failed to submit task", "error", err, "task_id", t.ID())
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.Info("task submitted", "task_id", t.ID())
	return nil
}
