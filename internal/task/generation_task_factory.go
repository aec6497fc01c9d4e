package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/generation"
)

// ItemGenerationTaskFactory builds ItemGenerationTask instances with their
// execution dependencies bound. It serves both fresh submissions (through
// the event handler) and startup recovery (through the runner).
type ItemGenerationTaskFactory struct {
	generator generation.Generator
	saver     GeneratedItemSaver
	logger    *slog.Logger
}

// Verify the factory can rebuild recovered tasks for the runner.
var _ TaskFactory = (*ItemGenerationTaskFactory)(nil)

// NewItemGenerationTaskFactory creates a new factory for item generation tasks.
func NewItemGenerationTaskFactory(
	generator generation.Generator,
	saver GeneratedItemSaver,
	logger *slog.Logger,
) *ItemGenerationTaskFactory {
	return &ItemGenerationTaskFactory{
		generator: generator,
		saver:     saver,
		logger:    logger.With("component", "item_generation_task_factory"),
	}
}

// CreateFromPayload implements TaskFactory. It rebuilds an executable task
// under the given identity from its serialized payload.
func (f *ItemGenerationTaskFactory) CreateFromPayload(
	id uuid.UUID,
	taskType string,
	payload []byte,
) (Task, error) {
	if taskType != TaskTypeItemGeneration {
		return nil, fmt.Errorf("unsupported task type %q", taskType)
	}

	var p ItemGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item generation payload: %w", err)
	}

	return NewItemGenerationTask(id, p, f.generator, f.saver, f.logger)
}
