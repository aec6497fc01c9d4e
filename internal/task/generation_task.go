package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
)

// Common errors
var (
	ErrNilGenerator = errors.New("generator cannot be nil")
	ErrNilSaver     = errors.New("item saver cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// GeneratedItemSaver lands a generated batch. The implementation inserts
// the items and bumps the day's generation quota in one transaction, so a
// failed insert consumes no quota.
type GeneratedItemSaver interface {
	SaveGeneratedItems(ctx context.Context, profileID string, items []*domain.Item) error
}

// ItemGenerationPayload is the serialized form of an item generation task.
// It round-trips through the tasks table, so recovery rebuilds the exact
// request that was submitted.
type ItemGenerationPayload struct {
	ProfileID string `json:"profile_id"`
	Category  string `json:"category"`
	Level     string `json:"level"`
	Count     int    `json:"count"`
}

func (p ItemGenerationPayload) request() generation.Request {
	return generation.Request{
		ProfileID: p.ProfileID,
		Category:  p.Category,
		Level:     p.Level,
		Count:     p.Count,
	}
}

// ItemGenerationTask implements the Task interface for generating
// vocabulary items through the language model boundary.
type ItemGenerationTask struct {
	id        uuid.UUID
	payload   ItemGenerationPayload
	generator generation.Generator
	saver     GeneratedItemSaver
	logger    *slog.Logger
	status    TaskStatus
}

// NewItemGenerationTask creates an item generation task under the given
// identity. The submission flow passes the originating event's ID here, so
// the handle returned to the caller stays valid for status polling.
func NewItemGenerationTask(
	id uuid.UUID,
	payload ItemGenerationPayload,
	generator generation.Generator,
	saver GeneratedItemSaver,
	logger *slog.Logger,
) (*ItemGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if saver == nil {
		return nil, ErrNilSaver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	if err := payload.request().Validate(); err != nil {
		return nil, err
	}

	return &ItemGenerationTask{
		id:        id,
		payload:   payload,
		generator: generator,
		saver:     saver,
		logger: logger.With(
			"task_type", TaskTypeItemGeneration,
			"task_id", id.String(),
			"profile_id", payload.ProfileID),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier.
func (t *ItemGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *ItemGenerationTask) Type() string {
	return TaskTypeItemGeneration
}

// Payload returns the task data as a byte slice.
func (t *ItemGenerationTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		// Marshal of a plain struct cannot realistically fail; log and
		// return an empty payload rather than panic in the worker.
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status.
func (t *ItemGenerationTask) Status() TaskStatus {
	return t.status
}

// PackageID returns the content package this task's items land in. Every
// batch gets its own package so it can be inspected or removed as a unit.
func (t *ItemGenerationTask) PackageID() string {
	return "generated-" + t.id.String()
}

// Execute calls the generator and hands the batch to the saver. The model
// output has already passed schema validation inside the generator; items
// arrive here carrying text, translation, level, and category.
func (t *ItemGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting item generation task",
		"category", t.payload.Category,
		"level", t.payload.Level,
		"count", t.payload.Count)

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	items, err := t.generator.GenerateItems(ctx, t.payload.request())
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("item generation failed", "error", err)
		return fmt.Errorf("failed to generate items: %w", err)
	}

	if len(items) == 0 {
		// The response schema requires at least one item, so an empty batch
		// is a generator bug, not a success with nothing to do.
		t.status = TaskStatusFailed
		t.logger.Error("generator returned no items")
		return fmt.Errorf("%w: model returned no items", generation.ErrInvalidResponse)
	}

	t.logger.Info("items generated", "count", len(items))

	packageID := t.PackageID()
	now := time.Now().UTC()
	for _, item := range items {
		item.PackageID = packageID
		item.Selected = true
		item.UserCreated = false
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
	}

	if err := t.saver.SaveGeneratedItems(ctx, t.payload.ProfileID, items); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to save generated items", "error", err)
		return fmt.Errorf("failed to save generated items: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("item generation task completed",
		"package_id", packageID,
		"items_saved", len(items))
	return nil
}
