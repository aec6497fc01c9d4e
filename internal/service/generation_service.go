package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/events"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/task"
)

// GenerationServiceConfig governs AI item generation.
type GenerationServiceConfig struct {
	// DailyLimit is the number of generation requests allowed per local day.
	DailyLimit int

	// BatchSize is how many items one generation request asks for.
	BatchSize int

	// Location defines the learner's local day boundaries for the quota.
	Location *time.Location
}

// GenerationService accepts generation requests, enforces the daily quota,
// and exposes the task-side persistence of generated batches.
//
// A request does not call the model synchronously: it emits a task request
// event, and the task runner executes the generation in the background. The
// returned ID doubles as the task ID, so callers poll Status with it.
type GenerationService interface {
	// RequestGeneration submits a background generation request for the
	// profile. Returns ErrQuotaExceeded when today's quota is used up and
	// generation.ErrInvalidRequest when category or level are empty.
	RequestGeneration(ctx context.Context, profileID, category, level string) (uuid.UUID, error)

	// Status reports the persisted state of a generation task.
	// Returns store.ErrTaskNotFound for unknown IDs.
	Status(ctx context.Context, taskID uuid.UUID) (*task.TaskInfo, error)

	// SaveGeneratedItems persists a generated batch and bumps the quota
	// counter in one transaction. It is the task-side half of the flow and
	// implements task.GeneratedItemSaver.
	SaveGeneratedItems(ctx context.Context, profileID string, items []*domain.Item) error
}

// generationServiceImpl implements the GenerationService interface.
type generationServiceImpl struct {
	db      *sql.DB
	writer  store.ItemWriter
	quota   store.DayCounterStore
	tasks   task.TaskStore
	emitter events.EventEmitter
	cfg     GenerationServiceConfig
	logger  *slog.Logger
}

// Ensure the service satisfies the saver interface the generation task needs.
var _ task.GeneratedItemSaver = (GenerationService)(nil)

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	db *sql.DB,
	writer store.ItemWriter,
	quota store.DayCounterStore,
	tasks task.TaskStore,
	emitter events.EventEmitter,
	cfg GenerationServiceConfig,
	log *slog.Logger,
) (GenerationService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if writer == nil {
		return nil, fmt.Errorf("%w: item writer cannot be nil", domain.ErrValidation)
	}
	if quota == nil {
		return nil, fmt.Errorf("%w: quota store cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, fmt.Errorf("%w: task store cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, fmt.Errorf("%w: event emitter cannot be nil", domain.ErrValidation)
	}
	if cfg.DailyLimit <= 0 {
		return nil, fmt.Errorf("%w: daily limit must be positive", domain.ErrValidation)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive", domain.ErrValidation)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &generationServiceImpl{
		db:      db,
		writer:  writer,
		quota:   quota,
		tasks:   tasks,
		emitter: emitter,
		cfg:     cfg,
		logger:  log.With(slog.String("component", "generation_service")),
	}, nil
}

// RequestGeneration implements GenerationService.RequestGeneration.
//
// The quota counts completed requests: it is read here and incremented when
// the generated batch lands in SaveGeneratedItems. Requests that arrive
// concurrently while used == limit-1 can therefore all pass the check and
// finish one over the limit. A single learner cannot produce that race, so
// the window stays open rather than holding a quota row lock across an LLM
// call.
func (s *generationServiceImpl) RequestGeneration(
	ctx context.Context,
	profileID, category, level string,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req := generation.Request{
		ProfileID: profileID,
		Category:  category,
		Level:     level,
		Count:     s.cfg.BatchSize,
	}
	if err := req.Validate(); err != nil {
		log.Warn("invalid generation request",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return uuid.Nil, err
	}

	day := domain.DayKey(time.Now(), s.cfg.Location)
	used, err := s.quota.Count(ctx, profileID, day)
	if err != nil {
		log.Error("failed to read generation quota",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("day", day))
		return uuid.Nil, fmt.Errorf("failed to read generation quota: %w", err)
	}
	if used >= s.cfg.DailyLimit {
		log.Info("generation quota exhausted",
			slog.String("profile_id", profileID),
			slog.String("day", day),
			slog.Int("used", used),
			slog.Int("limit", s.cfg.DailyLimit))
		return uuid.Nil, fmt.Errorf("%w: %d of %d requests used today",
			ErrQuotaExceeded, used, s.cfg.DailyLimit)
	}

	payload := task.ItemGenerationPayload{
		ProfileID: profileID,
		Category:  category,
		Level:     level,
		Count:     s.cfg.BatchSize,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeItemGeneration, payload)
	if err != nil {
		log.Error("failed to create task request event",
			slog.String("error", err.Error()))
		return uuid.Nil, fmt.Errorf("failed to create generation event: %w", err)
	}

	// The emitter is synchronous, so a submission failure surfaces here
	// instead of leaving the caller polling a task that never existed.
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to submit generation task",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return uuid.Nil, fmt.Errorf("failed to submit generation task: %w", err)
	}

	log.Info("accepted generation request",
		slog.String("task_id", event.ID.String()),
		slog.String("profile_id", profileID),
		slog.String("category", category),
		slog.String("level", level),
		slog.Int("count", s.cfg.BatchSize),
		slog.Int("quota_used", used+1),
		slog.Int("quota_limit", s.cfg.DailyLimit))

	return event.ID, nil
}

// Status implements GenerationService.Status.
func (s *generationServiceImpl) Status(
	ctx context.Context,
	taskID uuid.UUID,
) (*task.TaskInfo, error) {
	return s.tasks.GetTaskInfo(ctx, taskID)
}

// SaveGeneratedItems implements GenerationService.SaveGeneratedItems.
// The quota tracks requests, not items: one completed generation counts as
// one, regardless of batch size.
func (s *generationServiceImpl) SaveGeneratedItems(
	ctx context.Context,
	profileID string,
	items []*domain.Item,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		log.Debug("no generated items to save",
			slog.String("profile_id", profileID))
		return nil
	}

	day := domain.DayKey(time.Now(), s.cfg.Location)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.writer.WithTxWriter(tx).CreateMultiple(ctx, items); err != nil {
			return err
		}

		if _, err := s.quota.WithTx(tx).Increment(ctx, profileID, day); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		log.Error("failed to save generated items",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.Int("items", len(items)))
		return fmt.Errorf("failed to save generated items: %w", err)
	}

	log.Info("saved generated items",
		slog.String("profile_id", profileID),
		slog.String("package_id", items[0].PackageID),
		slog.Int("items", len(items)))

	return nil
}
