package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/domain/srs"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// StudyServiceError is a custom error type for study service errors.
type StudyServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StudyServiceError.
func (e *StudyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudyServiceError) Unwrap() error {
	return e.Err
}

// NewStudyServiceError creates a new StudyServiceError.
func NewStudyServiceError(operation, message string, err error) *StudyServiceError {
	return &StudyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GradeResult is what one graded answer produces: the schedule state that now
// stands, today's words-studied count after the increment, and whether that
// count has reached the daily goal. Count and flag come out of the same
// transaction as the schedule write.
type GradeResult struct {
	Progress    *domain.ProgressRecord `json:"progress"`
	TodayCount  int                    `json:"today_count"`
	DailyGoal   int                    `json:"daily_goal"`
	GoalReached bool                   `json:"goal_reached"`
}

// StudyServiceConfig carries the study tunables the service needs.
type StudyServiceConfig struct {
	// DailyGoal is the number of graded answers that counts as a full day.
	DailyGoal int

	// QueueLimit caps how many entries one queue request returns.
	QueueLimit int

	// ReviewPickPool is the number of most-overdue entries PickReviewItem
	// randomizes over.
	ReviewPickPool int

	// Location defines the learner's local day boundaries.
	Location *time.Location
}

// StudyService provides the core study flow: building the due queue,
// grading answers, and picking a review reminder item.
type StudyService interface {
	// BuildQueue returns the due entries for the profile and direction,
	// most overdue first, then never-reviewed items in insertion order.
	// A non-positive or oversized limit falls back to the configured cap.
	BuildQueue(
		ctx context.Context,
		profileID string,
		direction domain.Direction,
		limit int,
	) ([]domain.QueueEntry, error)

	// HasDue reports whether the profile has at least one studyable entry
	// in the direction right now.
	HasDue(ctx context.Context, profileID string, direction domain.Direction) (bool, error)

	// Grade records one answer: it runs the schedule transition for the
	// item in the direction's progress key and commits the schedule write
	// together with today's counter increment in a single transaction.
	// Returns store.ErrItemNotFound when the item does not exist and
	// domain.ErrInvalidGrade when the grade is off the 0-5 scale.
	Grade(
		ctx context.Context,
		profileID string,
		itemID int64,
		direction domain.Direction,
		grade domain.ReviewGrade,
	) (*GradeResult, error)

	// PickReviewItem selects an item worth nudging the learner about: a
	// random pick among the most overdue entries, or a random already
	// studied item when nothing is overdue. Returns ErrNothingToStudy when
	// the profile has not studied anything yet.
	PickReviewItem(ctx context.Context, profileID string) (*domain.Item, error)
}

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db         *sql.DB
	items      store.ItemStore
	progress   store.ProgressStore
	queue      store.QueueStore
	dailyStats store.DayCounterStore
	scheduler  srs.Service
	cfg        StudyServiceConfig
	logger     *slog.Logger
}

// NewStudyService creates a new StudyService.
// It returns an error if any of the required dependencies are nil.
func NewStudyService(
	db *sql.DB,
	items store.ItemStore,
	progress store.ProgressStore,
	queue store.QueueStore,
	dailyStats store.DayCounterStore,
	scheduler srs.Service,
	cfg StudyServiceConfig,
	log *slog.Logger,
) (StudyService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: item store cannot be nil", domain.ErrValidation)
	}
	if progress == nil {
		return nil, fmt.Errorf("%w: progress store cannot be nil", domain.ErrValidation)
	}
	if queue == nil {
		return nil, fmt.Errorf("%w: queue store cannot be nil", domain.ErrValidation)
	}
	if dailyStats == nil {
		return nil, fmt.Errorf("%w: daily stats store cannot be nil", domain.ErrValidation)
	}
	if scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler cannot be nil", domain.ErrValidation)
	}
	if cfg.DailyGoal <= 0 {
		return nil, fmt.Errorf("%w: daily goal must be positive", domain.ErrValidation)
	}
	if cfg.QueueLimit <= 0 {
		return nil, fmt.Errorf("%w: queue limit must be positive", domain.ErrValidation)
	}
	if cfg.ReviewPickPool <= 0 {
		return nil, fmt.Errorf("%w: review pick pool must be positive", domain.ErrValidation)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyServiceImpl{
		db:         db,
		items:      items,
		progress:   progress,
		queue:      queue,
		dailyStats: dailyStats,
		scheduler:  scheduler,
		cfg:        cfg,
		logger:     log.With(slog.String("component", "study_service")),
	}, nil
}

// BuildQueue implements StudyService.BuildQueue.
func (s *studyServiceImpl) BuildQueue(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	limit int,
) ([]domain.QueueEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := direction.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.QueueLimit {
		limit = s.cfg.QueueLimit
	}

	entries, err := s.queue.DueEntries(ctx, profileID, direction, time.Now().UTC(), limit)
	if err != nil {
		log.Error("failed to build study queue",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("direction", string(direction)))
		return nil, NewStudyServiceError("build_queue", "failed to load due entries", err)
	}

	if direction == domain.DirectionMixed {
		alternatePromptSides(entries)
	}

	log.Debug("built study queue",
		slog.String("profile_id", profileID),
		slog.String("direction", string(direction)),
		slog.Int("entries", len(entries)))

	return entries, nil
}

// alternatePromptSides flips every other reversible entry to the reverse
// prompt side. Mixed study varies only the presentation: schedule state
// stays on the forward key, which is what the entries were loaded under.
func alternatePromptSides(entries []domain.QueueEntry) {
	flip := false
	for i := range entries {
		if flip && entries[i].Item.Reversible {
			entries[i].Direction = domain.DirectionReverse
		}
		flip = !flip
	}
}

// HasDue implements StudyService.HasDue.
func (s *studyServiceImpl) HasDue(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := direction.Validate(); err != nil {
		return false, err
	}

	due, err := s.queue.HasDueEntries(ctx, profileID, direction, time.Now().UTC())
	if err != nil {
		log.Error("failed to check for due entries",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("direction", string(direction)))
		return false, NewStudyServiceError("has_due", "failed to check due entries", err)
	}

	return due, nil
}

// Grade implements StudyService.Grade.
func (s *studyServiceImpl) Grade(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
	grade domain.ReviewGrade,
) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if profileID == "" {
		return nil, domain.ErrEmptyProgressProfileID
	}
	if err := grade.Validate(); err != nil {
		return nil, err
	}
	key, err := direction.ProgressKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	day := domain.DayKey(now, s.cfg.Location)

	var result *GradeResult
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// The item must exist; grading unknown items is a referential
		// integrity violation, not an occasion for lazy creation.
		if _, err := s.items.WithTx(tx).GetByID(ctx, itemID); err != nil {
			return err
		}

		txProgress := s.progress.WithTx(tx)

		current, err := txProgress.GetForUpdate(ctx, profileID, itemID, key)
		created := false
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return err
			}
			current, err = domain.NewProgressRecord(profileID, itemID, key)
			if err != nil {
				return err
			}
			created = true
		}

		next, err := s.scheduler.Grade(current, grade, now)
		if err != nil {
			return err
		}

		if created {
			if err := txProgress.Create(ctx, next); err != nil {
				return err
			}
		} else {
			if err := txProgress.Update(ctx, next); err != nil {
				return err
			}
		}

		count, err := s.dailyStats.WithTx(tx).Increment(ctx, profileID, day)
		if err != nil {
			return err
		}

		result = &GradeResult{
			Progress:    next,
			TodayCount:  count,
			DailyGoal:   s.cfg.DailyGoal,
			GoalReached: count >= s.cfg.DailyGoal,
		}
		return nil
	})
	if err != nil {
		log.Error("failed to grade answer",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.Int64("item_id", itemID),
			slog.String("direction", string(direction)),
			slog.Int("grade", int(grade)))
		return nil, err
	}

	log.Info("graded answer",
		slog.String("profile_id", profileID),
		slog.Int64("item_id", itemID),
		slog.String("direction", string(key)),
		slog.Int("grade", int(grade)),
		slog.Int("repetition", result.Progress.Repetition),
		slog.Int("interval_days", result.Progress.IntervalDays),
		slog.Int("today_count", result.TodayCount),
		slog.Bool("goal_reached", result.GoalReached))

	return result, nil
}

// PickReviewItem implements StudyService.PickReviewItem.
func (s *studyServiceImpl) PickReviewItem(
	ctx context.Context,
	profileID string,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()

	overdue, err := s.queue.TopOverdue(ctx, profileID, now, s.cfg.ReviewPickPool)
	if err != nil {
		log.Error("failed to load overdue entries for review pick",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, NewStudyServiceError("pick_review_item", "failed to load overdue entries", err)
	}

	if len(overdue) > 0 {
		picked := overdue[rand.Intn(len(overdue))]
		log.Debug("picked overdue item for review reminder",
			slog.String("profile_id", profileID),
			slog.Int64("item_id", picked.Item.ID),
			slog.Int("pool_size", len(overdue)))
		item := picked.Item
		return &item, nil
	}

	item, err := s.queue.RandomStudied(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrNothingToStudy
		}
		log.Error("failed to pick random studied item",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, NewStudyServiceError("pick_review_item", "failed to pick studied item", err)
	}

	log.Debug("picked random studied item for review reminder",
		slog.String("profile_id", profileID),
		slog.Int64("item_id", item.ID))

	return item, nil
}
