package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/service"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// Config tunes the recurring jobs.
type Config struct {
	// PurgeTime is the local "HH:MM" at which the daily retention purge runs.
	PurgeTime string

	// RetentionDays is how many days of counter rows the purge keeps.
	RetentionDays int

	// ReminderInterval is how often the review-reminder pick runs.
	ReminderInterval time.Duration

	// ProfileID is the profile the reminder pick runs for.
	ProfileID string

	// Location defines local time for the purge schedule and day cutoffs.
	Location *time.Location
}

// Scheduler owns the cron jobs around the study engine. It is started once
// at boot and stopped during shutdown; job failures are logged and retried
// on the next tick, never escalated.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	study      service.StudyService
	notifier   Notifier
	dailyStats store.DayCounterStore
	quota      store.DayCounterStore
	cfg        Config
	logger     *slog.Logger
}

// NewScheduler creates the job scheduler.
// It returns an error if any of the required dependencies are nil.
func NewScheduler(
	study service.StudyService,
	notifier Notifier,
	dailyStats store.DayCounterStore,
	quota store.DayCounterStore,
	cfg Config,
	log *slog.Logger,
) (*Scheduler, error) {
	if study == nil {
		return nil, fmt.Errorf("%w: study service cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, fmt.Errorf("%w: notifier cannot be nil", domain.ErrValidation)
	}
	if dailyStats == nil {
		return nil, fmt.Errorf("%w: daily stats store cannot be nil", domain.ErrValidation)
	}
	if quota == nil {
		return nil, fmt.Errorf("%w: quota store cannot be nil", domain.ErrValidation)
	}
	if cfg.RetentionDays <= 0 {
		return nil, fmt.Errorf("%w: retention days must be positive", domain.ErrValidation)
	}
	if cfg.ReminderInterval <= 0 {
		return nil, fmt.Errorf("%w: reminder interval must be positive", domain.ErrValidation)
	}
	if cfg.ProfileID == "" {
		return nil, fmt.Errorf("%w: profile ID cannot be empty", domain.ErrValidation)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		scheduler:  gocron.NewScheduler(cfg.Location),
		study:      study,
		notifier:   notifier,
		dailyStats: dailyStats,
		quota:      quota,
		cfg:        cfg,
		logger:     log.With(slog.String("component", "jobs")),
	}, nil
}

// Start registers the jobs and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.cfg.PurgeTime).Do(s.runPurge); err != nil {
		return fmt.Errorf("failed to schedule retention purge: %w", err)
	}

	if _, err := s.scheduler.Every(s.cfg.ReminderInterval).Do(s.runReminderPick); err != nil {
		return fmt.Errorf("failed to schedule review reminder: %w", err)
	}

	s.scheduler.StartAsync()

	s.logger.Info("job scheduler started",
		slog.String("purge_time", s.cfg.PurgeTime),
		slog.Int("retention_days", s.cfg.RetentionDays),
		slog.Duration("reminder_interval", s.cfg.ReminderInterval))
	return nil
}

// Stop halts the scheduler. Running jobs finish their current invocation.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("job scheduler stopped")
}

// runPurge removes day-counter rows older than the retention window from
// both counter tables. The counters only feed the streak walk and quota
// check, and both are bounded lookbacks, so old rows are pure dead weight.
func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := domain.DayKey(
		time.Now().In(s.cfg.Location).AddDate(0, 0, -s.cfg.RetentionDays),
		s.cfg.Location,
	)

	statsRemoved, err := s.dailyStats.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("daily stats purge failed",
			slog.String("error", err.Error()),
			slog.String("cutoff", cutoff))
	}

	quotaRemoved, err := s.quota.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("generation quota purge failed",
			slog.String("error", err.Error()),
			slog.String("cutoff", cutoff))
	}

	s.logger.Info("retention purge completed",
		slog.String("cutoff", cutoff),
		slog.Int64("daily_stats_removed", statsRemoved),
		slog.Int64("quota_rows_removed", quotaRemoved))
}

// runReminderPick asks the study service for an item worth nudging about
// and hands it to the notifier. No studied items yet is a normal state, not
// an error.
func (s *Scheduler) runReminderPick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	item, err := s.study.PickReviewItem(ctx, s.cfg.ProfileID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToStudy) {
			s.logger.Debug("no review reminder: nothing studied yet",
				slog.String("profile_id", s.cfg.ProfileID))
			return
		}
		s.logger.Error("review reminder pick failed",
			slog.String("error", err.Error()),
			slog.String("profile_id", s.cfg.ProfileID))
		return
	}

	if err := s.notifier.NotifyReviewDue(ctx, s.cfg.ProfileID, item); err != nil {
		s.logger.Error("review reminder delivery failed",
			slog.String("error", err.Error()),
			slog.Int64("item_id", item.ID))
	}
}
