package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// TodayStats is the daily activity summary: the words-studied counter, the
// configured goal, progress toward it, and how many sessions were started
// today. Percent is not capped, so an over-achieved day reads above 100.
type TodayStats struct {
	Day             string `json:"day"`
	WordsStudied    int    `json:"words_studied"`
	DailyGoal       int    `json:"daily_goal"`
	ProgressPercent int    `json:"progress_percent"`
	SessionsStarted int    `json:"sessions_started"`
	GoalReached     bool   `json:"goal_reached"`
}

// StatsServiceConfig carries the tunables of the progress tracker.
type StatsServiceConfig struct {
	// DailyGoal is the number of graded answers that counts as a full day.
	DailyGoal int

	// StreakLookbackDays bounds how far back the streak walk goes.
	StreakLookbackDays int

	// Location defines the learner's local day boundaries.
	Location *time.Location
}

// StatsService tracks study sessions and daily progress.
type StatsService interface {
	// StartSession opens a new study session for the profile.
	StartSession(
		ctx context.Context,
		profileID string,
		sessionType domain.SessionType,
	) (*domain.StudySession, error)

	// FinishSession closes an open session with its final counts and
	// returns the closed session. Sessions close exactly once: finishing
	// again returns store.ErrSessionFinished, and an unknown ID returns
	// store.ErrSessionNotFound.
	FinishSession(
		ctx context.Context,
		id uuid.UUID,
		wordsStudied int,
		correctAnswers int,
	) (*domain.StudySession, error)

	// TodayStats returns the profile's activity summary for the current
	// local day. A day without any activity reads as zero counts, not as
	// an error.
	TodayStats(ctx context.Context, profileID string) (*TodayStats, error)

	// StreakLength returns the number of consecutive active days ending
	// today or yesterday. A day counts when its words-studied counter is
	// positive; an inactive today does not break a running streak.
	StreakLength(ctx context.Context, profileID string) (int, error)
}

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	sessions   store.SessionStore
	dailyStats store.DayCounterStore
	cfg        StatsServiceConfig
	logger     *slog.Logger
}

// NewStatsService creates a new StatsService.
// It returns an error if any of the required dependencies are nil.
func NewStatsService(
	sessions store.SessionStore,
	dailyStats store.DayCounterStore,
	cfg StatsServiceConfig,
	log *slog.Logger,
) (StatsService, error) {
	if sessions == nil {
		return nil, fmt.Errorf("%w: session store cannot be nil", domain.ErrValidation)
	}
	if dailyStats == nil {
		return nil, fmt.Errorf("%w: daily stats store cannot be nil", domain.ErrValidation)
	}
	if cfg.DailyGoal <= 0 {
		return nil, fmt.Errorf("%w: daily goal must be positive", domain.ErrValidation)
	}
	if cfg.StreakLookbackDays <= 0 {
		return nil, fmt.Errorf("%w: streak lookback must be positive", domain.ErrValidation)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &statsServiceImpl{
		sessions:   sessions,
		dailyStats: dailyStats,
		cfg:        cfg,
		logger:     log.With(slog.String("component", "stats_service")),
	}, nil
}

// StartSession implements StatsService.StartSession.
func (s *statsServiceImpl) StartSession(
	ctx context.Context,
	profileID string,
	sessionType domain.SessionType,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewStudySession(profileID, sessionType)
	if err != nil {
		log.Warn("invalid session parameters",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("type", string(sessionType)))
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, err
	}

	log.Info("started study session",
		slog.String("session_id", session.ID.String()),
		slog.String("profile_id", profileID),
		slog.String("type", string(sessionType)))

	return session, nil
}

// FinishSession implements StatsService.FinishSession.
func (s *statsServiceImpl) FinishSession(
	ctx context.Context,
	id uuid.UUID,
	wordsStudied int,
	correctAnswers int,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessions.Finish(ctx, id, time.Now().UTC(), wordsStudied, correctAnswers)
	if err != nil {
		log.Warn("failed to finish study session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	log.Info("finished study session",
		slog.String("session_id", session.ID.String()),
		slog.String("profile_id", session.ProfileID),
		slog.Int("words_studied", session.WordsStudied),
		slog.Int("correct_answers", session.CorrectAnswers))

	return session, nil
}

// TodayStats implements StatsService.TodayStats.
func (s *statsServiceImpl) TodayStats(
	ctx context.Context,
	profileID string,
) (*TodayStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().In(s.cfg.Location)
	day := domain.DayKey(now, s.cfg.Location)

	count, err := s.dailyStats.Count(ctx, profileID, day)
	if err != nil {
		log.Error("failed to read daily counter",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("day", day))
		return nil, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
	sessionCount, err := s.sessions.CountStartedBetween(
		ctx,
		profileID,
		midnight,
		midnight.AddDate(0, 0, 1),
	)
	if err != nil {
		log.Error("failed to count today's sessions",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("day", day))
		return nil, err
	}

	percent := int(math.Round(float64(count) / float64(s.cfg.DailyGoal) * 100))

	return &TodayStats{
		Day:             day,
		WordsStudied:    count,
		DailyGoal:       s.cfg.DailyGoal,
		ProgressPercent: percent,
		SessionsStarted: sessionCount,
		GoalReached:     count >= s.cfg.DailyGoal,
	}, nil
}

// StreakLength implements StatsService.StreakLength.
func (s *statsServiceImpl) StreakLength(ctx context.Context, profileID string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().In(s.cfg.Location)
	from := domain.DayKey(now.AddDate(0, 0, -(s.cfg.StreakLookbackDays-1)), s.cfg.Location)
	to := domain.DayKey(now, s.cfg.Location)

	counts, err := s.dailyStats.Range(ctx, profileID, from, to)
	if err != nil {
		log.Error("failed to load day counters for streak",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return 0, err
	}

	streak := 0
	for i := 0; i < s.cfg.StreakLookbackDays; i++ {
		day := domain.DayKey(now.AddDate(0, 0, -i), s.cfg.Location)
		if counts[day] > 0 {
			streak++
			continue
		}
		if i == 0 {
			// Today without activity does not break a running streak.
			continue
		}
		break
	}

	log.Debug("computed streak",
		slog.String("profile_id", profileID),
		slog.Int("streak", streak))

	return streak, nil
}
