package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

func testStatsConfig() StatsServiceConfig {
	return StatsServiceConfig{
		DailyGoal:          20,
		StreakLookbackDays: 365,
		Location:           time.UTC,
	}
}

type statsFixture struct {
	sessions   *MockSessionStore
	dailyStats *MockDayCounterStore
	service    StatsService
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()

	f := &statsFixture{
		sessions:   new(MockSessionStore),
		dailyStats: new(MockDayCounterStore),
	}

	svc, err := NewStatsService(f.sessions, f.dailyStats, testStatsConfig(), discardLogger())
	require.NoError(t, err)
	f.service = svc
	return f
}

// dayAgo returns the UTC day key i days before now.
func dayAgo(i int) string {
	return domain.DayKey(time.Now().UTC().AddDate(0, 0, -i), time.UTC)
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	t.Run("opens a session", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		f.sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.StudySession")).
			Return(nil).Once()

		session, err := f.service.StartSession(context.Background(), "default", domain.SessionTypeRegular)
		require.NoError(t, err)
		assert.Equal(t, "default", session.ProfileID)
		assert.Equal(t, domain.SessionTypeRegular, session.Type)
		assert.False(t, session.Finished())
		f.sessions.AssertExpectations(t)
	})

	t.Run("rejects an unknown session type", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		_, err := f.service.StartSession(context.Background(), "default", domain.SessionType("cramming"))
		assert.ErrorIs(t, err, domain.ErrInvalidSessionType)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		f.sessions.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()

		_, err := f.service.StartSession(context.Background(), "default", domain.SessionTypeQuickReview)
		require.Error(t, err)
	})
}

func TestFinishSession(t *testing.T) {
	t.Parallel()

	t.Run("closes a session", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		id := uuid.New()
		ended := time.Now().UTC()
		closed := &domain.StudySession{
			ID:             id,
			ProfileID:      "default",
			Type:           domain.SessionTypeRegular,
			StartedAt:      ended.Add(-10 * time.Minute),
			EndedAt:        &ended,
			WordsStudied:   12,
			CorrectAnswers: 9,
		}
		f.sessions.On("Finish", mock.Anything, id, mock.Anything, 12, 9).
			Return(closed, nil).Once()

		session, err := f.service.FinishSession(context.Background(), id, 12, 9)
		require.NoError(t, err)
		assert.True(t, session.Finished())
		assert.Equal(t, 12, session.WordsStudied)
		assert.Equal(t, 9, session.CorrectAnswers)
	})

	t.Run("propagates the finished-twice error", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		id := uuid.New()
		f.sessions.On("Finish", mock.Anything, id, mock.Anything, 0, 0).
			Return(nil, store.ErrSessionFinished).Once()

		_, err := f.service.FinishSession(context.Background(), id, 0, 0)
		assert.ErrorIs(t, err, store.ErrSessionFinished)
	})
}

func TestTodayStats(t *testing.T) {
	t.Parallel()

	t.Run("summarizes a partial day", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		f.dailyStats.On("Count", mock.Anything, "default", dayAgo(0)).
			Return(13, nil).Once()
		f.sessions.On("CountStartedBetween", mock.Anything, "default", mock.Anything, mock.Anything).
			Return(2, nil).Once()

		stats, err := f.service.TodayStats(context.Background(), "default")
		require.NoError(t, err)
		assert.Equal(t, dayAgo(0), stats.Day)
		assert.Equal(t, 13, stats.WordsStudied)
		assert.Equal(t, 20, stats.DailyGoal)
		assert.Equal(t, 65, stats.ProgressPercent)
		assert.Equal(t, 2, stats.SessionsStarted)
		assert.False(t, stats.GoalReached)
	})

	t.Run("flags a reached goal", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		f.dailyStats.On("Count", mock.Anything, "default", dayAgo(0)).
			Return(25, nil).Once()
		f.sessions.On("CountStartedBetween", mock.Anything, "default", mock.Anything, mock.Anything).
			Return(3, nil).Once()

		stats, err := f.service.TodayStats(context.Background(), "default")
		require.NoError(t, err)
		assert.True(t, stats.GoalReached)
		assert.Equal(t, 125, stats.ProgressPercent)
	})

	t.Run("reads an inactive day as zeros", func(t *testing.T) {
		t.Parallel()

		f := newStatsFixture(t)
		f.dailyStats.On("Count", mock.Anything, "default", dayAgo(0)).
			Return(0, nil).Once()
		f.sessions.On("CountStartedBetween", mock.Anything, "default", mock.Anything, mock.Anything).
			Return(0, nil).Once()

		stats, err := f.service.TodayStats(context.Background(), "default")
		require.NoError(t, err)
		assert.Zero(t, stats.WordsStudied)
		assert.Zero(t, stats.SessionsStarted)
		assert.Zero(t, stats.ProgressPercent)
		assert.False(t, stats.GoalReached)
	})
}

func TestStreakLength(t *testing.T) {
	t.Parallel()

	streakOf := func(t *testing.T, counts map[string]int) int {
		t.Helper()

		f := newStatsFixture(t)
		f.dailyStats.On("Range", mock.Anything, "default", mock.Anything, mock.Anything).
			Return(counts, nil).Once()

		streak, err := f.service.StreakLength(context.Background(), "default")
		require.NoError(t, err)
		return streak
	}

	t.Run("counts consecutive active days", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			dayAgo(0): 20,
			dayAgo(1): 7,
			dayAgo(2): 31,
		}
		assert.Equal(t, 3, streakOf(t, counts))
	})

	t.Run("inactive today does not break the streak", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			dayAgo(1): 12,
			dayAgo(2): 5,
		}
		assert.Equal(t, 2, streakOf(t, counts))
	})

	t.Run("stops at the first gap", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			dayAgo(0): 4,
			dayAgo(2): 9,
			dayAgo(3): 9,
		}
		assert.Equal(t, 1, streakOf(t, counts))
	})

	t.Run("no activity at all reads as zero", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, streakOf(t, map[string]int{}))
	})

	t.Run("zero count days do not extend the streak", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			dayAgo(0): 3,
			dayAgo(1): 0,
			dayAgo(2): 8,
		}
		assert.Equal(t, 1, streakOf(t, counts))
	})
}
