package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/domain/srs"
	"github.com/ali-aktas/hocalingo-api/internal/platform/postgres"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/testutils"
)

// The grading transaction commits for real here, so these tests run against
// committed rows under uuid-unique profile and package IDs and clean up
// after themselves instead of using testutils.WithTx.

type gradeIntegrationEnv struct {
	svc        StudyService
	items      *postgres.PostgresItemStore
	progress   store.ProgressStore
	dailyStats store.DayCounterStore
	profileID  string
	packageID  string
	cfg        StudyServiceConfig
}

func newGradeIntegrationEnv(t *testing.T, db *sql.DB) *gradeIntegrationEnv {
	t.Helper()

	log := discardLogger()
	env := &gradeIntegrationEnv{
		items:      postgres.NewPostgresItemStore(db, log),
		progress:   postgres.NewPostgresProgressStore(db, log),
		dailyStats: postgres.NewPostgresDailyStatsStore(db, log),
		profileID:  "profile-" + uuid.NewString(),
		packageID:  "pkg-" + uuid.NewString(),
		cfg: StudyServiceConfig{
			DailyGoal:      3,
			QueueLimit:     10,
			ReviewPickPool: 3,
			Location:       time.UTC,
		},
	}

	svc, err := NewStudyService(
		db,
		env.items,
		env.progress,
		postgres.NewPostgresQueueStore(db, log),
		env.dailyStats,
		srs.NewDefaultService(),
		env.cfg,
		log,
	)
	require.NoError(t, err)
	env.svc = svc

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM items WHERE package_id = $1", env.packageID)
		_, _ = db.Exec("DELETE FROM daily_stats WHERE profile_id = $1", env.profileID)
	})

	return env
}

func (env *gradeIntegrationEnv) insertItem(t *testing.T, db *sql.DB, text string) *domain.Item {
	t.Helper()

	item, err := domain.NewItem(text, text+" (tr)", env.packageID)
	require.NoError(t, err)
	err = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return env.items.WithTxWriter(tx).CreateMultiple(ctx, []*domain.Item{item})
	})
	require.NoError(t, err)
	return item
}

func (env *gradeIntegrationEnv) seedTodayCount(t *testing.T, n int) string {
	t.Helper()

	ctx := context.Background()
	day := domain.DayKey(time.Now().UTC(), env.cfg.Location)
	for i := 0; i < n; i++ {
		_, err := env.dailyStats.Increment(ctx, env.profileID, day)
		require.NoError(t, err)
	}
	return day
}

func TestGradeFlipsGoalInsideTransaction(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	env := newGradeIntegrationEnv(t, db)
	item := env.insertItem(t, db, "kalem")
	ctx := context.Background()

	// One answer short of the goal before grading.
	day := env.seedTodayCount(t, env.cfg.DailyGoal-1)

	result, err := env.svc.Grade(ctx, env.profileID, item.ID, domain.DirectionForward, domain.GradePerfect)
	require.NoError(t, err)

	assert.Equal(t, env.cfg.DailyGoal, result.TodayCount)
	assert.True(t, result.GoalReached)
	assert.Equal(t, 1, result.Progress.Repetition)
	assert.Equal(t, 1, result.Progress.IntervalDays)

	// Both writes committed together: the schedule row exists and the
	// counter holds exactly the flipped value.
	saved, err := env.progress.Get(ctx, env.profileID, item.ID, domain.DirectionForward)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Repetition)
	assert.False(t, saved.DueAt.Before(time.Now().UTC().Add(23*time.Hour)))

	count, err := env.dailyStats.Count(ctx, env.profileID, day)
	require.NoError(t, err)
	assert.Equal(t, env.cfg.DailyGoal, count)
}

func TestGradeUnknownItemWritesNothing(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	env := newGradeIntegrationEnv(t, db)
	ctx := context.Background()
	day := env.seedTodayCount(t, 2)

	const missingItemID = int64(1) << 62

	_, err := env.svc.Grade(ctx, env.profileID, missingItemID, domain.DirectionForward, domain.GradeGood)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	// The failed grade must not bump the counter or leave schedule state.
	count, err := env.dailyStats.Count(ctx, env.profileID, day)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = env.progress.Get(ctx, env.profileID, missingItemID, domain.DirectionForward)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}
