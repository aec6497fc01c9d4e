package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/postgres"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/testutils"
)

// These tests run against a real database and skip themselves unless
// HOCALINGO_TEST_DATABASE_URL is set. Every test works inside a rolled-back
// transaction, so they are safe to run in parallel against a shared database.

func insertTestItems(t *testing.T, tx *sql.Tx, packageID string, texts ...string) []*domain.Item {
	t.Helper()

	items := make([]*domain.Item, 0, len(texts))
	for _, text := range texts {
		item, err := domain.NewItem(text, text+" (tr)", packageID)
		require.NoError(t, err)
		items = append(items, item)
	}

	writer := postgres.NewPostgresItemStore(tx, nil)
	require.NoError(t, writer.CreateMultiple(context.Background(), items))
	return items
}

func TestItemStoreRoundTrip(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		itemStore := postgres.NewPostgresItemStore(tx, nil)

		items := insertTestItems(t, tx, "pkg-roundtrip", "merhaba", "teşekkürler")
		require.NotZero(t, items[0].ID)

		got, err := itemStore.GetByID(ctx, items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "merhaba", got.Text)
		assert.Equal(t, "pkg-roundtrip", got.PackageID)
		assert.True(t, got.Selected)
		assert.True(t, got.Reversible)

		inPackage, err := itemStore.GetByPackage(ctx, "pkg-roundtrip")
		require.NoError(t, err)
		require.Len(t, inPackage, 2)
		assert.Equal(t, "merhaba", inPackage[0].Text)

		_, err = itemStore.GetByID(ctx, items[1].ID+1000)
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})
}

func TestItemStoreRemovePackage(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		itemStore := postgres.NewPostgresItemStore(tx, nil)
		progressStore := postgres.NewPostgresProgressStore(tx, nil)

		items := insertTestItems(t, tx, "pkg-remove", "ev", "araba")

		record, err := domain.NewProgressRecord("profile-remove", items[0].ID, domain.DirectionForward)
		require.NoError(t, err)
		require.NoError(t, progressStore.Create(ctx, record))

		removed, err := itemStore.RemovePackage(ctx, "pkg-remove")
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		// Schedule state goes with the items.
		_, err = progressStore.Get(ctx, "profile-remove", items[0].ID, domain.DirectionForward)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)

		_, err = itemStore.RemovePackage(ctx, "pkg-remove")
		assert.ErrorIs(t, err, store.ErrPackageNotFound)
	})
}

func TestProgressStoreLifecycle(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		progressStore := postgres.NewPostgresProgressStore(tx, nil)

		items := insertTestItems(t, tx, "pkg-progress", "kitap")
		itemID := items[0].ID

		record, err := domain.NewProgressRecord("profile-progress", itemID, domain.DirectionForward)
		require.NoError(t, err)
		require.NoError(t, progressStore.Create(ctx, record))

		// Duplicate key is rejected.
		err = progressStore.Create(ctx, record)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		got, err := progressStore.GetForUpdate(ctx, "profile-progress", itemID, domain.DirectionForward)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Repetition)
		assert.InDelta(t, 2.5, got.EaseFactor, 0.0001)

		got.Repetition = 1
		got.IntervalDays = 1
		got.DueAt = time.Now().UTC().Add(24 * time.Hour)
		got.LastReviewedAt = time.Now().UTC()
		require.NoError(t, progressStore.Update(ctx, got))

		after, err := progressStore.Get(ctx, "profile-progress", itemID, domain.DirectionForward)
		require.NoError(t, err)
		assert.Equal(t, 1, after.Repetition)
		assert.Equal(t, 1, after.IntervalDays)

		// The reverse direction is an independent record.
		_, err = progressStore.Get(ctx, "profile-progress", itemID, domain.DirectionReverse)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)
	})
}

func TestQueueStoreDueEntries(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		progressStore := postgres.NewPostgresProgressStore(tx, nil)
		queueStore := postgres.NewPostgresQueueStore(tx, nil)

		items := insertTestItems(t, tx, "pkg-queue", "su", "ekmek", "çay")
		now := time.Now().UTC()
		profileID := "profile-queue"

		// First item: overdue. Second item: due far in the future.
		// Third item stays never-reviewed.
		overdue, err := domain.NewProgressRecord(profileID, items[0].ID, domain.DirectionForward)
		require.NoError(t, err)
		overdue.DueAt = now.Add(-48 * time.Hour)
		overdue.LastReviewedAt = now.Add(-72 * time.Hour)
		require.NoError(t, progressStore.Create(ctx, overdue))

		future, err := domain.NewProgressRecord(profileID, items[1].ID, domain.DirectionForward)
		require.NoError(t, err)
		future.DueAt = now.Add(72 * time.Hour)
		future.LastReviewedAt = now
		require.NoError(t, progressStore.Create(ctx, future))

		entries, err := queueStore.DueEntries(ctx, profileID, domain.DirectionForward, now, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// Overdue before never-reviewed, future item absent.
		assert.Equal(t, items[0].ID, entries[0].Item.ID)
		require.NotNil(t, entries[0].Progress)
		assert.Equal(t, items[2].ID, entries[1].Item.ID)
		assert.Nil(t, entries[1].Progress)

		has, err := queueStore.HasDueEntries(ctx, profileID, domain.DirectionForward, now)
		require.NoError(t, err)
		assert.True(t, has)

		top, err := queueStore.TopOverdue(ctx, profileID, now, 5)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, items[0].ID, top[0].Item.ID)

		studied, err := queueStore.RandomStudied(ctx, profileID)
		require.NoError(t, err)
		assert.Contains(t, []int64{items[0].ID, items[1].ID}, studied.ID)
	})
}

func TestSessionStoreFinishOnce(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		sessionStore := postgres.NewPostgresSessionStore(tx, nil)

		session, err := domain.NewStudySession("profile-session", domain.SessionTypeRegular)
		require.NoError(t, err)
		require.NoError(t, sessionStore.Create(ctx, session))

		got, err := sessionStore.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, got.Finished())

		endedAt := time.Now().UTC()
		closed, err := sessionStore.Finish(ctx, session.ID, endedAt, 12, 9)
		require.NoError(t, err)
		assert.True(t, closed.Finished())
		assert.Equal(t, 12, closed.WordsStudied)
		assert.Equal(t, 9, closed.CorrectAnswers)

		_, err = sessionStore.Finish(ctx, session.ID, endedAt, 12, 9)
		assert.ErrorIs(t, err, store.ErrSessionFinished)

		count, err := sessionStore.CountStartedBetween(
			ctx, "profile-session",
			session.StartedAt.Add(-time.Minute),
			session.StartedAt.Add(time.Minute),
		)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestDayCounterStoreConcurrentIncrements(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	// Concurrent bumps must serialize in the database, so this test runs
	// against committed rows rather than inside a single transaction.
	ctx := context.Background()
	stats := postgres.NewPostgresDailyStatsStore(db, nil)
	profileID := "profile-concurrent-" + uuid.NewString()
	day := "2026-08-29"

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM daily_stats WHERE profile_id = $1", profileID)
	})

	const writers = 20
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stats.Increment(ctx, profileID, day)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// No lost updates, no double counts.
	count, err := stats.Count(ctx, profileID, day)
	require.NoError(t, err)
	assert.Equal(t, writers, count)
}

func TestDayCounterStoreIncrementAndRange(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		stats := postgres.NewPostgresDailyStatsStore(tx, nil)
		profileID := "profile-counter"

		count, err := stats.Count(ctx, profileID, "2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		n, err := stats.Increment(ctx, profileID, "2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = stats.Increment(ctx, profileID, "2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = stats.Increment(ctx, profileID, "2026-08-27")
		require.NoError(t, err)

		byDay, err := stats.Range(ctx, profileID, "2026-08-23", "2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"2026-08-27": 1, "2026-08-29": 2}, byDay)

		removed, err := stats.PurgeOlderThan(ctx, "2026-08-28")
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		byDay, err = stats.Range(ctx, profileID, "2026-08-23", "2026-08-29")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"2026-08-29": 2}, byDay)
	})
}
