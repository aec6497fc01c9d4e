package store

import (
	"context"
	"database/sql"
)

// DayCounterStore is a reusable (profile, day) -> count abstraction. Two
// instances back the engine: the daily words-studied counter and the daily
// generation quota. Days are "YYYY-MM-DD" buckets in the learner's local
// time (domain.DayKey).
type DayCounterStore interface {
	// Count returns the counter for the day, or 0 when no row exists.
	// Absent rows and zero counts are indistinguishable on purpose.
	Count(ctx context.Context, profileID, day string) (int, error)

	// Increment adds one to the day's counter, lazily creating the row, and
	// returns the new value. The increment is atomic at the database level:
	// concurrent calls serialize and none are lost.
	Increment(ctx context.Context, profileID, day string) (int, error)

	// Range returns the day -> count mapping for every stored day in
	// [fromDay, toDay]. Days without rows are simply absent from the map.
	Range(ctx context.Context, profileID, fromDay, toDay string) (map[string]int, error)

	// PurgeOlderThan removes all rows strictly older than the cutoff day,
	// across profiles, and returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoffDay string) (int64, error)

	// WithTx returns a new DayCounterStore instance that uses the provided
	// transaction. The grading flow uses this to commit the counter bump
	// atomically with the schedule write.
	WithTx(tx *sql.Tx) DayCounterStore
}
