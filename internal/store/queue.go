package store

import (
	"context"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// QueueStore defines the read-only selection queries behind the study queue.
// All methods are snapshot reads: they tolerate concurrent grading, are safe
// to repeat, and never see an item twice under one key.
type QueueStore interface {
	// DueEntries returns up to limit entries studyable in the direction at
	// the given instant: overdue entries first, ordered most overdue first,
	// then never-reviewed items in insertion order. Entries whose due time
	// is strictly in the future are excluded. An empty slice is a valid
	// result.
	DueEntries(
		ctx context.Context,
		profileID string,
		direction domain.Direction,
		now time.Time,
		limit int,
	) ([]domain.QueueEntry, error)

	// HasDueEntries reports whether DueEntries would return at least one
	// entry, without materializing the queue.
	HasDueEntries(
		ctx context.Context,
		profileID string,
		direction domain.Direction,
		now time.Time,
	) (bool, error)

	// TopOverdue returns up to k overdue entries across both concrete
	// directions, most overdue first. Never-reviewed items are not overdue
	// and do not appear.
	TopOverdue(
		ctx context.Context,
		profileID string,
		now time.Time,
		k int,
	) ([]domain.QueueEntry, error)

	// RandomStudied returns a uniformly random item the profile has
	// reviewed at least once in any direction.
	// Returns ErrItemNotFound when nothing has been studied yet.
	RandomStudied(ctx context.Context, profileID string) (*domain.Item, error)
}
