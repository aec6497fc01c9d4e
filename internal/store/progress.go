package store

import (
	"context"
	"database/sql"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// ProgressStore defines the interface for schedule-state persistence.
// Records are keyed by (profile, item, concrete direction); the grading
// flow is the only writer.
type ProgressStore interface {
	// Create saves a new progress record.
	// It handles domain validation internally.
	// Returns ErrDuplicate if the (profile, item, direction) key already exists.
	Create(ctx context.Context, record *domain.ProgressRecord) error

	// Get retrieves a progress record by its full key.
	// Returns ErrProgressNotFound if no record exists.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(
		ctx context.Context,
		profileID string,
		itemID int64,
		direction domain.Direction,
	) (*domain.ProgressRecord, error)

	// GetForUpdate retrieves a progress record with a row-level lock using
	// SELECT FOR UPDATE. Use it within a transaction when the record will be
	// updated, so concurrent grades of the same key serialize instead of
	// losing writes. Returns ErrProgressNotFound if no record exists.
	GetForUpdate(
		ctx context.Context,
		profileID string,
		itemID int64,
		direction domain.Direction,
	) (*domain.ProgressRecord, error)

	// Update modifies an existing progress record, identified by the key
	// fields of the given record. Returns ErrProgressNotFound if no record
	// exists, and validation errors if the record data is invalid.
	Update(ctx context.Context, record *domain.ProgressRecord) error

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
