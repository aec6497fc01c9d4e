package store

import (
	"context"
	"database/sql"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// ItemStore defines the read-side interface for vocabulary items.
// The scheduling flow only ever reads items; all writes go through
// ItemWriter, which belongs to the ingestion boundary.
type ItemStore interface {
	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// GetByPackage retrieves all items belonging to a content package, in
	// insertion order. Returns an empty slice when the package has no items.
	GetByPackage(ctx context.Context, packageID string) ([]*domain.Item, error)

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) ItemStore
}

// ItemWriter defines the ingestion-side interface for vocabulary items.
// It is used by the spreadsheet importer and the generation task, never by
// the scheduling core.
type ItemWriter interface {
	// CreateMultiple saves multiple items and assigns their IDs in place.
	// IMPORTANT: run this within a transaction via WithTxWriter and
	// store.RunInTransaction so a failed batch leaves no partial package.
	// Returns validation errors if any item data is invalid.
	CreateMultiple(ctx context.Context, items []*domain.Item) error

	// RemovePackage deletes every item in the package and returns how many
	// were removed. Schedule state for removed items disappears with them
	// through ON DELETE CASCADE. Returns ErrPackageNotFound if the package
	// has no items.
	RemovePackage(ctx context.Context, packageID string) (int64, error)

	// WithTxWriter returns a new ItemWriter instance that uses the provided
	// transaction.
	WithTxWriter(tx *sql.Tx) ItemWriter
}
