package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// PostgresItemStore implements both store.ItemStore and store.ItemWriter
// using a PostgreSQL database. The read side serves the scheduling flow,
// the write side serves ingestion (spreadsheet import and generation).
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Verify interface compliance at compile time.
var (
	_ store.ItemStore  = (*PostgresItemStore)(nil)
	_ store.ItemWriter = (*PostgresItemStore)(nil)
)

// NewPostgresItemStore creates a new PostgreSQL implementation of the item
// store. It accepts a database connection or transaction handler via the
// DBTX interface and a logger for logging operations. If logger is nil, a
// default logger is used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// itemColumns is the canonical item column list, shared with the queue
// queries in queue_store.go so every full item scan stays in one shape.
const itemColumns = `id, text, translation, examples, pronunciation, level, category, reversible, user_created, selected, package_id, created_at`

// scanItem reads one full item row. The scan argument is row.Scan or
// rows.Scan from a query whose select list is itemColumns.
func scanItem(scan func(dest ...interface{}) error) (*domain.Item, error) {
	var (
		item          domain.Item
		examplesJSON  []byte
		pronunciation sql.NullString
	)

	err := scan(
		&item.ID,
		&item.Text,
		&item.Translation,
		&examplesJSON,
		&pronunciation,
		&item.Level,
		&item.Category,
		&item.Reversible,
		&item.UserCreated,
		&item.Selected,
		&item.PackageID,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(examplesJSON) > 0 {
		if err := json.Unmarshal(examplesJSON, &item.Examples); err != nil {
			return nil, fmt.Errorf("failed to decode item examples: %w", err)
		}
	}
	item.Pronunciation = pronunciation.String

	return &item, nil
}

// encodeExamples normalizes a nil slice to an empty JSON array so the
// examples column never stores JSON null.
func encodeExamples(examples []string) ([]byte, error) {
	if examples == nil {
		examples = []string{}
	}
	return json.Marshal(examples)
}

// GetByID implements store.ItemStore.GetByID.
// It retrieves an item by its unique ID, returning store.ErrItemNotFound
// if no item exists with the given ID.
func (s *PostgresItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}

		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// GetByPackage implements store.ItemStore.GetByPackage.
// It retrieves all items in a content package in insertion order. A package
// with no items yields an empty slice, not an error.
func (s *PostgresItemStore) GetByPackage(ctx context.Context, packageID string) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM items WHERE package_id = $1 ORDER BY id ASC`, itemColumns)

	rows, err := s.db.QueryContext(ctx, query, packageID)
	if err != nil {
		log.Error("failed to query items by package",
			slog.String("error", err.Error()),
			slog.String("package_id", packageID))
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("error closing rows", slog.String("error", err.Error()))
		}
	}()

	// Initialize as an empty slice, not nil, so callers can range and encode
	// without nil checks.
	items := []*domain.Item{}

	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()),
				slog.String("package_id", packageID))
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating item rows",
			slog.String("error", err.Error()),
			slog.String("package_id", packageID))
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	log.Debug("retrieved items by package",
		slog.String("package_id", packageID),
		slog.Int("count", len(items)))

	return items, nil
}

// CreateMultiple implements store.ItemWriter.CreateMultiple.
// It validates every item before writing anything, then inserts them one by
// one, assigning the generated IDs in place. Run it inside a transaction via
// WithTxWriter so a failed batch leaves no partial package behind.
func (s *PostgresItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		return nil
	}

	// Validate the whole batch up front so a bad row cannot leave a
	// half-written package.
	for i, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return fmt.Errorf("item %d invalid: %w", i, err)
		}
	}

	query := `
		INSERT INTO items (text, translation, examples, pronunciation, level,
			category, reversible, user_created, selected, package_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	for i, item := range items {
		examplesJSON, err := encodeExamples(item.Examples)
		if err != nil {
			return fmt.Errorf("failed to encode examples for item %d: %w", i, err)
		}

		pronunciation := sql.NullString{
			String: item.Pronunciation,
			Valid:  item.Pronunciation != "",
		}

		err = s.db.QueryRowContext(ctx, query,
			item.Text,
			item.Translation,
			examplesJSON,
			pronunciation,
			item.Level,
			item.Category,
			item.Reversible,
			item.UserCreated,
			item.Selected,
			item.PackageID,
			item.CreatedAt,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert item",
				slog.String("error", err.Error()),
				slog.Int("index", i),
				slog.String("package_id", item.PackageID))
			return fmt.Errorf("failed to insert item %d: %w", i, MapError(err))
		}
	}

	log.Info("created items",
		slog.Int("count", len(items)),
		slog.String("package_id", items[0].PackageID))

	return nil
}

// RemovePackage implements store.ItemWriter.RemovePackage.
// It deletes every item in the package and returns how many were removed.
// Progress records referencing removed items disappear with them through
// ON DELETE CASCADE. Returns store.ErrPackageNotFound when the package has
// no items.
func (s *PostgresItemStore) RemovePackage(ctx context.Context, packageID string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE package_id = $1`, packageID)
	if err != nil {
		log.Error("failed to delete package items",
			slog.String("error", err.Error()),
			slog.String("package_id", packageID))
		return 0, fmt.Errorf("failed to delete package items: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if removed == 0 {
		log.Debug("package not found", slog.String("package_id", packageID))
		return 0, store.ErrPackageNotFound
	}

	log.Info("removed package items",
		slog.String("package_id", packageID),
		slog.Int64("count", removed))

	return removed, nil
}

// WithTx implements store.ItemStore.WithTx.
// It returns a new item store bound to the given transaction.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// WithTxWriter implements store.ItemWriter.WithTxWriter.
// It returns a new item writer bound to the given transaction.
func (s *PostgresItemStore) WithTxWriter(tx *sql.Tx) store.ItemWriter {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}
