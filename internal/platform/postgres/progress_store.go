package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Verify PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// handler via the DBTX interface and a logger for logging operations.
// If logger is nil, a default logger is used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// progressColumns is the canonical progress column list, shared with the
// queue queries in queue_store.go.
const progressColumns = `profile_id, item_id, direction, repetition, ease_factor, interval_days, due_at, last_reviewed_at, created_at, updated_at`

// scanProgressRecord reads one progress row. The scan argument is row.Scan
// or rows.Scan from a query whose select list is progressColumns.
func scanProgressRecord(scan func(dest ...interface{}) error) (*domain.ProgressRecord, error) {
	var (
		record         domain.ProgressRecord
		lastReviewedAt sql.NullTime
	)

	err := scan(
		&record.ProfileID,
		&record.ItemID,
		&record.Direction,
		&record.Repetition,
		&record.EaseFactor,
		&record.IntervalDays,
		&record.DueAt,
		&lastReviewedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		record.LastReviewedAt = lastReviewedAt.Time
	}

	return &record, nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// Create implements store.ProgressStore.Create.
// It validates the record, then inserts it. Returns store.ErrDuplicate when
// the (profile, item, direction) key already exists and store.ErrInvalidEntity
// when the referenced item does not exist.
func (s *PostgresProgressStore) Create(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("profile_id", record.ProfileID),
			slog.Int64("item_id", record.ItemID))
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO progress_records (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, progressColumns)

	_, err := s.db.ExecContext(ctx, query,
		record.ProfileID,
		record.ItemID,
		string(record.Direction),
		record.Repetition,
		record.EaseFactor,
		record.IntervalDays,
		record.DueAt,
		nullTime(record.LastReviewedAt),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("progress record already exists",
				slog.String("profile_id", record.ProfileID),
				slog.Int64("item_id", record.ItemID),
				slog.String("direction", string(record.Direction)))
			return fmt.Errorf("%w: progress for item %d (%s) already exists",
				store.ErrDuplicate, record.ItemID, record.Direction)
		}

		if IsForeignKeyViolation(err) {
			log.Warn("invalid item reference in progress record",
				slog.String("profile_id", record.ProfileID),
				slog.Int64("item_id", record.ItemID))
			return fmt.Errorf("%w: item with ID %d does not exist",
				store.ErrInvalidEntity, record.ItemID)
		}

		log.Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.String("profile_id", record.ProfileID),
			slog.Int64("item_id", record.ItemID))
		return fmt.Errorf("failed to create progress record: %w", err)
	}

	log.Info("progress record created",
		slog.String("profile_id", record.ProfileID),
		slog.Int64("item_id", record.ItemID),
		slog.String("direction", string(record.Direction)))

	return nil
}

// Get implements store.ProgressStore.Get.
// It retrieves a record by its full key without any row locking.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
) (*domain.ProgressRecord, error) {
	return s.get(ctx, profileID, itemID, direction, false)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate.
// It retrieves a record with a row-level lock (SELECT FOR UPDATE) so that
// concurrent grades of the same key serialize inside their transactions.
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
) (*domain.ProgressRecord, error) {
	return s.get(ctx, profileID, itemID, direction, true)
}

func (s *PostgresProgressStore) get(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
	forUpdate bool,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s FROM progress_records
		WHERE profile_id = $1 AND item_id = $2 AND direction = $3
	`, progressColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	row := s.db.QueryRowContext(ctx, query, profileID, itemID, string(direction))
	record, err := scanProgressRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record not found",
				slog.String("profile_id", profileID),
				slog.Int64("item_id", itemID),
				slog.String("direction", string(direction)))
			return nil, store.ErrProgressNotFound
		}

		log.Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.Int64("item_id", itemID),
			slog.String("direction", string(direction)))
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	return record, nil
}

// Update implements store.ProgressStore.Update.
// It writes the schedule fields of the record identified by the key fields.
// Timestamps are written as given so the grading instant flows through
// unchanged. Returns store.ErrProgressNotFound if no record exists.
func (s *PostgresProgressStore) Update(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during update",
			slog.String("error", err.Error()),
			slog.String("profile_id", record.ProfileID),
			slog.Int64("item_id", record.ItemID))
		return err
	}

	query := `
		UPDATE progress_records
		SET repetition = $1,
			ease_factor = $2,
			interval_days = $3,
			due_at = $4,
			last_reviewed_at = $5,
			updated_at = $6
		WHERE profile_id = $7 AND item_id = $8 AND direction = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		record.Repetition,
		record.EaseFactor,
		record.IntervalDays,
		record.DueAt,
		nullTime(record.LastReviewedAt),
		record.UpdatedAt,
		record.ProfileID,
		record.ItemID,
		string(record.Direction),
	)
	if err != nil {
		log.Error("failed to update progress record",
			slog.String("error", err.Error()),
			slog.String("profile_id", record.ProfileID),
			slog.Int64("item_id", record.ItemID))
		return fmt.Errorf("failed to update progress record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("progress record not found for update",
			slog.String("profile_id", record.ProfileID),
			slog.Int64("item_id", record.ItemID),
			slog.String("direction", string(record.Direction)))
		return store.ErrProgressNotFound
	}

	log.Info("progress record updated",
		slog.String("profile_id", record.ProfileID),
		slog.Int64("item_id", record.ItemID),
		slog.String("direction", string(record.Direction)),
		slog.Int("repetition", record.Repetition),
		slog.Int("interval_days", record.IntervalDays))

	return nil
}

// WithTx implements store.ProgressStore.WithTx.
// It returns a new progress store bound to the given transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
