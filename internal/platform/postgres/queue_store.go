package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// PostgresQueueStore implements the store.QueueStore interface using a
// PostgreSQL database. All methods are snapshot reads over the items and
// progress_records tables; nothing here ever writes.
type PostgresQueueStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Verify PostgresQueueStore implements store.QueueStore interface
var _ store.QueueStore = (*PostgresQueueStore)(nil)

// NewPostgresQueueStore creates a new PostgreSQL implementation of the
// QueueStore interface. It accepts a database connection via the DBTX
// interface and a logger for logging operations. If logger is nil, a
// default logger is used.
func NewPostgresQueueStore(db store.DBTX, logger *slog.Logger) *PostgresQueueStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQueueStore{
		db:     db,
		logger: logger.With(slog.String("component", "queue_store")),
	}
}

// queueSelectColumns joins the item and progress column lists for the
// queue queries. The progress side comes from a LEFT JOIN, so every p
// column can be NULL for never-reviewed items.
const queueSelectColumns = `i.id, i.text, i.translation, i.examples, i.pronunciation, i.level, i.category, i.reversible, i.user_created, i.selected, i.package_id, i.created_at, p.profile_id, p.item_id, p.direction, p.repetition, p.ease_factor, p.interval_days, p.due_at, p.last_reviewed_at, p.created_at, p.updated_at`

// scanQueueEntry reads one joined item+progress row. When the progress side
// is NULL the entry comes back with nil Progress and its Direction unset;
// the caller fills in the queue's progress key for those.
func scanQueueEntry(scan func(dest ...interface{}) error) (domain.QueueEntry, error) {
	var (
		entry          domain.QueueEntry
		examplesJSON   []byte
		pronunciation  sql.NullString
		profileID      sql.NullString
		itemID         sql.NullInt64
		direction      sql.NullString
		repetition     sql.NullInt64
		easeFactor     sql.NullFloat64
		intervalDays   sql.NullInt64
		dueAt          sql.NullTime
		lastReviewedAt sql.NullTime
		createdAt      sql.NullTime
		updatedAt      sql.NullTime
	)

	err := scan(
		&entry.Item.ID,
		&entry.Item.Text,
		&entry.Item.Translation,
		&examplesJSON,
		&pronunciation,
		&entry.Item.Level,
		&entry.Item.Category,
		&entry.Item.Reversible,
		&entry.Item.UserCreated,
		&entry.Item.Selected,
		&entry.Item.PackageID,
		&entry.Item.CreatedAt,
		&profileID,
		&itemID,
		&direction,
		&repetition,
		&easeFactor,
		&intervalDays,
		&dueAt,
		&lastReviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.QueueEntry{}, err
	}

	if len(examplesJSON) > 0 {
		if err := json.Unmarshal(examplesJSON, &entry.Item.Examples); err != nil {
			return domain.QueueEntry{}, fmt.Errorf("failed to decode item examples: %w", err)
		}
	}
	entry.Item.Pronunciation = pronunciation.String

	if profileID.Valid {
		record := &domain.ProgressRecord{
			ProfileID:    profileID.String,
			ItemID:       itemID.Int64,
			Direction:    domain.Direction(direction.String),
			Repetition:   int(repetition.Int64),
			EaseFactor:   easeFactor.Float64,
			IntervalDays: int(intervalDays.Int64),
			DueAt:        dueAt.Time,
			CreatedAt:    createdAt.Time,
			UpdatedAt:    updatedAt.Time,
		}
		if lastReviewedAt.Valid {
			record.LastReviewedAt = lastReviewedAt.Time
		}
		entry.Progress = record
		entry.Direction = record.Direction
	}

	return entry, nil
}

// reversibleFilter restricts reverse queues to items that can be asked
// translation-first. Forward and mixed queues take every selected item;
// mixed falls back to forward presentation for one-way items.
func reversibleFilter(direction domain.Direction) string {
	if direction == domain.DirectionReverse {
		return `
			AND i.reversible = TRUE`
	}
	return ""
}

// DueEntries implements store.QueueStore.DueEntries.
// Overdue entries come first, most overdue leading; never-reviewed items
// follow in insertion order. Entries due strictly in the future never appear.
func (s *PostgresQueueStore) DueEntries(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	now time.Time,
	limit int,
) ([]domain.QueueEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := direction.Validate(); err != nil {
		log.Warn("invalid queue direction", slog.String("direction", string(direction)))
		return nil, err
	}

	// Mixed queues study and store under the forward key.
	key, err := direction.ProgressKey()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items i
		LEFT JOIN progress_records p
			ON p.item_id = i.id AND p.profile_id = $1 AND p.direction = $2
		WHERE i.selected = TRUE%s
			AND (p.due_at IS NULL OR p.due_at <= $3)
		ORDER BY p.due_at ASC NULLS LAST, i.id ASC
		LIMIT $4
	`, queueSelectColumns, reversibleFilter(direction))

	rows, err := s.db.QueryContext(ctx, query, profileID, string(key), now, limit)
	if err != nil {
		log.Error("failed to query due entries",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("direction", string(direction)))
		return nil, fmt.Errorf("failed to query due entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("error closing rows", slog.String("error", err.Error()))
		}
	}()

	entries := []domain.QueueEntry{}

	for rows.Next() {
		entry, err := scanQueueEntry(rows.Scan)
		if err != nil {
			log.Error("failed to scan queue entry",
				slog.String("error", err.Error()),
				slog.String("profile_id", profileID))
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		if entry.Progress == nil {
			entry.Direction = key
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating queue rows",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, fmt.Errorf("error iterating queue rows: %w", err)
	}

	log.Debug("built study queue",
		slog.String("profile_id", profileID),
		slog.String("direction", string(direction)),
		slog.Int("count", len(entries)))

	return entries, nil
}

// HasDueEntries implements store.QueueStore.HasDueEntries.
// It answers the same question as DueEntries without materializing rows.
func (s *PostgresQueueStore) HasDueEntries(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	now time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := direction.Validate(); err != nil {
		log.Warn("invalid queue direction", slog.String("direction", string(direction)))
		return false, err
	}

	key, err := direction.ProgressKey()
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM items i
			LEFT JOIN progress_records p
				ON p.item_id = i.id AND p.profile_id = $1 AND p.direction = $2
			WHERE i.selected = TRUE%s
				AND (p.due_at IS NULL OR p.due_at <= $3)
		)
	`, reversibleFilter(direction))

	var exists bool
	err = s.db.QueryRowContext(ctx, query, profileID, string(key), now).Scan(&exists)
	if err != nil {
		log.Error("failed to check for due entries",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID),
			slog.String("direction", string(direction)))
		return false, fmt.Errorf("failed to check for due entries: %w", err)
	}

	return exists, nil
}

// TopOverdue implements store.QueueStore.TopOverdue.
// It returns up to k overdue entries across both concrete directions, most
// overdue first. Never-reviewed items carry no due time and are excluded.
func (s *PostgresQueueStore) TopOverdue(
	ctx context.Context,
	profileID string,
	now time.Time,
	k int,
) ([]domain.QueueEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s
		FROM items i
		JOIN progress_records p ON p.item_id = i.id
		WHERE p.profile_id = $1
			AND i.selected = TRUE
			AND p.due_at <= $2
			AND (p.direction = $3 OR (p.direction = $4 AND i.reversible = TRUE))
		ORDER BY p.due_at ASC
		LIMIT $5
	`, queueSelectColumns)

	rows, err := s.db.QueryContext(ctx, query,
		profileID,
		now,
		string(domain.DirectionForward),
		string(domain.DirectionReverse),
		k,
	)
	if err != nil {
		log.Error("failed to query overdue entries",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, fmt.Errorf("failed to query overdue entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("error closing rows", slog.String("error", err.Error()))
		}
	}()

	entries := []domain.QueueEntry{}

	for rows.Next() {
		entry, err := scanQueueEntry(rows.Scan)
		if err != nil {
			log.Error("failed to scan overdue entry",
				slog.String("error", err.Error()),
				slog.String("profile_id", profileID))
			return nil, fmt.Errorf("failed to scan overdue entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating overdue rows",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, fmt.Errorf("error iterating overdue rows: %w", err)
	}

	return entries, nil
}

// RandomStudied implements store.QueueStore.RandomStudied.
// It picks a uniformly random selected item the profile has reviewed at
// least once in any direction. ORDER BY random() is fine at the table sizes
// a single learner produces. Returns store.ErrItemNotFound when the studied
// set is empty.
func (s *PostgresQueueStore) RandomStudied(ctx context.Context, profileID string) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		WHERE selected = TRUE
			AND EXISTS (
				SELECT 1 FROM progress_records p
				WHERE p.item_id = items.id AND p.profile_id = $1
			)
		ORDER BY random()
		LIMIT 1
	`, itemColumns)

	row := s.db.QueryRowContext(ctx, query, profileID)
	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no studied items for profile", slog.String("profile_id", profileID))
			return nil, store.ErrItemNotFound
		}

		log.Error("failed to pick random studied item",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, fmt.Errorf("failed to pick random studied item: %w", err)
	}

	return item, nil
}
