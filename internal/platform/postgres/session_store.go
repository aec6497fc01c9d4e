package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Verify PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection via the DBTX
// interface and a logger for logging operations. If logger is nil, a
// default logger is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

const sessionColumns = `id, profile_id, type, started_at, ended_at, words_studied, correct_answers`

func scanStudySession(scan func(dest ...interface{}) error) (*domain.StudySession, error) {
	var (
		session domain.StudySession
		endedAt sql.NullTime
	)

	err := scan(
		&session.ID,
		&session.ProfileID,
		&session.Type,
		&session.StartedAt,
		&endedAt,
		&session.WordsStudied,
		&session.CorrectAnswers,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}

	return &session, nil
}

// nullTimePtr maps a nil pointer to SQL NULL.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create implements store.SessionStore.Create.
// It validates and inserts a new session, normally still open.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO study_sessions (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sessionColumns)

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.ProfileID,
		string(session.Type),
		session.StartedAt,
		nullTimePtr(session.EndedAt),
		session.WordsStudied,
		session.CorrectAnswers,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("session already exists", slog.String("session_id", session.ID.String()))
			return fmt.Errorf("%w: session with ID %s already exists", store.ErrDuplicate, session.ID)
		}

		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("failed to create study session: %w", err)
	}

	log.Info("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("profile_id", session.ProfileID),
		slog.String("type", string(session.Type)))

	return nil
}

// GetByID implements store.SessionStore.GetByID.
// Returns store.ErrSessionNotFound if no session exists with the given ID.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE id = $1`, sessionColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	session, err := scanStudySession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}

		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Finish implements store.SessionStore.Finish.
// The close is a conditional update on ended_at IS NULL, so a session can
// only ever be closed once no matter how many requests race. The losers see
// store.ErrSessionFinished; a missing session yields store.ErrSessionNotFound.
func (s *PostgresSessionStore) Finish(
	ctx context.Context,
	id uuid.UUID,
	endedAt time.Time,
	wordsStudied int,
	correctAnswers int,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if wordsStudied < 0 || correctAnswers < 0 {
		return nil, domain.ErrNegativeSessionCounts
	}
	if correctAnswers > wordsStudied {
		return nil, domain.ErrSessionCorrectExceeds
	}

	query := fmt.Sprintf(`
		UPDATE study_sessions
		SET ended_at = $1, words_studied = $2, correct_answers = $3
		WHERE id = $4 AND ended_at IS NULL
		RETURNING %s
	`, sessionColumns)

	row := s.db.QueryRowContext(ctx, query, endedAt, wordsStudied, correctAnswers, id)
	session, err := scanStudySession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The conditional update matched nothing: the session is either
			// missing or already closed. Look again to tell the two apart.
			existing, getErr := s.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if existing.Finished() {
				log.Warn("session already finished", slog.String("session_id", id.String()))
				return nil, store.ErrSessionFinished
			}
			return nil, fmt.Errorf("failed to finish session %s: concurrent update", id)
		}

		log.Error("failed to finish study session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, fmt.Errorf("failed to finish study session: %w", err)
	}

	log.Info("study session finished",
		slog.String("session_id", id.String()),
		slog.String("profile_id", session.ProfileID),
		slog.Int("words_studied", wordsStudied),
		slog.Int("correct_answers", correctAnswers))

	return session, nil
}

// CountStartedBetween implements store.SessionStore.CountStartedBetween.
// It counts sessions the profile started in [from, to).
func (s *PostgresSessionStore) CountStartedBetween(
	ctx context.Context,
	profileID string,
	from time.Time,
	to time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*) FROM study_sessions
		WHERE profile_id = $1 AND started_at >= $2 AND started_at < $3
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, profileID, from, to).Scan(&count)
	if err != nil {
		log.Error("failed to count sessions",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}
