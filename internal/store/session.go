package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new (open) study session.
	// It handles domain validation internally.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Finish closes an open session with its final counts and returns the
	// closed session. Sessions close exactly once: finishing an already
	// closed session returns ErrSessionFinished, and a missing session
	// returns ErrSessionNotFound.
	Finish(
		ctx context.Context,
		id uuid.UUID,
		endedAt time.Time,
		wordsStudied int,
		correctAnswers int,
	) (*domain.StudySession, error)

	// CountStartedBetween returns how many sessions the profile started in
	// [from, to). Used for the daily activity summary.
	CountStartedBetween(
		ctx context.Context,
		profileID string,
		from time.Time,
		to time.Time,
	) (int, error)
}
