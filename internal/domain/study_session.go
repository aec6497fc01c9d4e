package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionType tags what kind of study run a session was.
type SessionType string

// Possible session types.
const (
	// SessionTypeRegular is a normal study run against the due queue.
	SessionTypeRegular SessionType = "regular"

	// SessionTypeQuickReview is a short run outside the regular queue flow,
	// typically launched from a reminder.
	SessionTypeQuickReview SessionType = "quick_review"
)

// Session-specific validation errors
var (
	ErrInvalidSessionType      = errors.New("invalid session type")
	ErrEmptySessionID          = errors.New("session ID cannot be empty")
	ErrEmptySessionProfileID   = errors.New("session profile ID cannot be empty")
	ErrNegativeSessionCounts   = errors.New("session counts cannot be negative")
	ErrSessionCorrectExceeds   = errors.New("correct answers cannot exceed words studied")
	ErrSessionEndedBeforeStart = errors.New("session cannot end before it started")
)

// ParseSessionType converts a wire value into a SessionType.
func ParseSessionType(s string) (SessionType, error) {
	t := SessionType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks that the session type is one of the declared constants.
func (t SessionType) Validate() error {
	switch t {
	case SessionTypeRegular, SessionTypeQuickReview:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSessionType, t)
}

// StudySession is one sitting of study. A session opens when the learner
// starts studying and closes exactly once with its final counts; it stays
// immutable afterward. Sessions feed daily aggregates and may overlap.
type StudySession struct {
	ID             uuid.UUID   `json:"id"`
	ProfileID      string      `json:"profile_id"`
	Type           SessionType `json:"type"`
	StartedAt      time.Time   `json:"started_at"`
	EndedAt        *time.Time  `json:"ended_at,omitempty"` // nil while the session is open
	WordsStudied   int         `json:"words_studied"`
	CorrectAnswers int         `json:"correct_answers"`
}

// NewStudySession opens a session for the given profile.
// Returns an error if validation fails.
func NewStudySession(profileID string, sessionType SessionType) (*StudySession, error) {
	session := &StudySession{
		ID:        uuid.New(),
		ProfileID: profileID,
		Type:      sessionType,
		StartedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
// Returns an error if any field fails validation.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.ProfileID == "" {
		return ErrEmptySessionProfileID
	}

	if err := s.Type.Validate(); err != nil {
		return err
	}

	if s.WordsStudied < 0 || s.CorrectAnswers < 0 {
		return ErrNegativeSessionCounts
	}

	if s.CorrectAnswers > s.WordsStudied {
		return ErrSessionCorrectExceeds
	}

	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		return ErrSessionEndedBeforeStart
	}

	return nil
}

// Finished reports whether the session has been closed.
func (s *StudySession) Finished() bool {
	return s.EndedAt != nil
}
