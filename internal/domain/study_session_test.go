package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewStudySession(t *testing.T) {
	// Test valid session creation
	session, err := NewStudySession("default", SessionTypeRegular)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if session.ID == uuid.Nil {
		t.Error("Expected a generated session ID")
	}

	if session.Finished() {
		t.Error("Expected a fresh session to be open")
	}

	if session.StartedAt.IsZero() {
		t.Error("Expected non-zero StartedAt time")
	}

	// Test invalid profile ID
	_, err = NewStudySession("", SessionTypeRegular)
	if !errors.Is(err, ErrEmptySessionProfileID) {
		t.Errorf("Expected ErrEmptySessionProfileID, got %v", err)
	}

	// Test invalid session type
	_, err = NewStudySession("default", "cramming")
	if !errors.Is(err, ErrInvalidSessionType) {
		t.Errorf("Expected ErrInvalidSessionType, got %v", err)
	}
}

func TestStudySessionValidate(t *testing.T) {
	started := time.Now().UTC()
	validSession := StudySession{
		ID:        uuid.New(),
		ProfileID: "default",
		Type:      SessionTypeQuickReview,
		StartedAt: started,
	}

	// Test valid session
	if err := validSession.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test negative counts
	invalidSession := validSession
	invalidSession.WordsStudied = -1
	if err := invalidSession.Validate(); !errors.Is(err, ErrNegativeSessionCounts) {
		t.Errorf("Expected ErrNegativeSessionCounts, got %v", err)
	}

	// Test correct answers exceeding words studied
	invalidSession = validSession
	invalidSession.WordsStudied = 3
	invalidSession.CorrectAnswers = 5
	if err := invalidSession.Validate(); !errors.Is(err, ErrSessionCorrectExceeds) {
		t.Errorf("Expected ErrSessionCorrectExceeds, got %v", err)
	}

	// Test ending before the start
	invalidSession = validSession
	ended := started.Add(-time.Minute)
	invalidSession.EndedAt = &ended
	if err := invalidSession.Validate(); !errors.Is(err, ErrSessionEndedBeforeStart) {
		t.Errorf("Expected ErrSessionEndedBeforeStart, got %v", err)
	}
}

func TestParseSessionType(t *testing.T) {
	for _, s := range []string{"regular", "quick_review"} {
		if _, err := ParseSessionType(s); err != nil {
			t.Errorf("Expected no error for %q, got %v", s, err)
		}
	}

	if _, err := ParseSessionType("marathon"); !errors.Is(err, ErrInvalidSessionType) {
		t.Errorf("Expected ErrInvalidSessionType, got %v", err)
	}
}
