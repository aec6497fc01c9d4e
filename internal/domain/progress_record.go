package domain

import (
	"errors"
	"time"
)

// Common validation errors for ProgressRecord
var (
	ErrEmptyProgressProfileID = errors.New("progress record profile ID cannot be empty")
	ErrInvalidProgressItemID  = errors.New("progress record item ID must be positive")
	ErrMixedProgressKey       = errors.New("progress records are keyed by concrete direction, not mixed")
	ErrInvalidRepetition      = errors.New("repetition must be greater than or equal to 0")
	ErrInvalidInterval        = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor      = errors.New("ease factor must be greater than 1.0")
)

// ProgressRecord tracks the SM-2 schedule state of one item in one concrete
// study direction for a profile. Records are created lazily on the first
// grade and mutated only by the grading flow; they disappear when the owning
// item's package is removed.
type ProgressRecord struct {
	ProfileID      string    `json:"profile_id"`
	ItemID         int64     `json:"item_id"`
	Direction      Direction `json:"direction"`
	Repetition     int       `json:"repetition"`       // Consecutive successful reviews
	EaseFactor     float64   `json:"ease_factor"`      // Ease factor (1.3-2.5 typically)
	IntervalDays   int       `json:"interval_days"`    // Current interval in days
	DueAt          time.Time `json:"due_at"`           // When the item should be reviewed next
	LastReviewedAt time.Time `json:"last_reviewed_at"` // When the item was last reviewed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProgressRecord creates schedule state for an item and direction with
// default values. Initial settings make the item due immediately.
func NewProgressRecord(profileID string, itemID int64, direction Direction) (*ProgressRecord, error) {
	now := time.Now().UTC()
	record := &ProgressRecord{
		ProfileID:      profileID,
		ItemID:         itemID,
		Direction:      direction,
		Repetition:     0,
		EaseFactor:     2.5, // Default ease factor
		IntervalDays:   0,
		DueAt:          now,         // Due for review immediately
		LastReviewedAt: time.Time{}, // Zero time until first review
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
// Returns an error if any field fails validation.
func (r *ProgressRecord) Validate() error {
	if r.ProfileID == "" {
		return ErrEmptyProgressProfileID
	}

	if r.ItemID <= 0 {
		return ErrInvalidProgressItemID
	}

	if err := r.Direction.Validate(); err != nil {
		return err
	}

	if r.Direction == DirectionMixed {
		return ErrMixedProgressKey
	}

	if r.Repetition < 0 {
		return ErrInvalidRepetition
	}

	if r.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if r.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Note: schedule transitions are pure functions in the srs package, which
// return new instances rather than mutating records in place.
