package srs

import (
	"math"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor after a successful
// review.
//
// The ease factor represents how easy the item is for the learner - higher
// values make intervals grow faster. It is adjusted with the canonical SM-2
// formula:
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// where q is the review grade. A perfect answer (q=5) raises the factor by
// 0.1, q=4 leaves it unchanged, and q=3 lowers it by 0.14. The result never
// drops below params.MinEaseFactor.
//
// Failed reviews do not call this function: the ease factor survives a lapse
// unchanged, so one bad day does not permanently mark an item as hard.
func calculateNewEaseFactor(
	currentEF float64,
	grade domain.ReviewGrade,
	params *Params,
) float64 {
	q := float64(grade)
	newEF := currentEF + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new interval in days after a
// successful review.
//
// Parameters:
//   - newRepetition: the repetition count after the increment for this review
//   - prevInterval: the interval in days before this review
//   - easeFactor: the ease factor to apply for the growth step
//
// The first two successful repetitions use the fixed steps from params
// (1 and 6 days by default); from the third repetition on, the previous
// interval is multiplied by the ease factor and rounded to the nearest day.
func calculateNewInterval(
	newRepetition int,
	prevInterval int,
	easeFactor float64,
	params *Params,
) int {
	switch newRepetition {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(prevInterval) * easeFactor))
	}
}

// calculateDueDate converts an interval into the next due instant.
//
// The due time is the grading instant plus the interval in fixed 24-hour
// multiples. Reviews therefore drift through the day with the learner's
// actual study time rather than snapping to calendar midnights.
func calculateDueDate(intervalDays int, now time.Time) time.Time {
	return now.Add(time.Duration(intervalDays) * 24 * time.Hour)
}

// calculateNextRecord creates a new ProgressRecord with updated schedule
// state based on the review grade.
//
// This is the full SM-2 state transition, following immutability principles
// by returning a new record rather than modifying the existing one:
//
//   - Failed reviews (grade < 3) reset the repetition count to zero and
//     schedule the item for params.FailureInterval days out. The ease factor
//     is left unchanged.
//   - Successful reviews increment the repetition count, adjust the ease
//     factor, and grow the interval (fixed steps for the first two
//     repetitions, ease-factor growth afterward).
//
// In both branches LastReviewedAt moves to now and DueAt lands exactly
// IntervalDays*24h after it.
func calculateNextRecord(
	record *domain.ProgressRecord,
	grade domain.ReviewGrade,
	now time.Time,
	params *Params,
) *domain.ProgressRecord {
	newRecord := &domain.ProgressRecord{
		ProfileID:      record.ProfileID,
		ItemID:         record.ItemID,
		Direction:      record.Direction,
		Repetition:     record.Repetition,
		EaseFactor:     record.EaseFactor,
		IntervalDays:   record.IntervalDays,
		DueAt:          record.DueAt,
		LastReviewedAt: record.LastReviewedAt,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}

	if grade.IsPassing() {
		newRecord.Repetition = record.Repetition + 1
		newRecord.EaseFactor = calculateNewEaseFactor(record.EaseFactor, grade, params)
		newRecord.IntervalDays = calculateNewInterval(
			newRecord.Repetition,
			record.IntervalDays,
			record.EaseFactor,
			params,
		)
	} else {
		newRecord.Repetition = 0
		newRecord.IntervalDays = params.FailureInterval
	}

	newRecord.LastReviewedAt = now
	newRecord.DueAt = calculateDueDate(newRecord.IntervalDays, now)
	newRecord.UpdatedAt = now

	return newRecord
}
