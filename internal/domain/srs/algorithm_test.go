package srs

import (
	"math"
	"testing"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		grade    domain.ReviewGrade
		expected float64
	}{
		{
			name:     "Perfect answer raises ease factor",
			current:  2.5,
			grade:    domain.GradePerfect,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "Good answer leaves ease factor unchanged",
			current:  2.5,
			grade:    domain.GradeGood,
			expected: 2.5, // adjustment for q=4 is exactly 0
		},
		{
			name:     "Hard answer lowers ease factor",
			current:  2.5,
			grade:    domain.GradeHard,
			expected: 2.36, // 2.5 + (0.1 - 2*(0.08 + 2*0.02)) = 2.5 - 0.14
		},
		{
			name:     "Hard answer near the floor clamps to the floor",
			current:  1.4,
			grade:    domain.GradeHard,
			expected: 1.3, // 1.4 - 0.14 = 1.26 → clamped
		},
		{
			name:     "Ease factor never drops below the floor",
			current:  1.3,
			grade:    domain.GradeHard,
			expected: 1.3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newEF := calculateNewEaseFactor(tc.current, tc.grade, params)

			if math.Abs(newEF-tc.expected) > 1e-9 {
				t.Errorf("Expected ease factor %f, got %f", tc.expected, newEF)
			}
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		repetition   int // repetition count after the increment
		prevInterval int
		ef           float64
		expected     int
	}{
		{
			name:         "First successful repetition uses the first step",
			repetition:   1,
			prevInterval: 0,
			ef:           2.5,
			expected:     1,
		},
		{
			name:         "Second successful repetition uses the second step",
			repetition:   2,
			prevInterval: 1,
			ef:           2.5,
			expected:     6,
		},
		{
			name:         "Third repetition grows by the ease factor",
			repetition:   3,
			prevInterval: 6,
			ef:           2.5,
			expected:     15, // 6 * 2.5
		},
		{
			name:         "Growth rounds to the nearest day",
			repetition:   4,
			prevInterval: 15,
			ef:           2.36,
			expected:     35, // 15 * 2.36 = 35.4 → 35
		},
		{
			name:         "Growth rounds halves up",
			repetition:   3,
			prevInterval: 10,
			ef:           1.35,
			expected:     14, // 10 * 1.35 = 13.5 → 14
		},
		{
			name:         "Minimum ease still grows the interval",
			repetition:   5,
			prevInterval: 20,
			ef:           1.3,
			expected:     26, // 20 * 1.3
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newInterval := calculateNewInterval(tc.repetition, tc.prevInterval, tc.ef, params)

			if newInterval != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, newInterval)
			}
		})
	}
}

func TestCalculateDueDate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	// Graded at 23:30 local time: the due instant must be an exact 24h
	// multiple later, not a calendar-midnight boundary.
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)

	testCases := []struct {
		name     string
		interval int
		expected time.Time
	}{
		{
			name:     "Zero interval is due immediately",
			interval: 0,
			expected: now,
		},
		{
			name:     "One day is exactly 24 hours out",
			interval: 1,
			expected: now.Add(24 * time.Hour),
		},
		{
			name:     "Six days is exactly 144 hours out",
			interval: 6,
			expected: now.Add(144 * time.Hour),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			due := calculateDueDate(tc.interval, now)

			if !due.Equal(tc.expected) {
				t.Errorf("Expected due at %v, got %v", tc.expected, due)
			}
		})
	}
}

func TestCalculateNextRecordFailure(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Now().UTC()

	record := &domain.ProgressRecord{
		ProfileID:    "default",
		ItemID:       42,
		Direction:    domain.DirectionForward,
		Repetition:   7,
		EaseFactor:   2.2,
		IntervalDays: 40,
	}

	for _, grade := range []domain.ReviewGrade{
		domain.GradeBlackout,
		domain.GradeIncorrect,
		domain.GradeIncorrectEasy,
	} {
		newRecord := calculateNextRecord(record, grade, now, params)

		if newRecord.Repetition != 0 {
			t.Errorf("Grade %d: expected repetition reset to 0, got %d", grade, newRecord.Repetition)
		}

		if newRecord.IntervalDays != 1 {
			t.Errorf("Grade %d: expected interval reset to 1, got %d", grade, newRecord.IntervalDays)
		}

		if newRecord.EaseFactor != record.EaseFactor {
			t.Errorf("Grade %d: expected ease factor unchanged at %f, got %f",
				grade, record.EaseFactor, newRecord.EaseFactor)
		}

		if !newRecord.DueAt.Equal(now.Add(24 * time.Hour)) {
			t.Errorf("Grade %d: expected due 24h out, got %v", grade, newRecord.DueAt)
		}
	}

	// The input record must not be mutated.
	if record.Repetition != 7 || record.IntervalDays != 40 {
		t.Error("Expected input record to be unchanged")
	}
}

func TestCalculateNextRecordDueInvariant(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2024, 6, 1, 9, 15, 0, 0, time.UTC)

	record := &domain.ProgressRecord{
		ProfileID:  "default",
		ItemID:     1,
		Direction:  domain.DirectionForward,
		EaseFactor: 2.5,
	}

	// After every grade: DueAt == LastReviewedAt + IntervalDays*24h.
	for grade := domain.GradeBlackout; grade <= domain.GradePerfect; grade++ {
		newRecord := calculateNextRecord(record, grade, now, params)

		want := newRecord.LastReviewedAt.Add(time.Duration(newRecord.IntervalDays) * 24 * time.Hour)
		if !newRecord.DueAt.Equal(want) {
			t.Errorf("Grade %d: due %v does not equal lastReviewed+interval %v",
				grade, newRecord.DueAt, want)
		}

		if !newRecord.LastReviewedAt.Equal(now) {
			t.Errorf("Grade %d: expected LastReviewedAt %v, got %v", grade, now, newRecord.LastReviewedAt)
		}
	}
}

func TestScheduleProgression(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	// New item, graded 4, then 5 a day later, then 2 the week after.
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	record := &domain.ProgressRecord{
		ProfileID:  "default",
		ItemID:     7,
		Direction:  domain.DirectionForward,
		EaseFactor: 2.5,
	}

	// First review: good answer.
	record = calculateNextRecord(record, domain.GradeGood, start, params)
	if record.Repetition != 1 {
		t.Errorf("Expected repetition 1, got %d", record.Repetition)
	}
	if record.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", record.IntervalDays)
	}
	if !record.DueAt.Equal(start.Add(24 * time.Hour)) {
		t.Errorf("Expected due one day out, got %v", record.DueAt)
	}
	if math.Abs(record.EaseFactor-2.5) > 1e-9 {
		t.Errorf("Expected ease factor 2.5 after q=4, got %f", record.EaseFactor)
	}

	// Second review one day later: perfect answer.
	second := start.Add(24 * time.Hour)
	record = calculateNextRecord(record, domain.GradePerfect, second, params)
	if record.Repetition != 2 {
		t.Errorf("Expected repetition 2, got %d", record.Repetition)
	}
	if record.IntervalDays != 6 {
		t.Errorf("Expected interval 6, got %d", record.IntervalDays)
	}
	if math.Abs(record.EaseFactor-2.6) > 1e-9 {
		t.Errorf("Expected ease factor 2.6 after q=5, got %f", record.EaseFactor)
	}

	easeBeforeFailure := record.EaseFactor

	// Third review: failure resets the schedule but not the ease factor.
	third := second.Add(6 * 24 * time.Hour)
	record = calculateNextRecord(record, domain.GradeIncorrectEasy, third, params)
	if record.Repetition != 0 {
		t.Errorf("Expected repetition reset to 0, got %d", record.Repetition)
	}
	if record.IntervalDays != 1 {
		t.Errorf("Expected interval reset to 1, got %d", record.IntervalDays)
	}
	if record.EaseFactor != easeBeforeFailure {
		t.Errorf("Expected ease factor unchanged at %f, got %f", easeBeforeFailure, record.EaseFactor)
	}

	// Recovery: the fixed early steps apply again.
	fourth := third.Add(24 * time.Hour)
	record = calculateNextRecord(record, domain.GradeGood, fourth, params)
	if record.Repetition != 1 {
		t.Errorf("Expected repetition 1 after recovery, got %d", record.Repetition)
	}
	if record.IntervalDays != 1 {
		t.Errorf("Expected interval 1 after recovery, got %d", record.IntervalDays)
	}
}
