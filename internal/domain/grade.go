package domain

import (
	"errors"
	"fmt"
)

// ReviewGrade is the learner's 0-5 self-assessment of an answer, on the
// classic SM-2 quality scale. How a UI maps its answer buttons onto the
// scale is a presentation concern; the engine accepts the full range.
type ReviewGrade int

// The SM-2 quality scale.
const (
	// GradeBlackout: complete failure to recall.
	GradeBlackout ReviewGrade = 0

	// GradeIncorrect: wrong answer, but the correct one felt familiar.
	GradeIncorrect ReviewGrade = 1

	// GradeIncorrectEasy: wrong answer that seemed easy once revealed.
	GradeIncorrectEasy ReviewGrade = 2

	// GradeHard: correct answer recalled with serious difficulty.
	GradeHard ReviewGrade = 3

	// GradeGood: correct answer after some hesitation.
	GradeGood ReviewGrade = 4

	// GradePerfect: instant, confident recall.
	GradePerfect ReviewGrade = 5
)

// ErrInvalidGrade is returned when a grade falls outside the 0-5 scale.
// Out-of-range grades are rejected, never clamped.
var ErrInvalidGrade = errors.New("review grade must be between 0 and 5")

// Validate checks that the grade is on the 0-5 scale.
func (g ReviewGrade) Validate() error {
	if g < GradeBlackout || g > GradePerfect {
		return fmt.Errorf("%w: got %d", ErrInvalidGrade, int(g))
	}
	return nil
}

// IsPassing reports whether the grade counts as a successful recall.
// Grades below GradeHard reset the repetition sequence.
func (g ReviewGrade) IsPassing() bool {
	return g >= GradeHard
}
