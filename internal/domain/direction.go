package domain

import (
	"errors"
	"fmt"
)

// Direction selects which side of an item is shown as the prompt during
// review. Schedule state is tracked per (item, direction) pair, so the same
// item can sit at different points of the schedule in each direction.
type Direction string

// Possible study directions.
const (
	// DirectionForward prompts with the item text and expects the translation.
	DirectionForward Direction = "forward"

	// DirectionReverse prompts with the translation and expects the item
	// text. Only items marked reversible are eligible.
	DirectionReverse Direction = "reverse"

	// DirectionMixed alternates the prompt side within a session while
	// sharing the forward schedule state.
	DirectionMixed Direction = "mixed"
)

// ErrInvalidDirection is returned when a direction value is not one of the
// declared constants.
var ErrInvalidDirection = errors.New("invalid study direction")

// ParseDirection converts a wire value into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate checks that the direction is one of the declared constants.
func (d Direction) Validate() error {
	switch d {
	case DirectionForward, DirectionReverse, DirectionMixed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDirection, d)
}

// ProgressKey resolves the direction under which schedule state is stored.
// Mixed study reads and writes the forward record, so answers given in
// either prompt order advance a single schedule.
func (d Direction) ProgressKey() (Direction, error) {
	switch d {
	case DirectionForward:
		return DirectionForward, nil
	case DirectionReverse:
		return DirectionReverse, nil
	case DirectionMixed:
		return DirectionForward, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, d)
}
