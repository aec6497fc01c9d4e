package srs

import (
	"errors"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord = errors.New("progress record cannot be nil")
)

// Service defines the interface for schedule calculations. Implementations
// are pure: they never touch storage, and callers own persistence.
type Service interface {
	// Grade computes the schedule state that follows from answering the
	// record's item with the given grade at the given instant. The input
	// record is not modified. Grades outside the 0-5 scale are rejected
	// with domain.ErrInvalidGrade.
	Grade(
		record *domain.ProgressRecord,
		grade domain.ReviewGrade,
		now time.Time,
	) (*domain.ProgressRecord, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new schedule service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new schedule service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Grade implements the Service interface.
func (s *defaultService) Grade(
	record *domain.ProgressRecord,
	grade domain.ReviewGrade,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if err := grade.Validate(); err != nil {
		return nil, err
	}

	return calculateNextRecord(record, grade, now, s.params), nil
}
