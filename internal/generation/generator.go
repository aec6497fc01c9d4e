package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// Request describes one batch of vocabulary items to generate.
type Request struct {
	// ProfileID is the learner the items are generated for.
	ProfileID string `json:"profile_id"`

	// Category groups the vocabulary thematically, e.g. "travel".
	Category string `json:"category"`

	// Level is the difficulty band, e.g. "A1" through "C2".
	Level string `json:"level"`

	// Count is how many items to ask the model for.
	Count int `json:"count"`
}

// Validate checks that the request can be turned into a model prompt.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ProfileID) == "" {
		return fmt.Errorf("%w: profile ID cannot be empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Level) == "" {
		return fmt.Errorf("%w: level cannot be empty", ErrInvalidRequest)
	}
	if r.Count <= 0 {
		return fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}
	return nil
}

// Generator defines the interface for generating vocabulary items. It is
// the boundary between the application core and the external LLM service.
type Generator interface {
	// GenerateItems produces vocabulary items for the request. Returned
	// items carry text, translation, level, and category but no ID or
	// package assignment; the caller owns placement and persistence.
	// Errors follow the taxonomy in errors.go.
	GenerateItems(ctx context.Context, req Request) ([]*domain.Item, error)
}
