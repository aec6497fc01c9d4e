package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Item-specific validation errors
var (
	// ErrItemTextEmpty is returned when an item's text is empty.
	ErrItemTextEmpty = errors.New("item text cannot be empty")

	// ErrItemTranslationEmpty is returned when an item's translation is empty.
	ErrItemTranslationEmpty = errors.New("item translation cannot be empty")

	// ErrItemPackageIDEmpty is returned when an item has no owning package.
	ErrItemPackageIDEmpty = errors.New("item package ID cannot be empty")
)

// Item is a single vocabulary entry: a pair of display strings plus the
// metadata the queue builder filters on. Items enter the system through
// content ingestion (spreadsheet import or generated batches) and are never
// mutated by the scheduling flow. Removing a package removes its items and
// their schedule state with them.
type Item struct {
	ID            int64     `json:"id"`
	Text          string    `json:"text"`
	Translation   string    `json:"translation"`
	Examples      []string  `json:"examples,omitempty"`
	Pronunciation string    `json:"pronunciation,omitempty"`
	Level         string    `json:"level,omitempty"`
	Category      string    `json:"category,omitempty"`
	Reversible    bool      `json:"reversible"`
	UserCreated   bool      `json:"user_created"`
	Selected      bool      `json:"selected"`
	PackageID     string    `json:"package_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewItem creates an Item with the given display strings and owning package.
// The ID is assigned by the store on insert. New items default to selected
// and reversible so they become studyable as soon as they land.
func NewItem(text, translation, packageID string) (*Item, error) {
	item := &Item{
		Text:        text,
		Translation: translation,
		Reversible:  true,
		Selected:    true,
		PackageID:   packageID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Text) == "" {
		return ErrItemTextEmpty
	}

	if strings.TrimSpace(i.Translation) == "" {
		return ErrItemTranslationEmpty
	}

	if strings.TrimSpace(i.PackageID) == "" {
		return ErrItemPackageIDEmpty
	}

	return nil
}

// EligibleFor reports whether the item can appear in the study queue for the
// given direction. Deselected items are never eligible; reverse study
// additionally requires the item to be reversible. Mixed study follows the
// forward rules because it shares the forward schedule.
func (i *Item) EligibleFor(d Direction) (bool, error) {
	if !i.Selected {
		return false, nil
	}

	switch d {
	case DirectionForward:
		return true, nil
	case DirectionReverse:
		return i.Reversible, nil
	case DirectionMixed:
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidDirection, d)
}
