package domain

import (
	"errors"
	"testing"
)

func TestNewItem(t *testing.T) {
	// Test valid item creation
	item, err := NewItem("ubiquitous", "her yerde bulunan", "pkg-b2")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.Text != "ubiquitous" {
		t.Errorf("Expected text %q, got %q", "ubiquitous", item.Text)
	}

	if !item.Selected {
		t.Error("Expected new items to default to selected")
	}

	if !item.Reversible {
		t.Error("Expected new items to default to reversible")
	}

	if item.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid text
	_, err = NewItem("  ", "çeviri", "pkg-b2")
	if !errors.Is(err, ErrItemTextEmpty) {
		t.Errorf("Expected ErrItemTextEmpty, got %v", err)
	}

	// Test invalid translation
	_, err = NewItem("word", "", "pkg-b2")
	if !errors.Is(err, ErrItemTranslationEmpty) {
		t.Errorf("Expected ErrItemTranslationEmpty, got %v", err)
	}

	// Test missing package
	_, err = NewItem("word", "kelime", "")
	if !errors.Is(err, ErrItemPackageIDEmpty) {
		t.Errorf("Expected ErrItemPackageIDEmpty, got %v", err)
	}
}

func TestItemEligibleFor(t *testing.T) {
	testCases := []struct {
		name       string
		selected   bool
		reversible bool
		direction  Direction
		want       bool
	}{
		{
			name:       "Selected item is eligible forward",
			selected:   true,
			reversible: false,
			direction:  DirectionForward,
			want:       true,
		},
		{
			name:       "Non-reversible item is not eligible in reverse",
			selected:   true,
			reversible: false,
			direction:  DirectionReverse,
			want:       false,
		},
		{
			name:       "Reversible item is eligible in reverse",
			selected:   true,
			reversible: true,
			direction:  DirectionReverse,
			want:       true,
		},
		{
			name:       "Mixed follows the forward rules",
			selected:   true,
			reversible: false,
			direction:  DirectionMixed,
			want:       true,
		},
		{
			name:       "Deselected item is never eligible",
			selected:   false,
			reversible: true,
			direction:  DirectionForward,
			want:       false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := Item{
				Text:        "word",
				Translation: "kelime",
				PackageID:   "pkg",
				Selected:    tc.selected,
				Reversible:  tc.reversible,
			}

			got, err := item.EligibleFor(tc.direction)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if got != tc.want {
				t.Errorf("Expected eligibility %v, got %v", tc.want, got)
			}
		})
	}

	// Unknown directions are rejected.
	item := Item{Text: "word", Translation: "kelime", PackageID: "pkg", Selected: true}
	if _, err := item.EligibleFor(Direction("upside-down")); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}
