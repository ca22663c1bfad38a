package types

import "strings"

// Item represents a single to-do entry owned by one user.
type Item struct {
	ID        int64  `json:"id"`        // Server-assigned; a time-derived temporary ID before confirmation.
	OwnerID   int64  `json:"userId"`    // Owner whose collection holds the item.
	Title     string `json:"title"`     // Short text, stored trimmed.
	Completed bool   `json:"completed"` // Completion flag.
}

// NewItem is the create payload sent to the collection API. The server
// assigns the ID.
type NewItem struct {
	OwnerID   int64  `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NormalizeTitle trims surrounding whitespace from a user-entered title.
// An empty result means the title is blank.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// Validate checks that the item carries what the collection API requires.
// Returns ErrInvalidID for a non-positive ID, ErrOwnerUnset for a missing
// owner, and ErrEmptyTitle for a blank title.
func (i Item) Validate() error {
	if i.ID <= 0 {
		return ErrInvalidID
	}
	if i.OwnerID <= 0 {
		return ErrOwnerUnset
	}
	if NormalizeTitle(i.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Validate checks the create payload. Returns ErrOwnerUnset or
// ErrEmptyTitle.
func (n NewItem) Validate() error {
	if n.OwnerID <= 0 {
		return ErrOwnerUnset
	}
	if NormalizeTitle(n.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// IndexOf returns the position of the item with the given ID, or -1.
func IndexOf(items []Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// CountActive returns the number of items not yet completed.
func CountActive(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Completed {
			n++
		}
	}
	return n
}

// AllCompleted reports whether every item is completed. It is true for an
// empty slice.
func AllCompleted(items []Item) bool {
	for _, it := range items {
		if !it.Completed {
			return false
		}
	}
	return true
}
