package types

import (
	"fmt"
	"strings"
)

// FilterMode selects which items a view shows.
type FilterMode int

// Filter modes. FilterAll is the zero value and the default.
const (
	FilterAll FilterMode = iota
	FilterActive
	FilterCompleted
)

// FilterModes lists every mode in display order.
var FilterModes = []FilterMode{FilterAll, FilterActive, FilterCompleted}

// String returns the lower-case name used in config, flags, and URLs.
func (m FilterMode) String() string {
	switch m {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Label returns the capitalized name shown in the footer.
func (m FilterMode) Label() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFilterMode converts a mode name into a FilterMode. Matching is
// case-insensitive and ignores surrounding whitespace; the empty string
// means FilterAll. Returns ErrInvalidFilter for anything else.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// FilterItems returns the items visible under mode, preserving order.
// The input slice is never modified and the result never aliases it.
// Unknown modes behave as FilterAll.
func FilterItems(items []Item, mode FilterMode) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch mode {
		case FilterActive:
			if it.Completed {
				continue
			}
		case FilterCompleted:
			if !it.Completed {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
