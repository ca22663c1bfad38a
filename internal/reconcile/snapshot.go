package reconcile

import (
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Snapshot is a read-only view of the reconciler state for rendering.
type Snapshot struct {
	Items          []types.Item // visible under Filter, in collection order
	Pending        map[int64]bool
	Filter         types.FilterMode
	InputDisabled  bool
	Error          string
	ActiveCount    int  // incomplete items, excluding an unconfirmed create
	AllCompleted   bool // drives the toggle-all control
	Total          int
	CompletedCount int
	Loaded         bool // the last load succeeded
	LoadDone       bool // a load has finished, successfully or not
}

// IsPending reports whether id is awaiting a remote response.
func (s Snapshot) IsPending(id int64) bool { return s.Pending[id] }

// ItemsLeft renders ActiveCount as "1 item left" or "N items left".
func (s Snapshot) ItemsLeft() string {
	if s.ActiveCount == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", s.ActiveCount)
}

// HasItems reports whether the unfiltered collection is non-empty.
func (s Snapshot) HasItems() bool { return s.Total > 0 }

// Snapshot returns the current state. The result shares nothing with the
// reconciler.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[int64]bool, len(r.pending))
	for id := range r.pending {
		pending[id] = true
	}

	active := 0
	for _, it := range r.items {
		if !it.Completed && it.ID != r.tempID {
			active++
		}
	}

	return Snapshot{
		Items:          types.FilterItems(r.items, r.filter),
		Pending:        pending,
		Filter:         r.filter,
		InputDisabled:  r.inputDisabled,
		Error:          r.notice.Text(),
		ActiveCount:    active,
		AllCompleted:   types.AllCompleted(r.items),
		Total:          len(r.items),
		CompletedCount: len(r.items) - types.CountActive(r.items),
		Loaded:         r.loaded,
		LoadDone:       r.loadDone,
	}
}

// Items returns a copy of the unfiltered collection.
func (r *Reconciler) Items() []types.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return types.FilterItems(r.items, types.FilterAll)
}

// IsPending reports whether id is awaiting a remote response.
func (r *Reconciler) IsPending(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[id] > 0
}

// InputDisabled reports whether a create is outstanding.
func (r *Reconciler) InputDisabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputDisabled
}
