package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sourcegraph/conc/iter"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Create adds a todo with the trimmed title. The item appears at once
// under a temporary ID and is swapped to the server ID on success or
// removed on failure. A blank title shows the EmptyTitle error and never
// reaches the store. Only one create may be outstanding; a second call
// returns types.ErrInputDisabled.
//
// A nil error tells the caller to reset its input box.
func (r *Reconciler) Create(ctx context.Context, title string) (types.Item, error) {
	title = types.NormalizeTitle(title)
	if title == "" {
		r.notice.Set(types.ErrorEmptyTitle)
		return types.Item{}, types.ErrEmptyTitle
	}

	r.mu.Lock()
	if r.inputDisabled {
		r.mu.Unlock()
		return types.Item{}, types.ErrInputDisabled
	}
	r.inputDisabled = true
	tempID := r.nextTempIDLocked()
	r.mu.Unlock()

	r.notice.Clear()

	draft := types.Item{ID: tempID, OwnerID: r.ownerID, Title: title}
	var created types.Item
	err := r.optimistic(ctx, command{
		name: "create todo",
		ids:  []int64{tempID},
		kind: types.ErrorAdd,
		apply: func() {
			r.items = append(r.items, draft)
			r.tempID = tempID
		},
		run: func(ctx context.Context) error {
			var err error
			created, err = r.store.Create(ctx, types.NewItem{
				OwnerID: draft.OwnerID,
				Title:   draft.Title,
			})
			return err
		},
		confirm: func() {
			if i := types.IndexOf(r.items, tempID); i >= 0 {
				r.items[i].ID = created.ID
			}
		},
		rollback: func() { r.removeLocked(tempID) },
		finally: func() {
			r.inputDisabled = false
			r.tempID = 0
		},
	})
	if err != nil {
		return types.Item{}, err
	}

	draft.ID = created.ID
	return draft, nil
}

// Delete removes the todo once the store confirms. On failure the item
// stays and the Delete error is shown.
func (r *Reconciler) Delete(ctx context.Context, id int64) error {
	if _, ok := r.lookup(id); !ok {
		return fmt.Errorf("delete todo %d: %w", id, types.ErrNotFound)
	}

	return r.optimistic(ctx, command{
		name:    "delete todo",
		ids:     []int64{id},
		kind:    types.ErrorDelete,
		run:     func(ctx context.Context) error { return r.store.Delete(ctx, id) },
		confirm: func() { r.removeLocked(id) },
	})
}

// Toggle flips the completed flag. The flip is applied locally only after
// the store accepts it, so a failure needs no rollback.
func (r *Reconciler) Toggle(ctx context.Context, id int64) error {
	current, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("toggle todo %d: %w", id, types.ErrNotFound)
	}
	updated := current
	updated.Completed = !current.Completed

	return r.optimistic(ctx, command{
		name: "toggle todo",
		ids:  []int64{id},
		kind: types.ErrorUpdateTodo,
		run: func(ctx context.Context) error {
			_, err := r.store.Replace(ctx, updated)
			return err
		},
		confirm: func() {
			if i := types.IndexOf(r.items, id); i >= 0 {
				r.items[i].Completed = updated.Completed
			}
		},
	})
}

// RenameOutcome tells the caller what Rename did.
type RenameOutcome int

const (
	// RenameUnchanged means the trimmed title equalled the current one;
	// nothing was sent.
	RenameUnchanged RenameOutcome = iota
	// RenameApplied means the store accepted the new title.
	RenameApplied
	// RenameDeleted means the title was blank and the item was deleted
	// instead.
	RenameDeleted
)

// Rename sets a new title. The title is trimmed first; an unchanged title
// is a no-op and a blank one deletes the item.
func (r *Reconciler) Rename(ctx context.Context, id int64, title string) (RenameOutcome, error) {
	current, ok := r.lookup(id)
	if !ok {
		return RenameUnchanged, fmt.Errorf("rename todo %d: %w", id, types.ErrNotFound)
	}

	title = types.NormalizeTitle(title)
	switch {
	case title == current.Title:
		return RenameUnchanged, nil
	case title == "":
		return RenameDeleted, r.Delete(ctx, id)
	}

	updated := current
	updated.Title = title
	err := r.optimistic(ctx, command{
		name: "rename todo",
		ids:  []int64{id},
		kind: types.ErrorUpdateTodo,
		run: func(ctx context.Context) error {
			_, err := r.store.Replace(ctx, updated)
			return err
		},
		confirm: func() {
			if i := types.IndexOf(r.items, id); i >= 0 {
				r.items[i].Title = updated.Title
			}
		},
	})
	if err != nil {
		return RenameUnchanged, err
	}
	return RenameApplied, nil
}

// ToggleAll completes every incomplete item, or, when all are already
// completed, marks every item active. One replace is sent per affected
// item and all of them must succeed before the collection changes. Any
// failure leaves the collection untouched even if some replacements
// were stored remotely.
func (r *Reconciler) ToggleAll(ctx context.Context) error {
	r.mu.Lock()
	target := !types.AllCompleted(r.items)
	var affected []types.Item
	for _, it := range r.items {
		if it.Completed != target {
			it.Completed = target
			affected = append(affected, it)
		}
	}
	r.mu.Unlock()

	if len(affected) == 0 {
		return nil
	}

	ids := make([]int64, len(affected))
	for i, it := range affected {
		ids[i] = it.ID
	}

	var failed atomic.Int32
	return r.optimistic(ctx, command{
		name: "toggle all",
		ids:  ids,
		kind: types.ErrorUpdateTodo,
		run: func(ctx context.Context) error {
			var g errgroup.Group
			for _, it := range affected {
				g.Go(func() error {
					if _, err := r.store.Replace(ctx, it); err != nil {
						failed.Add(1)
						return fmt.Errorf("todo %d: %w", it.ID, err)
					}
					return nil
				})
			}
			err := g.Wait()
			if err != nil {
				r.logger.Warn("toggle all partially applied remotely",
					"failed", failed.Load(), "total", len(affected))
			}
			return err
		},
		confirm: func() {
			for _, id := range ids {
				if i := types.IndexOf(r.items, id); i >= 0 {
					r.items[i].Completed = target
				}
			}
		},
	})
}

// ClearCompleted deletes every completed item, one request each. Each
// failure is captured independently; once all requests settle the items
// that were deleted disappear and the ones that failed stay visible.
func (r *Reconciler) ClearCompleted(ctx context.Context) error {
	r.mu.Lock()
	completed := types.FilterItems(r.items, types.FilterCompleted)
	r.mu.Unlock()

	if len(completed) == 0 {
		return nil
	}

	results := iter.Map(completed, func(it *types.Item) error {
		return r.store.Delete(ctx, it.ID)
	})

	deleted := make(map[int64]bool, len(completed))
	var errs []error
	for i, err := range results {
		id := completed[i].ID
		if err != nil {
			errs = append(errs, fmt.Errorf("todo %d: %w", id, err))
			continue
		}
		deleted[id] = true
	}

	r.mu.Lock()
	kept := r.items[:0:0]
	for _, it := range r.items {
		if !deleted[it.ID] {
			kept = append(kept, it)
		}
	}
	r.items = kept
	r.mu.Unlock()

	if len(errs) > 0 {
		r.logger.Warn("clear completed failed for some todos",
			"failed", len(errs), "total", len(completed))
		r.notice.Set(types.ErrorDelete)
		r.notify()
		return fmt.Errorf("clear completed: %w", errors.Join(errs...))
	}

	r.logger.Debug("clear completed confirmed", "count", len(completed))
	r.notify()
	return nil
}
