package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/todos/internal/clock"
	"github.com/mesh-intelligence/todos/internal/notice"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Reconciler is the single owner of the collection, the pending set, the
// filter mode, and the error notice.
type Reconciler struct {
	store   types.Store
	ownerID int64
	clock   clock.Clock
	logger  *slog.Logger
	notice  *notice.Notice

	mu            sync.Mutex
	items         []types.Item
	pending       map[int64]int // ID -> number of in-flight operations
	filter        types.FilterMode
	inputDisabled bool
	tempID        int64 // unconfirmed create, 0 when none
	lastTempID    int64
	loaded        bool // last Load succeeded
	loadDone      bool // a Load has settled, either way

	changes chan struct{}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock sets the time source for temporary IDs and the notice timer.
func WithClock(c clock.Clock) Option {
	return func(r *Reconciler) { r.clock = c }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithFilter sets the initial filter mode.
func WithFilter(m types.FilterMode) Option {
	return func(r *Reconciler) { r.filter = m }
}

// New returns a Reconciler for ownerID backed by store. Returns
// types.ErrOwnerUnset when ownerID is not positive; nothing may be sent
// to the store without an owner.
func New(store types.Store, ownerID int64, opts ...Option) (*Reconciler, error) {
	if ownerID <= 0 {
		return nil, types.ErrOwnerUnset
	}
	if store == nil {
		return nil, fmt.Errorf("reconciler needs a store: %w", types.ErrInvalidData)
	}

	r := &Reconciler{
		store:   store,
		ownerID: ownerID,
		pending: make(map[int64]int),
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = clock.Real()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	r.notice = notice.New(r.clock, notice.WithOnChange(r.notify))
	return r, nil
}

// OwnerID returns the owner whose collection is managed.
func (r *Reconciler) OwnerID() int64 { return r.ownerID }

// Changes delivers a signal after every state change. Signals coalesce:
// a receiver that falls behind sees one pending signal, not many.
func (r *Reconciler) Changes() <-chan struct{} { return r.changes }

func (r *Reconciler) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// Load fetches the owner's collection and replaces the local one in
// server order. On failure the collection is left as it was (empty on
// first activation) and the Load error kind is shown.
func (r *Reconciler) Load(ctx context.Context) error {
	r.notice.Clear()

	items, err := r.store.List(ctx, r.ownerID)
	if err != nil {
		r.mu.Lock()
		r.loadDone = true
		r.mu.Unlock()
		r.logger.Warn("load todos failed", "owner", r.ownerID, "error", err)
		r.notice.Set(types.ErrorLoad)
		return fmt.Errorf("load todos: %w", err)
	}

	r.mu.Lock()
	r.items = append(make([]types.Item, 0, len(items)), items...)
	r.loaded = true
	r.loadDone = true
	r.mu.Unlock()

	r.logger.Debug("todos loaded", "owner", r.ownerID, "count", len(items))
	r.notify()
	return nil
}

// SetFilter changes the visible subset. It never touches the store.
func (r *Reconciler) SetFilter(m types.FilterMode) {
	r.mu.Lock()
	changed := r.filter != m
	r.filter = m
	r.mu.Unlock()
	if changed {
		r.notify()
	}
}

// DismissError clears the notice and cancels its countdown.
func (r *Reconciler) DismissError() {
	r.notice.Clear()
}

// ErrorKind returns the error currently shown, or types.ErrorNone.
func (r *Reconciler) ErrorKind() types.ErrorKind {
	return r.notice.Kind()
}

// nextTempIDLocked derives a temporary ID from the clock, bumping it when
// it would collide with an existing item or the previous temporary ID.
func (r *Reconciler) nextTempIDLocked() int64 {
	id := r.clock.Now().UnixMilli()
	if id <= r.lastTempID {
		id = r.lastTempID + 1
	}
	for types.IndexOf(r.items, id) >= 0 {
		id++
	}
	r.lastTempID = id
	return id
}

func (r *Reconciler) markPendingLocked(ids []int64) {
	for _, id := range ids {
		r.pending[id]++
	}
}

func (r *Reconciler) clearPendingLocked(ids []int64) {
	for _, id := range ids {
		if r.pending[id] <= 1 {
			delete(r.pending, id)
			continue
		}
		r.pending[id]--
	}
}

func (r *Reconciler) removeLocked(id int64) {
	if i := types.IndexOf(r.items, id); i >= 0 {
		r.items = append(r.items[:i:i], r.items[i+1:]...)
	}
}

func (r *Reconciler) lookup(id int64) (types.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := types.IndexOf(r.items, id); i >= 0 {
		return r.items[i], true
	}
	return types.Item{}, false
}
