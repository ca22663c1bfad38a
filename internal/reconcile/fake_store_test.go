package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// fakeStore is an in-memory types.Store with scripted failures. When hold
// is non-nil every call announces itself on started and then blocks until
// hold is closed, which keeps requests in flight for inspection.
type fakeStore struct {
	mu          sync.Mutex
	items       []types.Item
	nextID      int64
	calls       []string
	failList    bool
	failCreate  bool
	failDelete  map[int64]bool
	failReplace map[int64]bool

	hold    chan struct{}
	started chan string
}

func newFakeStore(items ...types.Item) *fakeStore {
	return &fakeStore{
		items:       items,
		nextID:      100,
		failDelete:  make(map[int64]bool),
		failReplace: make(map[int64]bool),
		started:     make(chan string, 64),
	}
}

func (s *fakeStore) enter(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	hold := s.hold
	s.mu.Unlock()

	s.started <- call
	if hold != nil {
		<-hold
	}
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) List(_ context.Context, ownerID int64) ([]types.Item, error) {
	s.enter(fmt.Sprintf("list %d", ownerID))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, fmt.Errorf("%w: list refused", types.ErrNetwork)
	}
	return append([]types.Item(nil), s.items...), nil
}

func (s *fakeStore) Create(_ context.Context, item types.NewItem) (types.Item, error) {
	s.enter("create " + item.Title)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return types.Item{}, fmt.Errorf("%w: create refused", types.ErrNetwork)
	}
	s.nextID++
	created := types.Item{ID: s.nextID, OwnerID: item.OwnerID, Title: item.Title, Completed: item.Completed}
	s.items = append(s.items, created)
	return created, nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.enter(fmt.Sprintf("delete %d", id))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete[id] {
		return fmt.Errorf("%w: delete %d refused", types.ErrNetwork, id)
	}
	if i := types.IndexOf(s.items, id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return nil
}

func (s *fakeStore) Replace(_ context.Context, item types.Item) (types.Item, error) {
	s.enter(fmt.Sprintf("replace %d completed=%t title=%s", item.ID, item.Completed, item.Title))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReplace[item.ID] {
		return types.Item{}, fmt.Errorf("%w: replace %d refused", types.ErrNetwork, item.ID)
	}
	if i := types.IndexOf(s.items, item.ID); i >= 0 {
		s.items[i] = item
	}
	return item, nil
}
