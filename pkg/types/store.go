package types

import "context"

// Store is the remote collection contract. Every method may block on I/O
// and every failure wraps ErrNetwork. Implementations never retry.
type Store interface {
	// List returns the owner's items in server order.
	List(ctx context.Context, ownerID int64) ([]Item, error)

	// Create stores a new item and returns it with the server-assigned ID.
	Create(ctx context.Context, item NewItem) (Item, error)

	// Delete removes the item with the given ID.
	Delete(ctx context.Context, id int64) error

	// Replace overwrites the item with the same ID and returns the stored
	// version.
	Replace(ctx context.Context, item Item) (Item, error)
}
