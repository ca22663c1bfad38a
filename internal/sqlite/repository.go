// Package sqlite stores todos in a SQLite database for the reference
// collection server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Repository errors.
var (
	ErrAlreadyAttached = errors.New("repository already attached")
	ErrDetached        = errors.New("repository not attached")
)

// Patch holds the fields of a partial update. Nil fields are left as
// stored.
type Patch struct {
	OwnerID   *int64  `json:"userId,omitempty"`
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Repository is a SQLite-backed todo table. Call Attach before use.
type Repository struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	path     string
}

// NewRepository returns a detached repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Attach opens (creating if needed) todos.db inside dataDir and applies
// the schema. Existing rows are kept.
func (r *Repository) Attach(dataDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.attached {
		return ErrAlreadyAttached
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := paths.EnsureDir(dataDir); err != nil {
		return err
	}

	dbPath := paths.DatabasePath(dataDir)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	r.db = db
	r.path = dbPath
	r.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (r *Repository) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.attached {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return err
	}
	r.db = nil
	r.attached = false
	return nil
}

// Path returns the database file, or "" when detached.
func (r *Repository) Path() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

func (r *Repository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.attached {
		return nil, ErrDetached
	}
	return r.db, nil
}

// List returns the todos owned by ownerID in insertion order.
func (r *Repository) List(ctx context.Context, ownerID int64) ([]types.Item, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, user_id, title, completed FROM todos WHERE user_id = ? ORDER BY id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	items := []types.Item{}
	for rows.Next() {
		var it types.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Completed); err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get returns one todo or types.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (types.Item, error) {
	db, err := r.conn()
	if err != nil {
		return types.Item{}, err
	}
	return get(ctx, db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryRower, id int64) (types.Item, error) {
	if id <= 0 {
		return types.Item{}, types.ErrInvalidID
	}
	var it types.Item
	err := q.QueryRowContext(ctx,
		"SELECT id, user_id, title, completed FROM todos WHERE id = ?", id,
	).Scan(&it.ID, &it.OwnerID, &it.Title, &it.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Item{}, types.ErrNotFound
	}
	if err != nil {
		return types.Item{}, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return it, nil
}

// Create inserts a todo and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, n types.NewItem) (types.Item, error) {
	if err := n.Validate(); err != nil {
		return types.Item{}, err
	}
	db, err := r.conn()
	if err != nil {
		return types.Item{}, err
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO todos (user_id, title, completed) VALUES (?, ?, ?)",
		n.OwnerID, n.Title, n.Completed,
	)
	if err != nil {
		return types.Item{}, fmt.Errorf("inserting todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Item{}, fmt.Errorf("reading new todo id: %w", err)
	}
	return types.Item{ID: id, OwnerID: n.OwnerID, Title: n.Title, Completed: n.Completed}, nil
}

// Update applies p to the todo with the given id and returns the stored
// result.
func (r *Repository) Update(ctx context.Context, id int64, p Patch) (types.Item, error) {
	db, err := r.conn()
	if err != nil {
		return types.Item{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.Item{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	it, err := get(ctx, tx, id)
	if err != nil {
		return types.Item{}, err
	}
	if p.OwnerID != nil {
		it.OwnerID = *p.OwnerID
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	if err := it.Validate(); err != nil {
		return types.Item{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET user_id = ?, title = ?, completed = ? WHERE id = ?",
		it.OwnerID, it.Title, it.Completed, id,
	); err != nil {
		return types.Item{}, fmt.Errorf("updating todo %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return types.Item{}, fmt.Errorf("committing todo %d: %w", id, err)
	}
	return it, nil
}

// Delete removes a todo. Returns types.ErrNotFound if it does not exist.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := r.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
