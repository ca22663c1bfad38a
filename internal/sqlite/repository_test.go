package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func attached(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository()
	require.NoError(t, r.Attach(t.TempDir()))
	t.Cleanup(func() { _ = r.Detach() })
	return r
}

func ptr[T any](v T) *T { return &v }

func TestRepository_AttachDetach(t *testing.T) {
	dir := t.TempDir()
	r := NewRepository()

	require.NoError(t, r.Attach(dir))
	_, err := os.Stat(r.Path())
	assert.NoError(t, err, "todos.db should exist")
	assert.ErrorIs(t, r.Attach(dir), ErrAlreadyAttached)

	require.NoError(t, r.Detach())
	require.NoError(t, r.Detach(), "detach is idempotent")

	_, err = r.List(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestRepository_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	r := NewRepository()
	require.NoError(t, r.Attach(dir))
	_, err := r.Create(ctx, types.NewItem{OwnerID: 7, Title: "keep me"})
	require.NoError(t, err)
	require.NoError(t, r.Detach())

	r2 := NewRepository()
	require.NoError(t, r2.Attach(dir))
	defer r2.Detach()
	items, err := r2.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep me", items[0].Title)
}

func TestRepository_CreateAndList(t *testing.T) {
	r := attached(t)
	ctx := context.Background()

	a, err := r.Create(ctx, types.NewItem{OwnerID: 1, Title: "a"})
	require.NoError(t, err)
	b, err := r.Create(ctx, types.NewItem{OwnerID: 1, Title: "b", Completed: true})
	require.NoError(t, err)
	_, err = r.Create(ctx, types.NewItem{OwnerID: 2, Title: "other owner"})
	require.NoError(t, err)

	assert.Greater(t, b.ID, a.ID)

	items, err := r.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []types.Item{a, b}, items)

	empty, err := r.List(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty, "list returns an empty slice, not nil")
	assert.Empty(t, empty)
}

func TestRepository_CreateValidation(t *testing.T) {
	r := attached(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   types.NewItem
		want error
	}{
		{"missing owner", types.NewItem{Title: "x"}, types.ErrOwnerUnset},
		{"blank title", types.NewItem{OwnerID: 1, Title: "  "}, types.ErrEmptyTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepository_Update(t *testing.T) {
	r := attached(t)
	ctx := context.Background()
	it, err := r.Create(ctx, types.NewItem{OwnerID: 1, Title: "draft"})
	require.NoError(t, err)

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		got, err := r.Update(ctx, it.ID, Patch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, types.Item{ID: it.ID, OwnerID: 1, Title: "draft", Completed: true}, got)

		stored, err := r.Get(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("title change", func(t *testing.T) {
		got, err := r.Update(ctx, it.ID, Patch{Title: ptr("final")})
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.True(t, got.Completed)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := r.Update(ctx, it.ID, Patch{Title: ptr("")})
		assert.ErrorIs(t, err, types.ErrEmptyTitle)
		stored, err := r.Get(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", stored.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := r.Update(ctx, it.ID+100, Patch{Completed: ptr(false)})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	r := attached(t)
	ctx := context.Background()
	it, err := r.Create(ctx, types.NewItem{OwnerID: 1, Title: "gone"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, it.ID))
	assert.ErrorIs(t, r.Delete(ctx, it.ID), types.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, 0), types.ErrInvalidID)

	_, err = r.Get(ctx, it.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
