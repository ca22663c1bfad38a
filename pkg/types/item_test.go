package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr error
	}{
		{name: "valid item", item: Item{ID: 1, OwnerID: 2, Title: "milk"}},
		{name: "zero id", item: Item{OwnerID: 2, Title: "milk"}, wantErr: ErrInvalidID},
		{name: "missing owner", item: Item{ID: 1, Title: "milk"}, wantErr: ErrOwnerUnset},
		{name: "blank title", item: Item{ID: 1, OwnerID: 2, Title: " \t "}, wantErr: ErrEmptyTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewItemValidate(t *testing.T) {
	assert.NoError(t, NewItem{OwnerID: 1, Title: "x"}.Validate())
	assert.ErrorIs(t, NewItem{Title: "x"}.Validate(), ErrOwnerUnset)
	assert.ErrorIs(t, NewItem{OwnerID: 1, Title: "   "}.Validate(), ErrEmptyTitle)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "buy milk", NormalizeTitle("  buy milk \n"))
	assert.Equal(t, "", NormalizeTitle(" \t "))
}

func TestAggregates(t *testing.T) {
	items := sampleItems()
	assert.Equal(t, 2, CountActive(items))
	assert.False(t, AllCompleted(items))
	assert.True(t, AllCompleted(nil), "empty collection counts as all completed")
	assert.True(t, AllCompleted(FilterItems(items, FilterCompleted)))
	assert.Equal(t, 2, IndexOf(items, 3))
	assert.Equal(t, -1, IndexOf(items, 99))
}
