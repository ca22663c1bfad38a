package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{ID: 1, OwnerID: 7, Title: "milk", Completed: false},
		{ID: 2, OwnerID: 7, Title: "bread", Completed: true},
		{ID: 3, OwnerID: 7, Title: "eggs", Completed: false},
		{ID: 4, OwnerID: 7, Title: "butter", Completed: true},
	}
}

func TestFilterItems(t *testing.T) {
	tests := []struct {
		name    string
		mode    FilterMode
		wantIDs []int64
	}{
		{name: "all keeps every item in order", mode: FilterAll, wantIDs: []int64{1, 2, 3, 4}},
		{name: "active keeps incomplete items", mode: FilterActive, wantIDs: []int64{1, 3}},
		{name: "completed keeps completed items", mode: FilterCompleted, wantIDs: []int64{2, 4}},
		{name: "unknown mode behaves as all", mode: FilterMode(42), wantIDs: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterItems(sampleItems(), tt.mode)
			ids := make([]int64, len(got))
			for i, it := range got {
				ids[i] = it.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterItemsAllIsIdentity(t *testing.T) {
	for _, items := range [][]Item{nil, {}, sampleItems(), sampleItems()[:1]} {
		got := FilterItems(items, FilterAll)
		require.Len(t, got, len(items))
		for i := range items {
			assert.Equal(t, items[i], got[i])
		}
	}
}

func TestFilterItemsDoesNotAlias(t *testing.T) {
	items := sampleItems()
	got := FilterItems(items, FilterAll)
	got[0].Title = "changed"
	assert.Equal(t, "milk", items[0].Title, "input must not be modified through the result")
}

func TestFilterItemsIdempotent(t *testing.T) {
	items := sampleItems()
	for _, mode := range FilterModes {
		once := FilterItems(items, mode)
		twice := FilterItems(once, mode)
		assert.Equal(t, once, twice, "mode %s", mode)
	}
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{in: "", want: FilterAll},
		{in: "all", want: FilterAll},
		{in: "Active", want: FilterActive},
		{in: "  COMPLETED ", want: FilterCompleted},
		{in: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterModeLabel(t *testing.T) {
	assert.Equal(t, "All", FilterAll.Label())
	assert.Equal(t, "Active", FilterActive.Label())
	assert.Equal(t, "Completed", FilterCompleted.Label())
}
