package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/models"
)

func defaultGrid(t *testing.T) []models.Slot {
	t.Helper()
	grid, err := GenerateGrid(540, 1200, 30)
	require.NoError(t, err)
	return grid
}

func TestMatchSlotCanonicalLabelsRoundTrip(t *testing.T) {
	grid := defaultGrid(t)
	for _, slot := range grid {
		idx, ok := MatchSlot(slot.StartLabel, grid)
		assert.True(t, ok)
		assert.Equal(t, slot.Index, idx, "label %q", slot.StartLabel)
	}
}

func TestMatchSlotHeterogeneousForms(t *testing.T) {
	grid := defaultGrid(t)
	cases := []struct {
		raw  string
		want int
	}{
		{"9:00", 0},
		{"09:00", 0},
		{"9:00 AM", 0},
		{"9:00am", 0},
		{"9:00-9:30 am", 0},
		{"9:00 - 9:30 AM", 0},
		{"9:00 to 9:30", 0},
		{"09:00–09:30", 0},
		{"10:30 AM", 3},
		{"2:00 PM", 10},
		{"7:30 PM", 21},
	}
	for _, tc := range cases {
		idx, ok := MatchSlot(tc.raw, grid)
		assert.True(t, ok, "label %q should resolve", tc.raw)
		assert.Equal(t, tc.want, idx, "label %q", tc.raw)
	}
}

func TestMatchSlotUnresolved(t *testing.T) {
	grid := defaultGrid(t)
	for _, raw := range []string{"", "   ", "whole day", "8:00 AM", "TBD"} {
		idx, ok := MatchSlot(raw, grid)
		assert.False(t, ok, "label %q should not resolve", raw)
		assert.Equal(t, models.SlotUnresolved, idx)
	}
}

// Range truncation drops the meridiem, so a bare start hour can substring-
// match an earlier slot: "1:00" hits 11:00 AM before 1:00 PM, and
// "2:00-3:00pm" hits 12:00 PM. Earliest grid slot wins. Pinned so a matcher
// change surfaces here instead of silently moving bookings.
func TestMatchSlotAmbiguousBareHourPicksEarliest(t *testing.T) {
	grid := defaultGrid(t)

	idx, ok := MatchSlot("1:00", grid)
	require.True(t, ok)
	assert.Equal(t, "11:00 AM", grid[idx].StartLabel)

	idx, ok = MatchSlot("2:00-3:00pm", grid)
	require.True(t, ok)
	assert.Equal(t, "12:00 PM", grid[idx].StartLabel)
}
