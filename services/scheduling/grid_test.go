package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGridDefaultDay(t *testing.T) {
	grid, err := GenerateGrid(540, 1200, 30)
	require.NoError(t, err)
	require.Len(t, grid, 22)

	assert.Equal(t, "9:00 AM", grid[0].StartLabel)
	assert.Equal(t, "9:30 AM", grid[0].EndLabel)
	assert.Equal(t, "7:30 PM", grid[21].StartLabel)
	assert.Equal(t, "8:00 PM", grid[21].EndLabel)

	for i, slot := range grid {
		assert.Equal(t, i, slot.Index)
		assert.Equal(t, 30, slot.End-slot.Start)
		if i > 0 {
			assert.Equal(t, grid[i-1].End, slot.Start, "slots must be contiguous")
		}
	}
}

func TestGenerateGridShapes(t *testing.T) {
	cases := []struct {
		name  string
		start int
		end   int
		step  int
		want  int
	}{
		{"single slot", 540, 570, 30, 1},
		{"hour steps", 480, 1020, 60, 9},
		{"quarter hours", 600, 660, 15, 4},
		{"full day", 0, 1440, 30, 48},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := GenerateGrid(tc.start, tc.end, tc.step)
			require.NoError(t, err)
			assert.Len(t, grid, tc.want)
			assert.Equal(t, tc.start, grid[0].Start)
			assert.Equal(t, tc.end, grid[len(grid)-1].End)
		})
	}
}

func TestGenerateGridRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name  string
		start int
		end   int
		step  int
	}{
		{"zero step", 540, 1200, 0},
		{"negative step", 540, 1200, -30},
		{"end before start", 1200, 540, 30},
		{"end equals start", 540, 540, 30},
		{"step does not divide range", 540, 1200, 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateGrid(tc.start, tc.end, tc.step)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
		})
	}
}

func TestGenerateGridMemoized(t *testing.T) {
	first, err := GenerateGrid(540, 1200, 30)
	require.NoError(t, err)
	second, err := GenerateGrid(540, 1200, 30)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "same shape should return the cached grid")
}

func TestMinuteLabel(t *testing.T) {
	cases := map[int]string{
		0:    "12:00 AM",
		540:  "9:00 AM",
		555:  "9:15 AM",
		720:  "12:00 PM",
		750:  "12:30 PM",
		1170: "7:30 PM",
		1439: "11:59 PM",
	}
	for minute, want := range cases {
		assert.Equal(t, want, MinuteLabel(minute))
	}
}
