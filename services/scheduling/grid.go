package scheduling

import (
	"fmt"
	"sync"

	"studiobook/models"
)

// gridCache memoizes generated grids per (start, end, step). A grid never
// changes within a deployment, so the first generation is the only one.
var gridCache = struct {
	mu    sync.Mutex
	grids map[[3]int][]models.Slot
}{grids: make(map[[3]int][]models.Slot)}

// GenerateGrid produces the canonical ordered slot sequence covering
// [startMinute, endMinute) in stepMinutes increments. Deterministic and
// gapless; the default studio window of 09:00-20:00 in 30-minute steps
// yields 22 slots. The returned slice is shared with the cache and must be
// treated as read-only.
func GenerateGrid(startMinute, endMinute, stepMinutes int) ([]models.Slot, error) {
	if stepMinutes <= 0 {
		return nil, &ConfigurationError{Message: fmt.Sprintf("step must be positive, got %d", stepMinutes)}
	}
	if endMinute <= startMinute {
		return nil, &ConfigurationError{Message: fmt.Sprintf("window end %d must be after start %d", endMinute, startMinute)}
	}
	if (endMinute-startMinute)%stepMinutes != 0 {
		return nil, &ConfigurationError{Message: fmt.Sprintf("step %d does not evenly divide window [%d, %d)", stepMinutes, startMinute, endMinute)}
	}

	key := [3]int{startMinute, endMinute, stepMinutes}
	gridCache.mu.Lock()
	defer gridCache.mu.Unlock()
	if grid, ok := gridCache.grids[key]; ok {
		return grid, nil
	}

	count := (endMinute - startMinute) / stepMinutes
	grid := make([]models.Slot, 0, count)
	for i := 0; i < count; i++ {
		start := startMinute + i*stepMinutes
		end := start + stepMinutes
		grid = append(grid, models.Slot{
			Index:      i,
			Start:      start,
			End:        end,
			StartLabel: MinuteLabel(start),
			EndLabel:   MinuteLabel(end),
		})
	}
	gridCache.grids[key] = grid
	return grid, nil
}

// MinuteLabel renders minutes-from-midnight as a 12-hour clock label,
// e.g. 540 -> "9:00 AM". These labels are the canonical form the matcher
// compares raw input against.
func MinuteLabel(minute int) string {
	h := (minute / 60) % 24
	m := minute % 60
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, meridiem)
}
