package scheduling

import (
	"strings"

	"studiobook/models"
)

// MatchSlot maps a free-form time label onto a canonical slot index. Labels
// arrive in heterogeneous forms: "9:00", "09:00", "9:00 AM", "9:00-9:30 am".
// Matching is tiered: exact equality against every slot's canonical start
// label first, then candidate-as-substring-of-canonical, then
// canonical-as-substring-of-candidate (tolerating missing meridiem markers).
// Within a tier the earliest slot in grid order wins.
//
// An unmatched label returns (SlotUnresolved, false) rather than an error:
// unresolved labels mean manual reconciliation, never a denial of service.
func MatchSlot(rawLabel string, grid []models.Slot) (int, bool) {
	candidate := normalizeLabel(rawLabel)
	if candidate == "" {
		return models.SlotUnresolved, false
	}

	canonical := make([]string, len(grid))
	for i, slot := range grid {
		canonical[i] = normalizeLabel(slot.StartLabel)
	}

	for i := range canonical {
		if candidate == canonical[i] {
			return i, true
		}
	}
	for i := range canonical {
		if strings.Contains(canonical[i], candidate) {
			return i, true
		}
	}
	for i := range canonical {
		if strings.Contains(candidate, canonical[i]) {
			return i, true
		}
	}
	return models.SlotUnresolved, false
}

// normalizeLabel case-folds, drops whitespace, and reduces a range label to
// its start time. Leading zeros on the hour are trimmed so "09:00" compares
// equal to the canonical "9:00".
func normalizeLabel(raw string) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("–", "-", "—", "-", " to ", "-").Replace(s)
	s = strings.Join(strings.Fields(s), "")
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "0")
	return s
}
