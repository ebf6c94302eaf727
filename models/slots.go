package models

// Slot is one fixed-length bookable window in the day's canonical grid.
// Identity is the positional index within the generated sequence; slots are
// recomputed on demand and never persisted.
type Slot struct {
	Index      int    `json:"index"`
	Start      int    `json:"start"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End        int    `json:"end"`
	StartLabel string `json:"startLabel"` // e.g., "9:00 AM"
	EndLabel   string `json:"endLabel"`
}

// SlotState labels a canonical slot on a day's availability view.
type SlotState string

const (
	SlotOpen     SlotState = "open"
	SlotOccupied SlotState = "occupied"
	SlotBlocked  SlotState = "blocked"
)

// SlotAvailability pairs a canonical slot with its computed state for a date.
type SlotAvailability struct {
	Slot          Slot      `json:"slot"`
	State         SlotState `json:"state"`
	ReservationID string    `json:"reservationId,omitempty"`
	ClientName    string    `json:"clientName,omitempty"`
}

// AvailabilityView is the derived per-date picture of the grid. Never
// persisted; recomputed from the ledger and the blackout registry.
// Reservations whose time label never resolved to a slot occupy nothing but
// are listed in Unresolved so staff can correct them.
type AvailabilityView struct {
	Date        string             `json:"date"`
	Blocked     bool               `json:"blocked"`
	BlockReason string             `json:"blockReason,omitempty"`
	Slots       []SlotAvailability `json:"slots"`
	Unresolved  []Reservation      `json:"unresolved,omitempty"`
}
