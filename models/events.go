package models

// Reservation event types emitted to delivery collaborators.
const (
	EventNewReservation = "new_reservation"
	EventStatusChanged  = "status_changed"
)

// ReservationEvent describes a ledger mutation for outbound delivery
// (email, desktop notification). Delivery itself is out of scope; this
// system only states that something changed.
type ReservationEvent struct {
	Type          string            `json:"type"`
	ReservationID string            `json:"reservationId"`
	Date          string            `json:"date"`
	Slot          int               `json:"slot"`
	Status        ReservationStatus `json:"status"`
}
