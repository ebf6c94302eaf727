package ledgerRepo

import "errors"

var (
	// ErrNotFound is returned when no reservation matches the given ID.
	ErrNotFound = errors.New("reservation not found")
	// ErrSlotOccupied is returned by ReserveSlot when another active
	// reservation already holds the (date, slot) pair.
	ErrSlotOccupied = errors.New("slot already occupied")
)
