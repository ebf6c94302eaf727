package models

import "time"

// OccupancyEntry is the denormalized shadow of an active Reservation, keyed
// for fast (date, slot) lookups without loading full ledger records. It is
// written only as a side effect of ledger operations.
type OccupancyEntry struct {
	ID        string            `bson:"_id" json:"id"` // shared with its Reservation
	Date      string            `bson:"date" json:"date"`
	SlotIndex int               `bson:"slot_index" json:"slotIndex"`
	TimeLabel string            `bson:"time_label" json:"timeLabel"`
	Status    ReservationStatus `bson:"status" json:"status"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updatedAt"`
}
