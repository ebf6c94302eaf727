package models

import "time"

// BlackoutDate marks an entire calendar day as unbookable, regardless of
// slot occupancy. Blocking a date never cancels reservations already on it.
type BlackoutDate struct {
	ID        string    `bson:"_id" json:"id"`
	Date      string    `bson:"date" json:"date"` // "2006-01-02"
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
