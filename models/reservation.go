package models

import "time"

// ReservationStatus is the lifecycle state of a booking in the ledger.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusRejected  ReservationStatus = "rejected"
)

// Active reports whether the status holds a slot. Rejected reservations
// free their slot for new bookings.
func (s ReservationStatus) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// SlotUnresolved marks a reservation whose raw time label could not be
// mapped onto the canonical grid. Such reservations are tolerated and
// flagged for manual correction by staff.
const SlotUnresolved = -1

// Reservation is the authoritative booking record.
type Reservation struct {
	ID           string            `bson:"_id" json:"id"`
	Date         string            `bson:"date" json:"date"`            // "2006-01-02"
	RawTime      string            `bson:"raw_time" json:"rawTime"`     // time label as entered
	SlotIndex    int               `bson:"slot_index" json:"slotIndex"` // SlotUnresolved when unmatched
	ClientName   string            `bson:"client_name" json:"clientName"`
	Contact      string            `bson:"contact,omitempty" json:"contact,omitempty"`
	PackageID    string            `bson:"package_id,omitempty" json:"packageId,omitempty"`
	Payment      PaymentBreakdown  `bson:"payment" json:"payment"`
	Status       ReservationStatus `bson:"status" json:"status"`
	RejectReason string            `bson:"reject_reason,omitempty" json:"rejectReason,omitempty"`
	CreatedAt    time.Time         `bson:"created_at" json:"createdAt"`
}

// PaymentBreakdown holds the bookkeeping fields staff maintain on a
// reservation. Payment processing itself happens outside this system.
type PaymentBreakdown struct {
	BasePrice   float64       `bson:"base_price" json:"basePrice"`
	AddOns      float64       `bson:"add_ons,omitempty" json:"addOns,omitempty"`
	Discount    float64       `bson:"discount,omitempty" json:"discount,omitempty"`
	Downpayment PaymentRecord `bson:"downpayment,omitempty" json:"downpayment,omitempty"`
	FullPayment PaymentRecord `bson:"full_payment,omitempty" json:"fullPayment,omitempty"`
}

// PaymentRecord is one received payment, split by instrument so the ledger
// can carry e.g. a cash downpayment and a bank-transfer balance.
type PaymentRecord struct {
	Amount     float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Reference  string  `bson:"reference,omitempty" json:"reference,omitempty"`
	Instrument string  `bson:"instrument,omitempty" json:"instrument,omitempty"` // e.g. "cash", "gcash", "bank"
}

// ReservationInput is the payload for creating a ledger entry, whether it
// comes from a customer request, a staff walk-in, or the importer.
type ReservationInput struct {
	Date       string            `json:"date" binding:"required"`
	RawTime    string            `json:"rawTime"`
	ClientName string            `json:"clientName" binding:"required"`
	Contact    string            `json:"contact"`
	PackageID  string            `json:"packageId"`
	Payment    PaymentBreakdown  `json:"payment"`
	Status     ReservationStatus `json:"status"`
}
