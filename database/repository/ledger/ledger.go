package ledgerRepo

import (
	"context"

	"studiobook/models"
)

// Repository defines the data access methods for the reservation ledger and
// the dual writes that keep its occupancy mirror in step.
type Repository interface {
	// GetByID retrieves a reservation by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// ListByDate retrieves all reservations for a calendar day.
	ListByDate(ctx context.Context, date string) ([]models.Reservation, error)
	// ListByDateRange retrieves reservations with from <= date <= to.
	ListByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error)
	// ReserveSlot persists a reservation and its occupancy mirror as a single
	// transaction, arbitrating the (date, slot) claim against concurrent
	// writers. Returns ErrSlotOccupied when another active reservation holds
	// the slot.
	ReserveSlot(ctx context.Context, res *models.Reservation, entry *models.OccupancyEntry) error
	// CreateWithMirror persists a reservation whose time label never resolved
	// to a slot, together with its mirror. No slot arbitration: there is no
	// slot to contend.
	CreateWithMirror(ctx context.Context, res *models.Reservation, entry *models.OccupancyEntry) error
	// UpdateStatus transitions a reservation's status, recording the reason
	// on rejections.
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, reason string) error
	// UpdatePayment replaces the bookkeeping payment fields.
	UpdatePayment(ctx context.Context, id string, payment models.PaymentBreakdown) error
	// Delete removes a reservation from the ledger. Mirror removal is the
	// caller's concern and is best-effort.
	Delete(ctx context.Context, id string) error
}
