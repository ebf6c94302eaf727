package occupancyRepo

import (
	"context"

	"studiobook/models"
)

// Repository defines the data access methods for the slot occupancy mirror.
// The mirror is written only as a side effect of ledger operations; nothing
// else may create entries here.
type Repository interface {
	// GetByID retrieves the mirror entry sharing its reservation's ID.
	GetByID(ctx context.Context, id string) (*models.OccupancyEntry, error)
	// GetBySlot retrieves the entry claiming (date, slot), whatever its status.
	GetBySlot(ctx context.Context, date string, slotIndex int) (*models.OccupancyEntry, error)
	// ListByDate retrieves all mirror entries for a calendar day.
	ListByDate(ctx context.Context, date string) ([]models.OccupancyEntry, error)
	// UpdateStatus mirrors a ledger status change. Returns ErrNotFound when
	// the mirror is missing so callers can log and move on.
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	// Upsert writes a full mirror entry, used by reconciliation repair.
	Upsert(ctx context.Context, entry *models.OccupancyEntry) error
	// Delete removes a mirror entry.
	Delete(ctx context.Context, id string) error
}
