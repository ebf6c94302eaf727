package blackoutRepo

import (
	"context"

	"studiobook/models"
)

// Repository defines the data access methods for the blackout registry.
type Repository interface {
	// GetByDate retrieves the blackout for a date, the earliest-created when
	// duplicates exist. Returns ErrNotFound when the date is not blocked.
	GetByDate(ctx context.Context, date string) (*models.BlackoutDate, error)
	// ListAllByDate retrieves every entry for a date. More than one is a
	// consistency anomaly the reconciliation sweep repairs.
	ListAllByDate(ctx context.Context, date string) ([]models.BlackoutDate, error)
	// ListByDateRange retrieves blackouts with from <= date <= to.
	ListByDateRange(ctx context.Context, from, to string) ([]models.BlackoutDate, error)
	// Create persists a new blackout. Returns ErrDuplicateDate if the date
	// is already present; the existing reason is never silently overwritten.
	Create(ctx context.Context, blackout *models.BlackoutDate) error
	// DeleteByDate removes all entries for the date and reports how many.
	DeleteByDate(ctx context.Context, date string) (int, error)
	// Delete removes a single entry by ID, used by reconciliation repair.
	Delete(ctx context.Context, id string) error
}
