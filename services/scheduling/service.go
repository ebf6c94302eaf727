package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	occupancyRepo "studiobook/database/repository/occupancy"
	"studiobook/models"
	"studiobook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the operations on the reservation ledger and the blackout
// registry. Every mutation that touches a slot goes through here; UI code
// never writes the occupancy mirror directly.
type Service interface {
	CreateReservation(ctx context.Context, input models.ReservationInput) (*models.Reservation, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context, date string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, reason string) error
	UpdatePayment(ctx context.Context, id string, payment models.PaymentBreakdown) error
	DeleteReservation(ctx context.Context, id string) error

	BlockDate(ctx context.Context, date, reason string) (*models.BlackoutDate, error)
	UnblockDate(ctx context.Context, date string) error
	ListBlackouts(ctx context.Context, from, to string) ([]models.BlackoutDate, error)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Ledger    ledgerRepo.Repository
	Occupancy occupancyRepo.Repository
	Blackouts blackoutRepo.Repository
	Grid      []models.Slot
	// Availability, when set, drops the cached view for dates whose
	// blackout state changed.
	Availability CacheInvalidator
	Logger       *zap.Logger
}

// CreateReservation validates the input, rejects blacked-out dates before
// any slot arbitration, matches the raw time label, and performs the dual
// write. A label that fails to match is tolerated: the reservation is
// created unresolved and flagged for staff correction.
func (s *DefaultService) CreateReservation(ctx context.Context, input models.ReservationInput) (*models.Reservation, error) {
	if input.ClientName == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if input.Date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse(utils.DateFormat, input.Date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not in %s form", ErrInvalidInput, input.Date, utils.DateFormat)
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	switch status {
	case models.StatusPending, models.StatusConfirmed:
	default:
		return nil, fmt.Errorf("%w: reservations cannot be created as %q", ErrInvalidInput, status)
	}

	// Blackout check runs before the transactional slot check.
	_, err := s.Blackouts.GetByDate(ctx, input.Date)
	switch {
	case err == nil:
		return nil, ErrDateBlocked
	case errors.Is(err, blackoutRepo.ErrNotFound):
	default:
		return nil, classifyStoreError("fetch blackout", err)
	}

	slotIndex, resolved := MatchSlot(input.RawTime, s.Grid)
	now := time.Now()
	res := &models.Reservation{
		ID:         uuid.New().String(),
		Date:       input.Date,
		RawTime:    input.RawTime,
		SlotIndex:  slotIndex,
		ClientName: input.ClientName,
		Contact:    input.Contact,
		PackageID:  input.PackageID,
		Payment:    input.Payment,
		Status:     status,
		CreatedAt:  now,
	}
	entry := mirrorOf(res, now)

	if resolved {
		if err := s.Ledger.ReserveSlot(ctx, res, entry); err != nil {
			if errors.Is(err, ledgerRepo.ErrSlotOccupied) {
				return nil, &SlotTakenError{Date: input.Date, SlotIndex: slotIndex}
			}
			return nil, classifyStoreError("reserve slot", err)
		}
	} else {
		s.logger().Warn("reservation created with unresolved time label",
			zap.String("id", res.ID), zap.String("date", res.Date), zap.String("rawTime", res.RawTime))
		if err := s.Ledger.CreateWithMirror(ctx, res, entry); err != nil {
			return nil, classifyStoreError("create reservation", err)
		}
	}

	return res, nil
}

func (s *DefaultService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.Ledger.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError("fetch reservation", err)
	}
	return res, nil
}

func (s *DefaultService) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	reservations, err := s.Ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, classifyStoreError("list reservations", err)
	}
	return reservations, nil
}

// UpdateStatus transitions a reservation through the state machine:
// pending -> confirmed -> completed, pending -> rejected, and
// confirmed -> rejected (a reversal that frees the slot). Completed and
// rejected are terminal. Rejections require a reason.
func (s *DefaultService) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, reason string) error {
	if status == models.StatusRejected && reason == "" {
		return fmt.Errorf("%w: rejection requires a reason", ErrInvalidInput)
	}

	res, err := s.Ledger.GetByID(ctx, id)
	if err != nil {
		return classifyStoreError("fetch reservation", err)
	}
	if !canTransition(res.Status, status) {
		return &InvalidTransitionError{From: res.Status, To: status}
	}

	if err := s.Ledger.UpdateStatus(ctx, id, status, reason); err != nil {
		return classifyStoreError("update status", err)
	}

	// Mirror the status change. The mirror is best-effort: a missing entry
	// is logged for the reconciliation sweep, not surfaced as a failure.
	if err := s.Occupancy.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, occupancyRepo.ErrNotFound) {
			s.logger().Warn("occupancy mirror missing on status update",
				zap.String("id", id), zap.String("status", string(status)))
		} else {
			s.logger().Error("failed to mirror status update",
				zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultService) UpdatePayment(ctx context.Context, id string, payment models.PaymentBreakdown) error {
	if err := s.Ledger.UpdatePayment(ctx, id, payment); err != nil {
		return classifyStoreError("update payment", err)
	}
	return nil
}

// DeleteReservation removes the ledger record and makes a best-effort
// attempt on the mirror. A failed mirror removal leaves a dangling entry
// the reconciliation sweep will find.
func (s *DefaultService) DeleteReservation(ctx context.Context, id string) error {
	if err := s.Ledger.Delete(ctx, id); err != nil {
		return classifyStoreError("delete reservation", err)
	}
	if err := s.Occupancy.Delete(ctx, id); err != nil && !errors.Is(err, occupancyRepo.ErrNotFound) {
		s.logger().Warn("failed to remove occupancy mirror, sweep will repair",
			zap.String("id", id), zap.Error(err))
	}
	return nil
}

// BlockDate adds a date to the blackout registry. Existing reservations on
// the date are untouched; blocking only prevents new ones.
func (s *DefaultService) BlockDate(ctx context.Context, date, reason string) (*models.BlackoutDate, error) {
	if _, err := time.Parse(utils.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not in %s form", ErrInvalidInput, date, utils.DateFormat)
	}

	blackout := &models.BlackoutDate{
		ID:        uuid.New().String(),
		Date:      date,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := s.Blackouts.Create(ctx, blackout); err != nil {
		if errors.Is(err, blackoutRepo.ErrDuplicateDate) {
			existingReason := ""
			if existing, lookupErr := s.Blackouts.GetByDate(ctx, date); lookupErr == nil {
				existingReason = existing.Reason
			}
			return nil, &DuplicateBlockError{Date: date, ExistingReason: existingReason}
		}
		return nil, classifyStoreError("create blackout", err)
	}
	s.invalidateAvailability(ctx, date)
	return blackout, nil
}

func (s *DefaultService) UnblockDate(ctx context.Context, date string) error {
	removed, err := s.Blackouts.DeleteByDate(ctx, date)
	if err != nil {
		return classifyStoreError("remove blackout", err)
	}
	if removed == 0 {
		return blackoutRepo.ErrNotFound
	}
	if removed > 1 {
		s.logger().Warn("removed duplicate blackout entries",
			zap.String("date", date), zap.Int("count", removed))
	}
	s.invalidateAvailability(ctx, date)
	return nil
}

func (s *DefaultService) invalidateAvailability(ctx context.Context, date string) {
	if s.Availability != nil {
		s.Availability.Invalidate(ctx, date)
	}
}

func (s *DefaultService) ListBlackouts(ctx context.Context, from, to string) ([]models.BlackoutDate, error) {
	blackouts, err := s.Blackouts.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, classifyStoreError("list blackouts", err)
	}
	return blackouts, nil
}

func (s *DefaultService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

// canTransition encodes the reservation state machine. Rejected stays
// terminal: reinstating a rejected booking means creating a new one, so the
// slot claim is re-arbitrated.
func canTransition(from, to models.ReservationStatus) bool {
	switch from {
	case models.StatusPending:
		return to == models.StatusConfirmed || to == models.StatusRejected
	case models.StatusConfirmed:
		return to == models.StatusCompleted || to == models.StatusRejected
	}
	return false
}

// mirrorOf derives the occupancy shadow for a reservation.
func mirrorOf(res *models.Reservation, now time.Time) *models.OccupancyEntry {
	return &models.OccupancyEntry{
		ID:        res.ID,
		Date:      res.Date,
		SlotIndex: res.SlotIndex,
		TimeLabel: res.RawTime,
		Status:    res.Status,
		UpdatedAt: now,
	}
}
