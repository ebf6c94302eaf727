package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	"studiobook/models"
	"studiobook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityService computes the derived per-date view of the slot grid.
type AvailabilityService interface {
	// Availability labels every canonical slot for the date as open,
	// occupied, or blocked. The view is advisory at display time; booking
	// commit re-validates through the transactional path.
	Availability(ctx context.Context, date string) (*models.AvailabilityView, error)
	// Invalidate drops the cached view for a date. Called by the change
	// watcher on every observed ledger or blackout mutation, so recompute
	// is push-driven rather than polled.
	Invalidate(ctx context.Context, date string)
}

// CacheInvalidator drops the cached availability view for a date. The
// change watcher covers reservation mutations; blackout mutations do not
// flow through the change stream, so the scheduling service invalidates
// those directly.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, date string)
}

// DefaultAvailabilityService is the production implementation, with a redis
// cache in front of the computation.
type DefaultAvailabilityService struct {
	Ledger    ledgerRepo.Repository
	Blackouts blackoutRepo.Repository
	Grid      []models.Slot
	Cache     *redis.Client
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

func (s *DefaultAvailabilityService) Availability(ctx context.Context, date string) (*models.AvailabilityView, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, utils.AvailabilityCachePrefix+date).Bytes(); err == nil {
			var view models.AvailabilityView
			if err := json.Unmarshal(cached, &view); err == nil {
				return &view, nil
			}
		}
	}

	view, err := s.compute(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(view); err == nil {
			if err := s.Cache.Set(ctx, utils.AvailabilityCachePrefix+date, payload, s.CacheTTL).Err(); err != nil {
				s.logger().Warn("failed to cache availability view", zap.String("date", date), zap.Error(err))
			}
		}
	}
	return view, nil
}

// compute builds the view from the two backing stores. A blackout
// short-circuits the whole day to blocked, but pre-existing reservations
// are still surfaced so a human can decide whether to also cancel them.
func (s *DefaultAvailabilityService) compute(ctx context.Context, date string) (*models.AvailabilityView, error) {
	view := &models.AvailabilityView{
		Date:  date,
		Slots: make([]models.SlotAvailability, len(s.Grid)),
	}
	for i, slot := range s.Grid {
		view.Slots[i] = models.SlotAvailability{Slot: slot, State: models.SlotOpen}
	}

	blackout, err := s.Blackouts.GetByDate(ctx, date)
	switch {
	case err == nil:
		view.Blocked = true
		view.BlockReason = blackout.Reason
		for i := range view.Slots {
			view.Slots[i].State = models.SlotBlocked
		}
	case errors.Is(err, blackoutRepo.ErrNotFound):
		// date is bookable
	default:
		return nil, classifyStoreError("fetch blackout", err)
	}

	reservations, err := s.Ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, classifyStoreError("list reservations", err)
	}

	for _, res := range reservations {
		if !res.Status.Active() {
			continue
		}
		idx := res.SlotIndex
		if idx == models.SlotUnresolved {
			// Retry the raw label against the current grid; staff may have
			// corrected it, or the label may resolve now.
			if matched, ok := MatchSlot(res.RawTime, s.Grid); ok {
				idx = matched
			} else {
				view.Unresolved = append(view.Unresolved, res)
				continue
			}
		}
		if idx < 0 || idx >= len(view.Slots) {
			view.Unresolved = append(view.Unresolved, res)
			continue
		}
		if !view.Blocked {
			view.Slots[idx].State = models.SlotOccupied
		}
		view.Slots[idx].ReservationID = res.ID
		view.Slots[idx].ClientName = res.ClientName
	}

	return view, nil
}

func (s *DefaultAvailabilityService) Invalidate(ctx context.Context, date string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.AvailabilityCachePrefix+date).Err(); err != nil {
		s.logger().Warn("failed to invalidate availability cache", zap.String("date", date), zap.Error(err))
	}
}

func (s *DefaultAvailabilityService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
