package scheduling

import (
	"context"
	"fmt"
	"time"

	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	occupancyRepo "studiobook/database/repository/occupancy"
	"studiobook/models"
	"studiobook/utils"

	"go.uber.org/zap"
)

// Reconciler is the backstop for the inherent non-atomicity between the
// ledger and its occupancy mirror. It diffs the two stores over a date
// range, repairs divergence where the correct resolution is unambiguous,
// and escalates the rest to a human queue.
type Reconciler struct {
	Ledger    ledgerRepo.Repository
	Occupancy occupancyRepo.Repository
	Blackouts blackoutRepo.Repository
	Logger    *zap.Logger
}

// Reconcile sweeps [from, to] (inclusive, "2006-01-02" form). Repairs:
// dangling mirrors deleted, missing mirrors created, drifted mirror
// statuses re-synced, duplicate blackout dates reduced keep-earliest.
// Two active reservations resolving to one slot is never auto-picked; it
// lands in Escalations.
func (r *Reconciler) Reconcile(ctx context.Context, from, to string) (*models.ReconcileReport, error) {
	fromDay, err := time.Parse(utils.DateFormat, from)
	if err != nil {
		return nil, fmt.Errorf("%w: bad range start %q", ErrInvalidInput, from)
	}
	toDay, err := time.Parse(utils.DateFormat, to)
	if err != nil {
		return nil, fmt.Errorf("%w: bad range end %q", ErrInvalidInput, to)
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("%w: range end %q precedes start %q", ErrInvalidInput, to, from)
	}

	report := &models.ReconcileReport{From: from, To: to, StartedAt: time.Now()}

	reservations, err := r.Ledger.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, classifyStoreError("list reservations", err)
	}
	report.ReservationsScanned = len(reservations)

	byID := make(map[string]models.Reservation, len(reservations))
	for _, res := range reservations {
		byID[res.ID] = res
	}

	// Walk every calendar date in the range, not just dates with ledger
	// records: a dangling mirror may be the only trace left on its date.
	mirrored := make(map[string]bool)
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		date := day.Format(utils.DateFormat)
		entries, err := r.Occupancy.ListByDate(ctx, date)
		if err != nil {
			return nil, classifyStoreError("list occupancy entries", err)
		}
		for _, entry := range entries {
			res, ok := byID[entry.ID]
			if !ok {
				// Dangling mirror: its reservation is gone, removal is the
				// unambiguous fix.
				if err := r.Occupancy.Delete(ctx, entry.ID); err != nil {
					r.logger().Error("failed to remove dangling occupancy entry",
						zap.String("id", entry.ID), zap.Error(err))
					report.Escalations = append(report.Escalations,
						fmt.Sprintf("dangling occupancy entry %s on %s could not be removed", entry.ID, entry.Date))
					continue
				}
				report.DanglingRemoved = append(report.DanglingRemoved, entry.ID)
				continue
			}
			mirrored[entry.ID] = true
			if entry.Status != res.Status {
				if err := r.Occupancy.UpdateStatus(ctx, entry.ID, res.Status); err != nil {
					r.logger().Error("failed to re-sync occupancy status",
						zap.String("id", entry.ID), zap.Error(err))
					continue
				}
				report.StatusResynced = append(report.StatusResynced, entry.ID)
			}
		}
	}

	// Ledger records with no mirror. The claimed slot may meanwhile be held
	// by someone else's mirror; that conflict is a human decision.
	claimed := make(map[string]string) // "date/slot" -> reservation ID
	for _, res := range reservations {
		if !res.Status.Active() || res.SlotIndex < 0 {
			continue
		}
		key := fmt.Sprintf("%s/%d", res.Date, res.SlotIndex)
		if other, ok := claimed[key]; ok {
			report.Escalations = append(report.Escalations,
				fmt.Sprintf("reservations %s and %s both resolve to %s", other, res.ID, key))
			continue
		}
		claimed[key] = res.ID
	}

	for _, res := range reservations {
		if mirrored[res.ID] {
			continue
		}
		entry := mirrorOf(&res, time.Now())
		if res.SlotIndex >= 0 && res.Status.Active() {
			if holder, ok := claimed[fmt.Sprintf("%s/%d", res.Date, res.SlotIndex)]; ok && holder != res.ID {
				// already escalated above
				continue
			}
		}
		if err := r.Occupancy.Upsert(ctx, entry); err != nil {
			r.logger().Error("failed to create missing occupancy entry",
				zap.String("id", res.ID), zap.Error(err))
			report.Escalations = append(report.Escalations,
				fmt.Sprintf("reservation %s on %s has no mirror and repair failed", res.ID, res.Date))
			continue
		}
		report.MissingCreated = append(report.MissingCreated, res.ID)
	}

	if err := r.repairDuplicateBlackouts(ctx, from, to, report); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now()
	r.logger().Info("reconciliation sweep finished",
		zap.String("from", from), zap.String("to", to),
		zap.Int("scanned", report.ReservationsScanned),
		zap.Int("danglingRemoved", len(report.DanglingRemoved)),
		zap.Int("missingCreated", len(report.MissingCreated)),
		zap.Int("statusResynced", len(report.StatusResynced)),
		zap.Int("escalations", len(report.Escalations)))
	return report, nil
}

// repairDuplicateBlackouts keeps the earliest-created entry per date and
// removes the rest.
func (r *Reconciler) repairDuplicateBlackouts(ctx context.Context, from, to string, report *models.ReconcileReport) error {
	blackouts, err := r.Blackouts.ListByDateRange(ctx, from, to)
	if err != nil {
		return classifyStoreError("list blackouts", err)
	}

	seen := make(map[string]bool)
	for _, b := range blackouts {
		if !seen[b.Date] {
			seen[b.Date] = true // entries arrive sorted oldest first
			continue
		}
		if err := r.Blackouts.Delete(ctx, b.ID); err != nil {
			r.logger().Error("failed to remove duplicate blackout",
				zap.String("id", b.ID), zap.String("date", b.Date), zap.Error(err))
			continue
		}
		report.DuplicateBlackouts = append(report.DuplicateBlackouts, b.ID)
	}
	return nil
}

func (r *Reconciler) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.L()
}
