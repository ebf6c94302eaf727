package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/models"
)

func newTestReconciler(t *testing.T) (*Reconciler, *DefaultService, *memStore) {
	t.Helper()
	svc, store := newTestService(defaultGrid(t))
	rec := &Reconciler{
		Ledger:    svc.Ledger,
		Occupancy: svc.Occupancy,
		Blackouts: svc.Blackouts,
	}
	return rec, svc, store
}

func TestReconcileCleanStoresNoRepairs(t *testing.T) {
	rec, svc, _ := newTestReconciler(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, models.ReservationInput{
		ClientName: "Jane", Date: "2026-09-01", RawTime: "9:00 AM",
	})
	require.NoError(t, err)

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReservationsScanned)
	assert.Empty(t, report.DanglingRemoved)
	assert.Empty(t, report.MissingCreated)
	assert.Empty(t, report.StatusResynced)
	assert.Empty(t, report.Escalations)
}

func TestReconcileRemovesDanglingMirror(t *testing.T) {
	rec, svc, store := newTestReconciler(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, models.ReservationInput{
		ClientName: "Jane", Date: "2026-09-01", RawTime: "9:00 AM",
	})
	require.NoError(t, err)

	// Simulate a delete whose mirror removal was lost: it was the only
	// reservation on its date, so only the mirror remains.
	delete(store.reservations, res.ID)

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{res.ID}, report.DanglingRemoved)
	assert.Empty(t, store.occupancy)

	// A second sweep finds nothing.
	report, err = rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Empty(t, report.DanglingRemoved)
}

func TestReconcileCreatesMissingMirror(t *testing.T) {
	rec, svc, store := newTestReconciler(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, models.ReservationInput{
		ClientName: "Jane", Date: "2026-09-01", RawTime: "9:00 AM",
	})
	require.NoError(t, err)
	delete(store.occupancy, res.ID)

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{res.ID}, report.MissingCreated)

	mirror, ok := store.occupancy[res.ID]
	require.True(t, ok)
	assert.Equal(t, res.Date, mirror.Date)
	assert.Equal(t, res.SlotIndex, mirror.SlotIndex)
	assert.Equal(t, res.Status, mirror.Status)
}

func TestReconcileResyncsDriftedStatus(t *testing.T) {
	rec, svc, store := newTestReconciler(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, models.ReservationInput{
		ClientName: "Jane", Date: "2026-09-01", RawTime: "9:00 AM",
	})
	require.NoError(t, err)

	// Ledger moved on but the mirror write was lost.
	ledger := store.reservations[res.ID]
	ledger.Status = models.StatusConfirmed
	store.reservations[res.ID] = ledger

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{res.ID}, report.StatusResynced)
	assert.Equal(t, models.StatusConfirmed, store.occupancy[res.ID].Status)
}

func TestReconcileEscalatesConflictingClaims(t *testing.T) {
	rec, _, store := newTestReconciler(t)
	ctx := context.Background()

	// Two active ledger records resolving to the same slot, neither
	// mirrored. The sweep must not pick a winner.
	for _, id := range []string{"res-a", "res-b"} {
		store.reservations[id] = models.Reservation{
			ID: id, Date: "2026-09-01", RawTime: "9:00 AM", SlotIndex: 0,
			ClientName: id, Status: models.StatusConfirmed, CreatedAt: time.Now(),
		}
	}

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	require.Len(t, report.Escalations, 1)
	assert.Contains(t, report.Escalations[0], "2026-09-01/0")
}

func TestReconcileRemovesDuplicateBlackoutsKeepEarliest(t *testing.T) {
	rec, _, store := newTestReconciler(t)
	ctx := context.Background()

	base := time.Now()
	store.blackouts = []models.BlackoutDate{
		{ID: "bo-early", Date: "2026-09-01", Reason: "holiday", CreatedAt: base},
		{ID: "bo-late", Date: "2026-09-01", Reason: "renovation", CreatedAt: base.Add(time.Minute)},
		{ID: "bo-other", Date: "2026-09-02", Reason: "holiday", CreatedAt: base},
	}

	report, err := rec.Reconcile(ctx, "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"bo-late"}, report.DuplicateBlackouts)

	require.Len(t, store.blackouts, 2)
	ids := []string{store.blackouts[0].ID, store.blackouts[1].ID}
	assert.Contains(t, ids, "bo-early")
	assert.Contains(t, ids, "bo-other")
}

func TestReconcileRejectsBadRange(t *testing.T) {
	rec, _, _ := newTestReconciler(t)
	ctx := context.Background()

	_, err := rec.Reconcile(ctx, "not-a-date", "2026-09-07")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = rec.Reconcile(ctx, "2026-09-01", "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = rec.Reconcile(ctx, "2026-09-07", "2026-09-01")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
