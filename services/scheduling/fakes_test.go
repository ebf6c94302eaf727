package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	occupancyRepo "studiobook/database/repository/occupancy"
	"studiobook/models"
)

// memStore backs the in-memory fakes. One store is shared by the ledger,
// occupancy, and blackout fakes so cross-store consistency is observable,
// and ReserveSlot arbitrates under the same lock the real store's
// transaction provides.
type memStore struct {
	mu           sync.Mutex
	reservations map[string]models.Reservation
	occupancy    map[string]models.OccupancyEntry
	blackouts    []models.BlackoutDate
}

func newMemStore() *memStore {
	return &memStore{
		reservations: make(map[string]models.Reservation),
		occupancy:    make(map[string]models.OccupancyEntry),
	}
}

type fakeLedger struct{ s *memStore }

func (f *fakeLedger) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	res, ok := f.s.reservations[id]
	if !ok {
		return nil, ledgerRepo.ErrNotFound
	}
	return &res, nil
}

func (f *fakeLedger) ListByDate(_ context.Context, date string) ([]models.Reservation, error) {
	return f.listWhere(func(r models.Reservation) bool { return r.Date == date }), nil
}

func (f *fakeLedger) ListByDateRange(_ context.Context, from, to string) ([]models.Reservation, error) {
	return f.listWhere(func(r models.Reservation) bool { return r.Date >= from && r.Date <= to }), nil
}

func (f *fakeLedger) listWhere(pred func(models.Reservation) bool) []models.Reservation {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.s.reservations {
		if pred(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeLedger) ReserveSlot(_ context.Context, res *models.Reservation, entry *models.OccupancyEntry) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, existing := range f.s.occupancy {
		if existing.Date == entry.Date && existing.SlotIndex == entry.SlotIndex {
			if existing.Status.Active() {
				return ledgerRepo.ErrSlotOccupied
			}
			delete(f.s.occupancy, id)
		}
	}
	f.s.reservations[res.ID] = *res
	f.s.occupancy[entry.ID] = *entry
	return nil
}

func (f *fakeLedger) CreateWithMirror(_ context.Context, res *models.Reservation, entry *models.OccupancyEntry) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.reservations[res.ID] = *res
	f.s.occupancy[entry.ID] = *entry
	return nil
}

func (f *fakeLedger) UpdateStatus(_ context.Context, id string, status models.ReservationStatus, reason string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	res, ok := f.s.reservations[id]
	if !ok {
		return ledgerRepo.ErrNotFound
	}
	res.Status = status
	if reason != "" {
		res.RejectReason = reason
	}
	f.s.reservations[id] = res
	return nil
}

func (f *fakeLedger) UpdatePayment(_ context.Context, id string, payment models.PaymentBreakdown) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	res, ok := f.s.reservations[id]
	if !ok {
		return ledgerRepo.ErrNotFound
	}
	res.Payment = payment
	f.s.reservations[id] = res
	return nil
}

func (f *fakeLedger) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.reservations[id]; !ok {
		return ledgerRepo.ErrNotFound
	}
	delete(f.s.reservations, id)
	return nil
}

type fakeOccupancy struct{ s *memStore }

func (f *fakeOccupancy) GetByID(_ context.Context, id string) (*models.OccupancyEntry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	entry, ok := f.s.occupancy[id]
	if !ok {
		return nil, occupancyRepo.ErrNotFound
	}
	return &entry, nil
}

func (f *fakeOccupancy) GetBySlot(_ context.Context, date string, slotIndex int) (*models.OccupancyEntry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, entry := range f.s.occupancy {
		if entry.Date == date && entry.SlotIndex == slotIndex {
			return &entry, nil
		}
	}
	return nil, occupancyRepo.ErrNotFound
}

func (f *fakeOccupancy) ListByDate(_ context.Context, date string) ([]models.OccupancyEntry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.OccupancyEntry
	for _, entry := range f.s.occupancy {
		if entry.Date == date {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeOccupancy) UpdateStatus(_ context.Context, id string, status models.ReservationStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	entry, ok := f.s.occupancy[id]
	if !ok {
		return occupancyRepo.ErrNotFound
	}
	entry.Status = status
	entry.UpdatedAt = time.Now()
	f.s.occupancy[id] = entry
	return nil
}

func (f *fakeOccupancy) Upsert(_ context.Context, entry *models.OccupancyEntry) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.occupancy[entry.ID] = *entry
	return nil
}

func (f *fakeOccupancy) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.occupancy[id]; !ok {
		return occupancyRepo.ErrNotFound
	}
	delete(f.s.occupancy, id)
	return nil
}

type fakeBlackouts struct{ s *memStore }

func (f *fakeBlackouts) GetByDate(_ context.Context, date string) (*models.BlackoutDate, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var earliest *models.BlackoutDate
	for i := range f.s.blackouts {
		b := f.s.blackouts[i]
		if b.Date != date {
			continue
		}
		if earliest == nil || b.CreatedAt.Before(earliest.CreatedAt) {
			earliest = &b
		}
	}
	if earliest == nil {
		return nil, blackoutRepo.ErrNotFound
	}
	return earliest, nil
}

func (f *fakeBlackouts) ListAllByDate(_ context.Context, date string) ([]models.BlackoutDate, error) {
	return f.listWhere(func(b models.BlackoutDate) bool { return b.Date == date }), nil
}

func (f *fakeBlackouts) ListByDateRange(_ context.Context, from, to string) ([]models.BlackoutDate, error) {
	return f.listWhere(func(b models.BlackoutDate) bool { return b.Date >= from && b.Date <= to }), nil
}

func (f *fakeBlackouts) listWhere(pred func(models.BlackoutDate) bool) []models.BlackoutDate {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.BlackoutDate
	for _, b := range f.s.blackouts {
		if pred(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeBlackouts) Create(_ context.Context, blackout *models.BlackoutDate) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.blackouts {
		if b.Date == blackout.Date {
			return blackoutRepo.ErrDuplicateDate
		}
	}
	f.s.blackouts = append(f.s.blackouts, *blackout)
	return nil
}

func (f *fakeBlackouts) DeleteByDate(_ context.Context, date string) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var kept []models.BlackoutDate
	removed := 0
	for _, b := range f.s.blackouts {
		if b.Date == date {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	f.s.blackouts = kept
	return removed, nil
}

func (f *fakeBlackouts) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var kept []models.BlackoutDate
	for _, b := range f.s.blackouts {
		if b.ID == id {
			continue
		}
		kept = append(kept, b)
	}
	f.s.blackouts = kept
	return nil
}

// newTestService wires a DefaultService over a fresh shared store with the
// given grid.
func newTestService(grid []models.Slot) (*DefaultService, *memStore) {
	store := newMemStore()
	svc := &DefaultService{
		Ledger:    &fakeLedger{s: store},
		Occupancy: &fakeOccupancy{s: store},
		Blackouts: &fakeBlackouts{s: store},
		Grid:      grid,
	}
	return svc, store
}
