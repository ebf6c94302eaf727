package notification

import (
	ledgerRepo "studiobook/database/repository/ledger"
	"studiobook/models"
)

// SessionTracker decides which ledger mutations deserve outbound events.
// Detection is by identifier-set difference against the last observation,
// never by count delta: a deletion and a creation racing the same window
// cannot cancel each other out. The emitted set guarantees at most one
// new_reservation per genuine creation within a session.
//
// Not safe for concurrent use; the watcher is its single caller.
type SessionTracker struct {
	seen    map[string]trackedReservation
	emitted map[string]bool
}

type trackedReservation struct {
	date   string
	slot   int
	status models.ReservationStatus
}

func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		seen:    make(map[string]trackedReservation),
		emitted: make(map[string]bool),
	}
}

// Prime records the initial result set as the session watermark. Records
// that predate the session are not new; nothing is emitted, and their
// identifiers join the emitted set so a primed record that vanishes and
// reappears within the session is never announced as a creation.
func (t *SessionTracker) Prime(current []models.Reservation) {
	for _, res := range current {
		t.seen[res.ID] = track(res)
		t.emitted[res.ID] = true
	}
}

// Observe applies one incremental diff and returns the events it warrants
// plus the dates whose availability view it touched.
func (t *SessionTracker) Observe(ev ledgerRepo.ChangeEvent) ([]models.ReservationEvent, []string) {
	switch ev.Op {
	case ledgerRepo.OpInsert, ledgerRepo.OpUpdate:
		if ev.Reservation == nil {
			return nil, nil
		}
		return t.observeDocument(*ev.Reservation)
	case ledgerRepo.OpDelete:
		prev, ok := t.seen[ev.ReservationID]
		if !ok {
			return nil, nil
		}
		delete(t.seen, ev.ReservationID)
		return nil, []string{prev.date}
	}
	return nil, nil
}

// Resync replays a full snapshot after a feed interruption, diffing it
// against the watermark. Unlike Prime, identifiers that appeared during the
// gap do produce events.
func (t *SessionTracker) Resync(current []models.Reservation) ([]models.ReservationEvent, []string) {
	var events []models.ReservationEvent
	dateSet := make(map[string]bool)

	currentIDs := make(map[string]bool, len(current))
	for _, res := range current {
		currentIDs[res.ID] = true
		evs, dates := t.observeDocument(res)
		events = append(events, evs...)
		for _, d := range dates {
			dateSet[d] = true
		}
	}
	for id, prev := range t.seen {
		if !currentIDs[id] {
			delete(t.seen, id)
			dateSet[prev.date] = true
		}
	}
	return events, keys(dateSet)
}

func (t *SessionTracker) observeDocument(res models.Reservation) ([]models.ReservationEvent, []string) {
	var events []models.ReservationEvent
	prev, known := t.seen[res.ID]
	t.seen[res.ID] = track(res)

	if !known {
		// An unseen identifier is a creation even when first observed via an
		// update: the insert may have been missed during a feed gap.
		if !t.emitted[res.ID] {
			t.emitted[res.ID] = true
			events = append(events, models.ReservationEvent{
				Type:          models.EventNewReservation,
				ReservationID: res.ID,
				Date:          res.Date,
				Slot:          res.SlotIndex,
				Status:        res.Status,
			})
		}
		return events, []string{res.Date}
	}

	if prev.status != res.Status {
		events = append(events, models.ReservationEvent{
			Type:          models.EventStatusChanged,
			ReservationID: res.ID,
			Date:          res.Date,
			Slot:          res.SlotIndex,
			Status:        res.Status,
		})
	}
	if prev.status != res.Status || prev.slot != res.SlotIndex || prev.date != res.Date {
		dates := []string{res.Date}
		if prev.date != res.Date {
			dates = append(dates, prev.date)
		}
		return events, dates
	}
	return events, nil
}

func track(res models.Reservation) trackedReservation {
	return trackedReservation{date: res.Date, slot: res.SlotIndex, status: res.Status}
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
