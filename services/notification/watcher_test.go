package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerRepo "studiobook/database/repository/ledger"
	"studiobook/models"
)

// scriptedFeed serves one pre-planned snapshot and change channel per
// connect; closing a channel simulates the feed dropping.
type scriptedFeed struct {
	snapshots [][]models.Reservation
	channels  []chan ledgerRepo.ChangeEvent
	session   int
}

func (f *scriptedFeed) Snapshot(_ context.Context) ([]models.Reservation, error) {
	return f.snapshots[f.session], nil
}

func (f *scriptedFeed) Changes(_ context.Context) (<-chan ledgerRepo.ChangeEvent, error) {
	ch := f.channels[f.session]
	f.session++
	return ch, nil
}

type memorySink struct {
	events []models.ReservationEvent
}

func (s *memorySink) Publish(_ context.Context, event models.ReservationEvent) error {
	s.events = append(s.events, event)
	return nil
}

type memoryInvalidator struct {
	dates []string
}

func (m *memoryInvalidator) Invalidate(_ context.Context, date string) {
	m.dates = append(m.dates, date)
}

func TestWatcherAcrossReconnect(t *testing.T) {
	resA := reservation("res-a", "2026-09-01", 0, models.StatusPending)
	resB := reservation("res-b", "2026-09-01", 1, models.StatusPending)
	resC := reservation("res-c", "2026-09-02", 2, models.StatusPending)

	feed := &scriptedFeed{
		snapshots: [][]models.Reservation{
			{resA},
			// Second connect: res-c appeared during the gap.
			{resA, resB, resC},
		},
		channels: []chan ledgerRepo.ChangeEvent{
			make(chan ledgerRepo.ChangeEvent),
			make(chan ledgerRepo.ChangeEvent),
		},
	}
	sink := &memorySink{}
	invalidator := &memoryInvalidator{}
	w := &Watcher{Feed: feed, Sink: sink, Availability: invalidator}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	// Session one: res-b arrives live, then the feed drops.
	feed.channels[0] <- ledgerRepo.ChangeEvent{Op: ledgerRepo.OpInsert, ReservationID: resB.ID, Reservation: &resB}
	close(feed.channels[0])

	// Session two: res-a gets confirmed.
	resAConfirmed := reservation("res-a", "2026-09-01", 0, models.StatusConfirmed)
	feed.channels[1] <- ledgerRepo.ChangeEvent{Op: ledgerRepo.OpUpdate, ReservationID: resAConfirmed.ID, Reservation: &resAConfirmed}

	cancel()
	close(feed.channels[1])
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	require.Len(t, sink.events, 3)
	// res-a was primed, never announced as new. res-b emitted live and not
	// repeated by the resync snapshot. res-c emitted from the resync diff.
	assert.Equal(t, models.EventNewReservation, sink.events[0].Type)
	assert.Equal(t, "res-b", sink.events[0].ReservationID)
	assert.Equal(t, models.EventNewReservation, sink.events[1].Type)
	assert.Equal(t, "res-c", sink.events[1].ReservationID)
	assert.Equal(t, models.EventStatusChanged, sink.events[2].Type)
	assert.Equal(t, "res-a", sink.events[2].ReservationID)

	assert.Contains(t, invalidator.dates, "2026-09-01")
	assert.Contains(t, invalidator.dates, "2026-09-02")
}
