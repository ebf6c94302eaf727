package notification

import (
	"context"
	"time"

	ledgerRepo "studiobook/database/repository/ledger"
	"studiobook/models"

	"go.uber.org/zap"
)

// ReservationFeed is the subscribe-for-changes contract the watcher
// consumes: the full current result set plus incremental diffs.
type ReservationFeed interface {
	Snapshot(ctx context.Context) ([]models.Reservation, error)
	Changes(ctx context.Context) (<-chan ledgerRepo.ChangeEvent, error)
}

// AvailabilityInvalidator drops a cached availability view so the next read
// recomputes it. Satisfied by scheduling.DefaultAvailabilityService.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, date string)
}

// Watcher observes the live reservation stream, publishes domain events
// through the sink, and keeps the availability cache push-fresh.
type Watcher struct {
	Feed         ReservationFeed
	Sink         EventSink
	Availability AvailabilityInvalidator
	Logger       *zap.Logger

	tracker *SessionTracker
}

// Run blocks until ctx is cancelled, reconnecting with backoff when the
// feed drops. The first snapshot primes the session watermark; snapshots
// after an interruption are diffed so creations during the gap still emit.
func (w *Watcher) Run(ctx context.Context) {
	w.tracker = NewSessionTracker()
	primed := false
	backoff := time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		if err := w.watchOnce(ctx, &primed); err != nil {
			w.logger().Warn("reservation watcher disconnected, retrying",
				zap.Error(err), zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
	}
}

func (w *Watcher) watchOnce(ctx context.Context, primed *bool) error {
	snapshot, err := w.Feed.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !*primed {
		w.tracker.Prime(snapshot)
		*primed = true
	} else {
		events, dates := w.tracker.Resync(snapshot)
		w.dispatch(ctx, events, dates)
	}

	changes, err := w.Feed.Changes(ctx)
	if err != nil {
		return err
	}
	for ev := range changes {
		events, dates := w.tracker.Observe(ev)
		w.dispatch(ctx, events, dates)
	}
	return ctx.Err()
}

func (w *Watcher) dispatch(ctx context.Context, events []models.ReservationEvent, dates []string) {
	for _, event := range events {
		if err := w.Sink.Publish(ctx, event); err != nil {
			w.logger().Error("failed to publish reservation event",
				zap.String("type", event.Type),
				zap.String("reservationId", event.ReservationID),
				zap.Error(err))
		}
	}
	if w.Availability == nil {
		return
	}
	for _, date := range dates {
		w.Availability.Invalidate(ctx, date)
	}
}

func (w *Watcher) logger() *zap.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return zap.L()
}
