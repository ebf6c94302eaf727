package notification

import (
	"context"

	"studiobook/models"

	"go.uber.org/zap"
)

// EventSink receives domain events for delivery. Delivery mechanisms
// (email, desktop notification) live outside this system; implementations
// adapt to whatever the host application wires in.
type EventSink interface {
	Publish(ctx context.Context, event models.ReservationEvent) error
}

// LogSink is the default sink: it writes every event to the structured log.
// Useful on its own for audit, and as the fallback when no delivery
// collaborator is configured.
type LogSink struct {
	Logger *zap.Logger
}

func (s *LogSink) Publish(_ context.Context, event models.ReservationEvent) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Info("reservation event",
		zap.String("type", event.Type),
		zap.String("reservationId", event.ReservationID),
		zap.String("date", event.Date),
		zap.Int("slot", event.Slot),
		zap.String("status", string(event.Status)))
	return nil
}
