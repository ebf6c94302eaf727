package scheduling

import (
	"context"
	"errors"
	"fmt"

	"studiobook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ConfigurationError reports invalid grid parameters. Fatal at startup.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configurationError: %s", e.Message)
}

// SlotTakenError reports a transactional conflict on create. Recoverable:
// the caller picks another slot.
type SlotTakenError struct {
	Date      string
	SlotIndex int
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("slotTakenError: slot %d on %s is already taken", e.SlotIndex, e.Date)
}

// DuplicateBlockError reports that a date is already in the blackout
// registry. The existing reason is carried so the caller can surface it
// instead of silently overwriting.
type DuplicateBlockError struct {
	Date           string
	ExistingReason string
}

func (e *DuplicateBlockError) Error() string {
	return fmt.Sprintf("duplicateBlockError: %s is already blocked (%s)", e.Date, e.ExistingReason)
}

// TransientStoreError wraps a store hiccup that is safe to retry with
// backoff. Never surfaced as data loss.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transientStoreError: %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	From models.ReservationStatus
	To   models.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

var (
	// ErrDateBlocked rejects creation on a blacked-out date, before any
	// slot arbitration runs.
	ErrDateBlocked = errors.New("date is blocked for booking")
	// ErrInvalidInput flags malformed creation or update parameters.
	ErrInvalidInput = errors.New("invalid input")
)

// classifyStoreError wraps store timeouts and network failures as
// TransientStoreError so callers can retry instead of treating them as
// data loss. Everything else passes through unchanged.
func classifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return &TransientStoreError{Op: op, Err: err}
	}
	return err
}
