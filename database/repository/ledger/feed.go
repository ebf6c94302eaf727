package ledgerRepo

import (
	"context"
	"fmt"

	"studiobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ChangeOp classifies one observed ledger mutation.
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent is one incremental diff from the reservation change feed.
// Reservation is nil for deletes; ReservationID is always set.
type ChangeEvent struct {
	Op            ChangeOp
	ReservationID string
	Reservation   *models.Reservation
}

// Snapshot returns the full current reservation set, the "initial result
// set" half of the subscribe-for-changes contract.
func (repo *MongoLedgerRepo) Snapshot(ctx context.Context) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{})
}

// Changes opens a change stream on the reservation collection and pumps
// decoded events into the returned channel until ctx is cancelled. Updates
// are delivered with the post-image so consumers see the new status without
// a second read.
func (repo *MongoLedgerRepo) Changes(ctx context.Context) (<-chan ChangeEvent, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := repo.reservationColl.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error opening reservation change stream: %w", err)
	}

	out := make(chan ChangeEvent)
	go func() {
		defer close(out)
		defer stream.Close(ctx)
		logger := zap.L()

		for stream.Next(ctx) {
			var raw struct {
				OperationType string              `bson:"operationType"`
				FullDocument  *models.Reservation `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&raw); err != nil {
				logger.Warn("failed to decode change stream event", zap.Error(err))
				continue
			}

			ev := ChangeEvent{ReservationID: raw.DocumentKey.ID, Reservation: raw.FullDocument}
			switch raw.OperationType {
			case "insert":
				ev.Op = OpInsert
			case "update", "replace":
				ev.Op = OpUpdate
			case "delete":
				ev.Op = OpDelete
			default:
				continue
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Error("reservation change stream closed", zap.Error(err))
		}
	}()

	return out, nil
}
