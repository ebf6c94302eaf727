// FILE: database/repository/occupancy/indexes.go
package occupancyRepo

import (
	"context"
	"fmt"
	"time"

	"studiobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the occupancy collection.
// The partial unique index on (date, slot_index) is load-bearing: it is the
// store-level arbiter that keeps two active reservations from ever sharing
// a slot, even when racing transactions interleave. Unresolved entries
// (slot_index < 0) and rejected entries are excluded so they never collide.
func (repo *MongoOccupancyRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activeStatuses := bson.A{models.StatusPending, models.StatusConfirmed, models.StatusCompleted}
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "slot_index", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot").
				SetPartialFilterExpression(bson.M{
					"slot_index": bson.M{"$gte": 0},
					"status":     bson.M{"$in": activeStatuses},
				}),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create occupancy indexes: %w", err)
	}
	return nil
}
