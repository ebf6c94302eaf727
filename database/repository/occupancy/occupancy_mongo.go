package occupancyRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiobook/database"
	"studiobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// ErrNotFound is returned when no mirror entry matches.
var ErrNotFound = errors.New("occupancy entry not found")

// MongoOccupancyRepo implements Repository using MongoDB.
type MongoOccupancyRepo struct {
	coll *mongo.Collection
}

// NewMongoOccupancyRepo constructs a new instance of MongoOccupancyRepo.
func NewMongoOccupancyRepo() *MongoOccupancyRepo {
	db := database.MongoClient.Database("studiobook")
	return &MongoOccupancyRepo{coll: db.Collection("occupancy")}
}

func (repo *MongoOccupancyRepo) GetByID(ctx context.Context, id string) (*models.OccupancyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var entry models.OccupancyEntry
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching occupancy entry %s: %w", id, err)
	}
	return &entry, nil
}

func (repo *MongoOccupancyRepo) GetBySlot(ctx context.Context, date string, slotIndex int) (*models.OccupancyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var entry models.OccupancyEntry
	filter := bson.M{"date": date, "slot_index": slotIndex}
	if err := repo.coll.FindOne(ctx, filter).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching occupancy entry for %s slot %d: %w", date, slotIndex, err)
	}
	return &entry, nil
}

func (repo *MongoOccupancyRepo) ListByDate(ctx context.Context, date string) ([]models.OccupancyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("error fetching occupancy entries for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var entries []models.OccupancyEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding occupancy entries: %w", err)
	}
	return entries, nil
}

func (repo *MongoOccupancyRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating occupancy entry %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoOccupancyRepo) Upsert(ctx context.Context, entry *models.OccupancyEntry) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, opts); err != nil {
		return fmt.Errorf("error upserting occupancy entry %s: %w", entry.ID, err)
	}
	return nil
}

func (repo *MongoOccupancyRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting occupancy entry %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
