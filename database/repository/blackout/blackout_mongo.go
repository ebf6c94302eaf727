package blackoutRepo

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

var (
	// ErrNotFound is returned when a date has no blackout entry.
	ErrNotFound = errors.New("blackout date not found")
	// ErrDuplicateDate is returned by Create when the date is already blocked.
	ErrDuplicateDate = errors.New("date already blocked")
)

// MongoBlackoutRepo implements Repository using MongoDB.
type MongoBlackoutRepo struct {
	coll *mongo.Collection
}

// NewMongoBlackoutRepo constructs a new instance of MongoBlackoutRepo.
func NewMongoBlackoutRepo() *MongoBlackoutRepo {
	db := database.MongoClient.Database("studiobook")
	return &MongoBlackoutRepo{coll: db.Collection("blackouts")}
}

func (repo *MongoBlackoutRepo) GetByDate(ctx context.Context, date string) (*models.BlackoutDate, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var blackout models.BlackoutDate
	if err := repo.coll.FindOne(ctx, bson.M{"date": date}, opts).Decode(&blackout); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching blackout for %s: %w", date, err)
	}
	return &blackout, nil
}

func (repo *MongoBlackoutRepo) ListAllByDate(ctx context.Context, date string) ([]models.BlackoutDate, error) {
	return repo.list(ctx, bson.M{"date": date})
}

func (repo *MongoBlackoutRepo) ListByDateRange(ctx context.Context, from, to string) ([]models.BlackoutDate, error) {
	return repo.list(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}

func (repo *MongoBlackoutRepo) list(ctx context.Context, filter bson.M) ([]models.BlackoutDate, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching blackouts: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []models.BlackoutDate
	if err := cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("error decoding blackouts: %w", err)
	}
	return blackouts, nil
}

func (repo *MongoBlackoutRepo) Create(ctx context.Context, blackout *models.BlackoutDate) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctx, bson.M{"date": blackout.Date})
	if err != nil {
		return fmt.Errorf("error checking existing blackout for %s: %w", blackout.Date, err)
	}
	if count > 0 {
		return ErrDuplicateDate
	}

	if _, err := repo.coll.InsertOne(ctx, blackout); err != nil {
		return fmt.Errorf("error creating blackout for %s: %w", blackout.Date, err)
	}
	return nil
}

func (repo *MongoBlackoutRepo) DeleteByDate(ctx context.Context, date string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := repo.coll.DeleteMany(ctx, bson.M{"date": date})
	if err != nil {
		return 0, fmt.Errorf("error removing blackout for %s: %w", date, err)
	}
	return int(result.DeletedCount), nil
}

func (repo *MongoBlackoutRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error removing blackout %s: %w", id, err)
	}
	return nil
}

// EnsureIndexes creates the date lookup index. Deliberately not unique:
// Create guards duplicates at the application level, and the sweep detects
// and repairs any that slip through (keep-earliest).
func (repo *MongoBlackoutRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("date_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create blackout indexes: %w", err)
	}
	return nil
}
