package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"studiobook/database"
	"studiobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

// MongoLedgerRepo implements Repository using MongoDB. It holds both the
// reservation and occupancy collections because the dual write in
// ReserveSlot spans the two.
type MongoLedgerRepo struct {
	reservationColl *mongo.Collection
	occupancyColl   *mongo.Collection
}

// NewMongoLedgerRepo constructs a new instance of MongoLedgerRepo.
func NewMongoLedgerRepo() *MongoLedgerRepo {
	db := database.MongoClient.Database("studiobook")
	return &MongoLedgerRepo{
		reservationColl: db.Collection("reservations"),
		occupancyColl:   db.Collection("occupancy"),
	}
}

// GetByID retrieves a reservation document by ID.
func (repo *MongoLedgerRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var res models.Reservation
	if err := repo.reservationColl.FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation with id %s: %w", id, err)
	}
	return &res, nil
}

// ListByDate retrieves all reservations for a given calendar day, oldest first.
func (repo *MongoLedgerRepo) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"date": date})
}

// ListByDateRange retrieves reservations whose date falls in [from, to].
func (repo *MongoLedgerRepo) ListByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}

func (repo *MongoLedgerRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := repo.reservationColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

// UpdateStatus transitions the reservation's status and mirrors the
// rejection reason when present.
func (repo *MongoLedgerRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{"status": status}
	if reason != "" {
		set["reject_reason"] = reason
	}
	result, err := repo.reservationColl.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating status for reservation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePayment replaces the payment bookkeeping fields on a reservation.
func (repo *MongoLedgerRepo) UpdatePayment(ctx context.Context, id string, payment models.PaymentBreakdown) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := repo.reservationColl.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"payment": payment}})
	if err != nil {
		return fmt.Errorf("error updating payment for reservation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a reservation document. The occupancy mirror is removed
// separately (best-effort) by the scheduling service.
func (repo *MongoLedgerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := repo.reservationColl.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
