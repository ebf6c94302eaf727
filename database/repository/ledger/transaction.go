package ledgerRepo

import (
	"context"
	"fmt"

	"studiobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReserveSlot claims (date, slot) and writes the reservation plus its
// occupancy mirror as one transaction. Arbitration happens here and only
// here: the mirror read inside the transaction plus the partial unique index
// on (date, slot_index) mean that of any number of racing writers, exactly
// one commits and the rest see ErrSlotOccupied.
func (repo *MongoLedgerRepo) ReserveSlot(ctx context.Context, res *models.Reservation, entry *models.OccupancyEntry) error {
	client := repo.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// A rejected mirror on the slot means the slot was freed; clear it so
		// the unique index accepts the new claim.
		var existing models.OccupancyEntry
		filter := bson.M{"date": entry.Date, "slot_index": entry.SlotIndex}
		err := repo.occupancyColl.FindOne(sc, filter).Decode(&existing)
		switch {
		case err == nil:
			if existing.Status.Active() {
				return ErrSlotOccupied
			}
			if _, err := repo.occupancyColl.DeleteOne(sc, bson.M{"_id": existing.ID}); err != nil {
				return fmt.Errorf("clear freed mirror failed: %w", err)
			}
		case err == mongo.ErrNoDocuments:
			// slot is open
		default:
			return fmt.Errorf("occupancy lookup failed: %w", err)
		}

		if _, err := repo.reservationColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		if _, err := repo.occupancyColl.InsertOne(sc, entry); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotOccupied
			}
			return fmt.Errorf("insert occupancy mirror failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotOccupied {
			return err
		}
		return fmt.Errorf("reserve transaction failed: %w", err)
	}

	return nil
}

// CreateWithMirror writes a reservation with an unresolved time label and
// its mirror in one transaction. There is no slot claim to arbitrate, but
// the two documents still appear or vanish together.
func (repo *MongoLedgerRepo) CreateWithMirror(ctx context.Context, res *models.Reservation, entry *models.OccupancyEntry) error {
	client := repo.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.reservationColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		if _, err := repo.occupancyColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert occupancy mirror failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("create transaction failed: %w", err)
	}

	return nil
}
