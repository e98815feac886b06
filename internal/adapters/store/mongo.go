package store

import (
	"context"
	"fmt"
	"strconv"

	"dentistimo/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	officesCollection      = "dentistoffices"
	appointmentsCollection = "appointments"
)

// Mongo is the document-store backed office repository. Offices are keyed
// by their registry id; appointments are written by the external booking
// subsystem with the office id as a string.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) FindAll(ctx context.Context) ([]domain.Office, error) {
	return m.findOffices(ctx, bson.D{})
}

func (m *Mongo) FindByID(ctx context.Context, id int) ([]domain.Office, error) {
	return m.findOffices(ctx, bson.M{"id": id})
}

func (m *Mongo) findOffices(ctx context.Context, filter interface{}) ([]domain.Office, error) {
	cursor, err := m.db.Collection(officesCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query dentist offices: %w", err)
	}

	var offices []domain.Office
	if err := cursor.All(ctx, &offices); err != nil {
		return nil, fmt.Errorf("failed to decode dentist offices: %w", err)
	}

	if offices == nil {
		offices = []domain.Office{}
	}

	return offices, nil
}

func (m *Mongo) FindReservations(ctx context.Context, officeID int) ([]domain.Reservation, error) {
	filter := bson.M{"dentistid": strconv.Itoa(officeID)}

	cursor, err := m.db.Collection(appointmentsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}

	var reservations []domain.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	return reservations, nil
}

// ReplaceAll clears the office collection and upserts every record keyed
// by id. Callers only invoke this with a freshly fetched registry
// snapshot, so the clear never races an unreachable registry.
func (m *Mongo) ReplaceAll(ctx context.Context, offices []domain.Office) error {
	collection := m.db.Collection(officesCollection)

	if _, err := collection.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear dentist office collection: %w", err)
	}

	for _, office := range offices {
		_, err := collection.UpdateOne(ctx,
			bson.M{"id": office.ID},
			bson.M{"$set": office},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to upsert dentist office %d: %w", office.ID, err)
		}
	}

	return nil
}
