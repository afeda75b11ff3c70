package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

const collectionDoctors = "doctors"

type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

// List returns every doctor in registration order. Password hashes stored
// alongside are never decoded.
func (r *DoctorRepository) List(ctx context.Context) ([]domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetProjection(bson.M{"password": 0})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}

	doctors := []domain.Doctor{}
	if err := cur.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Doctor
	err := r.col.FindOne(ctx, idFilter(id), options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

// toggleAvailabilityUpdate negates the stored flag server-side so concurrent
// toggles each flip it once.
func toggleAvailabilityUpdate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "available", Value: bson.D{{Key: "$not", Value: "$available"}}}}}},
	}
}

// ToggleAvailability flips the availability flag in a single
// find-and-modify and returns the stored value after the flip.
func (r *DoctorRepository) ToggleAvailability(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"available": 1})
	var d domain.Doctor
	err := r.col.FindOneAndUpdate(ctx, idFilter(id), toggleAvailabilityUpdate(), opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrDoctorNotFound
		}
		return false, fmt.Errorf("toggle availability: %w", err)
	}
	return d.Available, nil
}

func (r *DoctorRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return int(n), nil
}

// EnsureIndexes creates necessary indexes on the doctors collection.
func (r *DoctorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	return err
}
