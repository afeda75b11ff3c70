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

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

// List returns every appointment, oldest booking first.
func (r *AppointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// Latest returns up to limit appointments, most recent booking first.
func (r *AppointmentRepository) Latest(ctx context.Context, limit int) ([]domain.Appointment, error) {
	return r.find(ctx, options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)))
}

func (r *AppointmentRepository) find(ctx context.Context, opts *options.FindOptions) ([]domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}

	appts := []domain.Appointment{}
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Appointment
	if err := r.col.FindOne(ctx, idFilter(id)).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateStatus is a compare-and-set on the status field: the write only
// applies while the stored status still equals from.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := idFilter(id)
	filter["status"] = from

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the id is unknown or someone else moved it first.
	n, err := r.col.CountDocuments(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if n == 0 {
		return domain.ErrAppointmentNotFound
	}
	return fmt.Errorf("%w (expected %s)", domain.ErrInvalidTransition, from)
}

func (r *AppointmentRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return int(n), nil
}

// CountPatients counts distinct patients that ever booked.
func (r *AppointmentRepository) CountPatients(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.col.Distinct(ctx, "user_id", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("distinct patients: %w", err)
	}
	return len(ids), nil
}

// EnsureIndexes creates necessary indexes on the appointments collection.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "doc_id", Value: 1}}},
	})
	return err
}
