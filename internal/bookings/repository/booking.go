package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingerrors "reservio/internal/bookings/errors"
	"reservio/pkg/model"
)

const (
	bookingsCollection = "Bookings"
	queryTimeout       = 5 * time.Second
)

// ListFilter narrows booking queries. Empty fields are ignored.
type ListFilter struct {
	ResourceKind string
	ResourceCode string
	Date         string
	CreatedBy    string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (string, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, filter ListFilter, limit int, offset int64) ([]model.Booking, int64, error)
	FindByResourceAndDate(ctx context.Context, kind, code, date string, limit int) ([]model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &mongoBookingRepository{
		collection: db.Collection(bookingsCollection),
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return "", err
	}

	return booking.ID, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, bookingerrors.ErrNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter ListFilter, limit int, offset int64) ([]model.Booking, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.ResourceKind != "" {
		query["resource_kind"] = filter.ResourceKind
	}
	if filter.ResourceCode != "" {
		query["resource_code"] = filter.ResourceCode
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "from", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// FindByResourceAndDate loads the bookings the conflict check compares
// against. Callers inside a transaction pass the session context so the
// scan and the subsequent insert are one atomic unit.
func (r *mongoBookingRepository) FindByResourceAndDate(ctx context.Context, kind, code, date string, limit int) ([]model.Booking, error) {
	query := bson.M{
		"resource_kind": kind,
		"resource_code": code,
		"date":          date,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "from", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"resource_kind": booking.ResourceKind,
		"resource_code": booking.ResourceCode,
		"date":          booking.Date,
		"from":          booking.From,
		"to":            booking.To,
		"reason":        booking.Reason,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": booking.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return bookingerrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return bookingerrors.ErrNotFound
	}

	return nil
}
