package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "reservio/internal/bookings/errors"
	"reservio/pkg/model"
)

const bookingLocksCollection = "Booking_locks"

// BookingLockRepository implements the advisory admission lock. Acquire
// inserts a document whose _id is the lock key; the unique index makes
// the insert succeed for exactly one contender. A TTL index on
// expires_at reaps locks orphaned by a crashed process.
type BookingLockRepository interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
}

func NewBookingLockRepository(db *mongo.Database) BookingLockRepository {
	return &mongoBookingLockRepository{
		collection: db.Collection(bookingLocksCollection),
	}
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        key,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingerrors.ErrLockHeld
		}
		return err
	}

	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
