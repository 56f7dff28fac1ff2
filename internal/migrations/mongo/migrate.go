package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reservio/internal/migrations/mongo/validators"
	"reservio/pkg/logger"
)

// Run applies every migration. All steps are idempotent, so the
// migrator can be re-run at any time.
func Run(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"bookings collection", migrateBookings},
		{"resources collection", migrateResources},
		{"booking locks collection", migrateBookingLocks},
		{"notifications collection", migrateNotifications},
	}

	for _, step := range steps {
		if err := step.fn(ctx, db); err != nil {
			return fmt.Errorf("migration %q failed: %w", step.name, err)
		}
		log.Info("Migration applied", "step", step.name)
	}

	return nil
}

func migrateBookings(ctx context.Context, db *mongo.Database) error {
	if err := ensureCollection(ctx, db, "Bookings", validators.BookingValidator()); err != nil {
		return err
	}

	return ensureIndexes(ctx, db.Collection("Bookings"), []mongo.IndexModel{
		{
			// The conflict scan reads one resource's bookings for one day.
			Keys: bson.D{
				{Key: "resource_kind", Value: 1},
				{Key: "resource_code", Value: 1},
				{Key: "date", Value: 1},
				{Key: "from", Value: 1},
			},
			Options: options.Index().SetName("resource_date_from"),
		},
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("created_by_date"),
		},
	})
}

func migrateResources(ctx context.Context, db *mongo.Database) error {
	if err := ensureCollection(ctx, db, "Resources", validators.ResourceValidator()); err != nil {
		return err
	}

	return ensureIndexes(ctx, db.Collection("Resources"), []mongo.IndexModel{
		{
			// One catalog entry per (code, kind); the duplicate-key error
			// backs the conflict response on create.
			Keys: bson.D{
				{Key: "code", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().SetName("code_kind_unique").SetUnique(true),
		},
	})
}

func migrateBookingLocks(ctx context.Context, db *mongo.Database) error {
	if err := ensureCollection(ctx, db, "Booking_locks", nil); err != nil {
		return err
	}

	return ensureIndexes(ctx, db.Collection("Booking_locks"), []mongo.IndexModel{
		{
			// TTL reaper for locks orphaned by a crashed process.
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
		},
	})
}

func migrateNotifications(ctx context.Context, db *mongo.Database) error {
	if err := ensureCollection(ctx, db, "Notifications", validators.NotificationValidator()); err != nil {
		return err
	}

	return ensureIndexes(ctx, db.Collection("Notifications"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
	})
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}

	if len(names) == 0 {
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator).SetValidationLevel("strict")
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return err
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	// Collection exists; refresh the validator in place.
	return db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "strict"},
	}).Err()
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
