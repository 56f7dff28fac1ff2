package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	resourceerrors "reservio/internal/resources/errors"
	"reservio/pkg/model"
)

const (
	resourcesCollection = "Resources"
	queryTimeout        = 5 * time.Second
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) (string, error)
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	FindByCode(ctx context.Context, kind, code string) (*model.Resource, error)
	FindAll(ctx context.Context, kind string, limit int, offset int64) ([]model.Resource, int64, error)
	Update(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id string) error
}

type mongoResourceRepository struct {
	collection *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) ResourceRepository {
	return &mongoResourceRepository{
		collection: db.Collection(resourcesCollection),
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (r *mongoResourceRepository) Create(ctx context.Context, resource *model.Resource) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if resource.ID == "" {
		resource.ID = primitive.NewObjectID().Hex()
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, resource); err != nil {
		// The unique index on (code, kind) rejects the second writer.
		if mongo.IsDuplicateKeyError(err) {
			return "", resourceerrors.ErrDuplicate
		}
		return "", err
	}

	return resource.ID, nil
}

func (r *mongoResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, resourceerrors.ErrNotFound
		}
		return nil, err
	}

	return &resource, nil
}

func (r *mongoResourceRepository) FindByCode(ctx context.Context, kind, code string) (*model.Resource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"kind": kind, "code": code}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, resourceerrors.ErrNotFound
		}
		return nil, err
	}

	return &resource, nil
}

func (r *mongoResourceRepository) FindAll(ctx context.Context, kind string, limit int, offset int64) ([]model.Resource, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if kind != "" {
		query["kind"] = kind
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "kind", Value: 1}, {Key: "code", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	resources := []model.Resource{}
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

func (r *mongoResourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        resource.Name,
		"description": resource.Description,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": resource.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return resourceerrors.ErrNotFound
	}

	return nil
}

func (r *mongoResourceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return resourceerrors.ErrNotFound
	}

	return nil
}
