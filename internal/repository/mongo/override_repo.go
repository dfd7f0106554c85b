// internal/repository/mongo/override_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const overrideCollectionName = "overrides"

// mongoOverrideRepository implements repository.OverrideRepository
type mongoOverrideRepository struct {
	collection *mongo.Collection
}

// NewMongoOverrideRepository creates a new Override repository.
func NewMongoOverrideRepository(db *mongo.Database) repository.OverrideRepository {
	return &mongoOverrideRepository{
		collection: db.Collection(overrideCollectionName),
	}
}

// GetByUserAndDate retrieves the single override for a user on a date, if any.
func (r *mongoOverrideRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) (*domain.Override, error) {
	var override domain.Override
	filter := bson.M{"userId": userID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &override, nil
}

// Upsert writes the override, replacing any existing one for (user, date).
func (r *mongoOverrideRepository) Upsert(ctx context.Context, override *domain.Override) error {
	if override.UserID == primitive.NilObjectID || override.Date == "" {
		return errors.New("override requires userId and date")
	}
	now := time.Now().UTC()
	filter := bson.M{"userId": override.UserID, "date": override.Date}
	update := bson.M{
		"$set": bson.M{
			"isRest":    override.IsRest,
			"routineId": override.RoutineID,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":    override.UserID,
			"date":      override.Date,
			"createdAt": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Delete removes the override for (user, date). Missing is not an error.
func (r *mongoOverrideRepository) Delete(ctx context.Context, userID primitive.ObjectID, date domain.Date) error {
	filter := bson.M{"userId": userID, "date": date}
	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// EnsureOverrideIndexes creates necessary indexes. Call during startup.
func EnsureOverrideIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One override per (user, date).
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
