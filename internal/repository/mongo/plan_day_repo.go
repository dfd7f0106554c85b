// internal/repository/mongo/plan_day_repo.go
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

const planDayCollectionName = "plan_days"

// mongoPlanDayRepository implements repository.PlanDayRepository
type mongoPlanDayRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayRepository creates a new PlanDay repository.
func NewMongoPlanDayRepository(db *mongo.Database) repository.PlanDayRepository {
	return &mongoPlanDayRepository{
		collection: db.Collection(planDayCollectionName),
	}
}

// GetByPlanAndDate retrieves the plan's entry for one date, if any.
func (r *mongoPlanDayRepository) GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date domain.Date) (*domain.PlanDay, error) {
	var day domain.PlanDay
	filter := bson.M{"planId": planID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetByPlanAndRange retrieves the plan's entries within [start, end], ordered
// by date.
func (r *mongoPlanDayRepository) GetByPlanAndRange(ctx context.Context, planID primitive.ObjectID, start, end domain.Date) ([]domain.PlanDay, error) {
	var days []domain.PlanDay
	filter := bson.M{
		"planId": planID,
		"date":   bson.M{"$gte": start, "$lte": end},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Upsert writes the entry, replacing any existing one for (plan, date).
func (r *mongoPlanDayRepository) Upsert(ctx context.Context, day *domain.PlanDay) error {
	if day.PlanID == primitive.NilObjectID || day.Date == "" {
		return errors.New("plan day requires planId and date")
	}
	now := time.Now().UTC()
	filter := bson.M{"planId": day.PlanID, "date": day.Date}
	update := bson.M{
		"$set": bson.M{
			"routineId": day.RoutineID,
			"title":     day.Title,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"planId":    day.PlanID,
			"date":      day.Date,
			"createdAt": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Delete removes the entry for (plan, date). Missing is not an error.
func (r *mongoPlanDayRepository) Delete(ctx context.Context, planID primitive.ObjectID, date domain.Date) error {
	filter := bson.M{"planId": planID, "date": date}
	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// EnsurePlanDayIndexes creates necessary indexes. Call during startup.
func EnsurePlanDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One entry per (plan, date); also serves the range query.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
