// internal/repository/mongo/training_plan_repo.go
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

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and name")
	}
	if plan.StartDate == "" || plan.EndDate == "" || plan.EndDate.Before(plan.StartDate) {
		return primitive.NilObjectID, errors.New("plan requires a valid date range")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single training plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetCovering retrieves every plan of the user whose date range includes the
// given date. ISO date strings compare lexicographically, so a plain string
// range filter is correct here.
func (r *mongoTrainingPlanRepository) GetCovering(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	filter := bson.M{
		"userId":    userID,
		"startDate": bson.M{"$lte": date},
		"endDate":   bson.M{"$gte": date},
	}
	// Latest start first; the resolver picks the head but gets all covering
	// plans so the tie-break stays observable.
	findOptions := options.Find().SetSort(bson.D{
		{Key: "startDate", Value: -1},
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Empty slice when nothing covers the date (not an error).
	return plans, nil
}

// GetByUserID retrieves all plans belonging to the user, newest first.
func (r *mongoTrainingPlanRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// ExtendRange widens the plan's date range to cover [start, end]. $min/$max
// keep this a single idempotent write; the range never shrinks.
func (r *mongoTrainingPlanRepository) ExtendRange(ctx context.Context, id primitive.ObjectID, start, end domain.Date) error {
	if id == primitive.NilObjectID {
		return errors.New("plan ID is required to extend range")
	}
	filter := bson.M{"_id": id}
	update := bson.M{
		"$min": bson.M{"startDate": start},
		"$max": bson.M{"endDate": end},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan owned by the user.
func (r *mongoTrainingPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("plan ID and user ID are required for deletion")
	}
	// Filter ensures the plan exists AND belongs to the user.
	filter := bson.M{"_id": id, "userId": userID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingPlanIndexes creates necessary indexes. Call during startup.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Covering-date lookups: user plus range bounds.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
