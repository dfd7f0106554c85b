// internal/repository/mongo/routine_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	routineCollectionName         = "routines"
	routineExerciseCollectionName = "routine_exercises"
)

// mongoRoutineRepository implements repository.RoutineRepository. Routine
// documents and their exercise rows live in separate collections; rows are
// keyed by routineId and ordered by orderIndex.
type mongoRoutineRepository struct {
	routines  *mongo.Collection
	rows      *mongo.Collection
	exercises *mongo.Collection // catalog, read-only here for the detail join
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		routines:  db.Collection(routineCollectionName),
		rows:      db.Collection(routineExerciseCollectionName),
		exercises: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new, empty routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.UserID == primitive.NilObjectID || routine.Title == "" {
		return primitive.NilObjectID, errors.New("routine requires userId and title")
	}
	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	result, err := r.routines.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine without its rows.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.routines.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetDetailByID retrieves a routine with its ordered rows, each joined with
// display fields from the exercise catalog.
func (r *mongoRoutineRepository) GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineDetail, error) {
	routine, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows []domain.RoutineExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})
	cursor, err := r.rows.Find(ctx, bson.M{"routineId": id}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	detail := &domain.RoutineDetail{
		Routine:   *routine,
		Exercises: make([]domain.RoutineExerciseDetail, 0, len(rows)),
	}
	if len(rows) == 0 {
		return detail, nil
	}

	// Second query instead of an aggregation lookup: collect the referenced
	// catalog entries and merge in memory.
	idSet := make(map[primitive.ObjectID]struct{}, len(rows))
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		if _, seen := idSet[row.ExerciseID]; !seen {
			idSet[row.ExerciseID] = struct{}{}
			ids = append(ids, row.ExerciseID)
		}
	}
	var catalog []domain.Exercise
	exCursor, err := r.exercises.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer exCursor.Close(ctx)
	if err = exCursor.All(ctx, &catalog); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Exercise, len(catalog))
	for _, ex := range catalog {
		byID[ex.ID] = ex
	}

	for _, row := range rows {
		d := domain.RoutineExerciseDetail{RoutineExercise: row}
		if ex, ok := byID[row.ExerciseID]; ok {
			d.ExerciseName = ex.Name
			d.ExerciseImageURL = ex.ImageURL
		}
		detail.Exercises = append(detail.Exercises, d)
	}
	return detail, nil
}

// GetByUserID retrieves all routines belonging to the user, newest first.
func (r *mongoRoutineRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	var routines []domain.Routine
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.routines.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// Update rewrites the routine's mutable fields (title, description).
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}
	filter := bson.M{"_id": routine.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"title":       routine.Title,
			"description": routine.Description,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.routines.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine owned by the user and cascades its rows.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("routine ID and user ID are required for deletion")
	}
	filter := bson.M{"_id": id, "userId": userID}
	result, err := r.routines.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	// Cascade the rows after the owning document is gone.
	if _, err := r.rows.DeleteMany(ctx, bson.M{"routineId": id}); err != nil {
		return fmt.Errorf("routine deleted but cascading rows failed: %w", err)
	}
	return nil
}

// ReplaceExercises removes all rows of the routine and inserts the given
// rows in one batch. Standalone mongod has no multi-document transactions,
// so the delete-then-insert window is real: an insert failure after the
// delete is reported as ErrPartialReplace and leaves the routine empty.
func (r *mongoRoutineRepository) ReplaceExercises(ctx context.Context, routineID primitive.ObjectID, rowsToInsert []domain.RoutineExercise) error {
	if routineID == primitive.NilObjectID {
		return errors.New("routine ID is required to replace exercises")
	}

	if _, err := r.rows.DeleteMany(ctx, bson.M{"routineId": routineID}); err != nil {
		return err
	}
	if len(rowsToInsert) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(rowsToInsert))
	for i := range rowsToInsert {
		row := rowsToInsert[i]
		row.ID = primitive.NewObjectID()
		row.RoutineID = routineID
		docs = append(docs, row)
	}
	if _, err := r.rows.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrPartialReplace, err)
	}

	// Touch the owning routine so list views sort recently edited first.
	_, _ = r.routines.UpdateOne(ctx, bson.M{"_id": routineID},
		bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	return nil
}

// EnsureRoutineIndexes creates necessary indexes. Call during startup.
func EnsureRoutineIndexes(ctx context.Context, routines, rows *mongo.Collection) {
	routineIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := routines.Indexes().CreateMany(ctx, routineIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", routines.Name(), err)
	}

	rowIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := rows.Indexes().CreateMany(ctx, rowIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", rows.Name(), err)
	}
}
