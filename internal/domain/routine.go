// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a reusable named sequence of exercises owned by a user. The
// same routine may be scheduled on any number of calendar days.
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RoutineExercise is one ordered row of a routine. OrderIndex values are
// dense and zero-based within the routine after every successful save.
type RoutineExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID   primitive.ObjectID `bson:"routineId" json:"routineId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        int                `bson:"reps" json:"reps"`
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
	OrderIndex  int                `bson:"orderIndex" json:"orderIndex"`
}

// RoutineExerciseDetail is a routine row joined with display fields from the
// exercise catalog.
type RoutineExerciseDetail struct {
	RoutineExercise  `bson:",inline"`
	ExerciseName     string `bson:"exerciseName" json:"exerciseName"`
	ExerciseImageURL string `bson:"exerciseImageUrl,omitempty" json:"exerciseImageUrl,omitempty"`
}

// RoutineDetail is a routine together with its ordered, joined rows.
type RoutineDetail struct {
	Routine   `bson:",inline"`
	Exercises []RoutineExerciseDetail `bson:"exercises" json:"exercises"`
}
