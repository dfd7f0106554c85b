// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single entry in the exercise catalog. Routines reference
// exercises by ID; display name and image are joined in at read time.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
