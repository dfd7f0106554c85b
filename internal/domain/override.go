package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Override is a per-user, per-date record that outranks the plan for that
// date: either a forced rest day or a specific routine. At most one Override
// exists per (user, date).
type Override struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Date      Date                `bson:"date" json:"date"`
	IsRest    bool                `bson:"isRest" json:"isRest"`
	RoutineID *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsMalformed reports whether the override carries neither a rest marker nor
// a routine reference. Such records are skipped during resolution rather
// than treated as errors.
func (o *Override) IsMalformed() bool {
	return !o.IsRest && o.RoutineID == nil
}
