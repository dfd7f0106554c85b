// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPlan is a user's plan for a contiguous date range. Several plans
// may overlap a date in storage; resolution picks the one with the latest
// start date (see service.PlanResolver).
type TrainingPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"` // e.g., "Hypertrophy Block 1"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   Date               `bson:"startDate" json:"startDate"`
	EndDate     Date               `bson:"endDate" json:"endDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Covers reports whether the plan's date range includes the given date.
func (p *TrainingPlan) Covers(date Date) bool {
	return date.WithinRange(p.StartDate, p.EndDate)
}

// PlanDay assigns content to one concrete date of a plan: either a routine
// reference or a free-text session title. At most one PlanDay exists per
// (plan, date).
type PlanDay struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID  `bson:"planId" json:"planId"`
	Date      Date                `bson:"date" json:"date"`
	RoutineID *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"`
	Title     string              `bson:"title,omitempty" json:"title,omitempty"` // used when no routine is referenced
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
