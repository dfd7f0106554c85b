package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanItem is the summary of one assigned day in the weekly planner.
type PlanItem struct {
	RoutineID *primitive.ObjectID `json:"routineId,omitempty"`
	Title     string              `json:"title"`
	Subtitle  string              `json:"subtitle,omitempty"` // e.g., "5 exercises"
}

// Equal compares two items field by field.
func (p PlanItem) Equal(other PlanItem) bool {
	if p.Title != other.Title || p.Subtitle != other.Subtitle {
		return false
	}
	switch {
	case p.RoutineID == nil && other.RoutineID == nil:
		return true
	case p.RoutineID == nil || other.RoutineID == nil:
		return false
	default:
		return *p.RoutineID == *other.RoutineID
	}
}

// WeekPlan maps each assigned date of one Monday-start week to its item.
// Dates without an assignment are simply absent.
type WeekPlan map[Date]PlanItem

// Clone returns an independent copy of the map.
func (w WeekPlan) Clone() WeekPlan {
	out := make(WeekPlan, len(w))
	for d, item := range w {
		out[d] = item
	}
	return out
}

// Equal reports whether two week plans assign the same items to the same
// dates. An absent entry is never equal to a present one.
func (w WeekPlan) Equal(other WeekPlan) bool {
	if len(w) != len(other) {
		return false
	}
	for d, item := range w {
		o, ok := other[d]
		if !ok || !item.Equal(o) {
			return false
		}
	}
	return true
}
