package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentKind tags the outcome of resolving what a user should train on a
// given date.
type AssignmentKind string

const (
	// AssignmentRest: an override forces a rest day.
	AssignmentRest AssignmentKind = "rest"
	// AssignmentRoutine: a concrete routine is scheduled (via override or plan day).
	AssignmentRoutine AssignmentKind = "routine"
	// AssignmentSession: the plan day carries only a free-text session label.
	AssignmentSession AssignmentKind = "session"
	// AssignmentUnplanned: no plan covers the date, or the covering plan has
	// no entry for it. Distinct from rest.
	AssignmentUnplanned AssignmentKind = "unplanned"
)

// Assignment is the resolved training content for one (user, date) pair.
type Assignment struct {
	Kind      AssignmentKind      `json:"kind"`
	Title     string              `json:"title,omitempty"`     // routine title or session label
	RoutineID *primitive.ObjectID `json:"routineId,omitempty"` // set when Kind is AssignmentRoutine
}

func RestAssignment() Assignment {
	return Assignment{Kind: AssignmentRest}
}

func RoutineAssignment(routineID primitive.ObjectID, title string) Assignment {
	return Assignment{Kind: AssignmentRoutine, Title: title, RoutineID: &routineID}
}

func SessionAssignment(title string) Assignment {
	return Assignment{Kind: AssignmentSession, Title: title}
}

func UnplannedAssignment() Assignment {
	return Assignment{Kind: AssignmentUnplanned}
}
