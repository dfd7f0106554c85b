package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulsefit/training-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlannerFixture() (*resolverFixture, PlannerService) {
	f := newResolverFixture()
	return f, NewPlannerService(f.resolver, f.overrideRepo, f.routineRepo)
}

func TestSetRestDayReplacesRoutineOverride(t *testing.T) {
	f, svc := newPlannerFixture()
	date := domain.Date("2024-06-10")
	r := f.routineRepo.add(f.userID, "Leg Day")

	if err := svc.SetRoutineOverride(context.Background(), f.userID, r.ID, date); err != nil {
		t.Fatalf("SetRoutineOverride: %v", err)
	}
	if err := svc.SetRestDay(context.Background(), f.userID, date); err != nil {
		t.Fatalf("SetRestDay: %v", err)
	}

	got := mustResolve(t, f, date)
	if got.Kind != domain.AssignmentRest {
		t.Fatalf("kind = %q, want %q", got.Kind, domain.AssignmentRest)
	}
}

func TestSetRoutineOverrideEnforcesOwnership(t *testing.T) {
	f, svc := newPlannerFixture()
	date := domain.Date("2024-06-10")
	other := f.routineRepo.add(primitive.NewObjectID(), "Someone Else's")

	err := svc.SetRoutineOverride(context.Background(), f.userID, other.ID, date)
	if !errors.Is(err, ErrRoutineAccessDenied) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineAccessDenied)
	}
	err = svc.SetRoutineOverride(context.Background(), f.userID, primitive.NewObjectID(), date)
	if !errors.Is(err, ErrRoutineNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineNotFound)
	}
	if len(f.overrideRepo.overrides) != 0 {
		t.Errorf("override was stored despite rejection")
	}
}

func TestClearOverrideRestoresPlan(t *testing.T) {
	f, svc := newPlannerFixture()
	date := domain.Date("2024-06-10")
	plan := f.addPlan("2024-06-01", "2024-06-30", time.Now())
	f.addDay(plan.ID, date, nil, "Push Day")

	if err := svc.SetRestDay(context.Background(), f.userID, date); err != nil {
		t.Fatalf("SetRestDay: %v", err)
	}
	if got := mustResolve(t, f, date); got.Kind != domain.AssignmentRest {
		t.Fatalf("kind before clear = %q, want %q", got.Kind, domain.AssignmentRest)
	}

	if err := svc.ClearOverride(context.Background(), f.userID, date); err != nil {
		t.Fatalf("ClearOverride: %v", err)
	}
	got := mustResolve(t, f, date)
	if got.Kind != domain.AssignmentSession || got.Title != "Push Day" {
		t.Fatalf("after clear = %+v, want Push Day session", got)
	}
}
