package service

import (
	"context"
	"errors"
	"fmt"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResolveStep identifies which lookup of the cascade failed.
type ResolveStep string

const (
	StepOverrideLookup ResolveStep = "override-lookup"
	StepPlanLookup     ResolveStep = "plan-lookup"
	StepDayLookup      ResolveStep = "day-lookup"
)

// ResolveError is a persistence failure during resolution, tagged with the
// cascade step it occurred in. Resolution is read-only and idempotent, so
// callers may simply retry.
type ResolveError struct {
	Step ResolveStep
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve failed at %s: %v", e.Step, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// PlanResolver determines the single authoritative training assignment for a
// user on a calendar date.
type PlanResolver interface {
	Resolve(ctx context.Context, userID primitive.ObjectID, date domain.Date) (domain.Assignment, error)
}

// planResolver implements the override > plan-day > none cascade. Each step
// short-circuits; precedence lives here, not in storage.
type planResolver struct {
	overrideRepo repository.OverrideRepository
	planRepo     repository.TrainingPlanRepository
	dayRepo      repository.PlanDayRepository
	routineRepo  repository.RoutineRepository
}

// NewPlanResolver creates a new instance of planResolver.
func NewPlanResolver(
	overrideRepo repository.OverrideRepository,
	planRepo repository.TrainingPlanRepository,
	dayRepo repository.PlanDayRepository,
	routineRepo repository.RoutineRepository,
) PlanResolver {
	return &planResolver{
		overrideRepo: overrideRepo,
		planRepo:     planRepo,
		dayRepo:      dayRepo,
		routineRepo:  routineRepo,
	}
}

func (r *planResolver) Resolve(ctx context.Context, userID primitive.ObjectID, date domain.Date) (domain.Assignment, error) {
	// Step 1: an override for the date outranks everything.
	override, err := r.overrideRepo.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		assignment, matched, stepErr := r.fromOverride(ctx, override)
		if stepErr != nil {
			return domain.Assignment{}, &ResolveError{Step: StepOverrideLookup, Err: stepErr}
		}
		if matched {
			return assignment, nil
		}
		// Malformed or dangling override: fall through to the plan.
	case errors.Is(err, repository.ErrNotFound):
		// No override; continue.
	default:
		return domain.Assignment{}, &ResolveError{Step: StepOverrideLookup, Err: err}
	}

	// Step 2: find the plan covering the date.
	plans, err := r.planRepo.GetCovering(ctx, userID, date)
	if err != nil {
		return domain.Assignment{}, &ResolveError{Step: StepPlanLookup, Err: err}
	}
	if len(plans) == 0 {
		// No plan exists at all for this date; distinct from a rest day.
		return domain.UnplannedAssignment(), nil
	}
	plan := selectWinningPlan(plans)

	// Step 3: the plan's entry for the date, if any.
	day, err := r.dayRepo.GetByPlanAndDate(ctx, plan.ID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UnplannedAssignment(), nil
		}
		return domain.Assignment{}, &ResolveError{Step: StepDayLookup, Err: err}
	}

	if day.RoutineID != nil {
		routine, err := r.routineRepo.GetByID(ctx, *day.RoutineID)
		if err == nil {
			return domain.RoutineAssignment(routine.ID, routine.Title), nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Assignment{}, &ResolveError{Step: StepDayLookup, Err: err}
		}
		// Dangling routine reference: fall back to the day's label, if any.
	}
	if day.Title != "" {
		return domain.SessionAssignment(day.Title), nil
	}
	return domain.UnplannedAssignment(), nil
}

// fromOverride turns an override into an assignment. matched is false when
// the override is malformed (neither rest nor routine) or its routine
// reference no longer resolves; resolution then falls through to the plan.
func (r *planResolver) fromOverride(ctx context.Context, override *domain.Override) (assignment domain.Assignment, matched bool, err error) {
	if override.IsRest {
		return domain.RestAssignment(), true, nil
	}
	if override.RoutineID == nil {
		return domain.Assignment{}, false, nil
	}
	routine, err := r.routineRepo.GetByID(ctx, *override.RoutineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Assignment{}, false, nil
		}
		return domain.Assignment{}, false, err
	}
	return domain.RoutineAssignment(routine.ID, routine.Title), true, nil
}

// selectWinningPlan picks the plan with the latest start date. Ties break on
// creation time, then ObjectID, so repeated calls are deterministic even if
// two plans were started the same day.
func selectWinningPlan(plans []domain.TrainingPlan) domain.TrainingPlan {
	winner := plans[0]
	for _, p := range plans[1:] {
		switch {
		case p.StartDate.After(winner.StartDate):
			winner = p
		case p.StartDate == winner.StartDate:
			if p.CreatedAt.After(winner.CreatedAt) ||
				(p.CreatedAt.Equal(winner.CreatedAt) && p.ID.Hex() > winner.ID.Hex()) {
				winner = p
			}
		}
	}
	return winner
}
