package service

import (
	"context"
	"errors"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound     = errors.New("routine not found")
	ErrRoutineAccessDenied = errors.New("access denied to this routine")
)

// PlannerService resolves the day's training and manages per-date overrides.
type PlannerService interface {
	// ResolveDay evaluates override > plan-day > none for the date.
	ResolveDay(ctx context.Context, userID primitive.ObjectID, date domain.Date) (domain.Assignment, error)

	// SetRestDay forces a rest day, replacing any existing override.
	SetRestDay(ctx context.Context, userID primitive.ObjectID, date domain.Date) error
	// SetRoutineOverride schedules a specific routine for the date,
	// replacing any existing override. The routine must belong to the user.
	SetRoutineOverride(ctx context.Context, userID, routineID primitive.ObjectID, date domain.Date) error
	// ClearOverride removes the override for the date, restoring the plan.
	ClearOverride(ctx context.Context, userID primitive.ObjectID, date domain.Date) error
}

// plannerService implements the PlannerService interface.
type plannerService struct {
	resolver     PlanResolver
	overrideRepo repository.OverrideRepository
	routineRepo  repository.RoutineRepository
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	resolver PlanResolver,
	overrideRepo repository.OverrideRepository,
	routineRepo repository.RoutineRepository,
) PlannerService {
	return &plannerService{
		resolver:     resolver,
		overrideRepo: overrideRepo,
		routineRepo:  routineRepo,
	}
}

func (s *plannerService) ResolveDay(ctx context.Context, userID primitive.ObjectID, date domain.Date) (domain.Assignment, error) {
	return s.resolver.Resolve(ctx, userID, date)
}

func (s *plannerService) SetRestDay(ctx context.Context, userID primitive.ObjectID, date domain.Date) error {
	override := &domain.Override{
		UserID: userID,
		Date:   date,
		IsRest: true,
	}
	return s.overrideRepo.Upsert(ctx, override)
}

func (s *plannerService) SetRoutineOverride(ctx context.Context, userID, routineID primitive.ObjectID, date domain.Date) error {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	if routine.UserID != userID {
		return ErrRoutineAccessDenied
	}
	override := &domain.Override{
		UserID:    userID,
		Date:      date,
		RoutineID: &routineID,
	}
	return s.overrideRepo.Upsert(ctx, override)
}

func (s *plannerService) ClearOverride(ctx context.Context, userID primitive.ObjectID, date domain.Date) error {
	return s.overrideRepo.Delete(ctx, userID, date)
}
