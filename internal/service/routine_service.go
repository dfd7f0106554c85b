package service

import (
	"context"
	"errors"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"
	"pulsefit/training-core/internal/routine"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineTitleRequired = errors.New("routine title is required")
	// ErrPartialSave: the old rows were deleted but the new rows were not
	// written; the routine may now be empty. The caller must prompt a retry
	// rather than treat the save as silently succeeded.
	ErrPartialSave = errors.New("save failed, routine may be empty")
)

// RoutineService manages routines and persists composition sessions.
type RoutineService interface {
	CreateRoutine(ctx context.Context, userID primitive.ObjectID, title, description string) (*domain.Routine, error)
	GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.RoutineDetail, error)
	GetRoutines(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	UpdateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, title, description string) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error

	// OpenComposer loads the routine into a fresh editing session. Every
	// persisted row becomes a single block.
	OpenComposer(ctx context.Context, userID, routineID primitive.ObjectID) (*routine.Composer, error)
	// SaveComposition flattens the session and replaces the routine's rows.
	// Unresolved placeholder entries are dropped, never persisted. A partial
	// replace surfaces as ErrPartialSave.
	SaveComposition(ctx context.Context, userID, routineID primitive.ObjectID, composer *routine.Composer) error
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo repository.RoutineRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository) RoutineService {
	return &routineService{routineRepo: routineRepo}
}

func (s *routineService) CreateRoutine(ctx context.Context, userID primitive.ObjectID, title, description string) (*domain.Routine, error) {
	if title == "" {
		return nil, ErrRoutineTitleRequired
	}
	r := &domain.Routine{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	id, err := s.routineRepo.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, id)
}

func (s *routineService) GetRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.RoutineDetail, error) {
	detail, err := s.routineRepo.GetDetailByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if detail.UserID != userID {
		return nil, ErrRoutineAccessDenied
	}
	return detail, nil
}

func (s *routineService) GetRoutines(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	return s.routineRepo.GetByUserID(ctx, userID)
}

func (s *routineService) UpdateRoutine(ctx context.Context, userID, routineID primitive.ObjectID, title, description string) (*domain.Routine, error) {
	if title == "" {
		return nil, ErrRoutineTitleRequired
	}
	existing, err := s.ownedRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	existing.Title = title
	existing.Description = description
	if err := s.routineRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

func (s *routineService) DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error {
	err := s.routineRepo.Delete(ctx, routineID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoutineNotFound
	}
	return err
}

func (s *routineService) OpenComposer(ctx context.Context, userID, routineID primitive.ObjectID) (*routine.Composer, error) {
	detail, err := s.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	return routine.FromDetail(detail), nil
}

func (s *routineService) SaveComposition(ctx context.Context, userID, routineID primitive.ObjectID, composer *routine.Composer) error {
	if _, err := s.ownedRoutine(ctx, userID, routineID); err != nil {
		return err
	}
	if !composer.BeginSave() {
		return routine.ErrSaveInFlight
	}
	defer composer.EndSave()

	rows := composer.Flatten()
	if err := s.routineRepo.ReplaceExercises(ctx, routineID, rows); err != nil {
		if errors.Is(err, repository.ErrPartialReplace) {
			return ErrPartialSave
		}
		return err
	}
	return nil
}

func (s *routineService) ownedRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error) {
	r, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if r.UserID != userID {
		return nil, ErrRoutineAccessDenied
	}
	return r, nil
}
