package repository

import (
	"context"

	"pulsefit/training-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrPartialReplace: a replace-all operation removed the existing rows
	// but failed before the new rows were written. The target routine may
	// now be empty; callers must surface this distinctly.
	ErrPartialReplace = RepositoryError("partial replace: rows deleted but not reinserted")
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// OverrideRepository stores per-user, per-date plan overrides.
type OverrideRepository interface {
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date domain.Date) (*domain.Override, error)
	// Upsert replaces any existing override for (override.UserID, override.Date).
	Upsert(ctx context.Context, override *domain.Override) error
	Delete(ctx context.Context, userID primitive.ObjectID, date domain.Date) error
}

// TrainingPlanRepository stores date-ranged training plans.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	// GetCovering returns every plan of the user whose date range includes
	// the given date. The caller applies the precedence rule.
	GetCovering(ctx context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.TrainingPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	// ExtendRange widens the plan's date range to cover [start, end]; it
	// never shrinks an existing range.
	ExtendRange(ctx context.Context, id primitive.ObjectID, start, end domain.Date) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
}

// PlanDayRepository stores the per-date entries of training plans.
type PlanDayRepository interface {
	GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date domain.Date) (*domain.PlanDay, error)
	// GetByPlanAndRange returns the plan's entries with start <= date <= end,
	// ordered by date.
	GetByPlanAndRange(ctx context.Context, planID primitive.ObjectID, start, end domain.Date) ([]domain.PlanDay, error)
	// Upsert replaces any existing entry for (day.PlanID, day.Date).
	Upsert(ctx context.Context, day *domain.PlanDay) error
	Delete(ctx context.Context, planID primitive.ObjectID, date domain.Date) error
}

// RoutineRepository stores routines and their ordered exercise rows.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	// GetDetailByID returns the routine with its rows ordered by orderIndex
	// and joined with the exercise catalog for display fields.
	GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineDetail, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	// Delete removes the routine and cascades its exercise rows.
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
	// ReplaceExercises removes all rows of the routine and inserts the given
	// rows in one batch. Returns ErrPartialReplace if the delete succeeded
	// but the insert did not.
	ReplaceExercises(ctx context.Context, routineID primitive.ObjectID, rows []domain.RoutineExercise) error
}

// ExerciseRepository stores the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID primitive.ObjectID) error
}
