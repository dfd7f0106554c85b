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
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

// ExerciseService manages the user's exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID primitive.ObjectID, name, description, muscleGroup, imageURL string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, name, description, muscleGroup, imageURL string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

// CreateExercise adds a new catalog entry for the owner.
func (s *exerciseService) CreateExercise(ctx context.Context, ownerID primitive.ObjectID, name, description, muscleGroup, imageURL string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create an exercise")
	}

	exercise := &domain.Exercise{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
		ImageURL:    imageURL,
	}
	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again to return DB-populated timestamps.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single catalog entry.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByOwner retrieves the owner's full catalog.
func (s *exerciseService) GetExercisesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID cannot be nil")
	}
	return s.exerciseRepo.GetByOwnerID(ctx, ownerID)
}

// UpdateExercise modifies an entry after verifying ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, name, description, muscleGroup, imageURL string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrExerciseAccessDenied
	}

	existing.Name = name
	existing.Description = description
	existing.MuscleGroup = muscleGroup
	existing.ImageURL = imageURL
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// DeleteExercise removes an entry after verifying ownership.
func (s *exerciseService) DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}
