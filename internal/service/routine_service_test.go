package service

import (
	"context"
	"errors"
	"testing"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/routine"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCatalogExercise(repo *fakeRoutineRepo, name string) domain.Exercise {
	ex := domain.Exercise{ID: primitive.NewObjectID(), Name: name}
	repo.names[ex.ID] = name
	return ex
}

func TestCreateRoutineValidatesTitle(t *testing.T) {
	svc := NewRoutineService(newFakeRoutineRepo())

	if _, err := svc.CreateRoutine(context.Background(), primitive.NewObjectID(), "", "desc"); !errors.Is(err, ErrRoutineTitleRequired) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineTitleRequired)
	}
}

func TestGetRoutineEnforcesOwnership(t *testing.T) {
	repo := newFakeRoutineRepo()
	owner := primitive.NewObjectID()
	r := repo.add(owner, "Push Day")
	svc := NewRoutineService(repo)

	if _, err := svc.GetRoutine(context.Background(), primitive.NewObjectID(), r.ID); !errors.Is(err, ErrRoutineAccessDenied) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineAccessDenied)
	}
	if _, err := svc.GetRoutine(context.Background(), owner, primitive.NewObjectID()); !errors.Is(err, ErrRoutineNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineNotFound)
	}
}

func TestSaveCompositionPersistsFlattenedRows(t *testing.T) {
	repo := newFakeRoutineRepo()
	owner := primitive.NewObjectID()
	r := repo.add(owner, "Push Day")
	svc := NewRoutineService(repo)

	bench := newCatalogExercise(repo, "Bench Press")
	fly := newCatalogExercise(repo, "Cable Fly")

	c := routine.New()
	if _, err := c.AddBlock(bench); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	id, err := c.AddBlock(fly)
	if err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if err := c.ConvertToSuperset(id); err != nil {
		t.Fatalf("ConvertToSuperset: %v", err)
	}

	// The superset's second entry is still a placeholder, so the whole
	// superset is dropped and only the single block persists.
	if err := svc.SaveComposition(context.Background(), owner, r.ID, c); err != nil {
		t.Fatalf("SaveComposition: %v", err)
	}

	rows := repo.rows[r.ID]
	if len(rows) != 1 {
		t.Fatalf("persisted %d rows, want 1", len(rows))
	}
	if rows[0].ExerciseID != bench.ID {
		t.Errorf("row exercise = %s, want %s", rows[0].ExerciseID.Hex(), bench.ID.Hex())
	}
	if rows[0].OrderIndex != 0 {
		t.Errorf("row order = %d, want 0", rows[0].OrderIndex)
	}
}

func TestSaveCompositionMapsPartialReplace(t *testing.T) {
	repo := newFakeRoutineRepo()
	owner := primitive.NewObjectID()
	r := repo.add(owner, "Push Day")
	repo.replaceErr = errors.New("insert timed out")
	svc := NewRoutineService(repo)

	c := routine.New()
	if _, err := c.AddBlock(newCatalogExercise(repo, "Bench Press")); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	err := svc.SaveComposition(context.Background(), owner, r.ID, c)
	if !errors.Is(err, ErrPartialSave) {
		t.Fatalf("error = %v, want %v", err, ErrPartialSave)
	}
	if repo.replaces != 1 {
		t.Errorf("replace calls = %d, want 1", repo.replaces)
	}
}

func TestSaveCompositionRejectsConcurrentSave(t *testing.T) {
	repo := newFakeRoutineRepo()
	owner := primitive.NewObjectID()
	r := repo.add(owner, "Push Day")
	svc := NewRoutineService(repo)

	c := routine.New()
	if !c.BeginSave() {
		t.Fatal("BeginSave returned false on fresh composer")
	}
	defer c.EndSave()

	err := svc.SaveComposition(context.Background(), owner, r.ID, c)
	if !errors.Is(err, routine.ErrSaveInFlight) {
		t.Fatalf("error = %v, want %v", err, routine.ErrSaveInFlight)
	}
	if repo.replaces != 0 {
		t.Errorf("replace calls = %d, want 0", repo.replaces)
	}
}

func TestSaveCompositionChecksOwnershipBeforeWriting(t *testing.T) {
	repo := newFakeRoutineRepo()
	r := repo.add(primitive.NewObjectID(), "Push Day")
	svc := NewRoutineService(repo)

	err := svc.SaveComposition(context.Background(), primitive.NewObjectID(), r.ID, routine.New())
	if !errors.Is(err, ErrRoutineAccessDenied) {
		t.Fatalf("error = %v, want %v", err, ErrRoutineAccessDenied)
	}
	if repo.replaces != 0 {
		t.Errorf("replace calls = %d, want 0", repo.replaces)
	}
}

func TestOpenComposerLoadsPersistedRows(t *testing.T) {
	repo := newFakeRoutineRepo()
	owner := primitive.NewObjectID()
	r := repo.add(owner, "Push Day")
	bench := newCatalogExercise(repo, "Bench Press")
	repo.rows[r.ID] = []domain.RoutineExercise{
		{RoutineID: r.ID, ExerciseID: bench.ID, Sets: 5, Reps: 5, RestSeconds: 120, OrderIndex: 0},
	}
	svc := NewRoutineService(repo)

	c, err := svc.OpenComposer(context.Background(), owner, r.ID)
	if err != nil {
		t.Fatalf("OpenComposer: %v", err)
	}
	blocks := c.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Sets != 5 || blocks[0].RestSeconds != 120 {
		t.Errorf("block sets/rest = %d/%d, want 5/120", blocks[0].Sets, blocks[0].RestSeconds)
	}
}
