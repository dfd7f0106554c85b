package weekplan

import (
	"context"
	"errors"
	"testing"

	"pulsefit/training-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore keeps week maps in memory, keyed by week start.
type fakeStore struct {
	weeks     map[domain.Date]domain.WeekPlan
	saveErr   error
	loadErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{weeks: map[domain.Date]domain.WeekPlan{}}
}

func (s *fakeStore) LoadWeek(_ context.Context, _ primitive.ObjectID, weekStart domain.Date) (domain.WeekPlan, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.weeks[weekStart].Clone(), nil
}

func (s *fakeStore) SaveWeek(_ context.Context, _ primitive.ObjectID, weekStart domain.Date, plan domain.WeekPlan) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.weeks[weekStart] = plan.Clone()
	return nil
}

func loadedEditor(t *testing.T, store Store) *Editor {
	t.Helper()
	e := NewEditor(store, primitive.NewObjectID())
	if err := e.Load(context.Background(), "2024-06-12"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func pushDay() domain.PlanItem {
	id := primitive.NewObjectID()
	return domain.PlanItem{RoutineID: &id, Title: "Push Day", Subtitle: "5 exercises"}
}

func TestLoadAnchorsToMonday(t *testing.T) {
	e := loadedEditor(t, newFakeStore())
	if e.WeekStart() != domain.Date("2024-06-10") {
		t.Errorf("week start = %q, want the Monday 2024-06-10", e.WeekStart())
	}
	days := e.Days()
	if len(days) != 7 || days[0] != "2024-06-10" || days[6] != "2024-06-16" {
		t.Errorf("days = %v, want Monday through Sunday", days)
	}
	if e.HasUnsavedChanges() {
		t.Error("a freshly loaded week must be clean")
	}
}

func TestDirtyTrackingAndSave(t *testing.T) {
	store := newFakeStore()
	e := loadedEditor(t, store)

	item := pushDay()
	if err := e.AssignRoutine("2024-06-11", item); err != nil {
		t.Fatalf("AssignRoutine: %v", err)
	}
	if !e.HasUnsavedChanges() {
		t.Error("assignment must mark the week dirty")
	}

	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.HasUnsavedChanges() {
		t.Error("save must clear the dirty flag")
	}
	if got := store.weeks["2024-06-10"]; len(got) != 1 {
		t.Errorf("stored week has %d entries, want 1", len(got))
	}

	if err := e.ClearDay("2024-06-11"); err != nil {
		t.Fatalf("ClearDay: %v", err)
	}
	if !e.HasUnsavedChanges() {
		t.Error("clearing a day after save must mark the week dirty again")
	}
}

func TestDirtyIsStructuralNotFlagBased(t *testing.T) {
	store := newFakeStore()
	item := pushDay()
	store.weeks["2024-06-10"] = domain.WeekPlan{"2024-06-11": item}

	e := loadedEditor(t, store)
	// Re-assigning the identical item is not a change.
	if err := e.AssignRoutine("2024-06-11", item); err != nil {
		t.Fatal(err)
	}
	if e.HasUnsavedChanges() {
		t.Error("re-assigning an identical item must not read as dirty")
	}
	// Clear then restore: structurally back at the snapshot.
	if err := e.ClearDay("2024-06-11"); err != nil {
		t.Fatal(err)
	}
	if err := e.AssignRoutine("2024-06-11", item); err != nil {
		t.Fatal(err)
	}
	if e.HasUnsavedChanges() {
		t.Error("a round-trip back to the snapshot must read as clean")
	}
}

func TestAssignOutsideWeekRejected(t *testing.T) {
	e := loadedEditor(t, newFakeStore())
	if err := e.AssignRoutine("2024-06-17", pushDay()); !errors.Is(err, ErrDateOutsideWeek) {
		t.Errorf("expected ErrDateOutsideWeek, got %v", err)
	}
	if err := e.ClearDay("2024-06-09"); !errors.Is(err, ErrDateOutsideWeek) {
		t.Errorf("expected ErrDateOutsideWeek, got %v", err)
	}
}

func TestNavigateCleanMovesWeek(t *testing.T) {
	e := loadedEditor(t, newFakeStore())
	if err := e.Navigate(context.Background(), DirectionNext, DecisionCancel); err != nil {
		t.Fatalf("clean navigation must ignore the decision: %v", err)
	}
	if e.WeekStart() != domain.Date("2024-06-17") {
		t.Errorf("week start = %q, want 2024-06-17", e.WeekStart())
	}
	if err := e.Navigate(context.Background(), DirectionPrevious, DecisionCancel); err != nil {
		t.Fatal(err)
	}
	if e.WeekStart() != domain.Date("2024-06-10") {
		t.Errorf("week start = %q, want 2024-06-10", e.WeekStart())
	}
}

func TestNavigateDirtyCancel(t *testing.T) {
	e := loadedEditor(t, newFakeStore())
	if err := e.AssignRoutine("2024-06-11", pushDay()); err != nil {
		t.Fatal(err)
	}
	err := e.Navigate(context.Background(), DirectionNext, DecisionCancel)
	if !errors.Is(err, ErrNavigationCancelled) {
		t.Fatalf("expected ErrNavigationCancelled, got %v", err)
	}
	if e.WeekStart() != domain.Date("2024-06-10") {
		t.Error("cancelled navigation must not move the week")
	}
	if !e.HasUnsavedChanges() {
		t.Error("cancelled navigation must keep the pending edits")
	}
}

func TestNavigateDirtyDiscard(t *testing.T) {
	store := newFakeStore()
	e := loadedEditor(t, store)
	if err := e.AssignRoutine("2024-06-11", pushDay()); err != nil {
		t.Fatal(err)
	}
	if err := e.Navigate(context.Background(), DirectionNext, DecisionDiscard); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if e.WeekStart() != domain.Date("2024-06-17") {
		t.Error("discard must move to the next week")
	}
	if store.saveCalls != 0 {
		t.Error("discard must not save")
	}
	// The discarded edit is gone from storage.
	if len(store.weeks["2024-06-10"]) != 0 {
		t.Error("discarded edits must not reach storage")
	}
}

func TestNavigateDirtySaveFirst(t *testing.T) {
	store := newFakeStore()
	e := loadedEditor(t, store)
	if err := e.AssignRoutine("2024-06-11", pushDay()); err != nil {
		t.Fatal(err)
	}
	if err := e.Navigate(context.Background(), DirectionNext, DecisionSaveFirst); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("save-first must save exactly once, got %d", store.saveCalls)
	}
	if len(store.weeks["2024-06-10"]) != 1 {
		t.Error("the pending edit must be persisted before navigating")
	}
	if e.WeekStart() != domain.Date("2024-06-17") {
		t.Error("save-first must then move to the next week")
	}
}

func TestNavigateSaveFirstAbortsOnSaveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("backend down")
	e := loadedEditor(t, store)
	if err := e.AssignRoutine("2024-06-11", pushDay()); err != nil {
		t.Fatal(err)
	}
	if err := e.Navigate(context.Background(), DirectionNext, DecisionSaveFirst); err == nil {
		t.Fatal("expected the save failure to surface")
	}
	if e.WeekStart() != domain.Date("2024-06-10") {
		t.Error("failed save must abort navigation")
	}
	if !e.HasUnsavedChanges() {
		t.Error("failed save must keep the pending edits")
	}
}

func TestOperationsBeforeLoad(t *testing.T) {
	e := NewEditor(newFakeStore(), primitive.NewObjectID())
	if err := e.Save(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Save before Load: expected ErrNotLoaded, got %v", err)
	}
	if err := e.AssignRoutine("2024-06-11", pushDay()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("AssignRoutine before Load: expected ErrNotLoaded, got %v", err)
	}
	if e.HasUnsavedChanges() {
		t.Error("an unloaded editor has nothing to lose")
	}
}
