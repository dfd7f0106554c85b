package service

import (
	"context"
	"fmt"
	"sort"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests.

func dateKey(id primitive.ObjectID, date domain.Date) string {
	return id.Hex() + "|" + date.String()
}

// --- OverrideRepository ---

type fakeOverrideRepo struct {
	overrides map[string]*domain.Override
	getErr    error
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{overrides: map[string]*domain.Override{}}
}

func (f *fakeOverrideRepo) GetByUserAndDate(_ context.Context, userID primitive.ObjectID, date domain.Date) (*domain.Override, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.overrides[dateKey(userID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOverrideRepo) Upsert(_ context.Context, o *domain.Override) error {
	f.overrides[dateKey(o.UserID, o.Date)] = o
	return nil
}

func (f *fakeOverrideRepo) Delete(_ context.Context, userID primitive.ObjectID, date domain.Date) error {
	delete(f.overrides, dateKey(userID, date))
	return nil
}

// --- TrainingPlanRepository ---

type fakePlanRepo struct {
	plans   []domain.TrainingPlan
	getErr  error
	extends int
}

func (f *fakePlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	f.plans = append(f.plans, *plan)
	return plan.ID, nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	for i := range f.plans {
		if f.plans[i].ID == id {
			p := f.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetCovering deliberately returns plans in insertion order: precedence is
// the resolver's job, not the store's.
func (f *fakePlanRepo) GetCovering(_ context.Context, userID primitive.ObjectID, date domain.Date) ([]domain.TrainingPlan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []domain.TrainingPlan
	for _, p := range f.plans {
		if p.UserID == userID && p.Covers(date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []domain.TrainingPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) ExtendRange(_ context.Context, id primitive.ObjectID, start, end domain.Date) error {
	f.extends++
	for i := range f.plans {
		if f.plans[i].ID == id {
			if start.Before(f.plans[i].StartDate) {
				f.plans[i].StartDate = start
			}
			if end.After(f.plans[i].EndDate) {
				f.plans[i].EndDate = end
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID, _ primitive.ObjectID) error {
	for i := range f.plans {
		if f.plans[i].ID == id {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- PlanDayRepository ---

type fakeDayRepo struct {
	days    map[string]*domain.PlanDay
	getErr  error
	deletes int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[string]*domain.PlanDay{}}
}

func (f *fakeDayRepo) GetByPlanAndDate(_ context.Context, planID primitive.ObjectID, date domain.Date) (*domain.PlanDay, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.days[dateKey(planID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDayRepo) GetByPlanAndRange(_ context.Context, planID primitive.ObjectID, start, end domain.Date) ([]domain.PlanDay, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []domain.PlanDay
	for _, d := range f.days {
		if d.PlanID == planID && d.Date.WithinRange(start, end) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeDayRepo) Upsert(_ context.Context, day *domain.PlanDay) error {
	copied := *day
	f.days[dateKey(day.PlanID, day.Date)] = &copied
	return nil
}

func (f *fakeDayRepo) Delete(_ context.Context, planID primitive.ObjectID, date domain.Date) error {
	f.deletes++
	delete(f.days, dateKey(planID, date))
	return nil
}

// --- RoutineRepository ---

type fakeRoutineRepo struct {
	routines   map[primitive.ObjectID]*domain.Routine
	rows       map[primitive.ObjectID][]domain.RoutineExercise
	names      map[primitive.ObjectID]string // exercise display names
	getErr     error
	replaceErr error
	replaces   int
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{
		routines: map[primitive.ObjectID]*domain.Routine{},
		rows:     map[primitive.ObjectID][]domain.RoutineExercise{},
		names:    map[primitive.ObjectID]string{},
	}
}

func (f *fakeRoutineRepo) add(userID primitive.ObjectID, title string) *domain.Routine {
	r := &domain.Routine{ID: primitive.NewObjectID(), UserID: userID, Title: title}
	f.routines[r.ID] = r
	return r
}

func (f *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	f.routines[routine.ID] = routine
	return routine.ID, nil
}

func (f *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoutineRepo) GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineDetail, error) {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.RoutineDetail{Routine: *r}
	for _, row := range f.rows[id] {
		detail.Exercises = append(detail.Exercises, domain.RoutineExerciseDetail{
			RoutineExercise: row,
			ExerciseName:    f.names[row.ExerciseID],
		})
	}
	return detail, nil
}

func (f *fakeRoutineRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, r := range f.routines {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) Update(_ context.Context, routine *domain.Routine) error {
	if _, ok := f.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	f.routines[routine.ID] = routine
	return nil
}

func (f *fakeRoutineRepo) Delete(_ context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	r, ok := f.routines[id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.routines, id)
	delete(f.rows, id)
	return nil
}

func (f *fakeRoutineRepo) ReplaceExercises(_ context.Context, routineID primitive.ObjectID, rows []domain.RoutineExercise) error {
	f.replaces++
	// Mirror the real implementation: the delete happens first.
	delete(f.rows, routineID)
	if f.replaceErr != nil {
		return fmt.Errorf("%w: %v", repository.ErrPartialReplace, f.replaceErr)
	}
	stored := make([]domain.RoutineExercise, len(rows))
	copy(stored, rows)
	for i := range stored {
		stored[i].RoutineID = routineID
	}
	f.rows[routineID] = stored
	return nil
}
