package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/repository"
	"pulsefit/training-core/internal/weekplan"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekPlanService loads and persists one-week plan maps. It implements
// weekplan.Store, so a weekplan.Editor can sit directly on top of it.
type WeekPlanService interface {
	weekplan.Store
	// NewEditor returns an editor for the user's weekly plan backed by this
	// service.
	NewEditor(userID primitive.ObjectID) *weekplan.Editor
}

// weekPlanService implements the WeekPlanService interface.
type weekPlanService struct {
	planRepo    repository.TrainingPlanRepository
	dayRepo     repository.PlanDayRepository
	routineRepo repository.RoutineRepository
}

// NewWeekPlanService creates a new instance of weekPlanService.
func NewWeekPlanService(
	planRepo repository.TrainingPlanRepository,
	dayRepo repository.PlanDayRepository,
	routineRepo repository.RoutineRepository,
) WeekPlanService {
	return &weekPlanService{
		planRepo:    planRepo,
		dayRepo:     dayRepo,
		routineRepo: routineRepo,
	}
}

func (s *weekPlanService) NewEditor(userID primitive.ObjectID) *weekplan.Editor {
	return weekplan.NewEditor(s, userID)
}

// LoadWeek builds the week map from every plan overlapping the week. When
// two plans claim the same date the one with the later start wins, matching
// the resolver's precedence rule.
func (s *weekPlanService) LoadWeek(ctx context.Context, userID primitive.ObjectID, weekStart domain.Date) (domain.WeekPlan, error) {
	weekEnd := weekStart.AddDays(6)
	plans, err := s.overlappingPlans(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	week := domain.WeekPlan{}
	routineTitles := map[primitive.ObjectID]*domain.Routine{}

	// Plans are ordered lowest precedence first; later iterations overwrite
	// earlier ones, leaving the winning plan's entries in the map.
	for _, plan := range plans {
		start, end := weekStart, weekEnd
		if plan.StartDate.After(start) {
			start = plan.StartDate
		}
		if plan.EndDate.Before(end) {
			end = plan.EndDate
		}
		days, err := s.dayRepo.GetByPlanAndRange(ctx, plan.ID, start, end)
		if err != nil {
			return nil, err
		}
		for _, day := range days {
			item, err := s.itemForDay(ctx, day, routineTitles)
			if err != nil {
				return nil, err
			}
			week[day.Date] = item
		}
	}
	return week, nil
}

// SaveWeek reconciles the map to plan-day rows of the user's winning plan
// for that week. If no plan overlaps the week a new seven-day plan is
// created; otherwise the winning plan's range is widened to cover the full
// week so every edited date stays resolvable.
func (s *weekPlanService) SaveWeek(ctx context.Context, userID primitive.ObjectID, weekStart domain.Date, week domain.WeekPlan) error {
	weekEnd := weekStart.AddDays(6)
	plans, err := s.overlappingPlans(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return err
	}

	var planID primitive.ObjectID
	if len(plans) == 0 {
		created := &domain.TrainingPlan{
			UserID:    userID,
			Name:      fmt.Sprintf("Week of %s", weekStart),
			StartDate: weekStart,
			EndDate:   weekEnd,
		}
		planID, err = s.planRepo.Create(ctx, created)
		if err != nil {
			return err
		}
	} else {
		winner := plans[len(plans)-1] // highest precedence last
		planID = winner.ID
		if winner.StartDate.After(weekStart) || winner.EndDate.Before(weekEnd) {
			if err := s.planRepo.ExtendRange(ctx, planID, weekStart, weekEnd); err != nil {
				return err
			}
		}
	}

	for i := 0; i < 7; i++ {
		date := weekStart.AddDays(i)
		item, ok := week[date]
		if !ok {
			if err := s.dayRepo.Delete(ctx, planID, date); err != nil {
				return err
			}
			continue
		}
		day := &domain.PlanDay{
			PlanID:    planID,
			Date:      date,
			RoutineID: item.RoutineID,
			Title:     item.Title,
		}
		if err := s.dayRepo.Upsert(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

// overlappingPlans returns the user's plans intersecting [start, end],
// ordered lowest precedence first (ascending start date, then creation
// time, then ID).
func (s *weekPlanService) overlappingPlans(ctx context.Context, userID primitive.ObjectID, start, end domain.Date) ([]domain.TrainingPlan, error) {
	all, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var plans []domain.TrainingPlan
	for _, p := range all {
		if !p.StartDate.After(end) && !p.EndDate.Before(start) {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		if a.StartDate != b.StartDate {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
	return plans, nil
}

// itemForDay maps one plan-day row to its display item, resolving the
// routine title through a per-call cache.
func (s *weekPlanService) itemForDay(ctx context.Context, day domain.PlanDay, cache map[primitive.ObjectID]*domain.Routine) (domain.PlanItem, error) {
	if day.RoutineID == nil {
		return domain.PlanItem{Title: day.Title}, nil
	}
	r, ok := cache[*day.RoutineID]
	if !ok {
		var err error
		r, err = s.routineRepo.GetByID(ctx, *day.RoutineID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Dangling reference; show the stored label instead.
				return domain.PlanItem{Title: day.Title}, nil
			}
			return domain.PlanItem{}, err
		}
		cache[*day.RoutineID] = r
	}
	return domain.PlanItem{
		RoutineID: day.RoutineID,
		Title:     r.Title,
		Subtitle:  r.Description,
	}, nil
}
