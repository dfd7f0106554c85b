// Package weekplan implements the editable seven-day planning view: a
// Monday-anchored map from date to assigned routine summary, with
// snapshot-based dirty tracking and guarded week navigation.
package weekplan

import (
	"context"
	"errors"

	"pulsefit/training-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNotLoaded           = errors.New("no week loaded")
	ErrDateOutsideWeek     = errors.New("date is outside the displayed week")
	ErrNavigationCancelled = errors.New("navigation cancelled")
)

// Store loads and persists one week's plan map. The service layer implements
// it on top of the plan and plan-day repositories.
type Store interface {
	LoadWeek(ctx context.Context, userID primitive.ObjectID, weekStart domain.Date) (domain.WeekPlan, error)
	SaveWeek(ctx context.Context, userID primitive.ObjectID, weekStart domain.Date, plan domain.WeekPlan) error
}

// Direction of week navigation.
type Direction int

const (
	DirectionPrevious Direction = -1
	DirectionNext     Direction = 1
)

// Decision is the explicit user choice required before navigating away from
// unsaved edits. Navigation never discards silently.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionDiscard
	DecisionSaveFirst
)

// Editor manages the currently displayed week. All mutations are in-memory;
// Save is the single persistence point. Dirty state is recomputed by
// structural comparison against the last loaded or saved snapshot, never
// tracked as a manually toggled flag.
type Editor struct {
	store     Store
	userID    primitive.ObjectID
	weekStart domain.Date
	items     domain.WeekPlan
	snapshot  domain.WeekPlan
	loaded    bool
}

// NewEditor creates an editor for one user's weekly plan.
func NewEditor(store Store, userID primitive.ObjectID) *Editor {
	return &Editor{store: store, userID: userID}
}

// Load anchors the editor to the Monday of the week containing date and
// loads that week from storage, resetting the snapshot.
func (e *Editor) Load(ctx context.Context, date domain.Date) error {
	weekStart := date.StartOfWeek()
	items, err := e.store.LoadWeek(ctx, e.userID, weekStart)
	if err != nil {
		return err
	}
	if items == nil {
		items = domain.WeekPlan{}
	}
	e.weekStart = weekStart
	e.items = items
	e.snapshot = items.Clone()
	e.loaded = true
	return nil
}

// WeekStart returns the Monday anchoring the displayed week.
func (e *Editor) WeekStart() domain.Date { return e.weekStart }

// Days returns the seven dates of the displayed week in order.
func (e *Editor) Days() []domain.Date {
	days := make([]domain.Date, 7)
	for i := range days {
		days[i] = e.weekStart.AddDays(i)
	}
	return days
}

// Item returns the assignment for a date, if present.
func (e *Editor) Item(date domain.Date) (domain.PlanItem, bool) {
	item, ok := e.items[date]
	return item, ok
}

// Plan returns a copy of the current week map.
func (e *Editor) Plan() domain.WeekPlan {
	return e.items.Clone()
}

// AssignRoutine sets the date's plan item.
func (e *Editor) AssignRoutine(date domain.Date, item domain.PlanItem) error {
	if err := e.checkDate(date); err != nil {
		return err
	}
	e.items[date] = item
	return nil
}

// ClearDay removes the date's assignment.
func (e *Editor) ClearDay(date domain.Date) error {
	if err := e.checkDate(date); err != nil {
		return err
	}
	delete(e.items, date)
	return nil
}

// HasUnsavedChanges reports whether the week map differs structurally from
// the last loaded or saved state.
func (e *Editor) HasUnsavedChanges() bool {
	if !e.loaded {
		return false
	}
	return !e.items.Equal(e.snapshot)
}

// Save persists the displayed week and resets the snapshot to the saved
// state, clearing HasUnsavedChanges.
func (e *Editor) Save(ctx context.Context) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if err := e.store.SaveWeek(ctx, e.userID, e.weekStart, e.items); err != nil {
		return err
	}
	e.snapshot = e.items.Clone()
	return nil
}

// Navigate moves the displayed week by seven days and reloads it. With
// pending edits the given decision governs what happens first: cancel keeps
// the current week untouched (ErrNavigationCancelled), discard drops the
// edits, save-first persists them and aborts navigation if the save fails.
func (e *Editor) Navigate(ctx context.Context, dir Direction, decision Decision) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if e.HasUnsavedChanges() {
		switch decision {
		case DecisionCancel:
			return ErrNavigationCancelled
		case DecisionSaveFirst:
			if err := e.Save(ctx); err != nil {
				return err
			}
		case DecisionDiscard:
			// Proceed; the reload below replaces the edited map.
		}
	}
	return e.Load(ctx, e.weekStart.AddDays(7*int(dir)))
}

func (e *Editor) checkDate(date domain.Date) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if !date.WithinRange(e.weekStart, e.weekStart.AddDays(6)) {
		return ErrDateOutsideWeek
	}
	return nil
}
