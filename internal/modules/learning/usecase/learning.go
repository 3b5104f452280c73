package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"nebibs/internal/modules/learning/domain"
	"nebibs/internal/modules/learning/dto"
	learningin "nebibs/internal/modules/learning/port/in"
	learningout "nebibs/internal/modules/learning/port/out"
	"nebibs/internal/modules/learning/service"
	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/optimistic"
	"nebibs/internal/platform/validate"
	"nebibs/internal/platform/week"
)

type Interactor struct {
	svc       *service.GoalService
	snapshots learningout.GoalSnapshots
	calendar  week.Calendar
	logger    *slog.Logger

	// saveMu orders snapshot saves so the last save sees the latest state.
	saveMu sync.Mutex
}

// NewInteractor subscribes a persister that saves a snapshot after every
// state transition. snapshots may be nil. calendar maps logged dates to
// week keys.
func NewInteractor(svc *service.GoalService, snapshots learningout.GoalSnapshots, calendar week.Calendar, logger *slog.Logger) learningin.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Interactor{svc: svc, snapshots: snapshots, calendar: calendar, logger: logger.With("kind", "learning")}
	if snapshots != nil {
		svc.Container().Subscribe(i.persist)
	}
	return i
}

func (i *Interactor) Restore(ctx context.Context) bool {
	if i.snapshots == nil {
		return false
	}
	snap, ok := i.snapshots.Load(ctx)
	if !ok {
		return false
	}
	if dropped := i.svc.Restore(snap); dropped > 0 {
		i.logger.Warn("dropped invalid goals from snapshot", "count", dropped)
	}
	i.logger.Debug("snapshot restored", "items", len(snap.Items))
	return true
}

func (i *Interactor) Fetch(ctx context.Context) dto.State {
	if err := i.svc.Fetch(ctx); err != nil {
		i.logger.Warn("fetch failed", "op", "fetch", "error", err)
	}
	return i.State()
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateGoalInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	outcome, err := i.svc.Create(ctx, learningout.NewGoal{
		Title:       strings.TrimSpace(input.Title),
		TargetHours: input.TargetHours,
		Notes:       input.Notes,
	})
	i.settled("create", "", outcome, err)
	return i.State(), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateGoalInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	patch := domain.Patch{
		Title:       input.Title,
		TargetHours: input.TargetHours,
		Notes:       input.Notes,
	}
	if input.ProgressPercent != nil {
		pct := domain.ClampProgress(*input.ProgressPercent)
		patch.ProgressPercent = &pct
	}
	if patch.Empty() {
		return i.State(), apperrors.Invalid("input", "no fields to update")
	}
	outcome, err := i.svc.Update(ctx, input.ID, patch, false)
	i.settled("update", input.ID, outcome, err)
	return i.State(), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) (dto.State, error) {
	if strings.TrimSpace(id) == "" {
		return i.State(), apperrors.Invalid("id", "nonblank")
	}
	err := i.svc.Delete(ctx, id)
	i.settled("delete", id, optimistic.Applied, err)
	return i.State(), nil
}

func (i *Interactor) AddResource(ctx context.Context, input dto.AddResourceInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	goal, err := i.find(input.GoalID)
	if err != nil {
		return i.State(), err
	}
	resources := domain.AppendResource(goal.Resources, strings.TrimSpace(input.Resource))
	return i.applyLocal(ctx, "add_resource", goal.ID, domain.Patch{Resources: &resources})
}

func (i *Interactor) RemoveResource(ctx context.Context, input dto.RemoveResourceInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	goal, err := i.find(input.GoalID)
	if err != nil {
		return i.State(), err
	}
	resources, ok := domain.RemoveResource(goal.Resources, input.Index)
	if !ok {
		return i.State(), apperrors.Invalid("index", fmt.Sprintf("out of range 0..%d", len(goal.Resources)-1))
	}
	return i.applyLocal(ctx, "remove_resource", goal.ID, domain.Patch{Resources: &resources})
}

func (i *Interactor) LogWeeklyHours(ctx context.Context, input dto.LogWeeklyHoursInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	goal, err := i.find(input.GoalID)
	if err != nil {
		return i.State(), err
	}
	weekKey, err := i.calendar.KeyOfDate(input.WeekKey)
	if err != nil {
		return i.State(), apperrors.Invalid("WeekKey", "isodate")
	}
	buckets := domain.LogWeeklyHours(goal.WeeklyHours, weekKey, input.Hours)
	return i.applyLocal(ctx, "log_hours", goal.ID, domain.Patch{WeeklyHours: &buckets})
}

func (i *Interactor) SetProgress(ctx context.Context, input dto.SetProgressInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	goal, err := i.find(input.GoalID)
	if err != nil {
		return i.State(), err
	}
	pct := domain.ClampProgress(input.Percent)
	return i.applyLocal(ctx, "set_progress", goal.ID, domain.Patch{ProgressPercent: &pct})
}

func (i *Interactor) ClearError() {
	i.svc.Container().ClearError()
}

func (i *Interactor) State() dto.State {
	return i.svc.Container().State()
}

func (i *Interactor) Subscribe(fn func()) func() {
	return i.svc.Container().Subscribe(fn)
}

func (i *Interactor) applyLocal(ctx context.Context, op, goalID string, patch domain.Patch) (dto.State, error) {
	outcome, err := i.svc.Update(ctx, goalID, patch, true)
	i.settled(op, goalID, outcome, err)
	return i.State(), nil
}

func (i *Interactor) find(goalID string) (domain.Goal, error) {
	goal, ok := i.svc.Find(goalID)
	if !ok {
		return domain.Goal{}, fmt.Errorf("goal %s: %w", goalID, apperrors.ErrNotFound)
	}
	return goal, nil
}

func (i *Interactor) settled(op, goalID string, outcome optimistic.Outcome, err error) {
	switch {
	case err != nil:
		i.logger.Warn("remote call failed", "op", op, "id", goalID, "error", err)
	case outcome == optimistic.Inserted:
		i.logger.Debug("placeholder missing, prepended server goal", "op", op, "error", apperrors.ErrNotFoundInCache)
	case outcome == optimistic.Missing:
		i.logger.Debug("confirmed goal no longer present", "op", op, "id", goalID, "error", apperrors.ErrNotFoundInCache)
	case outcome == optimistic.Stale:
		i.logger.Debug("discarded stale confirmation", "op", op, "id", goalID)
	default:
		i.logger.Debug("confirmed", "op", op, "id", goalID)
	}
}

func (i *Interactor) persist() {
	i.saveMu.Lock()
	defer i.saveMu.Unlock()
	if err := i.snapshots.Save(context.Background(), i.svc.Container().Snapshot()); err != nil {
		i.logger.Warn("snapshot save failed", "error", err)
	}
}
