package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"nebibs/internal/modules/experiments/domain"
	"nebibs/internal/modules/experiments/dto"
	experimentsin "nebibs/internal/modules/experiments/port/in"
	experimentsout "nebibs/internal/modules/experiments/port/out"
	"nebibs/internal/modules/experiments/service"
	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/optimistic"
	"nebibs/internal/platform/validate"
)

type Interactor struct {
	svc       *service.ExperimentService
	snapshots experimentsout.ExperimentSnapshots
	logger    *slog.Logger

	saveMu sync.Mutex
}

func NewInteractor(svc *service.ExperimentService, snapshots experimentsout.ExperimentSnapshots, logger *slog.Logger) experimentsin.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Interactor{svc: svc, snapshots: snapshots, logger: logger.With("kind", "experiments")}
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
		i.logger.Warn("dropped invalid experiments from snapshot", "count", dropped)
	}
	return true
}

func (i *Interactor) Fetch(ctx context.Context) dto.State {
	if err := i.svc.Fetch(ctx); err != nil {
		i.logger.Warn("fetch failed", "op", "fetch", "error", err)
	}
	return i.State()
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateExperimentInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	outcome, err := i.svc.Create(ctx, experimentsout.NewExperiment{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Dependencies: input.Dependencies,
		NextAction:   input.NextAction,
		Status:       domain.Status(input.Status),
		Notes:        input.Notes,
	})
	i.settled("create", "", outcome, err)
	return i.State(), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateExperimentInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	patch := domain.Patch{
		Title:        input.Title,
		Description:  input.Description,
		Dependencies: input.Dependencies,
		NextAction:   input.NextAction,
		Notes:        input.Notes,
	}
	if input.Status != nil {
		status := domain.Status(*input.Status)
		patch.Status = &status
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

// SetStatus moves an experiment to status, showing the change before the
// service confirms it.
func (i *Interactor) SetStatus(ctx context.Context, input dto.SetStatusInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	status := domain.Status(input.Status)
	outcome, err := i.svc.Update(ctx, input.ID, domain.Patch{Status: &status}, true)
	i.settled("set_status", input.ID, outcome, err)
	return i.State(), nil
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

func (i *Interactor) settled(op, experimentID string, outcome optimistic.Outcome, err error) {
	if err != nil {
		i.logger.Warn("remote call failed", "op", op, "id", experimentID, "error", err)
		return
	}
	switch outcome {
	case optimistic.Inserted, optimistic.Missing:
		i.logger.Debug("reconciled without local match", "op", op, "id", experimentID, "error", apperrors.ErrNotFoundInCache)
	case optimistic.Stale:
		i.logger.Debug("discarded stale confirmation", "op", op, "id", experimentID)
	}
}

func (i *Interactor) persist() {
	i.saveMu.Lock()
	defer i.saveMu.Unlock()
	if err := i.snapshots.Save(context.Background(), i.svc.Container().Snapshot()); err != nil {
		i.logger.Warn("snapshot save failed", "error", err)
	}
}
