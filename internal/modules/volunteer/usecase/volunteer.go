package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"nebibs/internal/modules/volunteer/domain"
	"nebibs/internal/modules/volunteer/dto"
	volunteerin "nebibs/internal/modules/volunteer/port/in"
	volunteerout "nebibs/internal/modules/volunteer/port/out"
	"nebibs/internal/modules/volunteer/service"
	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/optimistic"
	"nebibs/internal/platform/validate"
)

type Interactor struct {
	svc       *service.EntryService
	snapshots volunteerout.EntrySnapshots
	logger    *slog.Logger

	saveMu sync.Mutex
}

func NewInteractor(svc *service.EntryService, snapshots volunteerout.EntrySnapshots, logger *slog.Logger) volunteerin.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Interactor{svc: svc, snapshots: snapshots, logger: logger.With("kind", "service")}
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
		i.logger.Warn("dropped invalid entries from snapshot", "count", dropped)
	}
	return true
}

func (i *Interactor) Fetch(ctx context.Context) dto.State {
	if err := i.svc.Fetch(ctx); err != nil {
		i.logger.Warn("fetch failed", "op", "fetch", "error", err)
	}
	return i.State()
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateEntryInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	outcome, err := i.svc.Create(ctx, volunteerout.NewEntry{
		Date:        input.Date,
		Description: strings.TrimSpace(input.Description),
		Hours:       input.Hours,
		Reflection:  input.Reflection,
	})
	i.settled("create", "", outcome, err)
	return i.State(), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateEntryInput) (dto.State, error) {
	if err := validate.Struct(input); err != nil {
		return i.State(), err
	}
	patch := domain.Patch{
		Date:        input.Date,
		Description: input.Description,
		Hours:       input.Hours,
		Reflection:  input.Reflection,
	}
	if patch.Empty() {
		return i.State(), apperrors.Invalid("input", "no fields to update")
	}
	outcome, err := i.svc.Update(ctx, input.ID, patch)
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

func (i *Interactor) ClearError() {
	i.svc.Container().ClearError()
}

func (i *Interactor) State() dto.State {
	return i.svc.Container().State()
}

func (i *Interactor) Subscribe(fn func()) func() {
	return i.svc.Container().Subscribe(fn)
}

func (i *Interactor) settled(op, entryID string, outcome optimistic.Outcome, err error) {
	if err != nil {
		i.logger.Warn("remote call failed", "op", op, "id", entryID, "error", err)
		return
	}
	switch outcome {
	case optimistic.Inserted, optimistic.Missing:
		i.logger.Debug("reconciled without local match", "op", op, "id", entryID, "error", apperrors.ErrNotFoundInCache)
	case optimistic.Stale:
		i.logger.Debug("discarded stale confirmation", "op", op, "id", entryID)
	}
}

func (i *Interactor) persist() {
	i.saveMu.Lock()
	defer i.saveMu.Unlock()
	if err := i.snapshots.Save(context.Background(), i.svc.Container().Snapshot()); err != nil {
		i.logger.Warn("snapshot save failed", "error", err)
	}
}
