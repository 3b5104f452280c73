package in

import (
	"context"

	"nebibs/internal/modules/experiments/dto"
)

type Usecase interface {
	Restore(ctx context.Context) bool
	Fetch(ctx context.Context) dto.State
	Create(ctx context.Context, input dto.CreateExperimentInput) (dto.State, error)
	Update(ctx context.Context, input dto.UpdateExperimentInput) (dto.State, error)
	Delete(ctx context.Context, id string) (dto.State, error)
	SetStatus(ctx context.Context, input dto.SetStatusInput) (dto.State, error)
	ClearError()
	State() dto.State
	Subscribe(fn func()) func()
}
