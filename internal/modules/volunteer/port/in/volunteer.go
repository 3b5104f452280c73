package in

import (
	"context"

	"nebibs/internal/modules/volunteer/dto"
)

type Usecase interface {
	Restore(ctx context.Context) bool
	Fetch(ctx context.Context) dto.State
	Create(ctx context.Context, input dto.CreateEntryInput) (dto.State, error)
	Update(ctx context.Context, input dto.UpdateEntryInput) (dto.State, error)
	Delete(ctx context.Context, id string) (dto.State, error)
	ClearError()
	State() dto.State
	Subscribe(fn func()) func()
}
