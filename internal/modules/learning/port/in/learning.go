package in

import (
	"context"

	"nebibs/internal/modules/learning/dto"
)

// Usecase drives the learning goal collection. Remote failures are recorded
// in the returned state; the error result only reports invalid input or an
// unknown goal id.
type Usecase interface {
	Restore(ctx context.Context) bool
	Fetch(ctx context.Context) dto.State
	Create(ctx context.Context, input dto.CreateGoalInput) (dto.State, error)
	Update(ctx context.Context, input dto.UpdateGoalInput) (dto.State, error)
	Delete(ctx context.Context, id string) (dto.State, error)
	AddResource(ctx context.Context, input dto.AddResourceInput) (dto.State, error)
	RemoveResource(ctx context.Context, input dto.RemoveResourceInput) (dto.State, error)
	LogWeeklyHours(ctx context.Context, input dto.LogWeeklyHoursInput) (dto.State, error)
	SetProgress(ctx context.Context, input dto.SetProgressInput) (dto.State, error)
	ClearError()
	State() dto.State
	Subscribe(fn func()) func()
}
