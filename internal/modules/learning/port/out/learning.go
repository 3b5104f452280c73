package out

import (
	"context"

	"nebibs/internal/modules/learning/domain"
	"nebibs/internal/platform/optimistic"
)

type NewGoal struct {
	Title       string
	TargetHours *float64
	Notes       string
}

type GoalRemote interface {
	List(ctx context.Context) ([]domain.Goal, error)
	Create(ctx context.Context, goal NewGoal) (domain.Goal, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Goal, error)
	Delete(ctx context.Context, id string) error
}

type GoalSnapshots interface {
	Load(ctx context.Context) (optimistic.Snapshot[domain.Goal], bool)
	Save(ctx context.Context, snap optimistic.Snapshot[domain.Goal]) error
}
