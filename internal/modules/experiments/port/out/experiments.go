package out

import (
	"context"

	"nebibs/internal/modules/experiments/domain"
	"nebibs/internal/platform/optimistic"
)

type NewExperiment struct {
	Title        string
	Description  string
	Dependencies []string
	NextAction   string
	Status       domain.Status
	Notes        string
}

type ExperimentRemote interface {
	List(ctx context.Context) ([]domain.Experiment, error)
	Create(ctx context.Context, experiment NewExperiment) (domain.Experiment, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Experiment, error)
	Delete(ctx context.Context, id string) error
}

type ExperimentSnapshots interface {
	Load(ctx context.Context) (optimistic.Snapshot[domain.Experiment], bool)
	Save(ctx context.Context, snap optimistic.Snapshot[domain.Experiment]) error
}
