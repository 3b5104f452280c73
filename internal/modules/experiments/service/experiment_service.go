package service

import (
	"context"
	"slices"

	"nebibs/internal/modules/experiments/domain"
	experimentsout "nebibs/internal/modules/experiments/port/out"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/id"
	"nebibs/internal/platform/optimistic"
)

var Messages = optimistic.Messages{
	Fetch:  "Failed to fetch experiments",
	Create: "Failed to create experiment",
	Update: "Failed to update experiment",
	Delete: "Failed to delete experiment",
}

type ExperimentService struct {
	clock     clock.Clock
	idGen     id.Generator
	remote    experimentsout.ExperimentRemote
	container *optimistic.Container[domain.Experiment]
}

func NewExperimentService(clock clock.Clock, idGen id.Generator, remote experimentsout.ExperimentRemote) *ExperimentService {
	return &ExperimentService{
		clock:  clock,
		idGen:  idGen,
		remote: remote,
		container: optimistic.New(optimistic.Options[domain.Experiment]{
			IDOf:     func(e domain.Experiment) string { return e.ID },
			IsTemp:   id.IsTemp,
			Messages: Messages,
		}),
	}
}

func (s *ExperimentService) Container() *optimistic.Container[domain.Experiment] {
	return s.container
}

func (s *ExperimentService) Fetch(ctx context.Context) error {
	s.container.BeginFetch()
	experiments, err := s.remote.List(ctx)
	if err != nil {
		s.container.FailFetch(err)
		return err
	}
	for i := range experiments {
		experiments[i] = domain.Normalize(experiments[i])
	}
	s.container.ConfirmFetch(experiments)
	return nil
}

func (s *ExperimentService) Create(ctx context.Context, experiment experimentsout.NewExperiment) (optimistic.Outcome, error) {
	if experiment.Status == "" {
		experiment.Status = domain.StatusNotStarted
	}
	now := s.clock.Now()
	placeholder := domain.Normalize(domain.Experiment{
		ID:           s.idGen.New(),
		Title:        experiment.Title,
		Description:  experiment.Description,
		Dependencies: slices.Clone(experiment.Dependencies),
		NextAction:   experiment.NextAction,
		Status:       experiment.Status,
		Notes:        experiment.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	tok := s.container.BeginCreate(&placeholder)
	created, err := s.remote.Create(ctx, experiment)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, domain.Normalize(created)), nil
}

func (s *ExperimentService) Update(ctx context.Context, experimentID string, patch domain.Patch, local bool) (optimistic.Outcome, error) {
	var merge func(domain.Experiment) domain.Experiment
	if local {
		merge = patch.Apply
	}
	tok := s.container.BeginUpdate(experimentID, merge)
	updated, err := s.remote.Update(ctx, experimentID, patch)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, domain.Normalize(updated)), nil
}

func (s *ExperimentService) Delete(ctx context.Context, experimentID string) error {
	tok := s.container.BeginDelete(experimentID)
	if err := s.remote.Delete(ctx, experimentID); err != nil {
		s.container.Revert(tok, err)
		return err
	}
	s.container.Confirm(tok, domain.Experiment{})
	return nil
}

// Restore normalizes snap and drops experiments that still fail validation.
// It returns the number of dropped experiments.
func (s *ExperimentService) Restore(snap optimistic.Snapshot[domain.Experiment]) int {
	items := make([]domain.Experiment, 0, len(snap.Items))
	for _, e := range snap.Items {
		e = domain.Normalize(e)
		if e.Validate() != nil {
			continue
		}
		items = append(items, e)
	}
	dropped := len(snap.Items) - len(items)
	snap.Items = items
	s.container.Restore(snap)
	return dropped
}
