package service

import (
	"context"

	"nebibs/internal/modules/learning/domain"
	learningout "nebibs/internal/modules/learning/port/out"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/id"
	"nebibs/internal/platform/optimistic"
)

var Messages = optimistic.Messages{
	Fetch:  "Failed to fetch goals",
	Create: "Failed to create goal",
	Update: "Failed to update goal",
	Delete: "Failed to delete goal",
}

// GoalService runs each remote call inside the optimistic protocol of one
// goal container. Errors it returns have already been recorded in the
// container state.
type GoalService struct {
	clock     clock.Clock
	idGen     id.Generator
	remote    learningout.GoalRemote
	container *optimistic.Container[domain.Goal]
}

func NewGoalService(clock clock.Clock, idGen id.Generator, remote learningout.GoalRemote) *GoalService {
	return &GoalService{
		clock:  clock,
		idGen:  idGen,
		remote: remote,
		container: optimistic.New(optimistic.Options[domain.Goal]{
			IDOf:     func(g domain.Goal) string { return g.ID },
			IsTemp:   id.IsTemp,
			Messages: Messages,
		}),
	}
}

func (s *GoalService) Container() *optimistic.Container[domain.Goal] {
	return s.container
}

func (s *GoalService) Fetch(ctx context.Context) error {
	s.container.BeginFetch()
	goals, err := s.remote.List(ctx)
	if err != nil {
		s.container.FailFetch(err)
		return err
	}
	for i := range goals {
		goals[i] = domain.Normalize(goals[i])
	}
	s.container.ConfirmFetch(goals)
	return nil
}

// Create inserts a placeholder under a temporary id, then swaps in the
// server's goal.
func (s *GoalService) Create(ctx context.Context, goal learningout.NewGoal) (optimistic.Outcome, error) {
	now := s.clock.Now()
	placeholder := domain.Normalize(domain.Goal{
		ID:          s.idGen.New(),
		Title:       goal.Title,
		TargetHours: goal.TargetHours,
		Notes:       goal.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	tok := s.container.BeginCreate(&placeholder)
	created, err := s.remote.Create(ctx, goal)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, domain.Normalize(created)), nil
}

// Update sends patch. When local is true the patch is merged into the
// container before the call and undone if the call fails.
func (s *GoalService) Update(ctx context.Context, goalID string, patch domain.Patch, local bool) (optimistic.Outcome, error) {
	var merge func(domain.Goal) domain.Goal
	if local {
		merge = patch.Apply
	}
	tok := s.container.BeginUpdate(goalID, merge)
	updated, err := s.remote.Update(ctx, goalID, patch)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, domain.Normalize(updated)), nil
}

func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	tok := s.container.BeginDelete(goalID)
	if err := s.remote.Delete(ctx, goalID); err != nil {
		s.container.Revert(tok, err)
		return err
	}
	s.container.Confirm(tok, domain.Goal{})
	return nil
}

func (s *GoalService) Find(goalID string) (domain.Goal, bool) {
	return s.container.Find(goalID)
}

// Restore normalizes persisted goals before loading them.
// Restore normalizes snap, drops goals that fail validation and loads the
// rest. It returns the number of dropped goals.
func (s *GoalService) Restore(snap optimistic.Snapshot[domain.Goal]) int {
	items := make([]domain.Goal, 0, len(snap.Items))
	for _, goal := range snap.Items {
		goal = domain.Normalize(goal)
		if goal.Validate() != nil {
			continue
		}
		items = append(items, goal)
	}
	dropped := len(snap.Items) - len(items)
	snap.Items = items
	s.container.Restore(snap)
	return dropped
}
