package in

import (
	"context"

	"nebibs/internal/modules/learning/dto"
	learningin "nebibs/internal/modules/learning/port/in"
)

type CLIHandler struct {
	usecase learningin.Usecase
}

func NewCLIHandler(usecase learningin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) dto.State {
	return h.usecase.Fetch(ctx)
}

func (h CLIHandler) Create(ctx context.Context, title string, targetHours *float64, notes string) (dto.State, error) {
	return h.usecase.Create(ctx, dto.CreateGoalInput{Title: title, TargetHours: targetHours, Notes: notes})
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateGoalInput) (dto.State, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) (dto.State, error) {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) AddResource(ctx context.Context, goalID, resource string) (dto.State, error) {
	return h.usecase.AddResource(ctx, dto.AddResourceInput{GoalID: goalID, Resource: resource})
}

func (h CLIHandler) RemoveResource(ctx context.Context, goalID string, index int) (dto.State, error) {
	return h.usecase.RemoveResource(ctx, dto.RemoveResourceInput{GoalID: goalID, Index: index})
}

func (h CLIHandler) LogHours(ctx context.Context, goalID, weekKey string, hours float64) (dto.State, error) {
	return h.usecase.LogWeeklyHours(ctx, dto.LogWeeklyHoursInput{GoalID: goalID, WeekKey: weekKey, Hours: hours})
}

func (h CLIHandler) SetProgress(ctx context.Context, goalID string, percent int) (dto.State, error) {
	return h.usecase.SetProgress(ctx, dto.SetProgressInput{GoalID: goalID, Percent: percent})
}

func (h CLIHandler) State() dto.State {
	return h.usecase.State()
}

func (h CLIHandler) ClearError() {
	h.usecase.ClearError()
}
