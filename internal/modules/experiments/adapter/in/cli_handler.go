package in

import (
	"context"

	"nebibs/internal/modules/experiments/dto"
	experimentsin "nebibs/internal/modules/experiments/port/in"
)

type CLIHandler struct {
	usecase experimentsin.Usecase
}

func NewCLIHandler(usecase experimentsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) dto.State {
	return h.usecase.Fetch(ctx)
}

func (h CLIHandler) Create(ctx context.Context, input dto.CreateExperimentInput) (dto.State, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateExperimentInput) (dto.State, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) (dto.State, error) {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) SetStatus(ctx context.Context, id, status string) (dto.State, error) {
	return h.usecase.SetStatus(ctx, dto.SetStatusInput{ID: id, Status: status})
}

func (h CLIHandler) State() dto.State {
	return h.usecase.State()
}

func (h CLIHandler) ClearError() {
	h.usecase.ClearError()
}
