package in

import (
	"context"

	"nebibs/internal/modules/volunteer/dto"
	volunteerin "nebibs/internal/modules/volunteer/port/in"
)

type CLIHandler struct {
	usecase volunteerin.Usecase
}

func NewCLIHandler(usecase volunteerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) dto.State {
	return h.usecase.Fetch(ctx)
}

func (h CLIHandler) Log(ctx context.Context, date, description string, hours float64, reflection string) (dto.State, error) {
	return h.usecase.Create(ctx, dto.CreateEntryInput{Date: date, Description: description, Hours: hours, Reflection: reflection})
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateEntryInput) (dto.State, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) (dto.State, error) {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) State() dto.State {
	return h.usecase.State()
}

func (h CLIHandler) ClearError() {
	h.usecase.ClearError()
}
