package in

import (
	"context"

	"nebibs/internal/modules/dashboard/dto"
	dashboardin "nebibs/internal/modules/dashboard/port/in"
)

type CLIHandler struct {
	usecase dashboardin.Usecase
}

func NewCLIHandler(usecase dashboardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context) dto.Summary {
	return h.usecase.Summary(ctx)
}
