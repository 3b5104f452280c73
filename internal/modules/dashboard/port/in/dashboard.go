package in

import (
	"context"

	"nebibs/internal/modules/dashboard/dto"
)

type Usecase interface {
	Summary(ctx context.Context) dto.Summary
}
