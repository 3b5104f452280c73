package dto

import (
	"nebibs/internal/modules/experiments/domain"
	"nebibs/internal/platform/optimistic"
)

type State = optimistic.State[domain.Experiment]

type CreateExperimentInput struct {
	Title        string `validate:"nonblank"`
	Description  string
	Dependencies []string
	NextAction   string
	// Status defaults to not_started.
	Status string `validate:"omitempty,oneof=not_started in_progress completed"`
	Notes  string
}

type UpdateExperimentInput struct {
	ID           string  `validate:"nonblank"`
	Title        *string `validate:"omitnil,nonblank"`
	Description  *string
	Dependencies *[]string
	NextAction   *string
	Status       *string `validate:"omitnil,oneof=not_started in_progress completed"`
	Notes        *string
}

type SetStatusInput struct {
	ID     string `validate:"nonblank"`
	Status string `validate:"oneof=not_started in_progress completed"`
}
