package dto

import (
	"nebibs/internal/modules/volunteer/domain"
	"nebibs/internal/platform/optimistic"
)

type State = optimistic.State[domain.Entry]

type CreateEntryInput struct {
	Date        string  `validate:"isodate"`
	Description string  `validate:"nonblank"`
	Hours       float64 `validate:"gte=0"`
	Reflection  string
}

type UpdateEntryInput struct {
	ID          string   `validate:"nonblank"`
	Date        *string  `validate:"omitnil,isodate"`
	Description *string  `validate:"omitnil,nonblank"`
	Hours       *float64 `validate:"omitnil,gte=0"`
	Reflection  *string
}
