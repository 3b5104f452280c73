package dto

import (
	"nebibs/internal/modules/learning/domain"
	"nebibs/internal/platform/optimistic"
)

type State = optimistic.State[domain.Goal]

type CreateGoalInput struct {
	Title       string   `validate:"nonblank"`
	TargetHours *float64 `validate:"omitnil,gte=0"`
	Notes       string
}

// UpdateGoalInput sends only the non-nil fields.
type UpdateGoalInput struct {
	ID              string   `validate:"nonblank"`
	Title           *string  `validate:"omitnil,nonblank"`
	TargetHours     *float64 `validate:"omitnil,gte=0"`
	ProgressPercent *int
	Notes           *string
}

type AddResourceInput struct {
	GoalID   string `validate:"nonblank"`
	Resource string `validate:"nonblank"`
}

type RemoveResourceInput struct {
	GoalID string `validate:"nonblank"`
	Index  int    `validate:"gte=0"`
}

// LogWeeklyHoursInput sets the hours of the week containing WeekKey, which
// may be any date in that week.
type LogWeeklyHoursInput struct {
	GoalID  string  `validate:"nonblank"`
	WeekKey string  `validate:"isodate"`
	Hours   float64 `validate:"gte=0"`
}

type SetProgressInput struct {
	GoalID  string `validate:"nonblank"`
	Percent int
}
