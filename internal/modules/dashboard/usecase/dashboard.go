package usecase

import (
	"context"

	"nebibs/internal/modules/dashboard/domain"
	"nebibs/internal/modules/dashboard/dto"
	dashboardin "nebibs/internal/modules/dashboard/port/in"
	experimentsin "nebibs/internal/modules/experiments/port/in"
	learningin "nebibs/internal/modules/learning/port/in"
	volunteerin "nebibs/internal/modules/volunteer/port/in"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/week"
)

type Interactor struct {
	learning    learningin.Usecase
	experiments experimentsin.Usecase
	volunteer   volunteerin.Usecase
	clock       clock.Clock
	calendar    week.Calendar
}

func NewInteractor(learning learningin.Usecase, experiments experimentsin.Usecase, volunteer volunteerin.Usecase, clock clock.Clock, calendar week.Calendar) dashboardin.Usecase {
	return &Interactor{learning: learning, experiments: experiments, volunteer: volunteer, clock: clock, calendar: calendar}
}

// Summary reads the current state of each collection; it never fetches.
func (i *Interactor) Summary(_ context.Context) dto.Summary {
	weekKey := i.calendar.Key(i.clock.Now())
	goals := i.learning.State()
	ideas := i.experiments.State()
	entries := i.volunteer.State()

	attention := domain.ExperimentsNeedingAttention(ideas.Items)
	summary := dto.Summary{
		WeekKey:           weekKey,
		LearningHours:     domain.LearningHoursInWeek(goals.Items, weekKey),
		ServiceHours:      domain.ServiceHoursInWeek(entries.Items, weekKey, i.calendar),
		TotalServiceHours: domain.TotalServiceHours(entries.Items),
		TotalIdeas:        len(ideas.Items),
		Completed:         domain.CompletedCount(ideas.Items),
		Goals:             make([]dto.GoalProgress, 0, len(goals.Items)),
		WithNextAction:    make([]dto.ExperimentRef, 0, len(attention.WithNextAction)),
		Blocked:           make([]dto.ExperimentRef, 0, len(attention.Blocked)),
		Errors:            map[string]string{},
	}
	for _, goal := range goals.Items {
		summary.Goals = append(summary.Goals, dto.GoalProgress{
			ID:              goal.ID,
			Title:           goal.Title,
			ProgressPercent: goal.ProgressPercent,
			HoursThisWeek:   domain.HoursLoggedInWeek(goal, weekKey),
		})
	}
	for _, e := range attention.WithNextAction {
		summary.WithNextAction = append(summary.WithNextAction, dto.ExperimentRef{ID: e.ID, Title: e.Title, NextAction: e.NextAction})
	}
	for _, e := range attention.Blocked {
		summary.Blocked = append(summary.Blocked, dto.ExperimentRef{ID: e.ID, Title: e.Title})
	}
	if goals.Error != "" {
		summary.Errors["learning"] = goals.Error
	}
	if ideas.Error != "" {
		summary.Errors["experiments"] = ideas.Error
	}
	if entries.Error != "" {
		summary.Errors["service"] = entries.Error
	}
	return summary
}
