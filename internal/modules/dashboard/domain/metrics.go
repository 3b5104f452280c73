// Package domain computes the weekly and aggregate figures shown on the
// dashboard. Every function is pure.
package domain

import (
	experiments "nebibs/internal/modules/experiments/domain"
	learning "nebibs/internal/modules/learning/domain"
	volunteer "nebibs/internal/modules/volunteer/domain"
	"nebibs/internal/platform/week"
)

func HoursLoggedInWeek(goal learning.Goal, weekKey string) float64 {
	return goal.HoursInWeek(weekKey)
}

func LearningHoursInWeek(goals []learning.Goal, weekKey string) float64 {
	var total float64
	for _, goal := range goals {
		total += goal.HoursInWeek(weekKey)
	}
	return total
}

func TotalServiceHours(entries []volunteer.Entry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.Hours
	}
	return total
}

// ServiceHoursInWeek sums entries whose date falls in the week keyed by
// weekKey. Entries with unparseable dates are skipped.
func ServiceHoursInWeek(entries []volunteer.Entry, weekKey string, cal week.Calendar) float64 {
	var total float64
	for _, entry := range entries {
		if cal.Contains(weekKey, entry.Date) {
			total += entry.Hours
		}
	}
	return total
}

type Attention struct {
	WithNextAction []experiments.Experiment
	Blocked        []experiments.Experiment
}

// ExperimentsNeedingAttention partitions in-progress experiments by whether
// they have a next action. Input order is kept within each group.
func ExperimentsNeedingAttention(list []experiments.Experiment) Attention {
	out := Attention{WithNextAction: []experiments.Experiment{}, Blocked: []experiments.Experiment{}}
	for _, e := range list {
		if e.Status != experiments.StatusInProgress {
			continue
		}
		if e.Blocked() {
			out.Blocked = append(out.Blocked, e)
		} else {
			out.WithNextAction = append(out.WithNextAction, e)
		}
	}
	return out
}

func CompletedCount(list []experiments.Experiment) int {
	n := 0
	for _, e := range list {
		if e.Status == experiments.StatusCompleted {
			n++
		}
	}
	return n
}
