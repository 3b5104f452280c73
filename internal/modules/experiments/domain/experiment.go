package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Validate() error {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return nil
	default:
		return fmt.Errorf("unsupported experiment status: %s", s)
	}
}

type Experiment struct {
	ID           string    `cbor:"id"`
	Title        string    `cbor:"title"`
	Description  string    `cbor:"description"`
	Dependencies []string  `cbor:"dependencies"`
	NextAction   string    `cbor:"next_action"`
	Status       Status    `cbor:"status"`
	Notes        string    `cbor:"notes"`
	CreatedAt    time.Time `cbor:"created_at"`
	UpdatedAt    time.Time `cbor:"updated_at"`
}

func (e Experiment) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("experiment id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("experiment title is required")
	}
	return e.Status.Validate()
}

// Blocked reports an experiment with no next step.
func (e Experiment) Blocked() bool {
	return strings.TrimSpace(e.NextAction) == ""
}

// Normalize fills absent lists and maps unknown statuses to not_started.
func Normalize(e Experiment) Experiment {
	if e.Dependencies == nil {
		e.Dependencies = []string{}
	}
	if e.Status.Validate() != nil {
		e.Status = StatusNotStarted
	}
	return e
}

type Patch struct {
	Title        *string
	Description  *string
	Dependencies *[]string
	NextAction   *string
	Status       *Status
	Notes        *string
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Dependencies == nil &&
		p.NextAction == nil && p.Status == nil && p.Notes == nil
}

func (p Patch) Apply(e Experiment) Experiment {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Dependencies != nil {
		e.Dependencies = slices.Clone(*p.Dependencies)
	}
	if p.NextAction != nil {
		e.NextAction = *p.NextAction
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	return Normalize(e)
}
