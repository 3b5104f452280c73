package out

import (
	"context"
	"net/http"
	"net/url"

	"nebibs/internal/modules/experiments/domain"
	experimentsout "nebibs/internal/modules/experiments/port/out"
	"nebibs/internal/platform/remote"
)

const experimentsPath = "/experiments"

type HTTPExperimentRemote struct {
	client *remote.Client
}

func NewHTTPExperimentRemote(client *remote.Client) *HTTPExperimentRemote {
	return &HTTPExperimentRemote{client: client}
}

type experimentRecord struct {
	ID           remote.Text   `json:"id"`
	Title        remote.Text   `json:"title"`
	Description  remote.Text   `json:"description"`
	Dependencies []remote.Text `json:"dependencies"`
	NextAction   remote.Text   `json:"next_action"`
	Status       remote.Text   `json:"status"`
	Notes        remote.Text   `json:"notes"`
	CreatedAt    remote.Text   `json:"created_at"`
	UpdatedAt    remote.Text   `json:"updated_at"`
}

func (r experimentRecord) toDomain() domain.Experiment {
	experiment := domain.Experiment{
		ID:           r.ID.String(),
		Title:        r.Title.String(),
		Description:  r.Description.String(),
		Dependencies: make([]string, 0, len(r.Dependencies)),
		NextAction:   r.NextAction.String(),
		Status:       domain.Status(r.Status.String()),
		Notes:        r.Notes.String(),
		CreatedAt:    remote.ParseTimestamp(r.CreatedAt.String()),
		UpdatedAt:    remote.ParseTimestamp(r.UpdatedAt.String()),
	}
	for _, dep := range r.Dependencies {
		experiment.Dependencies = append(experiment.Dependencies, dep.String())
	}
	return domain.Normalize(experiment)
}

func (h *HTTPExperimentRemote) List(ctx context.Context) ([]domain.Experiment, error) {
	var records []experimentRecord
	if err := h.client.Do(ctx, http.MethodGet, experimentsPath, nil, &records); err != nil {
		return nil, err
	}
	experiments := make([]domain.Experiment, 0, len(records))
	for _, record := range records {
		experiments = append(experiments, record.toDomain())
	}
	return experiments, nil
}

func (h *HTTPExperimentRemote) Create(ctx context.Context, experiment experimentsout.NewExperiment) (domain.Experiment, error) {
	dependencies := experiment.Dependencies
	if dependencies == nil {
		dependencies = []string{}
	}
	body := map[string]any{
		"title":        experiment.Title,
		"description":  experiment.Description,
		"dependencies": dependencies,
		"next_action":  experiment.NextAction,
		"status":       string(experiment.Status),
		"notes":        experiment.Notes,
	}
	var record experimentRecord
	if err := h.client.Do(ctx, http.MethodPost, experimentsPath, body, &record); err != nil {
		return domain.Experiment{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPExperimentRemote) Update(ctx context.Context, id string, patch domain.Patch) (domain.Experiment, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Dependencies != nil {
		dependencies := *patch.Dependencies
		if dependencies == nil {
			dependencies = []string{}
		}
		body["dependencies"] = dependencies
	}
	if patch.NextAction != nil {
		body["next_action"] = *patch.NextAction
	}
	if patch.Status != nil {
		body["status"] = string(*patch.Status)
	}
	if patch.Notes != nil {
		body["notes"] = *patch.Notes
	}
	var record experimentRecord
	if err := h.client.Do(ctx, http.MethodPatch, itemPath(id), body, &record); err != nil {
		return domain.Experiment{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPExperimentRemote) Delete(ctx context.Context, id string) error {
	return h.client.Do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return experimentsPath + "/" + url.PathEscape(id)
}
