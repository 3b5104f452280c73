package out

import (
	"context"
	"net/http"
	"net/url"

	"nebibs/internal/modules/learning/domain"
	learningout "nebibs/internal/modules/learning/port/out"
	"nebibs/internal/platform/remote"
)

const goalsPath = "/learning/goals"

type HTTPGoalRemote struct {
	client *remote.Client
}

func NewHTTPGoalRemote(client *remote.Client) *HTTPGoalRemote {
	return &HTTPGoalRemote{client: client}
}

type weeklyHoursRecord struct {
	WeekKey remote.Text   `json:"week_key"`
	Hours   remote.Number `json:"hours"`
}

type goalRecord struct {
	ID              remote.Text         `json:"id"`
	Title           remote.Text         `json:"title"`
	TargetHours     *remote.Number      `json:"target_hours"`
	ProgressPercent remote.Number       `json:"progress_percent"`
	Notes           remote.Text         `json:"notes"`
	Resources       []remote.Text       `json:"resources"`
	WeeklyHours     []weeklyHoursRecord `json:"weekly_hours"`
	CreatedAt       remote.Text         `json:"created_at"`
	UpdatedAt       remote.Text         `json:"updated_at"`
}

func (r goalRecord) toDomain() domain.Goal {
	goal := domain.Goal{
		ID:              r.ID.String(),
		Title:           r.Title.String(),
		ProgressPercent: r.ProgressPercent.Int(),
		Notes:           r.Notes.String(),
		Resources:       make([]string, 0, len(r.Resources)),
		WeeklyHours:     make([]domain.WeeklyHours, 0, len(r.WeeklyHours)),
		CreatedAt:       remote.ParseTimestamp(r.CreatedAt.String()),
		UpdatedAt:       remote.ParseTimestamp(r.UpdatedAt.String()),
	}
	if r.TargetHours != nil {
		hours := r.TargetHours.Float()
		goal.TargetHours = &hours
	}
	for _, resource := range r.Resources {
		goal.Resources = append(goal.Resources, resource.String())
	}
	for _, bucket := range r.WeeklyHours {
		goal.WeeklyHours = append(goal.WeeklyHours, domain.WeeklyHours{
			WeekKey: remote.CalendarDate(bucket.WeekKey.String()),
			Hours:   bucket.Hours.Float(),
		})
	}
	return domain.Normalize(goal)
}

func (h *HTTPGoalRemote) List(ctx context.Context) ([]domain.Goal, error) {
	var records []goalRecord
	if err := h.client.Do(ctx, http.MethodGet, goalsPath, nil, &records); err != nil {
		return nil, err
	}
	goals := make([]domain.Goal, 0, len(records))
	for _, record := range records {
		goals = append(goals, record.toDomain())
	}
	return goals, nil
}

func (h *HTTPGoalRemote) Create(ctx context.Context, goal learningout.NewGoal) (domain.Goal, error) {
	body := map[string]any{"title": goal.Title}
	if goal.TargetHours != nil {
		body["target_hours"] = *goal.TargetHours
	}
	if goal.Notes != "" {
		body["notes"] = goal.Notes
	}
	var record goalRecord
	if err := h.client.Do(ctx, http.MethodPost, goalsPath, body, &record); err != nil {
		return domain.Goal{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPGoalRemote) Update(ctx context.Context, id string, patch domain.Patch) (domain.Goal, error) {
	var record goalRecord
	if err := h.client.Do(ctx, http.MethodPatch, itemPath(id), patchBody(patch), &record); err != nil {
		return domain.Goal{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPGoalRemote) Delete(ctx context.Context, id string) error {
	return h.client.Do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return goalsPath + "/" + url.PathEscape(id)
}

// patchBody carries only the fields present in patch.
func patchBody(patch domain.Patch) map[string]any {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.TargetHours != nil {
		body["target_hours"] = *patch.TargetHours
	}
	if patch.ProgressPercent != nil {
		body["progress_percent"] = *patch.ProgressPercent
	}
	if patch.Notes != nil {
		body["notes"] = *patch.Notes
	}
	if patch.Resources != nil {
		resources := *patch.Resources
		if resources == nil {
			resources = []string{}
		}
		body["resources"] = resources
	}
	if patch.WeeklyHours != nil {
		buckets := make([]map[string]any, 0, len(*patch.WeeklyHours))
		for _, bucket := range *patch.WeeklyHours {
			buckets = append(buckets, map[string]any{"week_key": bucket.WeekKey, "hours": bucket.Hours})
		}
		body["weekly_hours"] = buckets
	}
	return body
}
