package out_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	learningoutadapter "nebibs/internal/modules/learning/adapter/out"
	"nebibs/internal/modules/learning/domain"
	learningout "nebibs/internal/modules/learning/port/out"
	"nebibs/internal/platform/logging"
	"nebibs/internal/platform/remote"
)

func newRemote(t *testing.T, handler http.HandlerFunc) *learningoutadapter.HTTPGoalRemote {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := remote.NewClient(remote.Config{BaseURL: server.URL, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return learningoutadapter.NewHTTPGoalRemote(client)
}

func TestListMapsWireRecords(t *testing.T) {
	t.Parallel()
	gr := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/learning/goals" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `[{
			"id": 7,
			"title": "Go",
			"target_hours": "12.5",
			"progress_percent": 140,
			"notes": null,
			"weekly_hours": [{"week_key": "2024-06-09", "hours": "3"}],
			"created_at": "2024-06-01T10:00:00Z"
		}]`)
	})

	goals, err := gr.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected one goal, got %d", len(goals))
	}
	goal := goals[0]
	if goal.ID != "7" || goal.Title != "Go" || goal.Notes != "" {
		t.Fatalf("unexpected scalar fields %+v", goal)
	}
	if goal.TargetHours == nil || *goal.TargetHours != 12.5 {
		t.Fatalf("target hours not coerced: %v", goal.TargetHours)
	}
	if goal.ProgressPercent != 100 {
		t.Fatalf("progress should be clamped, got %d", goal.ProgressPercent)
	}
	if goal.Resources == nil || len(goal.Resources) != 0 {
		t.Fatalf("missing resources should decode to empty list, got %#v", goal.Resources)
	}
	if goal.HoursInWeek("2024-06-09") != 3 {
		t.Fatalf("unexpected buckets %+v", goal.WeeklyHours)
	}
	if goal.CreatedAt.IsZero() || !goal.UpdatedAt.IsZero() {
		t.Fatalf("unexpected timestamps %v %v", goal.CreatedAt, goal.UpdatedAt)
	}
}

func TestCreateOmitsUnsetOptionalFields(t *testing.T) {
	t.Parallel()
	var body map[string]any
	gr := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"g1","title":"Go"}`)
	})
	goal, err := gr.Create(context.Background(), learningout.NewGoal{Title: "Go"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.ID != "g1" {
		t.Fatalf("unexpected goal %+v", goal)
	}
	if _, ok := body["target_hours"]; ok {
		t.Fatalf("target_hours should be omitted: %v", body)
	}
	if _, ok := body["notes"]; ok {
		t.Fatalf("notes should be omitted: %v", body)
	}
}

func TestUpdateSendsOnlyProvidedFields(t *testing.T) {
	t.Parallel()
	var body map[string]any
	gr := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/learning/goals/g1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"g1","title":"Go","resources":[]}`)
	})
	empty := []string{}
	if _, err := gr.Update(context.Background(), "g1", domain.Patch{Resources: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected only resources, got %v", body)
	}
	if resources, ok := body["resources"].([]any); !ok || len(resources) != 0 {
		t.Fatalf("expected empty resources list, got %#v", body["resources"])
	}
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	t.Parallel()
	gr := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := gr.Delete(context.Background(), "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
