package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nebibs/internal/bootstrap"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/config"
	"nebibs/internal/platform/logging"
)

func newRecordService(t *testing.T, failing map[string]bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, path string, body any) {
		if failing[path] {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Database unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}
	mux.HandleFunc("GET /learning/goals", func(w http.ResponseWriter, _ *http.Request) {
		write(w, "/learning/goals", []map[string]any{{
			"id": "g1", "title": "Go generics", "target_hours": "10", "progress_percent": 40,
			"weekly_hours": []map[string]any{{"week_key": "2024-03-10", "hours": 2.5}},
		}})
	})
	mux.HandleFunc("GET /experiments", func(w http.ResponseWriter, _ *http.Request) {
		write(w, "/experiments", []map[string]any{
			{"id": "e1", "title": "CLI", "status": "in_progress", "next_action": "ship"},
			{"id": "e2", "title": "Blog", "status": "in_progress", "dependencies": []string{"e1"}},
		})
	})
	mux.HandleFunc("GET /service/entries", func(w http.ResponseWriter, _ *http.Request) {
		write(w, "/service/entries", []map[string]any{
			{"id": "s1", "date": "2024-03-11", "description": "Food bank", "hours": 3},
			{"id": "s2", "date": "2024-02-01", "description": "Library", "hours": "1.5"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, baseURL string) *bootstrap.App {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.Snapshot.Backend = "memory"
	cfg.DataDir = t.TempDir()
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	app, err := bootstrap.New(cfg, logging.Discard(), bootstrap.WithClock(clock.Fixed(now)))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestStartLoadsAllCollections(t *testing.T) {
	t.Parallel()
	srv := newRecordService(t, nil)
	app := newApp(t, srv.URL)

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	summary := app.DashboardCLI.Summary(context.Background())
	if summary.WeekKey != "2024-03-10" {
		t.Fatalf("week key = %q", summary.WeekKey)
	}
	if summary.LearningHours != 2.5 {
		t.Fatalf("learning hours = %v", summary.LearningHours)
	}
	if summary.ServiceHours != 3 || summary.TotalServiceHours != 4.5 {
		t.Fatalf("service hours = %v total %v", summary.ServiceHours, summary.TotalServiceHours)
	}
	if summary.TotalIdeas != 2 || len(summary.WithNextAction) != 1 || len(summary.Blocked) != 1 {
		t.Fatalf("unexpected ideas summary: %+v", summary)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", summary.Errors)
	}
}

func TestStartKeepsOtherCollectionsWhenOneFetchFails(t *testing.T) {
	t.Parallel()
	srv := newRecordService(t, map[string]bool{"/experiments": true})
	app := newApp(t, srv.URL)

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if got := app.ExperimentsCLI.State().Error; got != "Database unavailable" {
		t.Fatalf("experiments error = %q", got)
	}
	if got := len(app.LearningCLI.State().Items); got != 1 {
		t.Fatalf("goals = %d", got)
	}
	summary := app.DashboardCLI.Summary(context.Background())
	if summary.Errors["experiments"] != "Database unavailable" {
		t.Fatalf("summary errors = %v", summary.Errors)
	}
}

func TestSubscribeFansOutAndUnsubscribes(t *testing.T) {
	t.Parallel()
	srv := newRecordService(t, nil)
	app := newApp(t, srv.URL)

	calls := 0
	unsubscribe := app.Subscribe(func() { calls++ })
	app.LearningCLI.ClearError()
	app.ExperimentsCLI.ClearError()
	app.ServiceCLI.ClearError()
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	unsubscribe()
	app.LearningCLI.ClearError()
	if calls != 3 {
		t.Fatalf("calls after unsubscribe = %d", calls)
	}
}

func TestNewRejectsUnknownWeekStart(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Snapshot.Backend = "memory"
	cfg.Week.Start = "friday"
	if _, err := bootstrap.New(cfg, logging.Discard()); err == nil {
		t.Fatal("expected error for unknown week start")
	}
}
