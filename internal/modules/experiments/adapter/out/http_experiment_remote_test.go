package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	experimentsoutadapter "nebibs/internal/modules/experiments/adapter/out"
	"nebibs/internal/modules/experiments/domain"
	experimentsout "nebibs/internal/modules/experiments/port/out"
	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/logging"
	"nebibs/internal/platform/remote"
)

func newRemote(t *testing.T, handler http.HandlerFunc) *experimentsoutadapter.HTTPExperimentRemote {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := remote.NewClient(remote.Config{BaseURL: server.URL, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return experimentsoutadapter.NewHTTPExperimentRemote(client)
}

func TestListDefaultsMissingFields(t *testing.T) {
	t.Parallel()
	er := newRemote(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"1","title":"Idea","status":"in_progress","next_action":null}]`)
	})
	experiments, err := er.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := experiments[0]
	if got.Status != domain.StatusInProgress || got.NextAction != "" || got.Dependencies == nil {
		t.Fatalf("unexpected experiment %+v", got)
	}
	if !got.Blocked() {
		t.Fatalf("missing next action should be blocked")
	}
}

func TestCreateSendsDefaultStatus(t *testing.T) {
	t.Parallel()
	var body map[string]any
	er := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"id":"9","title":"Idea","status":"not_started"}`)
	})
	_, err := er.Create(context.Background(), experimentsout.NewExperiment{Title: "Idea", Status: domain.StatusNotStarted})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if body["status"] != "not_started" || body["next_action"] != "" {
		t.Fatalf("unexpected body %v", body)
	}
	if deps, ok := body["dependencies"].([]any); !ok || len(deps) != 0 {
		t.Fatalf("dependencies should be an empty list, got %#v", body["dependencies"])
	}
}

func TestUpdateSurfacesDetailMessage(t *testing.T) {
	t.Parallel()
	er := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Experiment not found"}`)
	})
	status := domain.StatusCompleted
	_, err := er.Update(context.Background(), "missing", domain.Patch{Status: &status})
	var remoteErr *apperrors.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if remoteErr.Status != http.StatusNotFound || remoteErr.Message != "Experiment not found" {
		t.Fatalf("unexpected remote error %+v", remoteErr)
	}
}
