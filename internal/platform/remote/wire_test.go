package remote_test

import (
	"encoding/json"
	"testing"

	"nebibs/internal/platform/remote"
)

func TestLenientDecoding(t *testing.T) {
	t.Parallel()
	var rec struct {
		ID    remote.Text   `json:"id"`
		Note  remote.Text   `json:"note"`
		Hours remote.Number `json:"hours"`
		Pct   remote.Number `json:"pct"`
		Empty remote.Number `json:"empty"`
		Gone  remote.Text   `json:"gone"`
	}
	raw := `{"id": 42, "note": null, "hours": "2.5", "pct": 41.6, "empty": ""}`
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "42" || rec.Note != "" || rec.Gone != "" {
		t.Fatalf("unexpected text fields %+v", rec)
	}
	if rec.Hours.Float() != 2.5 || rec.Pct.Int() != 42 || rec.Empty != 0 {
		t.Fatalf("unexpected numbers %+v", rec)
	}
}

func TestNumberRejectsGarbage(t *testing.T) {
	t.Parallel()
	var n remote.Number
	if err := json.Unmarshal([]byte(`"lots"`), &n); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseTimestampAndCalendarDate(t *testing.T) {
	t.Parallel()
	if ts := remote.ParseTimestamp("2024-06-10T08:30:00Z"); ts.IsZero() || ts.Hour() != 8 {
		t.Fatalf("unexpected timestamp %v", ts)
	}
	if ts := remote.ParseTimestamp("yesterday"); !ts.IsZero() {
		t.Fatalf("garbage should parse to zero, got %v", ts)
	}
	if got := remote.CalendarDate("2024-06-10T08:30:00"); got != "2024-06-10" {
		t.Fatalf("unexpected date %q", got)
	}
}
