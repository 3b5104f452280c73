package domain_test

import (
	"testing"
	"time"

	"nebibs/internal/modules/learning/domain"
)

func TestClampProgress(t *testing.T) {
	t.Parallel()
	cases := map[int]int{150: 100, -5: 0, 42: 42, 0: 0, 100: 100}
	for in, want := range cases {
		if got := domain.ClampProgress(in); got != want {
			t.Fatalf("ClampProgress(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLogWeeklyHoursReplacesExistingWeek(t *testing.T) {
	t.Parallel()
	buckets := domain.LogWeeklyHours(nil, "2024-06-09", 2)
	buckets = domain.LogWeeklyHours(buckets, "2024-06-16", 1)
	buckets = domain.LogWeeklyHours(buckets, "2024-06-09", 3.5)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %+v", buckets)
	}
	matches := 0
	for _, bucket := range buckets {
		if bucket.WeekKey == "2024-06-09" {
			matches++
			if bucket.Hours != 3.5 {
				t.Fatalf("expected replaced hours 3.5, got %v", bucket.Hours)
			}
		}
	}
	if matches != 1 {
		t.Fatalf("expected one bucket for week, got %d", matches)
	}
	if buckets[0].WeekKey != "2024-06-09" {
		t.Fatalf("replacement should keep position, got %+v", buckets)
	}
}

func TestLogWeeklyHoursDoesNotAliasInput(t *testing.T) {
	t.Parallel()
	original := []domain.WeeklyHours{{WeekKey: "2024-06-09", Hours: 1}}
	_ = domain.LogWeeklyHours(original, "2024-06-09", 9)
	if original[0].Hours != 1 {
		t.Fatalf("input mutated: %+v", original)
	}
}

func TestRemoveResource(t *testing.T) {
	t.Parallel()
	resources := []string{"book", "course", "book"}
	out, ok := domain.RemoveResource(resources, 1)
	if !ok || len(out) != 2 || out[0] != "book" || out[1] != "book" {
		t.Fatalf("unexpected result %v %v", out, ok)
	}
	if resources[1] != "course" {
		t.Fatalf("input mutated: %v", resources)
	}
	if _, ok := domain.RemoveResource(resources, 3); ok {
		t.Fatalf("out of range index should be rejected")
	}
}

func TestPatchApplyClampsAndNormalizes(t *testing.T) {
	t.Parallel()
	progress := 150
	title := "Rust"
	goal := domain.Goal{ID: "g1", Title: "Go", CreatedAt: time.Now().UTC()}
	got := domain.Patch{Title: &title, ProgressPercent: &progress}.Apply(goal)
	if got.Title != "Rust" || got.ProgressPercent != 100 {
		t.Fatalf("unexpected merge %+v", got)
	}
	if got.Resources == nil || got.WeeklyHours == nil {
		t.Fatalf("lists should be non-nil after merge")
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("merged goal should validate: %v", err)
	}
}
