package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// WeeklyHours is the hours logged against one goal for one week. WeekKey is
// the YYYY-MM-DD date of the week's first day.
type WeeklyHours struct {
	WeekKey string  `cbor:"week_key"`
	Hours   float64 `cbor:"hours"`
}

type Goal struct {
	ID              string        `cbor:"id"`
	Title           string        `cbor:"title"`
	TargetHours     *float64      `cbor:"target_hours"`
	ProgressPercent int           `cbor:"progress_percent"`
	Notes           string        `cbor:"notes"`
	Resources       []string      `cbor:"resources"`
	WeeklyHours     []WeeklyHours `cbor:"weekly_hours"`
	CreatedAt       time.Time     `cbor:"created_at"`
	UpdatedAt       time.Time     `cbor:"updated_at"`
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("goal id is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("goal title is required")
	}
	if g.TargetHours != nil && *g.TargetHours < 0 {
		return fmt.Errorf("target hours must not be negative")
	}
	if g.ProgressPercent < 0 || g.ProgressPercent > 100 {
		return fmt.Errorf("progress must be within 0..100")
	}
	return nil
}

// HoursInWeek returns the hours logged for weekKey, or 0.
func (g Goal) HoursInWeek(weekKey string) float64 {
	for _, bucket := range g.WeeklyHours {
		if bucket.WeekKey == weekKey {
			return bucket.Hours
		}
	}
	return 0
}

// Normalize fills absent lists and clamps progress. Every goal entering a
// container passes through it.
func Normalize(g Goal) Goal {
	if g.Resources == nil {
		g.Resources = []string{}
	}
	if g.WeeklyHours == nil {
		g.WeeklyHours = []WeeklyHours{}
	}
	g.ProgressPercent = ClampProgress(g.ProgressPercent)
	return g
}

func ClampProgress(pct int) int {
	return min(max(pct, 0), 100)
}

// LogWeeklyHours returns a new bucket list in which weekKey holds hours. An
// existing bucket for the week is replaced in place; otherwise one is
// appended.
func LogWeeklyHours(buckets []WeeklyHours, weekKey string, hours float64) []WeeklyHours {
	out := slices.Clone(buckets)
	if out == nil {
		out = []WeeklyHours{}
	}
	for i := range out {
		if out[i].WeekKey == weekKey {
			out[i].Hours = hours
			return out
		}
	}
	return append(out, WeeklyHours{WeekKey: weekKey, Hours: hours})
}

func AppendResource(resources []string, resource string) []string {
	out := make([]string, 0, len(resources)+1)
	out = append(out, resources...)
	return append(out, resource)
}

// RemoveResource drops the resource at index. It reports false when index is
// out of range.
func RemoveResource(resources []string, index int) ([]string, bool) {
	if index < 0 || index >= len(resources) {
		return resources, false
	}
	return slices.Delete(slices.Clone(resources), index, index+1), true
}

// Patch carries the fields of a partial update. Nil fields are not sent and
// not merged.
type Patch struct {
	Title           *string
	TargetHours     *float64
	ProgressPercent *int
	Notes           *string
	Resources       *[]string
	WeeklyHours     *[]WeeklyHours
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.TargetHours == nil && p.ProgressPercent == nil &&
		p.Notes == nil && p.Resources == nil && p.WeeklyHours == nil
}

// Apply merges the patch into g. Slices are copied so g's backing arrays are
// never shared with the caller.
func (p Patch) Apply(g Goal) Goal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.TargetHours != nil {
		hours := *p.TargetHours
		g.TargetHours = &hours
	}
	if p.ProgressPercent != nil {
		g.ProgressPercent = ClampProgress(*p.ProgressPercent)
	}
	if p.Notes != nil {
		g.Notes = *p.Notes
	}
	if p.Resources != nil {
		g.Resources = slices.Clone(*p.Resources)
	}
	if p.WeeklyHours != nil {
		g.WeeklyHours = slices.Clone(*p.WeeklyHours)
	}
	return Normalize(g)
}
