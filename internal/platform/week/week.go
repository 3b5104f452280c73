// Package week derives week keys: the YYYY-MM-DD date of the first day of
// the calendar week containing a date. Week keys join logged learning hours
// with time-windowed aggregates, so every caller must use the same Calendar.
package week

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

type Calendar struct {
	Start time.Weekday
}

// Sunday is the default calendar.
var Sunday = Calendar{Start: time.Sunday}

func ParseStart(raw string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported week start %q", raw)
	}
}

// StartOf returns midnight UTC of the first day of t's week. Only t's
// calendar date in its own location is considered.
func (c Calendar) StartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) - int(c.Start) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func (c Calendar) Key(t time.Time) string {
	return c.StartOf(t).Format(layout)
}

// KeyOfDate keys a YYYY-MM-DD date, or the date prefix of a timestamp.
func (c Calendar) KeyOfDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if len(date) > len(layout) {
		date = date[:len(layout)]
	}
	t, err := time.Parse(layout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return c.Key(t), nil
}

// Contains reports whether date falls in the week identified by key.
func (c Calendar) Contains(key, date string) bool {
	got, err := c.KeyOfDate(date)
	return err == nil && got == key
}
