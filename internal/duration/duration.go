// Package duration resolves named date-range presets into concrete bounds.
package duration

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Preset is a named date range relative to now.
type Preset string

const (
	Today     Preset = "today"
	ThisWeek  Preset = "this_week"
	LastWeek  Preset = "last_week"
	ThisMonth Preset = "this_month"
	LastMonth Preset = "last_month"
	ThisYear  Preset = "this_year"
)

var ErrUnknownPreset = errors.New("unknown duration preset")

// Presets lists every supported preset.
var Presets = []Preset{Today, ThisWeek, LastWeek, ThisMonth, LastMonth, ThisYear}

// ParsePreset accepts preset names case-insensitively; spaces and dashes
// count as underscores.
func ParsePreset(s string) (Preset, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Presets {
		if string(p) == norm {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// Resolve returns the inclusive bounds of p relative to now, in now's
// location. Weeks start on Monday.
func Resolve(p Preset, now time.Time) (start, end time.Time, err error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var next time.Time
	switch p {
	case Today:
		start, next = day, day.AddDate(0, 0, 1)
	case ThisWeek:
		start = weekStart(day)
		next = start.AddDate(0, 0, 7)
	case LastWeek:
		next = weekStart(day)
		start = next.AddDate(0, 0, -7)
	case ThisMonth:
		start, next = month, month.AddDate(0, 1, 0)
	case LastMonth:
		start, next = month.AddDate(0, -1, 0), month
	case ThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		next = start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	return start, next.Add(-time.Nanosecond), nil
}

func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
