package hr

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a time window cannot be built from the inputs.
var ErrInvalidWindow = errors.New("invalid time window")

// DefaultDaysBack is the window length used when no start time is given.
const DefaultDaysBack = 7

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Window is an inclusive time range [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window [start, end]. start must not be after end.
func NewWindow(start, end time.Time) (Window, error) {
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow,
			start.Format(time.DateTime), end.Format(time.DateTime))
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseTimestamp parses a user supplied timestamp in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q (want YYYY-MM-DD HH:MM:SS)", ErrInvalidWindow, s)
}

// ResolveWindow builds a window from raw command line values.
// An empty endRaw means now; an empty startRaw means daysBack days before the end.
func ResolveWindow(startRaw, endRaw string, daysBack int, now time.Time) (Window, error) {
	end := now
	if endRaw != "" {
		t, err := ParseTimestamp(endRaw)
		if err != nil {
			return Window{}, fmt.Errorf("parsing end time: %w", err)
		}
		end = t
	}

	var start time.Time
	if startRaw != "" {
		t, err := ParseTimestamp(startRaw)
		if err != nil {
			return Window{}, fmt.Errorf("parsing start time: %w", err)
		}
		start = t
	} else {
		if daysBack < 0 {
			return Window{}, fmt.Errorf("%w: days back must not be negative, got %d", ErrInvalidWindow, daysBack)
		}
		start = end.AddDate(0, 0, -daysBack)
	}

	return NewWindow(start, end)
}
