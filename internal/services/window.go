package services

import (
	"dispatch-simulation-service/internal/domain"
	"fmt"
	"strings"
)

const secondsPerDay = domain.SecondsPerDay

// Window is the operating window of a run in seconds since midnight.
// End is past 86400 when the window spans midnight.
type Window struct {
	Start      int
	End        int
	StartClock string
	EndClock   string
}

func (w Window) Duration() int { return w.End - w.Start }

// Wraps reports whether the window reaches midnight, in which case times of
// day before Start belong to the next day.
func (w Window) Wraps() bool { return w.End >= secondsPerDay }

// ParseWindow parses start and end times of day. An end at or before start
// is read as the next day.
func ParseWindow(start, end string) (Window, error) {
	s, err := domain.ParseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("parse window start: %w", err)
	}
	e, err := domain.ParseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("parse window end: %w", err)
	}
	if e <= s {
		e += secondsPerDay
	}

	return Window{Start: s, End: e, StartClock: strings.TrimSpace(start), EndClock: strings.TrimSpace(end)}, nil
}
