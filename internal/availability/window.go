package availability

import (
	"fmt"
	"time"

	"github.com/tasklink/tasklink/internal/links"
)

// Named time-range presets. Weeks start on Monday.
const (
	PresetToday     = "today"
	PresetTomorrow  = "tomorrow"
	PresetThisWeek  = "this_week"
	PresetNextWeek  = "next_week"
	PresetThisMonth = "this_month"
)

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// ResolveWindow turns tool arguments into a concrete window. Exactly one
// form must be supplied: a preset name, or both start and end as RFC 3339
// timestamps. Supplying neither, both, or a half-specified explicit range
// is a validation error, as is an explicit range with end not after start.
func ResolveWindow(preset, start, end string, now time.Time) (TimeWindow, error) {
	explicit := start != "" || end != ""

	switch {
	case preset != "" && explicit:
		return TimeWindow{}, &links.ValidationError{Msg: "timeRange accepts either a preset or explicit start/end, not both"}
	case preset != "":
		return resolvePreset(preset, now)
	case start == "" || end == "":
		return TimeWindow{}, &links.ValidationError{Msg: "timeRange requires a preset or both start and end"}
	}

	startT, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return TimeWindow{}, &links.ValidationError{Msg: fmt.Sprintf("invalid start time %q: must be RFC 3339", start)}
	}
	endT, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return TimeWindow{}, &links.ValidationError{Msg: fmt.Sprintf("invalid end time %q: must be RFC 3339", end)}
	}
	if !endT.After(startT) {
		return TimeWindow{}, &links.ValidationError{Msg: "end must be after start"}
	}
	return TimeWindow{Start: startT, End: endT}, nil
}

func resolvePreset(preset string, now time.Time) (TimeWindow, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch preset {
	case PresetToday:
		return TimeWindow{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}, nil
	case PresetTomorrow:
		start := dayStart.AddDate(0, 0, 1)
		return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case PresetThisWeek:
		start := startOfWeek(dayStart)
		return TimeWindow{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PresetNextWeek:
		start := startOfWeek(dayStart).AddDate(0, 0, 7)
		return TimeWindow{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PresetThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return TimeWindow{Start: start, End: start.AddDate(0, 1, 0)}, nil
	default:
		return TimeWindow{}, &links.ValidationError{Msg: fmt.Sprintf("unknown time range preset %q", preset)}
	}
}

// startOfWeek returns the Monday at or before the given day start.
func startOfWeek(dayStart time.Time) time.Time {
	offset := (int(dayStart.Weekday()) + 6) % 7
	return dayStart.AddDate(0, 0, -offset)
}
