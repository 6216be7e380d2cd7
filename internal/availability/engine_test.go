package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/links"
)

type fakeLister struct {
	events map[string][]calendar.EventSummary
	errs   map[string]error
	delay  map[string]time.Duration
}

func (f *fakeLister) ListEvents(_ context.Context, calendarID string, _, _ time.Time, _ string) ([]calendar.EventSummary, error) {
	if d := f.delay[calendarID]; d > 0 {
		time.Sleep(d)
	}
	if err, ok := f.errs[calendarID]; ok {
		return nil, err
	}
	return f.events[calendarID], nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 12, hour, min, 0, 0, time.UTC)
}

func event(id string, start, end time.Time) calendar.EventSummary {
	return calendar.EventSummary{ID: id, Summary: id, Start: start, End: end}
}

func workday() TimeWindow {
	return TimeWindow{Start: at(9, 0), End: at(17, 0)}
}

func TestFindFreeSlotsEmptyCalendar(t *testing.T) {
	engine := NewEngine(&fakeLister{}, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday()})
	require.NoError(t, err)

	require.Len(t, result.Slots, 1)
	assert.Equal(t, at(9, 0), result.Slots[0].Start)
	assert.Equal(t, at(17, 0), result.Slots[0].End)
	assert.Equal(t, 480, result.Slots[0].DurationMinutes)
	assert.Equal(t, 1, result.CalendarsSearched)
}

func TestFindFreeSlotsGapsBetweenEvents(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			event("standup", at(10, 0), at(10, 30)),
			event("review", at(12, 0), at(13, 0)),
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday()})
	require.NoError(t, err)

	require.Len(t, result.Slots, 3)

	assert.Equal(t, at(9, 0), result.Slots[0].Start)
	assert.Equal(t, at(10, 0), result.Slots[0].End)
	assert.Equal(t, 60, result.Slots[0].DurationMinutes)

	assert.Equal(t, at(10, 30), result.Slots[1].Start)
	assert.Equal(t, at(12, 0), result.Slots[1].End)
	assert.Equal(t, 90, result.Slots[1].DurationMinutes)

	assert.Equal(t, at(13, 0), result.Slots[2].Start)
	assert.Equal(t, at(17, 0), result.Slots[2].End)
	assert.Equal(t, 240, result.Slots[2].DurationMinutes)
}

func TestFindFreeSlotsOverlappingEvents(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			event("a", at(10, 0), at(12, 0)),
			event("b", at(11, 0), at(11, 30)), // contained in a
			event("c", at(11, 30), at(13, 0)), // extends past a
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday()})
	require.NoError(t, err)

	// The cursor never retreats: overlapping events collapse into one
	// busy stretch from 10:00 to 13:00.
	require.Len(t, result.Slots, 2)
	assert.Equal(t, at(9, 0), result.Slots[0].Start)
	assert.Equal(t, at(10, 0), result.Slots[0].End)
	assert.Equal(t, at(13, 0), result.Slots[1].Start)
	assert.Equal(t, at(17, 0), result.Slots[1].End)
}

func TestFindFreeSlotsMinDuration(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			event("a", at(9, 30), at(10, 0)), // 30 min gap before
			event("b", at(12, 0), at(17, 0)), // 2h gap before
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{
		Window:      workday(),
		MinDuration: time.Hour,
	})
	require.NoError(t, err)

	// Only the 10:00-12:00 gap meets the minimum.
	require.Len(t, result.Slots, 1)
	assert.Equal(t, at(10, 0), result.Slots[0].Start)
	assert.Equal(t, 120, result.Slots[0].DurationMinutes)
}

func TestFindFreeSlotsZeroWidthNeverEmitted(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			// Back to back events and full coverage of the window edges.
			event("a", at(9, 0), at(12, 0)),
			event("b", at(12, 0), at(17, 0)),
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday(), MinDuration: 0})
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
}

func TestFindFreeSlotsFloorMinutes(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			event("a", at(9, 59), at(17, 0)),
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: TimeWindow{
		Start: at(9, 0).Add(30 * time.Second),
		End:   at(17, 0),
	}})
	require.NoError(t, err)

	// 58 minutes 30 seconds floors to 58.
	require.Len(t, result.Slots, 1)
	assert.Equal(t, 58, result.Slots[0].DurationMinutes)
}

func TestFindFreeSlotsMaxResults(t *testing.T) {
	var events []calendar.EventSummary
	for i := 0; i < 8; i++ {
		start := at(9, 30).Add(time.Duration(i) * time.Hour)
		events = append(events, event(fmt.Sprintf("e%d", i), start, start.Add(30*time.Minute)))
	}
	lister := &fakeLister{events: map[string][]calendar.EventSummary{"primary": events}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday(), MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, result.Slots, 3)

	// Default cap applies when unset.
	result, err = engine.FindFreeSlots(context.Background(), Request{Window: workday()})
	require.NoError(t, err)
	assert.Len(t, result.Slots, DefaultMaxResults)
}

func TestFindFreeSlotsMergesCalendars(t *testing.T) {
	lister := &fakeLister{
		events: map[string][]calendar.EventSummary{
			"work":     {event("a", at(10, 0), at(11, 0))},
			"personal": {event("b", at(14, 0), at(15, 0))},
		},
		// Completion order differs from input order; output must not.
		delay: map[string]time.Duration{"work": 20 * time.Millisecond},
	}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{
		Window:      workday(),
		CalendarIDs: []string{"work", "personal"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CalendarsSearched)
	require.Len(t, result.Slots, 3)
	assert.Equal(t, at(9, 0), result.Slots[0].Start)
	assert.Equal(t, at(11, 0), result.Slots[1].Start)
	assert.Equal(t, at(15, 0), result.Slots[2].Start)
}

func TestFindFreeSlotsSkipsFailingCalendar(t *testing.T) {
	lister := &fakeLister{
		events: map[string][]calendar.EventSummary{
			"work": {event("a", at(10, 0), at(11, 0))},
		},
		errs: map[string]error{"broken": fmt.Errorf("googleapi: Error 403: forbidden")},
	}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{
		Window:      workday(),
		CalendarIDs: []string{"work", "broken"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CalendarsSearched)
	assert.Equal(t, []string{"broken"}, result.CalendarsSkipped)
	// Slots still computed from the calendars that answered.
	require.Len(t, result.Slots, 2)
}

func TestFindFreeSlotsValidation(t *testing.T) {
	engine := NewEngine(&fakeLister{}, nil)

	var ve *links.ValidationError

	_, err := engine.FindFreeSlots(context.Background(), Request{})
	require.ErrorAs(t, err, &ve)

	_, err = engine.FindFreeSlots(context.Background(), Request{
		Window: TimeWindow{Start: at(17, 0), End: at(9, 0)},
	})
	require.ErrorAs(t, err, &ve)

	_, err = engine.FindFreeSlots(context.Background(), Request{
		Window:      workday(),
		MinDuration: -time.Minute,
	})
	require.ErrorAs(t, err, &ve)
}

func TestFindFreeSlotsEventOutsideWindowClamped(t *testing.T) {
	lister := &fakeLister{events: map[string][]calendar.EventSummary{
		"primary": {
			// Starts before the window, ends inside it.
			event("early", at(7, 0), at(9, 30)),
			// Starts inside, ends after.
			event("late", at(16, 0), at(19, 0)),
		},
	}}
	engine := NewEngine(lister, nil)

	result, err := engine.FindFreeSlots(context.Background(), Request{Window: workday()})
	require.NoError(t, err)

	require.Len(t, result.Slots, 1)
	assert.Equal(t, at(9, 30), result.Slots[0].Start)
	assert.Equal(t, at(16, 0), result.Slots[0].End)
}
