package availability

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/links"
	"github.com/tasklink/tasklink/internal/logging"
)

// DefaultMaxResults caps the slot count when the caller does not specify
// one.
const DefaultMaxResults = 5

// EventLister fetches the events of one calendar inside a window, with
// recurring events expanded to instances. *calendar.Client satisfies it.
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]calendar.EventSummary, error)
}

// Request describes one free-slot search.
type Request struct {
	Window TimeWindow

	// MinDuration is the smallest gap worth reporting. Zero means no
	// minimum, but zero-width gaps are never emitted: a slot always has
	// strictly positive duration.
	MinDuration time.Duration

	// MaxResults caps the number of slots; <= 0 means DefaultMaxResults.
	MaxResults int

	// CalendarIDs are the calendars to consult; empty means ["primary"].
	CalendarIDs []string
}

// FreeSlot is one gap between busy intervals. DurationMinutes is the floor
// of the gap length in minutes, matching the wire contract.
type FreeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Result is the outcome of a search. CalendarsSkipped names calendars
// whose events could not be fetched; their busy time is not reflected in
// the slots, so callers can treat a non-empty list as a degraded answer.
type Result struct {
	Slots             []FreeSlot `json:"slots"`
	CalendarsSearched int        `json:"calendarsSearched"`
	CalendarsSkipped  []string   `json:"calendarsSkipped,omitempty"`
}

// Engine performs free-slot searches against an event source.
type Engine struct {
	lister EventLister
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default().
func NewEngine(lister EventLister, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{lister: lister, logger: logger}
}

type busyInterval struct {
	start, end time.Time
	// order is the index of the owning calendar in the request, used as
	// the stable tie-break when two intervals start at the same instant.
	order int
}

// FindFreeSlots fetches busy intervals from each requested calendar,
// merges them, and sweeps the window for gaps. Calendars are fetched
// concurrently; the merge re-sorts by start time with calendar input
// order as tie-break, so the output is deterministic regardless of fetch
// completion order.
func (e *Engine) FindFreeSlots(ctx context.Context, req Request) (*Result, error) {
	if req.Window.Start.IsZero() || req.Window.End.IsZero() {
		return nil, &links.ValidationError{Msg: "search window is required"}
	}
	if !req.Window.End.After(req.Window.Start) {
		return nil, &links.ValidationError{Msg: "search window end must be after start"}
	}
	if req.MinDuration < 0 {
		return nil, &links.ValidationError{Msg: "minDuration must not be negative"}
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	calendarIDs := req.CalendarIDs
	if len(calendarIDs) == 0 {
		calendarIDs = []string{"primary"}
	}

	perCalendar := make([][]busyInterval, len(calendarIDs))
	fetchErrs := make([]error, len(calendarIDs))

	var wg sync.WaitGroup
	for i, calID := range calendarIDs {
		wg.Add(1)
		go func(i int, calID string) {
			defer wg.Done()
			events, err := e.lister.ListEvents(ctx, calID, req.Window.Start, req.Window.End, "")
			if err != nil {
				fetchErrs[i] = err
				return
			}
			for _, ev := range events {
				if ev.Start.IsZero() || ev.End.IsZero() {
					continue
				}
				perCalendar[i] = append(perCalendar[i], busyInterval{start: ev.Start, end: ev.End, order: i})
			}
		}(i, calID)
	}
	wg.Wait()

	var busy []busyInterval
	var skipped []string
	for i, calID := range calendarIDs {
		if fetchErrs[i] != nil {
			e.logger.Warn("skipping calendar in free-slot search",
				logging.Operation("availability.findFreeSlots"),
				logging.Calendar(calID),
				logging.Err(fetchErrs[i]),
			)
			skipped = append(skipped, calID)
			continue
		}
		busy = append(busy, perCalendar[i]...)
	}

	sort.SliceStable(busy, func(a, b int) bool {
		if !busy[a].start.Equal(busy[b].start) {
			return busy[a].start.Before(busy[b].start)
		}
		return busy[a].order < busy[b].order
	})

	slots := sweep(req.Window, busy, req.MinDuration, maxResults)

	return &Result{
		Slots:             slots,
		CalendarsSearched: len(calendarIDs) - len(skipped),
		CalendarsSkipped:  skipped,
	}, nil
}

// sweep walks the sorted busy intervals with a cursor that starts at the
// window start and never retreats. Each gap between the cursor and the
// next interval start becomes a slot when it meets the minimum duration;
// the stretch after the last interval is checked the same way.
func sweep(window TimeWindow, busy []busyInterval, minDuration time.Duration, maxResults int) []FreeSlot {
	slots := []FreeSlot{}
	cursor := window.Start

	for _, iv := range busy {
		if len(slots) >= maxResults {
			return slots
		}
		gapEnd := iv.start
		if gapEnd.After(window.End) {
			gapEnd = window.End
		}
		if slot, ok := makeSlot(cursor, gapEnd, minDuration); ok {
			slots = append(slots, slot)
		}
		if iv.end.After(cursor) {
			cursor = iv.end
		}
	}

	if len(slots) < maxResults {
		if slot, ok := makeSlot(cursor, window.End, minDuration); ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

func makeSlot(start, end time.Time, minDuration time.Duration) (FreeSlot, bool) {
	gap := end.Sub(start)
	if gap <= 0 || gap < minDuration {
		return FreeSlot{}, false
	}
	return FreeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: int(gap.Minutes()),
	}, true
}
