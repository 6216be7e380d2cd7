package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/tasklink/tasklink/internal/links"
)

func TestResolveWindowPresets(t *testing.T) {
	// Wednesday, August 12th 2026, mid-afternoon.
	now := time.Date(2026, 8, 12, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		preset    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			preset:    PresetToday,
			wantStart: time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			preset:    PresetTomorrow,
			wantStart: time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			// Week starts Monday the 10th.
			preset:    PresetThisWeek,
			wantStart: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			preset:    PresetNextWeek,
			wantStart: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			preset:    PresetThisMonth,
			wantStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			w, err := ResolveWindow(tt.preset, "", "", now)
			if err != nil {
				t.Fatalf("ResolveWindow(%s) error: %v", tt.preset, err)
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", w.End, tt.wantEnd)
			}
		})
	}
}

func TestResolveWindowWeekStartsOnMonday(t *testing.T) {
	// A Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(PresetThisWeek, "", "", sunday)
	if err != nil {
		t.Fatal(err)
	}
	wantStart := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("this_week from Sunday starts %v, want %v", w.Start, wantStart)
	}

	// A Monday starts its own week.
	monday := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	w, err = ResolveWindow(PresetThisWeek, "", "", monday)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Start.Equal(wantStart) {
		t.Errorf("this_week from Monday starts %v, want %v", w.Start, wantStart)
	}
}

func TestResolveWindowExplicit(t *testing.T) {
	w, err := ResolveWindow("", "2026-08-12T09:00:00Z", "2026-08-12T17:00:00Z", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if w.Duration() != 8*time.Hour {
		t.Errorf("duration = %v, want 8h", w.Duration())
	}
}

func TestResolveWindowInvalid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name                string
		preset, start, end  string
	}{
		{name: "neither form"},
		{name: "both forms", preset: PresetToday, start: "2026-08-12T09:00:00Z", end: "2026-08-12T17:00:00Z"},
		{name: "missing end", start: "2026-08-12T09:00:00Z"},
		{name: "missing start", end: "2026-08-12T17:00:00Z"},
		{name: "unknown preset", preset: "someday"},
		{name: "bad start", start: "noon", end: "2026-08-12T17:00:00Z"},
		{name: "bad end", start: "2026-08-12T09:00:00Z", end: "five"},
		{name: "end before start", start: "2026-08-12T17:00:00Z", end: "2026-08-12T09:00:00Z"},
		{name: "end equals start", start: "2026-08-12T09:00:00Z", end: "2026-08-12T09:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWindow(tt.preset, tt.start, tt.end, now)
			var ve *links.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ResolveWindow(%q, %q, %q) = %v, want ValidationError", tt.preset, tt.start, tt.end, err)
			}
		})
	}
}
