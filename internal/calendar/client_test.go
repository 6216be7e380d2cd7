package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

func TestToEventSummary(t *testing.T) {
	// Test with nil event
	summary := toEventSummary(nil)
	if summary.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", summary.ID)
	}

	event := &calendar.Event{
		Id:      "evt-1",
		Summary: "Design review",
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: "2026-08-12T10:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2026-08-12T11:00:00Z"},
		Creator: &calendar.EventCreator{Email: "creator@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com", ResponseStatus: "accepted"},
		},
	}
	summary = toEventSummary(event)

	if summary.ID != "evt-1" {
		t.Errorf("Expected ID 'evt-1', got %s", summary.ID)
	}
	wantStart := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	if !summary.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, summary.Start)
	}
	if summary.Creator != "creator@example.com" {
		t.Errorf("Expected creator email, got %s", summary.Creator)
	}
	if len(summary.Attendees) != 1 || summary.Attendees[0].ResponseStatus != "accepted" {
		t.Errorf("Attendees not converted: %+v", summary.Attendees)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &calendar.Event{
		Id:    "evt-allday",
		Start: &calendar.EventDateTime{Date: "2026-08-12"},
		End:   &calendar.EventDateTime{Date: "2026-08-13"},
	}
	summary := toEventSummary(event)

	wantStart := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	if !summary.Start.Equal(wantStart) {
		t.Errorf("Expected all-day start %v, got %v", wantStart, summary.Start)
	}
}

func TestToCalendarInfo(t *testing.T) {
	// Test with nil entry
	info := toCalendarInfo(nil)
	if info.ID != "" {
		t.Errorf("Expected empty ID for nil entry, got %s", info.ID)
	}

	entry := &calendar.CalendarListEntry{
		Id:         "primary",
		Summary:    "Work",
		Primary:    true,
		AccessRole: "owner",
	}
	info = toCalendarInfo(entry)

	if !info.Primary || info.AccessRole != "owner" {
		t.Errorf("Entry not converted: %+v", info)
	}
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("IsNotFound(plain) = true")
	}
	if !IsNotFound(&googleapi.Error{Code: 404}) {
		t.Error("IsNotFound(404) = false")
	}
	if !IsNotFound(fmt.Errorf("failed to get event: %w", &googleapi.Error{Code: 404})) {
		t.Error("IsNotFound(wrapped 404) = false")
	}
	if IsNotFound(&googleapi.Error{Code: 403}) {
		t.Error("IsNotFound(403) = true")
	}
}

func TestHasToken(t *testing.T) {
	result := HasToken()
	_ = result
}
