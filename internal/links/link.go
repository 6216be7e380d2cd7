package links

import (
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the wire format for CreatedAt and UpdatedAt. It is
// part of the tool contract: clients compare and display these values as
// returned, so the format never changes between releases.
const TimestampFormat = time.RFC3339

// Link associates one Google Tasks task with one Google Calendar event.
// A task may be linked to many events and vice versa, but each
// (TaskID, EventID) pair appears at most once.
type Link struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	EventID   string `json:"eventId"`
	UserID    string `json:"userId,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewLinkID returns a fresh identifier for a Link. IDs are unique for the
// lifetime of the process (and beyond, being UUIDs).
func NewLinkID() string {
	return uuid.NewString()
}

// FormatTimestamp renders t in the wire timestamp format, normalized to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
