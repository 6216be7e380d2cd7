package links

import (
	"context"

	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/tasks"
)

// TaskGateway resolves task ids against Google Tasks. Implementations
// return *NotFoundError when the task does not exist; any other error is
// treated as a gateway failure.
type TaskGateway interface {
	GetTask(ctx context.Context, taskID string) (*tasks.Task, error)
}

// EventGateway resolves event ids against Google Calendar. Implementations
// return *NotFoundError when the event does not exist; any other error is
// treated as a gateway failure.
type EventGateway interface {
	GetEvent(ctx context.Context, eventID string) (*calendar.EventSummary, error)
}
