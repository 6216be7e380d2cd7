package server

import (
	"context"

	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/links"
	"github.com/tasklink/tasklink/internal/tasks"
)

// taskGateway adapts a Tasks client to the links.TaskGateway interface.
// Google API not-found responses are translated into *links.NotFoundError
// so the link service can distinguish missing entities from outages.
type taskGateway struct {
	client *tasks.Client
}

func (g *taskGateway) GetTask(ctx context.Context, taskID string) (*tasks.Task, error) {
	task, err := g.client.FindTask(ctx, taskID)
	if err != nil {
		if tasks.IsNotFound(err) {
			return nil, &links.NotFoundError{Resource: "task", ID: taskID}
		}
		return nil, err
	}
	return task, nil
}

// eventGateway adapts a Calendar client to the links.EventGateway interface.
// Events are resolved against the account's primary calendar.
type eventGateway struct {
	client *calendar.Client
}

func (g *eventGateway) GetEvent(ctx context.Context, eventID string) (*calendar.EventSummary, error) {
	event, err := g.client.GetEvent(ctx, "primary", eventID)
	if err != nil {
		if calendar.IsNotFound(err) {
			return nil, &links.NotFoundError{Resource: "event", ID: eventID}
		}
		return nil, err
	}
	return event, nil
}
