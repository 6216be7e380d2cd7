package links

import (
	"context"
	"fmt"
)

// CreateRequest is one item of a bulk create.
type CreateRequest struct {
	TaskID  string  `json:"taskId"`
	EventID string  `json:"eventId"`
	Notes   *string `json:"notes,omitempty"`
}

// PairRequest identifies a link by its (task, event) pair.
type PairRequest struct {
	TaskID  string `json:"taskId"`
	EventID string `json:"eventId"`
}

// BulkError records why one item of a bulk operation failed. Exactly one
// of LinkID or the pair fields identifies the item.
type BulkError struct {
	LinkID  string `json:"linkId,omitempty"`
	TaskID  string `json:"taskId,omitempty"`
	EventID string `json:"eventId,omitempty"`
	Error   string `json:"error"`
}

// BulkResult aggregates a bulk operation. Success is true only when every
// item succeeded. Results holds the outcome of successful items in input
// order; Errors holds one entry per failed item, also in input order.
type BulkResult struct {
	Success   bool        `json:"success"`
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Results   []Link      `json:"results"`
	Errors    []BulkError `json:"errors,omitempty"`
}

func (r *BulkResult) record(link Link, itemErr *BulkError) {
	if itemErr != nil {
		r.Failed++
		r.Errors = append(r.Errors, *itemErr)
		return
	}
	r.Succeeded++
	r.Results = append(r.Results, link)
}

func (r *BulkResult) finish() {
	r.Success = r.Failed == 0
	if r.Results == nil {
		r.Results = []Link{}
	}
}

// BulkCreate creates the requested links one at a time, in order. A failed
// item never stops the remaining items; links created before a failure
// stay created.
func (s *Service) BulkCreate(ctx context.Context, reqs []CreateRequest) *BulkResult {
	result := &BulkResult{Total: len(reqs)}
	for _, req := range reqs {
		link, err := s.Create(ctx, req.TaskID, req.EventID, "", req.Notes)
		if err != nil {
			result.record(Link{}, &BulkError{TaskID: req.TaskID, EventID: req.EventID, Error: err.Error()})
			continue
		}
		result.record(link, nil)
	}
	result.finish()
	return result
}

// BulkDeleteByID deletes links by id, one at a time, in order.
func (s *Service) BulkDeleteByID(ctx context.Context, linkIDs []string) *BulkResult {
	result := &BulkResult{Total: len(linkIDs)}
	for _, id := range linkIDs {
		removed, err := s.DeleteByID(ctx, id)
		if err != nil {
			result.record(Link{}, &BulkError{LinkID: id, Error: err.Error()})
			continue
		}
		result.record(removed, nil)
	}
	result.finish()
	return result
}

// BulkDeleteByPair deletes links by (task, event) pair, one at a time, in
// order.
func (s *Service) BulkDeleteByPair(ctx context.Context, pairs []PairRequest) *BulkResult {
	result := &BulkResult{Total: len(pairs)}
	for _, pair := range pairs {
		removed, err := s.DeleteByPair(ctx, pair.TaskID, pair.EventID)
		if err != nil {
			result.record(Link{}, &BulkError{TaskID: pair.TaskID, EventID: pair.EventID, Error: err.Error()})
			continue
		}
		result.record(removed, nil)
	}
	result.finish()
	return result
}

// LinkTaskToEvents links one task to many events. The task is validated
// once up front; a missing task fails the whole operation before any link
// is created. Event validation and duplicate checks then run per item.
func (s *Service) LinkTaskToEvents(ctx context.Context, taskID string, eventIDs []string, notes *string) (*BulkResult, error) {
	if taskID == "" {
		return nil, &ValidationError{Msg: "taskId is required"}
	}
	if len(eventIDs) == 0 {
		return nil, &ValidationError{Msg: "eventIds must not be empty"}
	}
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return nil, fmt.Errorf("validating task %s: %w", taskID, wrapGatewayErr("tasks", err))
	}

	result := &BulkResult{Total: len(eventIDs)}
	for _, eventID := range eventIDs {
		link, err := s.create(ctx, taskID, eventID, "", notes, false, true)
		if err != nil {
			result.record(Link{}, &BulkError{TaskID: taskID, EventID: eventID, Error: err.Error()})
			continue
		}
		result.record(link, nil)
	}
	result.finish()
	return result, nil
}

// LinkEventToTasks links one event to many tasks, mirroring
// LinkTaskToEvents: the event is validated once up front, tasks per item.
func (s *Service) LinkEventToTasks(ctx context.Context, eventID string, taskIDs []string, notes *string) (*BulkResult, error) {
	if eventID == "" {
		return nil, &ValidationError{Msg: "eventId is required"}
	}
	if len(taskIDs) == 0 {
		return nil, &ValidationError{Msg: "taskIds must not be empty"}
	}
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return nil, fmt.Errorf("validating event %s: %w", eventID, wrapGatewayErr("calendar", err))
	}

	result := &BulkResult{Total: len(taskIDs)}
	for _, taskID := range taskIDs {
		link, err := s.create(ctx, taskID, eventID, "", notes, true, false)
		if err != nil {
			result.record(Link{}, &BulkError{TaskID: taskID, EventID: eventID, Error: err.Error()})
			continue
		}
		result.record(link, nil)
	}
	result.finish()
	return result, nil
}
