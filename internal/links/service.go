package links

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/logging"
	"github.com/tasklink/tasklink/internal/tasks"
)

// DefaultPageSize is the page size used when a query does not specify one.
const DefaultPageSize = 50

// Service implements link operations on top of a Registry, validating
// entity references through the task and event gateways.
type Service struct {
	registry *Registry
	tasks    TaskGateway
	events   EventGateway
	logger   *slog.Logger

	// now is the clock used for CreatedAt/UpdatedAt; overridable in tests.
	now func() time.Time
}

// NewService creates a Service over the given registry and gateways.
// A nil logger falls back to slog.Default().
func NewService(registry *Registry, taskGW TaskGateway, eventGW EventGateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		tasks:    taskGW,
		events:   eventGW,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates that both the task and the event exist, enforces pair
// uniqueness, and stores a new link. Notes is optional; nil means no notes.
func (s *Service) Create(ctx context.Context, taskID, eventID, userID string, notes *string) (Link, error) {
	return s.create(ctx, taskID, eventID, userID, notes, true, true)
}

// create is Create with per-side validation toggles. The fan-out bulk
// operations validate their shared side once up front and skip it here.
func (s *Service) create(ctx context.Context, taskID, eventID, userID string, notes *string, validateTask, validateEvent bool) (Link, error) {
	if taskID == "" {
		return Link{}, &ValidationError{Msg: "taskId is required"}
	}
	if eventID == "" {
		return Link{}, &ValidationError{Msg: "eventId is required"}
	}

	if validateTask {
		if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
			return Link{}, wrapGatewayErr("tasks", err)
		}
	}
	if validateEvent {
		if _, err := s.events.GetEvent(ctx, eventID); err != nil {
			return Link{}, wrapGatewayErr("calendar", err)
		}
	}

	now := FormatTimestamp(s.now())
	link := Link{
		ID:        NewLinkID(),
		TaskID:    taskID,
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if notes != nil {
		link.Notes = *notes
	}

	if !s.registry.InsertIfAbsent(link) {
		return Link{}, &DuplicateLinkError{TaskID: taskID, EventID: eventID}
	}

	s.logger.Info("link created",
		logging.Operation("links.create"),
		logging.LinkID(link.ID),
		logging.TaskID(taskID),
		logging.EventID(eventID),
	)
	return link, nil
}

// Update replaces the notes of an existing link and advances its
// UpdatedAt timestamp. Identity fields and CreatedAt are immutable.
func (s *Service) Update(ctx context.Context, linkID string, notes *string) (Link, error) {
	if linkID == "" {
		return Link{}, &ValidationError{Msg: "linkId is required"}
	}

	updated, ok := s.registry.Replace(linkID, func(l *Link) {
		if notes != nil {
			l.Notes = *notes
		}
		l.UpdatedAt = FormatTimestamp(s.now())
	})
	if !ok {
		return Link{}, &NotFoundError{Resource: "link", ID: linkID}
	}

	s.logger.Info("link updated",
		logging.Operation("links.update"),
		logging.LinkID(linkID),
	)
	return updated, nil
}

// Get returns the link with the given id.
func (s *Service) Get(ctx context.Context, linkID string) (Link, error) {
	if linkID == "" {
		return Link{}, &ValidationError{Msg: "linkId is required"}
	}
	link, ok := s.registry.FindByID(linkID)
	if !ok {
		return Link{}, &NotFoundError{Resource: "link", ID: linkID}
	}
	return link, nil
}

// DeleteByID removes the link with the given id and returns the removed
// record.
func (s *Service) DeleteByID(ctx context.Context, linkID string) (Link, error) {
	if linkID == "" {
		return Link{}, &ValidationError{Msg: "linkId is required"}
	}
	removed, ok := s.registry.RemoveByID(linkID)
	if !ok {
		return Link{}, &NotFoundError{Resource: "link", ID: linkID}
	}

	s.logger.Info("link deleted",
		logging.Operation("links.delete"),
		logging.LinkID(linkID),
	)
	return removed, nil
}

// DeleteByPair removes the link for the given (task, event) pair and
// returns the removed record. No gateway validation happens on delete:
// unlinking must work even after the task or event is gone upstream.
func (s *Service) DeleteByPair(ctx context.Context, taskID, eventID string) (Link, error) {
	if taskID == "" {
		return Link{}, &ValidationError{Msg: "taskId is required"}
	}
	if eventID == "" {
		return Link{}, &ValidationError{Msg: "eventId is required"}
	}
	removed, ok := s.registry.RemoveByPair(taskID, eventID)
	if !ok {
		return Link{}, &NotFoundError{Resource: "link", ID: taskID + "/" + eventID}
	}

	s.logger.Info("link unlinked",
		logging.Operation("links.unlink"),
		logging.TaskID(taskID),
		logging.EventID(eventID),
	)
	return removed, nil
}

// ListOptions filters and paginates List. Zero-value fields are ignored;
// MaxResults <= 0 means DefaultPageSize.
type ListOptions struct {
	TaskID     string
	EventID    string
	MaxResults int
	PageToken  string
}

// Page is one page of links plus the continuation token. NextPageToken is
// empty on the final page.
type Page struct {
	Links         []Link `json:"links"`
	TotalCount    int    `json:"totalCount"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// List returns links matching the options, in insertion order, one page at
// a time.
func (s *Service) List(ctx context.Context, opts ListOptions) (*Page, error) {
	matched := s.registry.Find(func(l Link) bool {
		if opts.TaskID != "" && l.TaskID != opts.TaskID {
			return false
		}
		if opts.EventID != "" && l.EventID != opts.EventID {
			return false
		}
		return true
	})

	window, next, err := paginate(len(matched), opts.MaxResults, opts.PageToken)
	if err != nil {
		return nil, err
	}

	return &Page{
		Links:         matched[window.start:window.end],
		TotalCount:    len(matched),
		NextPageToken: next,
	}, nil
}

// EventLookup is one reverse-lookup result for a linked event. When the
// event could not be fetched the entry is marked Skipped with a Reason and
// Event is nil; the link itself is always present.
type EventLookup struct {
	Link    Link                   `json:"link"`
	Event   *calendar.EventSummary `json:"event,omitempty"`
	Skipped bool                   `json:"skipped,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
}

// EventPage is one page of reverse-lookup results for a task.
type EventPage struct {
	TaskID        string        `json:"taskId"`
	Items         []EventLookup `json:"items"`
	TotalCount    int           `json:"totalCount"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// EventsForTask returns the events linked to a task, fetching event
// details best-effort: a fetch failure skips that item rather than
// failing the whole lookup. Pagination applies to the link set before any
// fetching, so a page costs at most one gateway call per item on the page.
func (s *Service) EventsForTask(ctx context.Context, taskID string, maxResults int, pageToken string) (*EventPage, error) {
	if taskID == "" {
		return nil, &ValidationError{Msg: "taskId is required"}
	}

	matched := s.registry.Find(func(l Link) bool { return l.TaskID == taskID })

	window, next, err := paginate(len(matched), maxResults, pageToken)
	if err != nil {
		return nil, err
	}

	items := make([]EventLookup, 0, window.end-window.start)
	for _, link := range matched[window.start:window.end] {
		event, err := s.events.GetEvent(ctx, link.EventID)
		if err != nil {
			s.logger.Warn("skipping event in reverse lookup",
				logging.Operation("links.eventsForTask"),
				logging.EventID(link.EventID),
				logging.Err(err),
			)
			items = append(items, EventLookup{Link: link, Skipped: true, Reason: err.Error()})
			continue
		}
		items = append(items, EventLookup{Link: link, Event: event})
	}

	return &EventPage{
		TaskID:        taskID,
		Items:         items,
		TotalCount:    len(matched),
		NextPageToken: next,
	}, nil
}

// TaskLookup is one reverse-lookup result for a linked task, mirroring
// EventLookup.
type TaskLookup struct {
	Link    Link        `json:"link"`
	Task    *tasks.Task `json:"task,omitempty"`
	Skipped bool        `json:"skipped,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// TaskPage is one page of reverse-lookup results for an event.
type TaskPage struct {
	EventID       string       `json:"eventId"`
	Items         []TaskLookup `json:"items"`
	TotalCount    int          `json:"totalCount"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}

// TasksForEvent returns the tasks linked to an event, with the same
// best-effort fetch semantics as EventsForTask.
func (s *Service) TasksForEvent(ctx context.Context, eventID string, maxResults int, pageToken string) (*TaskPage, error) {
	if eventID == "" {
		return nil, &ValidationError{Msg: "eventId is required"}
	}

	matched := s.registry.Find(func(l Link) bool { return l.EventID == eventID })

	window, next, err := paginate(len(matched), maxResults, pageToken)
	if err != nil {
		return nil, err
	}

	items := make([]TaskLookup, 0, window.end-window.start)
	for _, link := range matched[window.start:window.end] {
		task, err := s.tasks.GetTask(ctx, link.TaskID)
		if err != nil {
			s.logger.Warn("skipping task in reverse lookup",
				logging.Operation("links.tasksForEvent"),
				logging.TaskID(link.TaskID),
				logging.Err(err),
			)
			items = append(items, TaskLookup{Link: link, Skipped: true, Reason: err.Error()})
			continue
		}
		items = append(items, TaskLookup{Link: link, Task: task})
	}

	return &TaskPage{
		EventID:       eventID,
		Items:         items,
		TotalCount:    len(matched),
		NextPageToken: next,
	}, nil
}

type pageWindow struct {
	start, end int
}

// paginate resolves an offset-cursor page over a set of total items. Page
// tokens are decimal offsets; the empty token means offset 0. The returned
// next token is empty when the page reaches the end of the set. An offset
// at or beyond the end yields an empty window, not an error.
func paginate(total, maxResults int, pageToken string) (pageWindow, string, error) {
	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return pageWindow{}, "", &ValidationError{Msg: "invalid pageToken: " + pageToken}
		}
		offset = n
	}

	if maxResults <= 0 {
		maxResults = DefaultPageSize
	}

	if offset > total {
		offset = total
	}
	end := offset + maxResults
	if end > total {
		end = total
	}

	next := ""
	if end < total {
		next = strconv.Itoa(end)
	}
	return pageWindow{start: offset, end: end}, next, nil
}

// wrapGatewayErr passes typed domain errors through untouched and wraps
// anything else as a GatewayError for the named service.
func wrapGatewayErr(service string, err error) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}
	return &GatewayError{Service: service, Err: err}
}
