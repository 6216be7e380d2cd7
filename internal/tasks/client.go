package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/tasklink/tasklink/internal/google"
)

// DefaultTaskList is the alias Google Tasks uses for the user's default
// list.
const DefaultTaskList = "@default"

// Client wraps the Google Tasks service
type Client struct {
	svc     *tasks.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Tasks client with OAuth2 authentication for a specific account
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Tasks client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// IsNotFound reports whether err is a Google API 404. Invalid task ids
// surface as 400 on the Tasks API; treat those as not-found too, since
// both mean "no such task".
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	var taskLists []TaskList
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}

	return taskLists, nil
}

// GetTaskList retrieves a specific task list by ID
func (c *Client) GetTaskList(ctx context.Context, taskListID string) (*TaskList, error) {
	tl, err := c.svc.Tasklists.Get(taskListID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task list: %w", err)
	}

	result := toTaskList(tl)
	return &result, nil
}

// CreateTaskList creates a new task list
func (c *Client) CreateTaskList(ctx context.Context, title string) (*TaskList, error) {
	tl := &tasks.TaskList{
		Title: title,
	}

	created, err := c.svc.Tasklists.Insert(tl).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}

	result := toTaskList(created)
	return &result, nil
}

// UpdateTaskList updates a task list's title
func (c *Client) UpdateTaskList(ctx context.Context, taskListID, title string) (*TaskList, error) {
	tl := &tasks.TaskList{
		Title: title,
	}

	updated, err := c.svc.Tasklists.Update(taskListID, tl).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task list: %w", err)
	}

	result := toTaskList(updated)
	return &result, nil
}

// DeleteTaskList deletes a task list
func (c *Client) DeleteTaskList(ctx context.Context, taskListID string) error {
	err := c.svc.Tasklists.Delete(taskListID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete task list: %w", err)
	}
	return nil
}

// ListTasks lists tasks in a task list
// Options:
// - showCompleted: if true, includes completed tasks
// - dueMin: only tasks with due date after this time
// - dueMax: only tasks with due date before this time
func (c *Client) ListTasks(ctx context.Context, taskListID string, showCompleted bool, dueMin, dueMax time.Time) ([]Task, error) {
	call := c.svc.Tasks.List(taskListID).Context(ctx)

	if showCompleted {
		call = call.ShowCompleted(true)
	}

	if !dueMin.IsZero() {
		call = call.DueMin(dueMin.Format(time.RFC3339))
	}
	if !dueMax.IsZero() {
		call = call.DueMax(dueMax.Format(time.RFC3339))
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var taskList []Task
	for _, t := range result.Items {
		taskList = append(taskList, toTask(t))
	}

	return taskList, nil
}

// GetTask retrieves a specific task by ID
func (c *Client) GetTask(ctx context.Context, taskListID, taskID string) (*Task, error) {
	t, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	result := toTask(t)
	return &result, nil
}

// FindTask locates a task by id without knowing its list. The default
// list is checked first, then the remaining lists in the order the API
// returns them. A task absent from every list yields the underlying 404.
func (c *Client) FindTask(ctx context.Context, taskID string) (*Task, error) {
	task, err := c.GetTask(ctx, DefaultTaskList, taskID)
	if err == nil {
		return task, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	notFound := err

	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}
	for _, list := range lists {
		task, err := c.GetTask(ctx, list.ID, taskID)
		if err == nil {
			return task, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, notFound
}

// CreateTask creates a new task
func (c *Client) CreateTask(ctx context.Context, taskListID string, input TaskInput) (*Task, error) {
	t := &tasks.Task{
		Title:  input.Title,
		Notes:  input.Notes,
		Status: input.Status,
	}

	if input.Parent != "" {
		t.Parent = input.Parent
	}

	if !input.Due.IsZero() {
		t.Due = input.Due.Format(time.RFC3339)
	}

	call := c.svc.Tasks.Insert(taskListID, t).Context(ctx)

	if input.Previous != "" {
		call = call.Previous(input.Previous)
	}
	if input.Parent != "" {
		call = call.Parent(input.Parent)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil
}

// UpdateTask updates an existing task
func (c *Client) UpdateTask(ctx context.Context, taskListID, taskID string, input TaskInput) (*Task, error) {
	// Read-modify-write: the Tasks API replaces the resource on update.
	existing, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing task: %w", err)
	}

	if input.Title != "" {
		existing.Title = input.Title
	}
	if input.Notes != "" {
		existing.Notes = input.Notes
	}
	if input.Status != "" {
		existing.Status = input.Status
	}
	if !input.Due.IsZero() {
		existing.Due = input.Due.Format(time.RFC3339)
	}

	updated, err := c.svc.Tasks.Update(taskListID, taskID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string) error {
	err := c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CompleteTask marks a task as completed
func (c *Client) CompleteTask(ctx context.Context, taskListID, taskID string) (*Task, error) {
	existing, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	existing.Status = "completed"
	completedTime := time.Now().Format(time.RFC3339)
	existing.Completed = &completedTime

	updated, err := c.svc.Tasks.Update(taskListID, taskID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// MoveTask moves a task to a different position or parent
func (c *Client) MoveTask(ctx context.Context, taskListID, taskID string, parent, previous string) (*Task, error) {
	call := c.svc.Tasks.Move(taskListID, taskID).Context(ctx)

	if parent != "" {
		call = call.Parent(parent)
	}
	if previous != "" {
		call = call.Previous(previous)
	}

	moved, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	result := toTask(moved)
	return &result, nil
}

// ClearCompletedTasks clears all completed tasks from a task list
func (c *Client) ClearCompletedTasks(ctx context.Context, taskListID string) error {
	err := c.svc.Tasks.Clear(taskListID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return nil
}
