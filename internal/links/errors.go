package links

import "fmt"

// NotFoundError reports that a referenced entity does not exist. Resource
// is one of "task", "event", or "link".
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// DuplicateLinkError reports an attempt to create a link for a
// (task, event) pair that is already linked.
type DuplicateLinkError struct {
	TaskID  string
	EventID string
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("link already exists for task %s and event %s", e.TaskID, e.EventID)
}

// ValidationError reports malformed caller input: missing required
// arguments, bad pagination tokens, invalid time windows.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// GatewayError wraps a failure from an external collaborator (the Tasks or
// Calendar API) that is not a simple not-found. Service names the
// collaborator that failed.
type GatewayError struct {
	Service string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway: %v", e.Service, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
