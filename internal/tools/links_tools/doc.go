// Package links_tools provides MCP tools for managing task-event links.
//
// The tools expose the in-memory link registry over MCP:
//
// Single-link operations:
//   - links_create: link a task to an event (both validated to exist)
//   - links_get: fetch a link by id
//   - links_update: replace a link's notes
//   - links_delete: delete a link by id
//   - links_unlink: delete a link by (taskId, eventId) pair
//
// Lookups:
//   - links_list: filterable, paginated listing
//   - links_get_task_events: events linked to a task, details fetched
//     best-effort
//   - links_get_event_tasks: tasks linked to an event, details fetched
//     best-effort
//
// Bulk operations (sequential, per-item failure isolation):
//   - links_bulk_create, links_bulk_delete, links_bulk_unlink
//   - links_link_task_to_events, links_link_event_to_tasks
//
// Link tools are registered regardless of read-only mode: the registry is
// process-local state and vanishes on restart, so there is no external
// data to protect.
package links_tools
