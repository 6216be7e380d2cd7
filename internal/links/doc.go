// Package links implements the task-event association registry and the
// operations built on top of it.
//
// A Link joins one Google Tasks task to one Google Calendar event. The
// registry is an in-memory, process-lifetime store: restarting the server
// loses all links. This is a documented limitation, not a bug; durable
// persistence is intentionally out of scope.
//
// The package is split into three layers:
//
//   - Registry: the mutex-guarded, insertion-ordered set of Link records.
//   - Service: single-item operations (create with existence validation,
//     update, delete, paginated queries and reverse lookups).
//   - Bulk operations: sequential per-item application of service calls
//     with partial-failure aggregation.
//
// External entities are reached through the TaskGateway and EventGateway
// interfaces so the service can be tested against fakes.
package links
