// Package tasks provides a typed client for the Google Tasks API: task
// lists and tasks, including lookup of a task across all lists.
package tasks
