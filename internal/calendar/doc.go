// Package calendar provides a typed client for the Google Calendar API:
// calendars, events with recurring-event expansion, and free/busy queries.
package calendar
