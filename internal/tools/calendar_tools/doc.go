// Package calendar_tools provides MCP tools for Google Calendar access
// and availability search.
//
// Calendar and event tools:
//   - calendar_list_calendars, calendar_get_calendar
//   - calendar_list_events (preset or explicit time range), calendar_get_event
//   - calendar_create_event, calendar_update_event, calendar_delete_event
//   - calendar_smart_query_events: best-effort keyword query where time
//     words select the search window
//
// Scheduling tools:
//   - calendar_query_freebusy: raw free/busy per calendar
//   - calendar_find_free_time: merged free-slot search across calendars
//
// Update and delete tools are only registered when the server runs with
// writes enabled. All tools accept an optional 'account' parameter for
// multi-account use.
package calendar_tools
