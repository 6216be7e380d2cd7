// Package availability finds free time slots across one or more Google
// calendars. It fetches busy intervals per calendar, merges them into a
// single chronological sequence, and sweeps a cursor through the search
// window to collect the gaps.
//
// Time-range input is either a named preset (today, tomorrow, this_week,
// next_week, this_month) or an explicit start/end pair; ResolveWindow
// turns both forms into a concrete TimeWindow at the tool boundary.
package availability
