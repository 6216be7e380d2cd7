package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tasklink/tasklink/internal/availability"
	"github.com/tasklink/tasklink/internal/instrumentation"
	"github.com/tasklink/tasklink/internal/server"
	"github.com/tasklink/tasklink/internal/tools/batch"
	"github.com/tasklink/tasklink/internal/tools/common"
)

// RegisterSchedulingTools registers scheduling and availability tools with the MCP server
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Query free/busy tool
	queryFreeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Check availability for one or more calendars/attendees in a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2025-01-31T23:59:59Z')"),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated list of calendar IDs or email addresses to check"),
		),
	)

	s.AddTool(queryFreeBusyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQueryFreeBusy(ctx, request, sc)
	})

	// Find free time tool
	findFreeTimeTool := mcp.NewTool("calendar_find_free_time",
		mcp.WithDescription("Find free time slots across one or more calendars. The search window is either a named preset or an explicit timeMin/timeMax pair. A calendar that cannot be fetched is skipped and reported, not fatal."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeRange",
			mcp.Description("Named range preset: 'today', 'tomorrow', 'this_week', 'next_week', 'this_month'. Mutually exclusive with timeMin/timeMax."),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start time for the search window (RFC3339 format). Requires timeMax."),
		),
		mcp.WithString("timeMax",
			mcp.Description("End time for the search window (RFC3339 format). Requires timeMin."),
		),
		mcp.WithNumber("minDurationMinutes",
			mcp.Description("Minimum slot duration in minutes (default: 30)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of free slots to return (default: 5)"),
		),
		mcp.WithString("calendarIds",
			mcp.Description("Calendar ID (string) or array of calendar IDs to consult (default: ['primary'])"),
		),
	)

	s.AddTool(findFreeTimeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFindFreeTime(ctx, request, sc)
	})

	return nil
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	calendarsStr, ok := args["calendars"].(string)
	if !ok || calendarsStr == "" {
		return mcp.NewToolResultError("calendars is required"), nil
	}

	calendars := strings.Split(calendarsStr, ",")
	for i := range calendars {
		calendars[i] = strings.TrimSpace(calendars[i])
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	freeBusyInfos, err := client.QueryFreeBusy(ctx, timeMin, timeMax, calendars)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}

	result := fmt.Sprintf("Free/Busy information for %d calendar(s):\n\n", len(freeBusyInfos))
	for _, info := range freeBusyInfos {
		result += fmt.Sprintf("Calendar: %s\n", info.Calendar)

		if len(info.Errors) > 0 {
			result += fmt.Sprintf("  Errors: %s\n", strings.Join(info.Errors, ", "))
		}

		if len(info.Busy) == 0 {
			result += "  Status: FREE for entire range\n"
		} else {
			result += fmt.Sprintf("  Busy periods: %d\n", len(info.Busy))
			for i, busy := range info.Busy {
				result += fmt.Sprintf("  %d. %s to %s\n",
					i+1,
					busy.Start.Format("2006-01-02 15:04"),
					busy.End.Format("2006-01-02 15:04"))
			}
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleFindFreeTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	window, err := resolveEventWindow(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	minDuration := 30 * time.Minute
	if minutes, ok := args["minDurationMinutes"].(float64); ok {
		if minutes < 0 {
			return mcp.NewToolResultError("minDurationMinutes must not be negative"), nil
		}
		minDuration = time.Duration(minutes) * time.Minute
	}

	maxResults := 0
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int(maxResultsVal)
	}

	var calendarIDs []string
	if raw, present := args["calendarIds"]; present {
		calendarIDs, err = batch.ParseStringOrArray(raw, "calendarIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	// Ensure the account's calendar client exists before building the engine
	if _, err := getCalendarClient(ctx, account, sc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	engine, err := sc.AvailabilityEngineForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	searchResult, err := engine.FindFreeSlots(ctx, availability.Request{
		Window:      window,
		MinDuration: minDuration,
		MaxResults:  maxResults,
		CalendarIDs: calendarIDs,
	})
	if m := sc.Metrics(); m != nil {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		m.RecordAvailabilitySearch(ctx, status, time.Since(start))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find free time: %v", err)), nil
	}

	text, _ := json.MarshalIndent(searchResult, "", "  ")
	return mcp.NewToolResultText(string(text)), nil
}
