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
	"github.com/tasklink/tasklink/internal/server"
)

// timeKeywords maps recognized query words to window presets. Hyphenated
// spellings are accepted alongside the canonical underscore form.
var timeKeywords = map[string]string{
	"today":      availability.PresetToday,
	"tomorrow":   availability.PresetTomorrow,
	"this_week":  availability.PresetThisWeek,
	"this-week":  availability.PresetThisWeek,
	"next_week":  availability.PresetNextWeek,
	"next-week":  availability.PresetNextWeek,
	"this_month": availability.PresetThisMonth,
	"this-month": availability.PresetThisMonth,
}

// RegisterSmartQueryTools registers the keyword-driven event query tool
func RegisterSmartQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	smartQueryTool := mcp.NewTool("calendar_smart_query_events",
		mcp.WithDescription("Search events using a free-form query. Time words like 'today', 'tomorrow', 'this_week', 'next_week', or 'this_month' select the search window; the remaining words become a text filter. Without a time word the next 30 days are searched."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-form query, e.g. 'this_week design review'"),
		),
	)

	s.AddTool(smartQueryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSmartQueryEvents(ctx, request, sc)
	})

	return nil
}

// interpretQuery splits a free-form query into a search window and the
// leftover keywords. The first recognized time word wins; all time words
// are stripped from the keyword list either way.
func interpretQuery(query string, now time.Time) (availability.TimeWindow, string, []string, error) {
	preset := ""
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if p, ok := timeKeywords[word]; ok {
			if preset == "" {
				preset = p
			}
			continue
		}
		keywords = append(keywords, word)
	}

	if preset == "" {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return availability.TimeWindow{Start: dayStart, End: dayStart.AddDate(0, 0, 30)}, "", keywords, nil
	}

	window, err := availability.ResolveWindow(preset, "", "", now)
	if err != nil {
		return availability.TimeWindow{}, "", nil, err
	}
	return window, preset, keywords, nil
}

type smartQueryEvent struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
}

type smartQueryResponse struct {
	Query          string `json:"query"`
	Interpretation struct {
		TimeRange string            `json:"timeRange"`
		Window    map[string]string `json:"window"`
		Keywords  []string          `json:"keywords"`
	} `json:"interpretation"`
	Results []smartQueryEvent `json:"results"`
}

func handleSmartQueryEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	calendarID := "primary"
	if calIDVal, ok := args["calendarId"].(string); ok && calIDVal != "" {
		calendarID = calIDVal
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	window, preset, keywords, err := interpretQuery(query, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, calendarID, window.Start, window.End, strings.Join(keywords, " "))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query events: %v", err)), nil
	}

	resp := smartQueryResponse{Query: query}
	resp.Interpretation.TimeRange = preset
	if preset == "" {
		resp.Interpretation.TimeRange = "next_30_days"
	}
	resp.Interpretation.Window = map[string]string{
		"start": window.Start.Format(time.RFC3339),
		"end":   window.End.Format(time.RFC3339),
	}
	resp.Interpretation.Keywords = keywords
	for _, ev := range events {
		resp.Results = append(resp.Results, smartQueryEvent{
			ID:       ev.ID,
			Summary:  ev.Summary,
			Start:    ev.Start.Format(time.RFC3339),
			End:      ev.End.Format(time.RFC3339),
			Location: ev.Location,
		})
	}

	text, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(text)), nil
}
