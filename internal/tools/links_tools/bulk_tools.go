package links_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tasklink/tasklink/internal/links"
	"github.com/tasklink/tasklink/internal/server"
	"github.com/tasklink/tasklink/internal/tools/batch"
	"github.com/tasklink/tasklink/internal/tools/common"
)

// registerBulkLinkTools registers the bulk link operations. Items are
// processed strictly in input order; a failed item never aborts the rest.
func registerBulkLinkTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	bulkCreateTool := mcp.NewTool("links_bulk_create",
		mcp.WithDescription("Create multiple task-event links in one call. Each item is validated independently; failures are reported per item."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("links",
			mcp.Required(),
			mcp.Description("Array of links to create, each an object with taskId, eventId, and optional notes"),
		),
	)

	s.AddTool(bulkCreateTool, common.InstrumentedToolHandlerWithService(
		"links_bulk_create", "links", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBulkCreate(ctx, request, sc)
		}))

	bulkDeleteTool := mcp.NewTool("links_bulk_delete",
		mcp.WithDescription("Delete multiple task-event links by ID in one call. Failures are reported per item."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("linkIds",
			mcp.Required(),
			mcp.Description("Link ID (string) or array of link IDs to delete"),
		),
	)

	s.AddTool(bulkDeleteTool, common.InstrumentedToolHandlerWithService(
		"links_bulk_delete", "links", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBulkDelete(ctx, request, sc)
		}))

	bulkUnlinkTool := mcp.NewTool("links_bulk_unlink",
		mcp.WithDescription("Remove multiple task-event links identified by (taskId, eventId) pairs. Failures are reported per item."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("pairs",
			mcp.Required(),
			mcp.Description("Array of objects with taskId and eventId identifying the links to remove"),
		),
	)

	s.AddTool(bulkUnlinkTool, common.InstrumentedToolHandlerWithService(
		"links_bulk_unlink", "links", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBulkUnlink(ctx, request, sc)
		}))

	linkTaskToEventsTool := mcp.NewTool("links_link_task_to_events",
		mcp.WithDescription("Link one task to multiple calendar events. The task is validated once; a missing task fails the whole operation before any link is created."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to link"),
		),
		mcp.WithString("eventIds",
			mcp.Required(),
			mcp.Description("Event ID (string) or array of event IDs to link the task to"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes applied to every created link"),
		),
	)

	s.AddTool(linkTaskToEventsTool, common.InstrumentedToolHandlerWithService(
		"links_link_task_to_events", "links", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleLinkTaskToEvents(ctx, request, sc)
		}))

	linkEventToTasksTool := mcp.NewTool("links_link_event_to_tasks",
		mcp.WithDescription("Link one calendar event to multiple tasks. The event is validated once; a missing event fails the whole operation before any link is created."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the calendar event to link"),
		),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to link the event to"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes applied to every created link"),
		),
	)

	s.AddTool(linkEventToTasksTool, common.InstrumentedToolHandlerWithService(
		"links_link_event_to_tasks", "links", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleLinkEventToTasks(ctx, request, sc)
		}))

	return nil
}

// parseCreateRequests converts the raw links argument into create requests,
// rejecting items without both ids.
func parseCreateRequests(param interface{}) ([]links.CreateRequest, error) {
	objs, err := batch.ParseObjectArray(param, "links")
	if err != nil {
		return nil, err
	}

	reqs := make([]links.CreateRequest, 0, len(objs))
	for i, obj := range objs {
		taskID, _ := obj["taskId"].(string)
		if taskID == "" {
			return nil, fmt.Errorf("links[%d].taskId is required", i)
		}
		eventID, _ := obj["eventId"].(string)
		if eventID == "" {
			return nil, fmt.Errorf("links[%d].eventId is required", i)
		}

		req := links.CreateRequest{TaskID: taskID, EventID: eventID}
		if notes, ok := obj["notes"].(string); ok {
			req.Notes = &notes
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// parsePairRequests converts the raw pairs argument into pair requests.
func parsePairRequests(param interface{}) ([]links.PairRequest, error) {
	objs, err := batch.ParseObjectArray(param, "pairs")
	if err != nil {
		return nil, err
	}

	pairs := make([]links.PairRequest, 0, len(objs))
	for i, obj := range objs {
		taskID, _ := obj["taskId"].(string)
		if taskID == "" {
			return nil, fmt.Errorf("pairs[%d].taskId is required", i)
		}
		eventID, _ := obj["eventId"].(string)
		if eventID == "" {
			return nil, fmt.Errorf("pairs[%d].eventId is required", i)
		}
		pairs = append(pairs, links.PairRequest{TaskID: taskID, EventID: eventID})
	}
	return pairs, nil
}

// bulkResultText formats a bulk result, recording registry metrics on the
// way out. delta is +1 per succeeded item for creates, -1 for deletes.
func bulkResultText(ctx context.Context, sc *server.ServerContext, result *links.BulkResult, perItemDelta int64) *mcp.CallToolResult {
	if m := sc.Metrics(); m != nil && result.Succeeded > 0 {
		m.AddActiveLinks(ctx, perItemDelta*int64(result.Succeeded))
	}

	text, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(text))
}

func handleBulkCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	reqs, err := parseCreateRequests(args["links"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := svc.BulkCreate(ctx, reqs)
	return bulkResultText(ctx, sc, result, 1), nil
}

func handleBulkDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	linkIDs, err := batch.ParseStringOrArray(args["linkIds"], "linkIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := svc.BulkDeleteByID(ctx, linkIDs)
	return bulkResultText(ctx, sc, result, -1), nil
}

func handleBulkUnlink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	pairs, err := parsePairRequests(args["pairs"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := svc.BulkDeleteByPair(ctx, pairs)
	return bulkResultText(ctx, sc, result, -1), nil
}

func handleLinkTaskToEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	eventIDs, err := batch.ParseStringOrArray(args["eventIds"], "eventIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := svc.LinkTaskToEvents(ctx, taskID, eventIDs, optionalNotes(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to link task to events: %v", err)), nil
	}

	return bulkResultText(ctx, sc, result, 1), nil
}

func handleLinkEventToTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := svc.LinkEventToTasks(ctx, eventID, taskIDs, optionalNotes(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to link event to tasks: %v", err)), nil
	}

	return bulkResultText(ctx, sc, result, 1), nil
}
