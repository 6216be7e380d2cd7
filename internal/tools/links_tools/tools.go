package links_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tasklink/tasklink/internal/google"
	"github.com/tasklink/tasklink/internal/instrumentation"
	"github.com/tasklink/tasklink/internal/links"
	"github.com/tasklink/tasklink/internal/server"
	"github.com/tasklink/tasklink/internal/tools/common"
)

// getLinkService retrieves a link service bound to the specified account.
// Links live in process memory, but creating one still needs the account's
// Google clients for existence validation.
func getLinkService(account string, sc *server.ServerContext) (*links.Service, error) {
	if !google.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%s", google.GetAuthenticationErrorMessage(account))
	}

	svc, err := sc.LinkServiceForAccount(account)
	if err != nil {
		return nil, fmt.Errorf("failed to create link service for account %s: %w", account, err)
	}
	return svc, nil
}

// optionalNotes extracts the optional notes argument. A nil return means
// the argument was absent, which update semantics treat as "keep notes".
func optionalNotes(args map[string]interface{}) *string {
	if notes, ok := args["notes"].(string); ok {
		return &notes
	}
	return nil
}

// optionalInt extracts an optional numeric argument. JSON numbers arrive
// as float64.
func optionalInt(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

func optionalString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// recordLinkOp feeds the link_operations_total counter, if metrics are wired
func recordLinkOp(ctx context.Context, sc *server.ServerContext, operation string, err error) {
	m := sc.Metrics()
	if m == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	m.RecordLinkOperation(ctx, operation, status)
}

// RegisterLinksTools registers all task-event link tools with the MCP
// server. Link tools are never gated behind read-only mode: the registry
// is process-local state, not external data.
func RegisterLinksTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerLinkCrudTools(s, sc); err != nil {
		return fmt.Errorf("failed to register link tools: %w", err)
	}
	if err := registerLinkLookupTools(s, sc); err != nil {
		return fmt.Errorf("failed to register link lookup tools: %w", err)
	}
	if err := registerBulkLinkTools(s, sc); err != nil {
		return fmt.Errorf("failed to register bulk link tools: %w", err)
	}
	return nil
}

// registerLinkCrudTools registers single-link create/update/delete tools
func registerLinkCrudTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createLinkTool := mcp.NewTool("links_create",
		mcp.WithDescription("Link a Google Task to a Calendar event. Both must exist; a pair can only be linked once."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to link"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the calendar event to link"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes describing the link"),
		),
	)

	s.AddTool(createLinkTool, common.InstrumentedToolHandlerWithService(
		"links_create", "links", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateLink(ctx, request, sc)
		}))

	getLinkTool := mcp.NewTool("links_get",
		mcp.WithDescription("Get a task-event link by its ID"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("linkId",
			mcp.Required(),
			mcp.Description("The ID of the link to retrieve"),
		),
	)

	s.AddTool(getLinkTool, common.InstrumentedToolHandlerWithService(
		"links_get", "links", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetLink(ctx, request, sc)
		}))

	updateLinkTool := mcp.NewTool("links_update",
		mcp.WithDescription("Update the notes of an existing task-event link"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("linkId",
			mcp.Required(),
			mcp.Description("The ID of the link to update"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes for the link. Omit to keep the current notes."),
		),
	)

	s.AddTool(updateLinkTool, common.InstrumentedToolHandlerWithService(
		"links_update", "links", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateLink(ctx, request, sc)
		}))

	deleteLinkTool := mcp.NewTool("links_delete",
		mcp.WithDescription("Delete a task-event link by its ID"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("linkId",
			mcp.Required(),
			mcp.Description("The ID of the link to delete"),
		),
	)

	s.AddTool(deleteLinkTool, common.InstrumentedToolHandlerWithService(
		"links_delete", "links", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteLink(ctx, request, sc)
		}))

	unlinkTool := mcp.NewTool("links_unlink",
		mcp.WithDescription("Remove the link between a task and an event, identified by the pair. Works even if the task or event no longer exists."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the linked task"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the linked event"),
		),
	)

	s.AddTool(unlinkTool, common.InstrumentedToolHandlerWithService(
		"links_unlink", "links", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUnlink(ctx, request, sc)
		}))

	return nil
}

// registerLinkLookupTools registers list and reverse-lookup tools
func registerLinkLookupTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listLinksTool := mcp.NewTool("links_list",
		mcp.WithDescription("List task-event links, optionally filtered by taskId and/or eventId, with offset-token pagination"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Description("Only return links for this task"),
		),
		mcp.WithString("eventId",
			mcp.Description("Only return links for this event"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum links per page (default: 50)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token from a previous response"),
		),
	)

	s.AddTool(listLinksTool, common.InstrumentedToolHandlerWithService(
		"links_list", "links", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListLinks(ctx, request, sc)
		}))

	taskEventsTool := mcp.NewTool("links_get_task_events",
		mcp.WithDescription("Get the calendar events linked to a task. Events that can no longer be fetched are marked skipped instead of failing the lookup."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum results per page (default: 50)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token from a previous response"),
		),
	)

	s.AddTool(taskEventsTool, common.InstrumentedToolHandlerWithService(
		"links_get_task_events", "links", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTaskEvents(ctx, request, sc)
		}))

	eventTasksTool := mcp.NewTool("links_get_event_tasks",
		mcp.WithDescription("Get the tasks linked to a calendar event. Tasks that can no longer be fetched are marked skipped instead of failing the lookup."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the calendar event"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum results per page (default: 50)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token from a previous response"),
		),
	)

	s.AddTool(eventTasksTool, common.InstrumentedToolHandlerWithService(
		"links_get_event_tasks", "links", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEventTasks(ctx, request, sc)
		}))

	return nil
}

func handleCreateLink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link, err := svc.Create(ctx, taskID, eventID, account, optionalNotes(args))
	recordLinkOp(ctx, sc, instrumentation.OperationCreate, err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create link: %v", err)), nil
	}

	if m := sc.Metrics(); m != nil {
		m.AddActiveLinks(ctx, 1)
	}

	result, _ := json.MarshalIndent(link, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Link created successfully:\n%s", string(result))), nil
}

func handleGetLink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	linkID, ok := args["linkId"].(string)
	if !ok || linkID == "" {
		return mcp.NewToolResultError("linkId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link, err := svc.Get(ctx, linkID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get link: %v", err)), nil
	}

	result, _ := json.MarshalIndent(link, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleUpdateLink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	linkID, ok := args["linkId"].(string)
	if !ok || linkID == "" {
		return mcp.NewToolResultError("linkId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link, err := svc.Update(ctx, linkID, optionalNotes(args))
	recordLinkOp(ctx, sc, instrumentation.OperationUpdate, err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update link: %v", err)), nil
	}

	result, _ := json.MarshalIndent(link, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Link updated successfully:\n%s", string(result))), nil
}

func handleDeleteLink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	linkID, ok := args["linkId"].(string)
	if !ok || linkID == "" {
		return mcp.NewToolResultError("linkId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, err = svc.DeleteByID(ctx, linkID)
	recordLinkOp(ctx, sc, instrumentation.OperationDelete, err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete link: %v", err)), nil
	}

	if m := sc.Metrics(); m != nil {
		m.AddActiveLinks(ctx, -1)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Link %s deleted successfully", linkID)), nil
}

func handleUnlink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	removed, err := svc.DeleteByPair(ctx, taskID, eventID)
	recordLinkOp(ctx, sc, instrumentation.OperationDelete, err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to unlink: %v", err)), nil
	}

	if m := sc.Metrics(); m != nil {
		m.AddActiveLinks(ctx, -1)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Link %s between task %s and event %s removed", removed.ID, taskID, eventID)), nil
}

func handleListLinks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := svc.List(ctx, links.ListOptions{
		TaskID:     optionalString(args, "taskId"),
		EventID:    optionalString(args, "eventId"),
		MaxResults: optionalInt(args, "maxResults"),
		PageToken:  optionalString(args, "pageToken"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list links: %v", err)), nil
	}

	result, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleGetTaskEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := svc.EventsForTask(ctx, taskID, optionalInt(args, "maxResults"), optionalString(args, "pageToken"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get events for task: %v", err)), nil
	}

	result, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleGetEventTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	svc, err := getLinkService(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := svc.TasksForEvent(ctx, eventID, optionalInt(args, "maxResults"), optionalString(args, "pageToken"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks for event: %v", err)), nil
	}

	result, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
