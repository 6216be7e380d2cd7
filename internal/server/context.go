package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tasklink/tasklink/internal/availability"
	"github.com/tasklink/tasklink/internal/calendar"
	"github.com/tasklink/tasklink/internal/instrumentation"
	"github.com/tasklink/tasklink/internal/links"
	"github.com/tasklink/tasklink/internal/tasks"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	tasksClients    map[string]*tasks.Client    // Maps account name to Tasks client
	calendarClients map[string]*calendar.Client // Maps account name to Calendar client
	registry        *links.Registry
	logger          *slog.Logger
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	mu              sync.RWMutex
	shutdown        bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, logger *slog.Logger) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	// Initialize client maps
	tasksClients := make(map[string]*tasks.Client)
	calendarClients := make(map[string]*calendar.Client)

	// Try to create default clients, but don't fail if the token is missing.
	// Clients will be lazily initialized when first needed.
	if tasks.HasToken() {
		tasksClient, err := tasks.NewClient(shutdownCtx)
		if err != nil {
			logger.Warn("failed to create Tasks client for default account", "error", err)
		} else {
			tasksClients["default"] = tasksClient
		}
	}
	if calendar.HasToken() {
		calendarClient, err := calendar.NewClient(shutdownCtx)
		if err != nil {
			logger.Warn("failed to create Calendar client for default account", "error", err)
		} else {
			calendarClients["default"] = calendarClient
		}
	}

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		tasksClients:    tasksClients,
		calendarClients: calendarClients,
		registry:        links.NewRegistry(),
		logger:          logger,
		shutdown:        false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetInstrumentation wires the metrics recorder and audit logger into the
// server context. Both may be nil when instrumentation is disabled.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auditLogger = auditLogger
}

// Metrics returns the metrics recorder, or nil if instrumentation is disabled
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil if instrumentation is disabled
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// Registry returns the shared task-event link registry.
// Links are held in memory only and do not survive a server restart.
func (sc *ServerContext) Registry() *links.Registry {
	return sc.registry
}

// TasksClientForAccount returns the Tasks client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) TasksClientForAccount(account string) *tasks.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.tasksClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !tasks.HasTokenForAccount(account) {
		return nil
	}

	client, err := tasks.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Tasks client", "account", account, "error", err)
		return nil
	}

	sc.tasksClients[account] = client
	return client
}

// TasksClient returns the Tasks client for the default account
func (sc *ServerContext) TasksClient() *tasks.Client {
	return sc.TasksClientForAccount("default")
}

// SetTasksClientForAccount sets the Tasks client for a specific account
func (sc *ServerContext) SetTasksClientForAccount(account string, client *tasks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tasksClients[account] = client
}

// SetTasksClient sets the Tasks client for the default account
func (sc *ServerContext) SetTasksClient(client *tasks.Client) {
	sc.SetTasksClientForAccount("default", client)
}

// CalendarClientForAccount returns the Calendar client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !calendar.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Calendar client", "account", account, "error", err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the Calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// SetCalendarClient sets the Calendar client for the default account
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.SetCalendarClientForAccount("default", client)
}

// LinkServiceForAccount returns a link service bound to the given account's
// Google clients. The registry behind it is shared across all accounts.
// Returns an error if the account has no usable Tasks or Calendar client.
func (sc *ServerContext) LinkServiceForAccount(account string) (*links.Service, error) {
	tasksClient := sc.TasksClientForAccount(account)
	if tasksClient == nil {
		return nil, fmt.Errorf("no Tasks client available for account %s", account)
	}
	calendarClient := sc.CalendarClientForAccount(account)
	if calendarClient == nil {
		return nil, fmt.Errorf("no Calendar client available for account %s", account)
	}

	taskGW := &taskGateway{client: tasksClient}
	eventGW := &eventGateway{client: calendarClient}
	return links.NewService(sc.registry, taskGW, eventGW, sc.logger), nil
}

// LinkService returns the link service for the default account
func (sc *ServerContext) LinkService() (*links.Service, error) {
	return sc.LinkServiceForAccount("default")
}

// AvailabilityEngineForAccount returns an availability engine bound to the
// given account's Calendar client.
// Returns an error if the account has no usable Calendar client.
func (sc *ServerContext) AvailabilityEngineForAccount(account string) (*availability.Engine, error) {
	calendarClient := sc.CalendarClientForAccount(account)
	if calendarClient == nil {
		return nil, fmt.Errorf("no Calendar client available for account %s", account)
	}
	return availability.NewEngine(calendarClient, sc.logger), nil
}

// AvailabilityEngine returns the availability engine for the default account
func (sc *ServerContext) AvailabilityEngine() (*availability.Engine, error) {
	return sc.AvailabilityEngineForAccount("default")
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
