package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tasklink/tasklink/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	// Point the token cache at an empty directory so no real tokens are
	// picked up from the machine running the tests
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := server.NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterAllToolsReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	mcpSrv := mcpserver.NewMCPServer("tasklink", "test")

	if err := registerAllTools(mcpSrv, sc, true); err != nil {
		t.Fatalf("registerAllTools(readOnly=true) error = %v", err)
	}

	if len(mcpSrv.ListTools()) == 0 {
		t.Error("Expected tools to be registered")
	}
}

func TestRegisterAllToolsWriteMode(t *testing.T) {
	sc := newTestServerContext(t)
	mcpSrv := mcpserver.NewMCPServer("tasklink", "test")

	if err := registerAllTools(mcpSrv, sc, false); err != nil {
		t.Fatalf("registerAllTools(readOnly=false) error = %v", err)
	}

	readOnlySrv := mcpserver.NewMCPServer("tasklink", "test")
	if err := registerAllTools(readOnlySrv, newTestServerContext(t), true); err != nil {
		t.Fatalf("registerAllTools(readOnly=true) error = %v", err)
	}

	// Write mode must expose strictly more tools than read-only mode
	if len(mcpSrv.ListTools()) <= len(readOnlySrv.ListTools()) {
		t.Errorf("Expected write mode to register more tools: write=%d readOnly=%d",
			len(mcpSrv.ListTools()), len(readOnlySrv.ListTools()))
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		tool     string
		expected string
	}{
		{"links_create", "Task-Event Link Tools"},
		{"calendar_find_free_time", "Google Calendar Tools"},
		{"tasks_list_tasks", "Google Tasks Tools"},
		{"google_get_auth_url", "Google OAuth Tools"},
		{"unknown_tool", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.tool); got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.tool, got, tt.expected)
			}
		})
	}
}
