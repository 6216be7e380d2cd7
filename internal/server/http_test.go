package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func newTestHTTPServer() *HTTPServer {
	mcpSrv := mcpserver.NewMCPServer("test-server", "0.0.1")
	return NewHTTPServer(mcpSrv, false)
}

func TestHTTPServerHealthEndpoints(t *testing.T) {
	srv := newTestHTTPServer()
	srv.SetHealthChecker(NewHealthChecker(nil))
	handler := srv.Handler()

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestHTTPServerReadinessReflectsReadyState(t *testing.T) {
	srv := newTestHTTPServer()
	hc := NewHealthChecker(nil)
	hc.SetReady(false)
	srv.SetHealthChecker(hc)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHTTPServerWithoutHealthChecker(t *testing.T) {
	srv := newTestHTTPServer()
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /healthz without health checker = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStatusRecorderCapturesCode(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	sr.WriteHeader(http.StatusTeapot)

	if sr.status != http.StatusTeapot {
		t.Errorf("statusRecorder.status = %d, want %d", sr.status, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("underlying recorder code = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
