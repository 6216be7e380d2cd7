// Package server provides the MCP server context and the operational HTTP
// endpoints for the tasklink application.
//
// # Key Components
//
// ServerContext manages Google API clients with lazy initialization and
// caching, supports multiple accounts, and owns the shared in-memory
// task-event link registry. Link services and availability engines are
// constructed on demand, bound to a specific account's clients.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from MCP traffic.
//
// HealthChecker exposes /healthz and /readyz endpoints for Kubernetes
// liveness and readiness probes.
package server
