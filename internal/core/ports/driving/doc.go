// Package driving declares the services the REST API, CLI, MCP server, TUI
// and import watcher call into. Every tenant-scoped method takes the tenant
// ID first; services in internal/core/services implement them.
package driving
