// Package monitoring provides Prometheus metrics for the document engine:
// resolution passes and durations, action executions by type and status,
// state mutations, transport requests, renderer WebSocket connections, and
// the number of live document instances.
package monitoring
