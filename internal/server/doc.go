// Package server exposes the document host HTTP API.
//
// Routes:
//   - POST   /documents          upload a document (JSON or YAML, optionally gzipped) and open an instance
//   - GET    /documents          list live instances
//   - GET    /documents/:id/tree fetch the current resolved render tree
//   - POST   /documents/:id/events dispatch a node event into the action runtime
//   - DELETE /documents/:id      close an instance
//   - GET    /stream             WebSocket renderer stream (?document=<instance-id>)
//   - GET    /health             liveness probe
//   - GET    /metrics            Prometheus exposition
package server
