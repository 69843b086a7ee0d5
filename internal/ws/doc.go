// Package ws streams engine output to renderer collaborators over
// WebSocket.
//
// A renderer connects to /stream?document=<instance-id> and receives a
// frame for every resolution pass, plus presentation intents from the
// action runtime. It reports user interactions back as event frames that
// feed the instance's action queue.
//
// Frame Types (Server → Renderer):
//   - tree: a fresh fully-resolved render tree
//   - intent: a showAlert/dismiss/navigate presentation intent
//   - error: a dispatch error
//   - pong: keep-alive reply
//
// Frame Types (Renderer → Server):
//   - event: {node, event} user interaction on a resolved node
//   - ping: keep-alive
package ws
