// Command server runs the lumen document host: it accepts declarative UI
// documents over HTTP, resolves them into render trees, and streams the
// trees to connected renderers over WebSocket.
package main
