// Package ws streams browser controller events over WebSocket.
//
// On connect the server sends a status frame with the current table, then
// one frame per controller event (launched, terminated, exited, retracted,
// reset). Frames are JSON.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - status: Request a fresh status frame
//
// Message Types (Server → Client):
//   - status: Table snapshot
//   - event: Controller event
//   - pong: Reply to ping
//   - error: Unknown request
//
// Example Usage:
//
//	handler := ws.NewHandler(hub, controller, logger)
//	router.GET("/api/events", handler.HandleConnection)
package ws
