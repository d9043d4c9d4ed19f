// Package websocket streams Logjam frames to browser clients.
//
// A central Hub tracks connections per session. Each connection runs a read
// and a write goroutine; the hub goroutine owns registration and fan-out.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "frame", "frame": {...}}
//	{"session_id": "ab12", "event": "error", "data": "invalid direction"}
//
// Incoming messages are inputs handed to the hub's InputHandler:
//
//	{"type": "move", "direction": "up"}
//	{"type": "reset"}
//
// Clients pick their session with the URL, e.g. /api/sessions/ab12/ws.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetInputHandler(handleInput)
//	go hub.Run(ctx)
//
//	// Hub implements service.FrameSink
//	go service.RunFrameLoop(ctx, gameService, service.FrameInterval(60), hub)
//
// BroadcastFrame never blocks the frame loop: when the hub falls behind, frames
// are dropped, and a client whose queue is full is disconnected.
package websocket
