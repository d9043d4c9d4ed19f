// Package api provides the HTTP REST API for Logjam.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"config_id": "riverbank"}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - POST /api/sessions/{id}/move - Body {"direction": "left", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - Body {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset - Restore the initial layout
//   - GET /api/sessions/{id}/state - Rendered rows, player and logs
//   - GET /api/sessions/{id}/history - Paged moves (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/frame - Interpolated draw state for renderers
//   - GET /api/sessions/{id}/cells/{x}/{y} - Terrain and occupants of one cell
//   - GET /api/sessions/{id}/ws - WebSocket frame stream and input channel
//
// Configuration:
//   - GET /api/configs - List levels
//   - GET /api/configs/{name} - Get one level
//   - POST /api/configs - Save a level, body {"config_id": "mine", "config": {...}}
//
// Errors are JSON objects of the form {"error": "message"}. Unknown sessions
// and levels map to 404, bad directions and invalid levels to 400.
//
// Move responses carry the resolver outcome (for example "knock_round_log" or
// "blocked_rock"), whether the player committed to the target cell, and the
// log relocation a push caused. A push moves only the log:
//
//	{
//	  "success": false,
//	  "allowed": false,
//	  "outcome": "knock_round_log",
//	  "from": {"x": 1, "y": 0},
//	  "to": {"x": 1, "y": 0},
//	  "log": {"from": {"x": 2, "y": 0}, "to": {"x": 3, "y": 0}, "orientation": "horizontal"},
//	  "message": "Pushed the log right from (2,0) to (3,0), now horizontal"
//	}
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.WithStaticDir("static"))
//	http.ListenAndServe(":8080", server)
package api
