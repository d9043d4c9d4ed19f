// Package mcp exposes Logjam to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API in package api, and the JSON reply is formatted as plain text for
// the agent. Running the API and the MCP server as separate processes keeps a
// single source of truth for sessions.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state: rendered rows, player position and every log
//   - move, bulk_move: walk or push; both accept an optional intent
//   - reset_game, move_history
//   - describe_cell: terrain markers and occupants of one cell
//   - list_configs, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST JSON-RPC bodies to /mcp on the game server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
