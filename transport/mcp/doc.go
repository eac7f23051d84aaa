// Package mcp exposes faction merge to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes one or two REST calls
// against the api package, and the JSON answers are rendered as plain text
// an agent can read. The package never touches game state directly.
//
// MCP Tools:
//   - create_session: new session, optional config_id and seed
//   - list_sessions, get_session: inspect sessions
//   - game_state: board with row/column headers, score and possible moves
//   - move, bulk_move: slide tiles; both accept an optional reset
//   - reset_game: fresh board in the same session
//   - hint: greedy suggestion for the next move
//   - list_configs: glyph themes
//   - game_instructions: full rules text
//   - describe_cell: one cell, its glyph and which neighbours it can merge with
//
// Transport Modes:
//
// The same MCPServer is served two ways by the main package: over stdio for
// local agents, and as JSON-RPC on the /mcp HTTP route of the game server.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
