// Package api provides the HTTP REST API for faction merge sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions              - create a session; body {config_id, seed}
//   - GET    /api/sessions              - list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         - session details
//   - DELETE /api/sessions/{id}         - remove a session
//
// Game operations:
//   - GET  /api/sessions/{id}/state     - current state with board rows
//   - POST /api/sessions/{id}/move      - body {direction, reset}
//   - POST /api/sessions/{id}/bulk-move - body {moves, reset}; at most 50 moves
//   - POST /api/sessions/{id}/reset     - fresh board from the same random stream
//   - GET  /api/sessions/{id}/hint      - greedy suggestion for the next move
//
// Themes:
//   - GET /api/configs                  - list glyph themes
//   - GET /api/configs/{name}           - one theme (".json" suffix optional)
//
// Other:
//   - GET /api/health                   - liveness probe
//   - GET /ws?session={id}              - WebSocket feed of state_update messages
//
// Errors:
//
// Failures are returned as {"error": "..."}. Unknown sessions and themes map
// to 404, bad directions and malformed bodies to 400, and asking for a hint
// on a finished game to 409.
//
// Every successful move, bulk move and reset is pushed to WebSocket watchers
// of the session, followed by a victory or game_over event when the game has
// just ended. Moves are also logged to stdout as single [MOVE] and [BULK]
// lines.
package api
