// Package websocket pushes live game updates to browser and tool clients.
//
// A central Hub keeps the set of connected clients per session. Each
// connection gets a read pump (which only keeps the connection alive) and a
// write pump that forwards queued messages and sends pings.
//
// Message Protocol:
//
// Every outgoing frame is one JSON Message:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// BroadcastToSession sends state_update messages after each move, bulk move
// or reset. BroadcastEvent carries free-form events such as victory or
// game_over in the data field. Clients never send commands over the socket.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// The sessions map belongs to the Run goroutine. Register, unregister,
// broadcast and client counts all travel over channels, so any goroutine may
// call the exported methods. Messages are encoded by the caller, so a state
// can be changed again as soon as BroadcastToSession returns. A client whose
// buffer is full is disconnected rather than blocking the hub.
package websocket
