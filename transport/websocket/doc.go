// Package websocket provides WebSocket transport for the Gear Puzzle game.
//
// The package uses a hub-and-spoke model where a central Hub tracks the
// clients watching each session. Each connection gets a read and a write
// goroutine; slow clients whose buffer fills up are dropped.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//   - {"session_id": "ab12", "event": "state_update", "board_state": {...}} after every board change
//   - {"session_id": "ab12", "event": "victory", "data": {...}} for game events
//
// Incoming messages are ignored; clients act through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
