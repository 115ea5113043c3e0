// Package session provides session management for the Gear Puzzle game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - JSON file persistence of boards across restarts
//   - Session cleanup and expiration
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive.
//
// Persistence:
//
// FilePersistence writes one <id>.json file per session holding the level id,
// a copy of the level and the board state. On load the level is resolved
// through the level manager, falling back to the stored copy, and the board
// is re-propagated.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", levelManager)
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", levelManager.GetDefault())
//	if err != nil {
//		log.Fatal(err)
//	}
package session
