// Package api provides HTTP REST API handlers for the Gear Puzzle server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": "..."}, default level when empty)
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit)
//   - GET /api/sessions/unified - Multi-session view (sessionIds=a,b or levelId=...)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Gear Operations:
//   - GET /api/sessions/{id}/state - Current board state
//   - POST /api/sessions/{id}/gears - Place an inventory gear ({"inventory_id", "x", "y", "snap"})
//   - PUT /api/sessions/{id}/gears/{gearId} - Drag a placed gear ({"x", "y", "snap"})
//   - DELETE /api/sessions/{id}/gears/{gearId} - Return a gear to the inventory
//   - POST /api/sessions/{id}/snap - Preview the snap target for a drag
//   - POST /api/sessions/{id}/reset - Restore the level's initial board
//   - GET /api/sessions/{id}/history - Action history (page, limit, order)
//   - GET /api/sessions/{id}/hint - Next placement toward a solution
//   - POST /api/sessions/{id}/solve - Submit a solved board ({"player": "..."})
//
// Levels:
//   - GET /api/levels - List built-in and saved levels
//   - POST /api/levels - Save a level
//   - GET /api/levels/daily - Level of the day
//   - GET /api/levels/{id} - Get a level
//   - DELETE /api/levels/{id} - Delete a saved level
//   - GET /api/levels/{id}/leaderboard - Solve times for a level
//
// Stateless Engine:
//   - POST /api/engine/propagate - Propagate an arbitrary board ({"gears": [...]})
//   - POST /api/engine/snap - Snap target on an arbitrary board
//
// Coordinates in requests are gear centers; gear positions in responses are
// top-left corners. Snapping is on unless "snap": false is sent.
//
// Every change to a session board is pushed to WebSocket clients of that
// session (GET /ws?session={id}).
//
// Error Handling:
//
// Errors are returned as JSON with a status matching the failure: 400 for
// invalid input, 404 for unknown sessions, levels, gears or inventory items,
// 409 for actions on a solved board and other conflicts.
//
//	{
//	  "error": "error message"
//	}
package api
