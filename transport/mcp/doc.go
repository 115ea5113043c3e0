// Package mcp exposes the Gear Puzzle REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against a running server, and the JSON responses are rendered as
// plain text for the agent.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - board_state: gears with centers, speeds and meshes, goal status, inventory
//   - place_gear, move_gear, remove_gear: board edits (snap on by default)
//   - preview_snap: snap target for a drop without changing the board
//   - reset_board, action_history
//   - hint: next placement found by the solver
//   - list_levels, submit_solve, leaderboard
//   - game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
