// Package service provides the business logic layer for the Gear Puzzle game.
//
// The service package implements:
//   - Multi-session board management
//   - Level loading, saving and the daily puzzle
//   - Gear placement, dragging and removal
//   - Per-level leaderboards
//   - Solver-backed hints
//   - Stateless board simulation for clients that keep their own state
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads, validates and stores level definitions.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine.GameEngine; the service
// serializes mutations with a single lock and persists the session after
// every change.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	info, err := gameService.CreateSession(ctx, "builtin-003")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PlaceGear(ctx, info.ID, "inv-1", engine.Position{X: 360, Y: 470}, true)
package service
