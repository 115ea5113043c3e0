// Package engine provides the gear simulation core for the Gear Puzzle game.
//
// The engine package implements the game mechanics including:
//   - Gear geometry (per-size dimensions, centers, ideal mesh distance)
//   - Mesh detection between placed gears
//   - Rotation propagation with locked-gear conflict detection
//   - Snap placement while dragging
//   - Win evaluation against goal gear requirements
//   - Level validation and loading
//
// Core Types:
//
// Gear is the unit of simulation. Propagate, FindSnapTarget, CheckWin and
// InitializeStartDefaults are pure functions over a slice of gears; each
// Propagate call returns a complete new snapshot that replaces the old one.
// The Engine interface, implemented by GameEngine, wraps those functions
// into a stateful session board (BoardState) with an inventory and history.
//
// Usage:
//
//	level, err := engine.LoadLevel("levels/first_steps.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop the inventory gear next to the start gear
//	_, err = gameEngine.PlaceGear("inv-1", engine.Position{X: 360, Y: 470}, true)
//	won := gameEngine.IsVictory()
//
// Game Rules:
//
// Start gears turn on their own. Meshed gears turn in opposite directions at a
// speed scaled by the inverse tooth ratio. When two mesh paths disagree on a
// gear's direction the gear locks and stops. The level is solved when every
// goal gear spins, in its required direction when it has one.
package engine
