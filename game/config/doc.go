// Package config manages the puzzle levels of the Gear Puzzle game.
//
// The config package handles:
//   - The built-in level pool and the daily level rotation
//   - Loading custom levels from JSON files
//   - Saving and deleting custom levels created in the editor
//   - Default level management
//
// Level Format:
//
// Levels are stored as <id>.json in the level directory:
//
//	{
//	  "id": "my-level",
//	  "name": "My Level",
//	  "createdAt": "2026-01-01",
//	  "fixedGears": [
//	    {"id": "start-1", "role": "start", "size": "medium", "position": {"x": 150, "y": 400}, "rotationSpeed": 0.8},
//	    {"id": "goal-1", "role": "goal", "size": "medium", "position": {"x": 430, "y": 400}, "requiredDirection": "cw"}
//	  ],
//	  "inventory": [{"id": "inv-1", "size": "medium"}]
//	}
//
// Built-in levels use the ids builtin-001 through builtin-007 and cannot be
// overwritten or deleted.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("builtin-003")
//	daily := manager.DailyLevel(time.Now())
package config
