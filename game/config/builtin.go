package config

import "github.com/wricardo/gearpuzzle/game/engine"

// DefaultLevelID is the level sessions use when none is requested
const DefaultLevelID = "builtin-001"

func start(id string, size engine.GearSize, x, y, speed float64) engine.FixedGear {
	return engine.FixedGear{ID: id, Role: engine.RoleStart, Size: size, Position: engine.Position{X: x, Y: y}, RotationSpeed: speed}
}

func goal(id string, size engine.GearSize, x, y float64, dir engine.RotationDirection) engine.FixedGear {
	return engine.FixedGear{ID: id, Role: engine.RoleGoal, Size: size, Position: engine.Position{X: x, Y: y}, RequiredDirection: dir}
}

func inventory(sizes ...engine.GearSize) []engine.InventoryItem {
	items := make([]engine.InventoryItem, len(sizes))
	for i, size := range sizes {
		items[i] = engine.InventoryItem{ID: inventoryID(i + 1), Size: size}
	}
	return items
}

// BuiltinLevels returns a fresh copy of the built-in level pool, in daily rotation order
func BuiltinLevels() []*engine.Level {
	return []*engine.Level{
		engine.DefaultLevel(),
		{
			ID:          "builtin-002",
			Name:        "Size Matters",
			Description: "Use different gear sizes to bridge the gap.",
			CreatedAt:   "2026-01-02",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Large, 150, 400, 0.6),
				goal("goal-1", engine.Small, 550, 400, engine.AnyDirection),
			},
			Inventory: inventory(engine.Medium, engine.Small),
		},
		{
			ID:          "builtin-003",
			Name:        "The Right Spin",
			Description: "The door gear must spin clockwise. Plan your chain carefully.",
			CreatedAt:   "2026-01-03",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Medium, 120, 300, 0.8),
				goal("goal-1", engine.Medium, 600, 300, engine.Clockwise),
			},
			Inventory: inventory(engine.Medium, engine.Medium, engine.Small),
		},
		{
			ID:          "builtin-004",
			Name:        "Double Doors",
			Description: "Two doors to open, both need to spin!",
			CreatedAt:   "2026-01-04",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Large, 200, 400, 0.6),
				goal("goal-1", engine.Small, 600, 250, engine.AnyDirection),
				goal("goal-2", engine.Small, 600, 550, engine.AnyDirection),
			},
			Inventory: inventory(engine.Medium, engine.Medium, engine.Small, engine.Small),
		},
		{
			ID:          "builtin-005",
			Name:        "The Long Chain",
			Description: "Bridge a long distance with what you have.",
			CreatedAt:   "2026-01-05",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Small, 100, 400, 1.0),
				goal("goal-1", engine.Large, 750, 400, engine.CounterClockwise),
			},
			Inventory: inventory(engine.Medium, engine.Large, engine.Medium, engine.Small),
		},
		{
			ID:          "builtin-006",
			Name:        "Crossroads",
			Description: "Two start gears, one goal. Choose your path.",
			CreatedAt:   "2026-01-06",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Medium, 120, 200, 0.8),
				start("start-2", engine.Medium, 120, 600, 0.8),
				goal("goal-1", engine.Large, 650, 400, engine.Clockwise),
			},
			Inventory: inventory(engine.Medium, engine.Small, engine.Medium),
		},
		{
			ID:          "builtin-007",
			Name:        "Tight Fit",
			Description: "Small spaces, big thinking.",
			CreatedAt:   "2026-01-07",
			FixedGears: []engine.FixedGear{
				start("start-1", engine.Small, 200, 350, 1.0),
				goal("goal-1", engine.Small, 500, 350, engine.AnyDirection),
			},
			Inventory: inventory(engine.Small, engine.Small, engine.Small),
		},
	}
}
