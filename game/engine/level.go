package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidateLevel validates a level definition for correctness and playability
func ValidateLevel(level *Level) error {
	if level == nil {
		return fmt.Errorf("level validation: level is nil")
	}
	if strings.TrimSpace(level.Name) == "" {
		return fmt.Errorf("level validation: name is required")
	}

	seen := make(map[string]bool, len(level.FixedGears)+len(level.Inventory))
	starts, goals := 0, 0

	for i, fg := range level.FixedGears {
		if fg.ID == "" {
			return fmt.Errorf("level validation: fixed gear %d has no id", i+1)
		}
		if seen[fg.ID] {
			return fmt.Errorf("level validation: duplicate gear id '%s'", fg.ID)
		}
		seen[fg.ID] = true

		if !ValidSize(fg.Size) {
			return fmt.Errorf("level validation: gear '%s' has unknown size '%s'", fg.ID, fg.Size)
		}
		if !finite(fg.Position) {
			return fmt.Errorf("level validation: gear '%s' has a non-finite position", fg.ID)
		}

		switch fg.Role {
		case RoleStart:
			starts++
			if fg.RequiredDirection != "" {
				return fmt.Errorf("level validation: start gear '%s' cannot require a direction", fg.ID)
			}
		case RoleGoal:
			goals++
			switch fg.RequiredDirection {
			case "", Clockwise, CounterClockwise, AnyDirection:
			default:
				return fmt.Errorf("level validation: goal gear '%s' has invalid required direction '%s'", fg.ID, fg.RequiredDirection)
			}
		default:
			return fmt.Errorf("level validation: fixed gear '%s' must be a start or goal gear, got '%s'", fg.ID, fg.Role)
		}
	}

	if starts == 0 {
		return fmt.Errorf("level validation: at least one start gear is required")
	}
	if goals == 0 {
		return fmt.Errorf("level validation: at least one goal gear is required")
	}
	if starts > MaxStartGears {
		return fmt.Errorf("level validation: at most %d start gears allowed, got %d", MaxStartGears, starts)
	}
	if goals > MaxGoalGears {
		return fmt.Errorf("level validation: at most %d goal gears allowed, got %d", MaxGoalGears, goals)
	}

	if len(level.Inventory) > MaxInventorySize {
		return fmt.Errorf("level validation: at most %d inventory gears allowed, got %d", MaxInventorySize, len(level.Inventory))
	}
	for i, item := range level.Inventory {
		if item.ID == "" {
			return fmt.Errorf("level validation: inventory item %d has no id", i+1)
		}
		if seen[item.ID] {
			return fmt.Errorf("level validation: duplicate gear id '%s'", item.ID)
		}
		seen[item.ID] = true
		if !ValidSize(item.Size) {
			return fmt.Errorf("level validation: inventory item '%s' has unknown size '%s'", item.ID, item.Size)
		}
	}

	return nil
}

// LoadLevel loads a level definition from a JSON file
func LoadLevel(filename string) (*Level, error) {
	// Support LEVEL_DIR environment variable for alternative level directory
	levelPath := filename
	if levelDir := os.Getenv("LEVEL_DIR"); levelDir != "" {
		if strings.HasPrefix(filename, "levels/") {
			levelPath = filepath.Join(levelDir, strings.TrimPrefix(filename, "levels/"))
		}
	}

	data, err := os.ReadFile(levelPath)
	if err != nil {
		return nil, err
	}

	var level Level
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filename, err)
	}

	if err := ValidateLevel(&level); err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", filename, err)
	}

	return &level, nil
}

// GearsFromLevel builds the initial board gears of a level (fixed gears only)
func GearsFromLevel(level *Level) []Gear {
	gears := make([]Gear, 0, len(level.FixedGears))
	for _, fg := range level.FixedGears {
		gears = append(gears, Gear{
			ID:                fg.ID,
			Role:              fg.Role,
			Size:              fg.Size,
			Position:          fg.Position,
			RotationSpeed:     fg.RotationSpeed,
			MeshedWith:        []string{},
			RequiredDirection: fg.RequiredDirection,
		})
	}
	return gears
}

// InitBoardStateFromLevel creates a fresh, propagated board for a level
func InitBoardStateFromLevel(level *Level) *BoardState {
	if level == nil {
		level = DefaultLevel()
	}

	gears := Propagate(InitializeStartDefaults(GearsFromLevel(level)))
	inventory := append([]InventoryItem{}, level.Inventory...)

	state := &BoardState{
		LevelID:             level.ID,
		LevelName:           level.Name,
		Gears:               gears,
		Inventory:           inventory,
		StartedAt:           time.Now(),
		ActionHistory:       []ActionEntry{},
		CurrentActions:      []ActionEntry{},
		CurrentActionsCount: 0,
	}
	state.updateWin(state.StartedAt)

	return state
}

// DefaultLevel returns the introductory level used when none is configured
func DefaultLevel() *Level {
	return &Level{
		ID:          "builtin-001",
		Name:        "First Steps",
		Description: "Connect the start gear to the door. Simple and direct.",
		CreatedAt:   "2026-01-01",
		FixedGears: []FixedGear{
			{ID: "start-1", Role: RoleStart, Size: Medium, Position: Position{X: 150, Y: 400}, RotationSpeed: 0.8},
			{ID: "goal-1", Role: RoleGoal, Size: Medium, Position: Position{X: 430, Y: 400}, RequiredDirection: AnyDirection},
		},
		Inventory: []InventoryItem{{ID: "inv-1", Size: Medium}},
	}
}
