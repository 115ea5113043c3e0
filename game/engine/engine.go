package engine

import (
	"errors"
	"fmt"
)

var (
	ErrGearNotFound          = errors.New("gear not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrGearNotMovable        = errors.New("only positional gears can be moved or removed")
	ErrDuplicateGear         = errors.New("gear already on the board")
	ErrLevelSolved           = errors.New("level already solved, reset to play again")
	ErrInvalidPosition       = errors.New("invalid position")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Board state management
	GetState() *BoardState
	SetState(state *BoardState) error
	Reset() *BoardState
	IsVictory() bool
	GetGears() []Gear
	GetInventory() []InventoryItem
	GetGoals() []GoalStatus

	// Gear operations
	PlaceGear(inventoryID string, center Position, snap bool) (*ActionEntry, error)
	MoveGear(gearID string, center Position, snap bool) (*ActionEntry, error)
	RemoveGear(gearID string) (*ActionEntry, error)
	PreviewSnap(id string, center Position) (*SnapResult, error)

	// Level
	GetLevel() *Level
	SetLevel(level *Level) error

	// History
	GetActionHistory() []ActionEntry
	GetLastAction() *ActionEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state *BoardState
	level *Level
}

// NewEngine creates a new game engine for the provided level
func NewEngine(level *Level) (*GameEngine, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		level: level,
		state: InitBoardStateFromLevel(level),
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine playing the default level
func NewEngineWithDefaults() *GameEngine {
	level := DefaultLevel()
	return &GameEngine{
		level: level,
		state: InitBoardStateFromLevel(level),
	}
}

// GetState returns the current board state
func (e *GameEngine) GetState() *BoardState {
	return e.state
}

// SetState sets the board state (used for persistence loading).
// Derived fields are recomputed from the gear positions.
func (e *GameEngine) SetState(state *BoardState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	for _, g := range state.Gears {
		if !ValidSize(g.Size) {
			return fmt.Errorf("state contains gear '%s' with unknown size '%s'", g.ID, g.Size)
		}
	}
	state.Gears = Propagate(state.Gears)
	state.refresh()
	e.state = state
	return nil
}

// Reset puts the level back to its initial board
func (e *GameEngine) Reset() *BoardState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.ActionHistory
	prevTotal := e.state.TotalActions

	e.state = InitBoardStateFromLevel(e.level)

	// Restore cumulative history and totals; clear only the current segment
	e.state.ActionHistory = prevHistory
	e.state.TotalActions = prevTotal
	e.state.CurrentActions = []ActionEntry{}
	e.state.CurrentActionsCount = 0

	return e.state
}

// IsVictory returns whether every goal gear has been satisfied
func (e *GameEngine) IsVictory() bool {
	return e.state.Won
}

// GetGears returns the gears on the board
func (e *GameEngine) GetGears() []Gear {
	return e.state.Gears
}

// GetInventory returns the gears not yet placed
func (e *GameEngine) GetInventory() []InventoryItem {
	return e.state.Inventory
}

// GetGoals returns the status of each goal gear
func (e *GameEngine) GetGoals() []GoalStatus {
	return e.state.Goals
}

// PlaceGear places an inventory item on the board
func (e *GameEngine) PlaceGear(inventoryID string, center Position, snap bool) (*ActionEntry, error) {
	return e.state.PlaceGear(inventoryID, center, snap)
}

// MoveGear drags a placed positional gear to a new center
func (e *GameEngine) MoveGear(gearID string, center Position, snap bool) (*ActionEntry, error) {
	return e.state.MoveGear(gearID, center, snap)
}

// RemoveGear returns a placed positional gear to the inventory
func (e *GameEngine) RemoveGear(gearID string) (*ActionEntry, error) {
	return e.state.RemoveGear(gearID)
}

// PreviewSnap reports where a gear would snap without placing it
func (e *GameEngine) PreviewSnap(id string, center Position) (*SnapResult, error) {
	return e.state.PreviewSnap(id, center)
}

// GetLevel returns the level being played
func (e *GameEngine) GetLevel() *Level {
	return e.level
}

// SetLevel switches to a new level and resets the board
func (e *GameEngine) SetLevel(level *Level) error {
	if err := ValidateLevel(level); err != nil {
		return err
	}

	e.level = level
	e.state = InitBoardStateFromLevel(level)
	return nil
}

// GetActionHistory returns the complete action history
func (e *GameEngine) GetActionHistory() []ActionEntry {
	return e.state.ActionHistory
}

// GetLastAction returns the last action made, or nil if none
func (e *GameEngine) GetLastAction() *ActionEntry {
	if len(e.state.ActionHistory) == 0 {
		return nil
	}
	return &e.state.ActionHistory[len(e.state.ActionHistory)-1]
}
