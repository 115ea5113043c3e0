package engine

import "time"

// GearSize represents one of the fixed gear sizes
type GearSize string

const (
	Small      GearSize = "small"
	Medium     GearSize = "medium"
	Large      GearSize = "large"
	ExtraLarge GearSize = "extraLarge"
)

// GearRole determines whether a gear drives, relays, or must be driven
type GearRole string

const (
	RoleStart      GearRole = "start"
	RolePositional GearRole = "positional"
	RoleGoal       GearRole = "goal"
)

// RotationDirection is the spin a goal gear requires
type RotationDirection string

const (
	Clockwise        RotationDirection = "cw"
	CounterClockwise RotationDirection = "ccw"
	AnyDirection     RotationDirection = "any"
)

const (
	// MeshTolerance is how close (px) two gears must be to their ideal mesh distance to engage
	MeshTolerance = 8.0

	// SnapTolerance is how close (px) a dragged gear must be to a mesh point to snap
	SnapTolerance = 40.0

	// BaseRotationSpeed is the default start gear speed in degrees per tick
	BaseRotationSpeed = 0.8

	BoardWidth  = 1200
	BoardHeight = 800

	// Validation constants
	MaxStartGears    = 5
	MaxGoalGears     = 2
	MaxInventorySize = 20
)

// GearDimension holds the static measurements of a gear size
type GearDimension struct {
	OuterRadius float64 `json:"outer_radius"` // base radius + tooth depth
	BaseRadius  float64 `json:"base_radius"`
	Teeth       int     `json:"teeth"`
	ToothDepth  float64 `json:"tooth_depth"`
	ToothWidth  float64 `json:"tooth_width"`
}

// Position represents x,y board coordinates in pixels
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gear is a gear placed on the board.
//
// Position is the top-left corner of the gear's bounding square. RotationSpeed,
// MeshedWith and Locked are recomputed by Propagate; on a start gear
// RotationSpeed is the configured motion source instead.
type Gear struct {
	ID                string            `json:"id"`
	Role              GearRole          `json:"role"`
	Size              GearSize          `json:"size"`
	Position          Position          `json:"position"`
	Angle             float64           `json:"angle"`
	RotationSpeed     float64           `json:"rotationSpeed"`
	MeshedWith        []string          `json:"meshedWith"`
	Locked            bool              `json:"locked,omitempty"`
	RequiredDirection RotationDirection `json:"requiredDirection,omitempty"`
}

// InventoryItem is a gear the player has not placed yet
type InventoryItem struct {
	ID   string   `json:"id"`
	Size GearSize `json:"size"`
}

// FixedGear is a start or goal gear defined by a level
type FixedGear struct {
	ID                string            `json:"id"`
	Role              GearRole          `json:"role"`
	Size              GearSize          `json:"size"`
	Position          Position          `json:"position"`
	RotationSpeed     float64           `json:"rotationSpeed"`
	RequiredDirection RotationDirection `json:"requiredDirection,omitempty"`
}

// Level represents a puzzle definition as persisted and transmitted
type Level struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	FixedGears  []FixedGear     `json:"fixedGears"`
	Inventory   []InventoryItem `json:"inventory"`
}

// MeshPair is an unordered pair of engaged gears
type MeshPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// SnapResult is the exact center a dragged gear should take to mesh with AnchorID
type SnapResult struct {
	Position Position `json:"position"`
	AnchorID string   `json:"anchorId"`
}

// GoalStatus reports whether a single goal gear is satisfied
type GoalStatus struct {
	GearID            string            `json:"gear_id"`
	RequiredDirection RotationDirection `json:"required_direction"`
	RotationSpeed     float64           `json:"rotation_speed"`
	Locked            bool              `json:"locked,omitempty"`
	Satisfied         bool              `json:"satisfied"`
	Reason            string            `json:"reason"`
}

// BoardState represents the complete state of a puzzle session
type BoardState struct {
	LevelID   string          `json:"level_id"`
	LevelName string          `json:"level_name"`
	Gears     []Gear          `json:"gears"`
	Inventory []InventoryItem `json:"inventory"`
	Goals     []GoalStatus    `json:"goals"`
	Won       bool            `json:"won"`
	Message   string          `json:"message"`
	StartedAt time.Time       `json:"started_at"`
	SolvedAt  *time.Time      `json:"solved_at,omitempty"`
	ElapsedMs int64           `json:"elapsed_ms,omitempty"`

	ActionHistory []ActionEntry `json:"action_history"`
	TotalActions  int           `json:"total_actions"`

	// CurrentActions tracks only the actions since the last reset, while
	// ActionHistory stays cumulative.
	CurrentActions      []ActionEntry `json:"current_actions"`
	CurrentActionsCount int           `json:"current_actions_count"`

	LockedCount int `json:"locked_count"`
}

// ActionEntry represents a single player action in the session history
type ActionEntry struct {
	Action       string    `json:"action"` // "place", "move", "remove"
	GearID       string    `json:"gear_id"`
	Size         GearSize  `json:"size,omitempty"`
	From         *Position `json:"from,omitempty"`
	To           *Position `json:"to,omitempty"`
	Snapped      bool      `json:"snapped,omitempty"`
	AnchorID     string    `json:"anchor_id,omitempty"`
	Won          bool      `json:"won,omitempty"`
	Timestamp    int64     `json:"timestamp"`
	ActionNumber int       `json:"action_number"`
}
