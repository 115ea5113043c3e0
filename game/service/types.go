package service

import (
	"time"

	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/solver"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	LevelID        string             `json:"level_id"`
	LevelName      string             `json:"level_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	BoardState     *engine.BoardState `json:"board_state"`
	Level          *engine.Level      `json:"level"`
}

// ActionResult contains the result of a gear operation
type ActionResult struct {
	Success    bool                `json:"success"`
	BoardState *engine.BoardState  `json:"board_state"`
	Message    string              `json:"message"`
	Action     *engine.ActionEntry `json:"action,omitempty"`
	Events     []GameEvent         `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string    `json:"type"` // "place", "move", "remove", "snap", "locked", "goal_satisfied", "victory", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	GearID    string    `json:"gear_id,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionEntry `json:"actions"`
	TotalActions int                  `json:"total_actions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalPages   int                  `json:"total_pages"`
	HasNext      bool                 `json:"has_next"`
	HasPrevious  bool                 `json:"has_previous"`
}

// LevelInfo summarizes a level for listings
type LevelInfo struct {
	ID            string `json:"id"` // The identifier to use for session creation
	Name          string `json:"name"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
	Builtin       bool   `json:"builtin"`
	StartGears    int    `json:"start_gears"`
	GoalGears     int    `json:"goal_gears"`
	InventorySize int    `json:"inventory_size"`
}

// LeaderboardEntry is one player's first solve of a level
type LeaderboardEntry struct {
	Player   string    `json:"player"`
	TimeMs   int64     `json:"time_ms"`
	Actions  int       `json:"actions"`
	SolvedAt time.Time `json:"solved_at"`
}

// SubmitResult is returned after submitting a solve to a leaderboard
type SubmitResult struct {
	Status      string             `json:"status"` // "success" or "already_solved"
	Rank        int                `json:"rank,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// HintResult suggests the next placement toward a solution
type HintResult struct {
	Next      *solver.Placement `json:"next,omitempty"`
	Remaining int               `json:"remaining"`
	Nodes     int               `json:"nodes"`
	Message   string            `json:"message"`
}

// SimulationResult is a propagated board with its win evaluation
type SimulationResult struct {
	Gears  []engine.Gear       `json:"gears"`
	Meshes []engine.MeshPair   `json:"meshes"`
	Goals  []engine.GoalStatus `json:"goals"`
	Won    bool                `json:"won"`
	Locked int                 `json:"locked"`
}

// SnapQuery asks where a dragged gear would snap on a given board
type SnapQuery struct {
	Center    engine.Position `json:"center"`
	Size      engine.GearSize `json:"size"`
	ExcludeID string          `json:"exclude_id"`
	Gears     []engine.Gear   `json:"gears"`
	Tolerance float64         `json:"tolerance,omitempty"`
}
