package service

import (
	"context"
	"time"

	"github.com/wricardo/gearpuzzle/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Gear Operations
	PlaceGear(ctx context.Context, sessionID, inventoryID string, center engine.Position, snap bool) (*ActionResult, error)
	MoveGear(ctx context.Context, sessionID, gearID string, center engine.Position, snap bool) (*ActionResult, error)
	RemoveGear(ctx context.Context, sessionID, gearID string) (*ActionResult, error)
	PreviewSnap(ctx context.Context, sessionID, id string, center engine.Position) (*engine.SnapResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.BoardState, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// Board State
	GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Leaderboard
	SubmitSolve(ctx context.Context, sessionID, player string) (*SubmitResult, error)
	GetLeaderboard(ctx context.Context, levelID string) ([]LeaderboardEntry, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*engine.Level, error)
	SaveLevel(ctx context.Context, level *engine.Level) (*engine.Level, error)
	DeleteLevel(ctx context.Context, levelID string) error
	DailyLevel(ctx context.Context) (*engine.Level, error)

	// Stateless simulation
	Simulate(ctx context.Context, gears []engine.Gear) (*SimulationResult, error)
	FindSnap(ctx context.Context, query SnapQuery) (*engine.SnapResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *engine.Level) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, level *engine.Level) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level loading and storage
type LevelManager interface {
	LoadLevel(id string) (*engine.Level, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.Level
	SaveLevel(level *engine.Level) (*engine.Level, error)
	DeleteLevel(id string) error
	DailyLevel(t time.Time) *engine.Level
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Level          *engine.Level
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
