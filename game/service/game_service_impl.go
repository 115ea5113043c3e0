package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/solver"
)

var (
	ErrNotSolved     = errors.New("session has not solved its level")
	ErrInvalidPlayer = errors.New("player name is required")
	ErrInvalidBoard  = errors.New("invalid board")
)

const (
	maxPlayerNameLength = 32
	hintTimeout         = 3 * time.Second
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	levels      LevelManager
	leaderboard *Leaderboard
	hints       *solver.Solver
	mu          sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions:    sessions,
		levels:      levels,
		leaderboard: NewLeaderboard(),
		hints:       solver.New(solver.Options{}),
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.Level.ID,
		LevelName:      sess.Level.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		BoardState:     sess.Engine.GetState().Clone(),
		Level:          sess.Level,
	}
}

// CreateSession creates a new game session playing levelID, or the default level
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.Level
	var err error
	if levelID != "" {
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			// Provide helpful error message with available options
			if available, listErr := s.levels.ListLevels(); listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, l := range available {
					ids = append(ids, l.ID)
				}
				return nil, fmt.Errorf("level '%s': %w. Available levels: %v", levelID, err, ids)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
		}
	} else {
		level = s.levels.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// PlaceGear puts an inventory gear on the board
func (s *gameServiceImpl) PlaceGear(ctx context.Context, sessionID, inventoryID string, center engine.Position, snap bool) (*ActionResult, error) {
	return s.mutate(sessionID, func(e *engine.GameEngine) (*engine.ActionEntry, error) {
		return e.PlaceGear(inventoryID, center, snap)
	})
}

// MoveGear drags a placed gear to a new center
func (s *gameServiceImpl) MoveGear(ctx context.Context, sessionID, gearID string, center engine.Position, snap bool) (*ActionResult, error) {
	return s.mutate(sessionID, func(e *engine.GameEngine) (*engine.ActionEntry, error) {
		return e.MoveGear(gearID, center, snap)
	})
}

// RemoveGear returns a placed gear to the inventory
func (s *gameServiceImpl) RemoveGear(ctx context.Context, sessionID, gearID string) (*ActionResult, error) {
	return s.mutate(sessionID, func(e *engine.GameEngine) (*engine.ActionEntry, error) {
		return e.RemoveGear(gearID)
	})
}

// mutate runs a gear operation against a session and persists the result
func (s *gameServiceImpl) mutate(sessionID string, op func(*engine.GameEngine) (*engine.ActionEntry, error)) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	before := satisfiedGoals(sess.Engine.GetGoals())
	entry, err := op(sess.Engine)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.GetState().Clone()

	result := &ActionResult{
		Success:    true,
		BoardState: state,
		Message:    state.Message,
		Action:     entry,
		Events:     extractActionEvents(entry, before, state),
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, entry.Action, err)
	}

	return result, nil
}

// PreviewSnap reports where a gear would snap without changing the board
func (s *gameServiceImpl) PreviewSnap(ctx context.Context, sessionID, id string, center engine.Position) (*engine.SnapResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess.Engine.PreviewSnap(id, center)
}

// Reset resets a game session to its level's initial board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset().Clone()

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// Hint searches from the current board for the next useful placement
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	state := sess.Engine.GetState().Clone()
	won := state.Won
	gears := state.Gears
	inventory := state.Inventory
	s.mu.RUnlock()

	if won {
		return &HintResult{Message: "Level already solved"}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, hintTimeout)
	defer cancel()

	result, err := s.hints.SolveBoard(ctx, gears, inventory)
	if err != nil {
		nodes := 0
		if result != nil {
			nodes = result.Nodes
		}
		if errors.Is(err, solver.ErrNoSolution) {
			return &HintResult{Nodes: nodes, Message: "No solution reachable from this board, try removing a gear"}, nil
		}
		return &HintResult{Nodes: nodes, Message: "No hint found in time"}, nil
	}

	hint := &HintResult{
		Remaining: len(result.Placements),
		Nodes:     result.Nodes,
		Message:   fmt.Sprintf("%d placement(s) left", len(result.Placements)),
	}
	if len(result.Placements) > 0 {
		next := result.Placements[0]
		hint.Next = &next
		hint.Message = fmt.Sprintf("Try %s next to %s (%d placement(s) left)", next.InventoryID, next.AnchorID, len(result.Placements))
	}
	return hint, nil
}

// GetBoardState retrieves the current board state
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				actions = append(actions, history[i])
			}
		} else {
			actions = append(actions, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// SubmitSolve records a solved session on its level's leaderboard
func (s *gameServiceImpl) SubmitSolve(ctx context.Context, sessionID, player string) (*SubmitResult, error) {
	player = strings.TrimSpace(player)
	if player == "" || len(player) > maxPlayerNameLength {
		return nil, fmt.Errorf("%w: must be 1-%d characters", ErrInvalidPlayer, maxPlayerNameLength)
	}

	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	state := sess.Engine.GetState()
	levelID := sess.Level.ID
	if !state.Won || state.SolvedAt == nil {
		s.mu.RUnlock()
		return nil, ErrNotSolved
	}
	entry := LeaderboardEntry{
		Player:   player,
		TimeMs:   state.ElapsedMs,
		Actions:  state.CurrentActionsCount,
		SolvedAt: *state.SolvedAt,
	}
	s.mu.RUnlock()

	result := s.leaderboard.Submit(levelID, entry)
	log.Printf("[SOLVE] level=%s player=%s time=%dms status=%s rank=%d", levelID, player, entry.TimeMs, result.Status, result.Rank)
	return result, nil
}

// GetLeaderboard returns the top solves for a level
func (s *gameServiceImpl) GetLeaderboard(ctx context.Context, levelID string) ([]LeaderboardEntry, error) {
	if _, err := s.levels.LoadLevel(levelID); err != nil {
		return nil, err
	}
	return s.leaderboard.Top(levelID), nil
}

// ListLevels returns available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.Level, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel stores a custom level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, level *engine.Level) (*engine.Level, error) {
	return s.levels.SaveLevel(level)
}

// DeleteLevel removes a custom level
func (s *gameServiceImpl) DeleteLevel(ctx context.Context, levelID string) error {
	return s.levels.DeleteLevel(levelID)
}

// DailyLevel returns today's puzzle
func (s *gameServiceImpl) DailyLevel(ctx context.Context) (*engine.Level, error) {
	return s.levels.DailyLevel(time.Now()), nil
}

// Simulate propagates an arbitrary board and evaluates it
func (s *gameServiceImpl) Simulate(ctx context.Context, gears []engine.Gear) (*SimulationResult, error) {
	if err := validateBoard(gears); err != nil {
		return nil, err
	}

	updated := engine.Propagate(gears)
	meshes := engine.DetectMeshes(updated)
	if meshes == nil {
		meshes = []engine.MeshPair{}
	}
	return &SimulationResult{
		Gears:  updated,
		Meshes: meshes,
		Goals:  engine.EvaluateGoals(updated),
		Won:    engine.CheckWin(updated),
		Locked: engine.CountLocked(updated),
	}, nil
}

// FindSnap computes a snap target on an arbitrary board
func (s *gameServiceImpl) FindSnap(ctx context.Context, query SnapQuery) (*engine.SnapResult, error) {
	if !engine.ValidSize(query.Size) {
		return nil, fmt.Errorf("%w: unknown size '%s'", ErrInvalidBoard, query.Size)
	}
	if err := validateBoard(query.Gears); err != nil {
		return nil, err
	}
	tolerance := query.Tolerance
	if tolerance <= 0 {
		tolerance = engine.SnapTolerance
	}
	return engine.FindSnapTarget(query.Center, query.Size, query.ExcludeID, query.Gears, tolerance), nil
}

// validateBoard rejects boards the engine cannot simulate
func validateBoard(gears []engine.Gear) error {
	seen := make(map[string]bool, len(gears))
	for i, g := range gears {
		if g.ID == "" {
			return fmt.Errorf("%w: gear %d has no id", ErrInvalidBoard, i+1)
		}
		if seen[g.ID] {
			return fmt.Errorf("%w: duplicate gear id '%s'", ErrInvalidBoard, g.ID)
		}
		seen[g.ID] = true
		if !engine.ValidSize(g.Size) {
			return fmt.Errorf("%w: gear '%s' has unknown size '%s'", ErrInvalidBoard, g.ID, g.Size)
		}
		switch g.Role {
		case engine.RoleStart, engine.RolePositional, engine.RoleGoal:
		default:
			return fmt.Errorf("%w: gear '%s' has unknown role '%s'", ErrInvalidBoard, g.ID, g.Role)
		}
	}
	return nil
}

var actionVerbs = map[string]string{
	"place":  "Placed",
	"move":   "Moved",
	"remove": "Removed",
}

func satisfiedGoals(goals []engine.GoalStatus) map[string]bool {
	out := make(map[string]bool, len(goals))
	for _, g := range goals {
		out[g.GearID] = g.Satisfied
	}
	return out
}

// extractActionEvents generates events from a gear operation
func extractActionEvents(entry *engine.ActionEntry, before map[string]bool, state *engine.BoardState) []GameEvent {
	now := time.Now()
	events := []GameEvent{{
		Type:      entry.Action,
		Message:   fmt.Sprintf("%s %s gear %s", actionVerbs[entry.Action], entry.Size, entry.GearID),
		Timestamp: now,
		GearID:    entry.GearID,
	}}

	if entry.Snapped {
		events = append(events, GameEvent{
			Type:      "snap",
			Message:   fmt.Sprintf("Snapped %s to %s", entry.GearID, entry.AnchorID),
			Timestamp: now,
			GearID:    entry.GearID,
		})
	}

	for _, g := range state.LockedGears() {
		events = append(events, GameEvent{
			Type:      "locked",
			Message:   fmt.Sprintf("Gear %s is locked by conflicting rotation", g.ID),
			Timestamp: now,
			GearID:    g.ID,
		})
	}

	for _, goal := range state.Goals {
		if goal.Satisfied && !before[goal.GearID] {
			events = append(events, GameEvent{
				Type:      "goal_satisfied",
				Message:   fmt.Sprintf("Goal %s is %s", goal.GearID, goal.Reason),
				Timestamp: now,
				GearID:    goal.GearID,
			})
		}
	}

	if entry.Won {
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}
