package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/gearpuzzle/game/config"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/service"
	"github.com/wricardo/gearpuzzle/game/session"
	"github.com/wricardo/gearpuzzle/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Unified sessions for multi-session view (must be before {id} pattern)
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Gear operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetBoardState).Methods("GET")
	api.HandleFunc("/sessions/{id}/gears", s.handlePlaceGear).Methods("POST")
	api.HandleFunc("/sessions/{id}/gears/{gearId}", s.handleMoveGear).Methods("PUT")
	api.HandleFunc("/sessions/{id}/gears/{gearId}", s.handleRemoveGear).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/snap", s.handlePreviewSnap).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/hint", s.handleHint).Methods("GET")
	api.HandleFunc("/sessions/{id}/solve", s.handleSubmitSolve).Methods("POST")

	// Levels (daily must be before {id} pattern)
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels", s.handleSaveLevel).Methods("POST")
	api.HandleFunc("/levels/daily", s.handleDailyLevel).Methods("GET")
	api.HandleFunc("/levels/{id}", s.handleGetLevel).Methods("GET")
	api.HandleFunc("/levels/{id}", s.handleDeleteLevel).Methods("DELETE")
	api.HandleFunc("/levels/{id}/leaderboard", s.handleGetLeaderboard).Methods("GET")

	// Stateless engine
	api.HandleFunc("/engine/propagate", s.handlePropagate).Methods("POST")
	api.HandleFunc("/engine/snap", s.handleFindSnap).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrLevelNotFound),
		errors.Is(err, engine.ErrGearNotFound),
		errors.Is(err, engine.ErrInventoryItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrLevelSolved),
		errors.Is(err, engine.ErrDuplicateGear),
		errors.Is(err, service.ErrNotSolved),
		errors.Is(err, config.ErrBuiltinLevel),
		errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrGearNotMovable),
		errors.Is(err, engine.ErrInvalidPosition),
		errors.Is(err, config.ErrInvalidLevel),
		errors.Is(err, service.ErrInvalidPlayer),
		errors.Is(err, service.ErrInvalidBoard),
		errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(sessionID string, state *engine.BoardState) {
	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// broadcastAction pushes the new board and the notable events of an action
func (s *Server) broadcastAction(sessionID string, result *service.ActionResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, result.BoardState)
	for _, ev := range result.Events {
		switch ev.Type {
		case "locked", "goal_satisfied", "victory":
			s.hub.BroadcastEvent(sessionID, ev.Type, ev)
		}
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LevelID string `json:"level_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateSession(r.Context(), req.LevelID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SESSION] created session=%s level=%s", info.ID, info.LevelID)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Gear Handlers

func (s *Server) handleGetBoardState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetBoardState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

type positionRequest struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Snap *bool    `json:"snap,omitempty"`
}

// center returns the requested gear center; snapping defaults to on
func (p positionRequest) center() (engine.Position, bool, error) {
	if p.X == nil || p.Y == nil {
		return engine.Position{}, false, errors.New("x and y are required")
	}
	snap := true
	if p.Snap != nil {
		snap = *p.Snap
	}
	return engine.Position{X: *p.X, Y: *p.Y}, snap, nil
}

func (s *Server) handlePlaceGear(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		InventoryID string `json:"inventory_id"`
		positionRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.InventoryID == "" {
		respondError(w, http.StatusBadRequest, "inventory_id is required")
		return
	}
	center, snap, err := req.center()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PlaceGear(r.Context(), sessionID, req.InventoryID, center, snap)
	if err != nil {
		log.Printf("[PLACE] session=%s gear=%s at=(%.0f,%.0f) FAIL: %v", sessionID, req.InventoryID, center.X, center.Y, err)
		respondServiceError(w, err)
		return
	}

	s.broadcastAction(sessionID, result)
	logAction("PLACE", sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMoveGear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	gearID := vars["gearId"]

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	center, snap, err := req.center()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.MoveGear(r.Context(), sessionID, gearID, center, snap)
	if err != nil {
		log.Printf("[MOVE] session=%s gear=%s to=(%.0f,%.0f) FAIL: %v", sessionID, gearID, center.X, center.Y, err)
		respondServiceError(w, err)
		return
	}

	s.broadcastAction(sessionID, result)
	logAction("MOVE", sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemoveGear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	gearID := vars["gearId"]

	result, err := s.service.RemoveGear(r.Context(), sessionID, gearID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastAction(sessionID, result)
	logAction("REMOVE", sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

// logAction writes a compact one-line summary of a gear action
func logAction(tag, sessionID string, result *service.ActionResult) {
	a := result.Action
	if a == nil {
		return
	}
	at := ""
	if a.To != nil {
		at = fmt.Sprintf(" at=(%.0f,%.0f)", a.To.X, a.To.Y)
	}
	snap := ""
	if a.Snapped {
		snap = " snap=" + a.AnchorID
	}
	log.Printf("[%s] session=%s gear=%s size=%s%s%s locked=%d won=%t",
		tag, sessionID, a.GearID, a.Size, at, snap, result.BoardState.LockedCount, result.BoardState.Won)
}

func (s *Server) handlePreviewSnap(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		GearID      string   `json:"gear_id,omitempty"`
		InventoryID string   `json:"inventory_id,omitempty"`
		X           *float64 `json:"x"`
		Y           *float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := req.GearID
	if id == "" {
		id = req.InventoryID
	}
	if id == "" || req.X == nil || req.Y == nil {
		respondError(w, http.StatusBadRequest, "gear_id or inventory_id, x and y are required")
		return
	}

	snap, err := s.service.PreviewSnap(r.Context(), sessionID, id, engine.Position{X: *req.X, Y: *req.Y})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snap": snap,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Board reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetActionHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	hint, err := s.service.Hint(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, hint)
}

func (s *Server) handleSubmitSolve(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SubmitSolve(r.Context(), sessionID, req.Player)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, levels)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	levelID := strings.TrimSuffix(mux.Vars(r)["id"], ".json")

	level, err := s.service.LoadLevel(r.Context(), levelID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, level)
}

func (s *Server) handleDailyLevel(w http.ResponseWriter, r *http.Request) {
	level, err := s.service.DailyLevel(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, level)
}

func (s *Server) handleSaveLevel(w http.ResponseWriter, r *http.Request) {
	var level engine.Level
	if err := json.NewDecoder(r.Body).Decode(&level); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := s.service.SaveLevel(r.Context(), &level)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Level saved successfully",
		"level_id": saved.ID,
		"level":    saved,
	})
}

func (s *Server) handleDeleteLevel(w http.ResponseWriter, r *http.Request) {
	levelID := mux.Vars(r)["id"]

	if err := s.service.DeleteLevel(r.Context(), levelID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Level %s deleted", levelID),
	})
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	levelID := mux.Vars(r)["id"]

	entries, err := s.service.GetLeaderboard(r.Context(), levelID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"level_id": levelID,
		"entries":  entries,
	})
}

// Stateless Engine Handlers

func (s *Server) handlePropagate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Gears []engine.Gear `json:"gears"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Simulate(r.Context(), req.Gears)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFindSnap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X         float64         `json:"x"`
		Y         float64         `json:"y"`
		Size      engine.GearSize `json:"size"`
		ExcludeID string          `json:"exclude_id"`
		Gears     []engine.Gear   `json:"gears"`
		Tolerance float64         `json:"tolerance,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := s.service.FindSnap(r.Context(), service.SnapQuery{
		Center:    engine.Position{X: req.X, Y: req.Y},
		Size:      req.Size,
		ExcludeID: req.ExcludeID,
		Gears:     req.Gears,
		Tolerance: req.Tolerance,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// Unified Sessions Handler

func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		// Get specific sessions by IDs
		for _, id := range strings.Split(sessionIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if info, err := s.service.GetSession(r.Context(), id); err == nil {
				sessions = append(sessions, info)
			}
		}
	} else {
		all, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		levelID := query.Get("levelId")
		for _, info := range all {
			if levelID == "" || info.LevelID == levelID {
				sessions = append(sessions, info)
			}
		}
	}

	levelID, levelName, goals := "", "", 0
	if len(sessions) > 0 {
		levelID = sessions[0].LevelID
		levelName = sessions[0].LevelName
		if sessions[0].BoardState != nil {
			goals = len(sessions[0].BoardState.Goals)
		}
	}

	entries := make([]map[string]interface{}, 0, len(sessions))
	solved := 0
	for _, info := range sessions {
		won := info.BoardState != nil && info.BoardState.Won
		if won {
			solved++
		}
		entries = append(entries, map[string]interface{}{
			"session_id":    info.ID,
			"level_id":      info.LevelID,
			"board_state":   info.BoardState,
			"won":           won,
			"created_at":    info.CreatedAt,
			"last_accessed": info.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"level_id":    levelID,
		"level_name":  levelName,
		"total_goals": goals,
		"solved":      solved,
		"sessions":    entries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(context.Background(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
