package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/service"
	"github.com/wricardo/gearpuzzle/game/solver"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content, got none")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func solvedBoard() *engine.BoardState {
	state := engine.InitBoardStateFromLevel(engine.DefaultLevel())
	state.PlaceGear("inv-1", engine.Position{X: 360, Y: 470}, true)
	return state
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/ab12", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "plain body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			wantErr: "API error: 500",
		},
		{
			name: "json error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "level already solved"})
			},
			wantErr: "level already solved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["level_id"] != "builtin-003" {
			t.Errorf("Expected level_id builtin-003, got %q", body["level_id"])
		}

		resp := service.SessionInfo{
			ID:         "test-session-123",
			LevelID:    "builtin-003",
			LevelName:  "Direction Matters",
			CreatedAt:  time.Now(),
			BoardState: engine.InitBoardStateFromLevel(engine.DefaultLevel()),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{
		"level_id": "builtin-003",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"test-session-123", "builtin-003", "inv-1(medium)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_placeGear(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(service.ActionResult{
			Success:    true,
			Message:    "Placed inv-1 (medium) snapped to start-1",
			BoardState: solvedBoard(),
			Events: []service.GameEvent{
				{Type: "place", Message: "placed"},
				{Type: "victory", Message: "All goals are turning!"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("forwards center and snap flag", func(t *testing.T) {
		result, err := client.handlePlaceGear(context.Background(), toolRequest("place_gear", map[string]interface{}{
			"session_id":   "ab12",
			"inventory_id": "inv-1",
			"x":            365.0,
			"y":            470.0,
			"snap":         false,
		}))
		if err != nil {
			t.Fatalf("handlePlaceGear failed: %v", err)
		}

		if gotPath != "POST /api/sessions/ab12/gears" {
			t.Errorf("Unexpected request %s", gotPath)
		}
		if gotBody["inventory_id"] != "inv-1" || gotBody["x"] != 365.0 || gotBody["snap"] != false {
			t.Errorf("Unexpected body %v", gotBody)
		}

		text := resultText(t, result)
		if !strings.Contains(text, "[victory] All goals are turning!") {
			t.Errorf("Expected victory event, got: %s", text)
		}
		if strings.Contains(text, "[place]") {
			t.Errorf("Routine events should not be listed, got: %s", text)
		}
		if !strings.Contains(text, "SOLVED!") {
			t.Errorf("Expected solved board, got: %s", text)
		}
	})

	t.Run("snap omitted by default", func(t *testing.T) {
		gotBody = nil
		client.handlePlaceGear(context.Background(), toolRequest("place_gear", map[string]interface{}{
			"session_id": "ab12", "inventory_id": "inv-1", "x": 1.0, "y": 2.0,
		}))
		if _, ok := gotBody["snap"]; ok {
			t.Errorf("Expected no snap field, got %v", gotBody)
		}
	})

	t.Run("rejects missing coordinates", func(t *testing.T) {
		result, err := client.handlePlaceGear(context.Background(), toolRequest("place_gear", map[string]interface{}{
			"session_id": "ab12", "inventory_id": "inv-1",
		}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("Expected tool error for missing x/y")
		}
	})
}

func TestClient_moveAndRemoveGear(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(service.ActionResult{
			Success:    true,
			Message:    "ok",
			BoardState: engine.InitBoardStateFromLevel(engine.DefaultLevel()),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	client.handleMoveGear(ctx, toolRequest("move_gear", map[string]interface{}{
		"session_id": "ab12", "gear_id": "inv-2", "x": 500.0, "y": 300.0,
	}))
	client.handleRemoveGear(ctx, toolRequest("remove_gear", map[string]interface{}{
		"session_id": "ab12", "gear_id": "inv-2",
	}))

	want := []string{"PUT /api/sessions/ab12/gears/inv-2", "DELETE /api/sessions/ab12/gears/inv-2"}
	if len(requests) != len(want) {
		t.Fatalf("Expected %d requests, got %v", len(want), requests)
	}
	for i := range want {
		if requests[i] != want[i] {
			t.Errorf("Request %d: expected %s, got %s", i, want[i], requests[i])
		}
	}
}

func TestClient_previewSnap(t *testing.T) {
	tests := []struct {
		name     string
		response interface{}
		want     string
	}{
		{
			name:     "snap found",
			response: map[string]interface{}{"snap": engine.SnapResult{Position: engine.Position{X: 360, Y: 470}, AnchorID: "start-1"}},
			want:     "Would snap to (360.0,470.0) meshing with start-1",
		},
		{
			name:     "no snap",
			response: map[string]interface{}{"snap": nil},
			want:     "No snap target near (900,100)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]interface{}
				json.NewDecoder(r.Body).Decode(&body)
				if body["gear_id"] != "inv-1" {
					t.Errorf("Expected gear_id inv-1, got %v", body["gear_id"])
				}
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			result, _ := NewClient(server.URL).handlePreviewSnap(context.Background(), toolRequest("preview_snap", map[string]interface{}{
				"session_id": "ab12", "id": "inv-1", "x": 900.0, "y": 100.0,
			}))
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q, got: %s", tt.want, text)
			}
		})
	}
}

func TestClient_actionHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Actions:      []engine.ActionEntry{{ActionNumber: 6, Action: "place", GearID: "inv-1", To: &engine.Position{X: 290, Y: 400}, Snapped: true, AnchorID: "start-1", Won: true}},
			TotalActions: 6,
			Page:         2,
			TotalPages:   2,
		})
	}))
	defer server.Close()

	result, _ := NewClient(server.URL).handleActionHistory(context.Background(), toolRequest("action_history", map[string]interface{}{
		"session_id": "ab12", "page": 2.0, "limit": 5.0,
	}))

	text := resultText(t, result)
	for _, want := range []string{"page 2/2, 6 total", "#6 place inv-1 to (290,400) snapped to start-1 [solved]"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history, got: %s", want, text)
		}
	}
}

func TestClient_leaderboardTools(t *testing.T) {
	entries := []service.LeaderboardEntry{{Player: "alice", TimeMs: 4200, Actions: 1}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/ab12/solve":
			json.NewEncoder(w).Encode(service.SubmitResult{Status: "success", Rank: 1, Leaderboard: entries})
		case "/api/levels/builtin-001/leaderboard":
			json.NewEncoder(w).Encode(map[string]interface{}{"level_id": "builtin-001", "entries": entries})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, _ := client.handleSubmitSolve(ctx, toolRequest("submit_solve", map[string]interface{}{"session_id": "ab12", "player": "alice"}))
	if text := resultText(t, result); !strings.Contains(text, "rank #1") || !strings.Contains(text, "1. alice 4.2s (1 actions)") {
		t.Errorf("Unexpected submit output: %s", text)
	}

	result, _ = client.handleLeaderboard(ctx, toolRequest("leaderboard", map[string]interface{}{"level_id": "builtin-001"}))
	if text := resultText(t, result); !strings.Contains(text, "Leaderboard for builtin-001") {
		t.Errorf("Unexpected leaderboard output: %s", text)
	}
}

func TestFormatBoardState(t *testing.T) {
	result := formatBoardState(solvedBoard())

	expectedFields := []string{
		"SOLVED!",
		"start-1",
		"center=(220,470)",
		"meshed=[inv-1]",
		"✓ goal-1",
		"Inventory: empty",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}

	if formatBoardState(nil) != "No board state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatHint(t *testing.T) {
	hint := &service.HintResult{
		Next:      &solver.Placement{InventoryID: "inv-1", Center: engine.Position{X: 360, Y: 470}},
		Remaining: 1,
		Message:   "Try inv-1",
	}
	if got := formatHint(hint); !strings.Contains(got, "place_gear inventory_id=inv-1 x=360.0 y=470.0") {
		t.Errorf("Unexpected hint output: %s", got)
	}

	done := &service.HintResult{Message: "Level already solved"}
	if got := formatHint(done); got != "Level already solved" {
		t.Errorf("Expected bare message, got %s", got)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"GAME OBJECTIVE:", "MECHANICS:", "PLACING GEARS:", "VICTORY:"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}
