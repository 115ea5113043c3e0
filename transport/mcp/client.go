package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gear Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gear Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Place gears from the inventory so that motion from the start gears reaches
every goal gear, each spinning in its required direction.

AVAILABLE TOOLS:
- create_session: Start a level
- list_sessions / get_session: Inspect sessions
- board_state: Current gears, goals and inventory
- place_gear: Put an inventory gear on the board (snaps by default)
- move_gear: Drag a placed gear
- remove_gear: Return a gear to the inventory
- preview_snap: Where a gear would snap, without changing the board
- reset_board: Restore the level's initial board
- action_history: Past actions
- hint: Next placement toward a solution
- list_levels: Available levels
- submit_solve / leaderboard: Record and view solve times
- game_instructions: Rules and strategy`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func numberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally for a specific level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to play (optional, see list_levels)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Board operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board: gears, goals and remaining inventory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_gear",
		Description: "Place an inventory gear centered at (x, y). Snaps onto the nearest mesh point unless snap is false.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionProperty(),
				"inventory_id": map[string]interface{}{"type": "string", "description": "Inventory item to place"},
				"x":            numberProperty("Center X in board pixels"),
				"y":            numberProperty("Center Y in board pixels"),
				"snap": map[string]interface{}{
					"type":        "boolean",
					"description": "Snap to a mesh point (default true)",
				},
			},
			Required: []string{"session_id", "inventory_id", "x", "y"},
		},
	}, c.handlePlaceGear)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_gear",
		Description: "Drag a placed gear so its center lands at (x, y)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"gear_id":    map[string]interface{}{"type": "string", "description": "Placed gear to move"},
				"x":          numberProperty("Center X in board pixels"),
				"y":          numberProperty("Center Y in board pixels"),
				"snap": map[string]interface{}{
					"type":        "boolean",
					"description": "Snap to a mesh point (default true)",
				},
			},
			Required: []string{"session_id", "gear_id", "x", "y"},
		},
	}, c.handleMoveGear)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_gear",
		Description: "Take a placed gear off the board and return it to the inventory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"gear_id":    map[string]interface{}{"type": "string", "description": "Placed gear to remove"},
			},
			Required: []string{"session_id", "gear_id"},
		},
	}, c.handleRemoveGear)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_snap",
		Description: "Show where a gear dropped at (x, y) would snap, without changing the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"id":         map[string]interface{}{"type": "string", "description": "Placed gear or inventory item"},
				"x":          numberProperty("Center X in board pixels"),
				"y":          numberProperty("Center Y in board pixels"),
			},
			Required: []string{"session_id", "id", "x", "y"},
		},
	}, c.handlePreviewSnap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Reset the board to the level's initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest the next gear placement toward a solution",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleHint)

	// Levels and leaderboard
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_solve",
		Description: "Record a solved session on its level's leaderboard",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player":     map[string]interface{}{"type": "string", "description": "Player name"},
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleSubmitSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the fastest solves of a level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{"type": "string", "description": "Level ID"},
			},
			Required: []string{"level_id"},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game rules and strategy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID string, parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

// positionBody builds the x/y/snap body shared by place and move
func positionBody(args map[string]interface{}) (map[string]interface{}, error) {
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return nil, fmt.Errorf("x and y must be numbers")
	}
	body := map[string]interface{}{"x": x, "y": y}
	if snap, ok := args["snap"].(bool); ok {
		body["snap"] = snap
	}
	return body, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.BoardState != nil && s.BoardState.Won {
			status = "solved"
		}
		fmt.Fprintf(&result, "- %s (Level: %s, %s, Created: %s)\n",
			s.ID, s.LevelID, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) handlePlaceGear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	inventoryID, _ := args["inventory_id"].(string)

	body, err := positionBody(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body["inventory_id"] = inventoryID

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "gears"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleMoveGear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	gearID, _ := args["gear_id"].(string)

	body, err := positionBody(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "gears", gearID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleRemoveGear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	gearID, _ := args["gear_id"].(string)

	var result service.ActionResult
	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, "gears", gearID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handlePreviewSnap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	id, _ := args["id"].(string)

	body, err := positionBody(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	delete(body, "snap")
	body["gear_id"] = id

	var response struct {
		Snap *engine.SnapResult `json:"snap"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "snap"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Snap == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No snap target near (%.0f,%.0f); the gear would be placed freely.", body["x"], body["y"])), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Would snap to (%.1f,%.1f) meshing with %s",
		response.Snap.Position.X, response.Snap.Position.Y, response.Snap.AnchorID)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *engine.BoardState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatBoardState(response.State))), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := sessionPath(sessionID, "history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "hint"), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		fmt.Fprintf(&result, "• %s: %s\n  %s\n  Starts: %d, Goals: %d, Inventory: %d\n\n",
			level.ID, level.Name, level.Description, level.StartGears, level.GoalGears, level.InventorySize)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleSubmitSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	player, _ := args["player"].(string)

	var result service.SubmitResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "solve"), map[string]string{"player": player}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out strings.Builder
	if result.Status == "already_solved" {
		fmt.Fprintf(&out, "%s already has a time on this level.\n\n", player)
	} else {
		fmt.Fprintf(&out, "Solve recorded for %s, rank #%d.\n\n", player, result.Rank)
	}
	out.WriteString(formatLeaderboard(result.Leaderboard))
	return mcp.NewToolResultText(out.String()), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levelID, _ := arguments(request)["level_id"].(string)

	var response struct {
		LevelID string                     `json:"level_id"`
		Entries []service.LeaderboardEntry `json:"entries"`
	}
	if err := c.apiCall(ctx, "GET", "/api/levels/"+url.PathEscape(levelID)+"/leaderboard", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Leaderboard for %s:\n%s", levelID, formatLeaderboard(response.Entries))), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Gear Puzzle - Instructions

GAME OBJECTIVE:
Every goal gear must turn in its required direction. Motion comes from the
start gears; you bridge the gap with gears from your inventory.

THE BOARD:
• Coordinates are pixels on a 1200x800 board, origin top-left
• Gear sizes: small (radius 45), medium (70), large (95), extraLarge (125)
• Tools take gear CENTERS; board_state reports top-left positions and centers

MECHANICS:
• Two gears mesh when their centers are one outer radius apart each (r1 + r2)
• Meshed gears turn in opposite directions
• Speed scales with the tooth ratio: a smaller gear turns faster
• A gear driven both ways at once locks and stops relaying motion
• Start gears are motors and are never driven or locked

PLACING GEARS:
• place_gear snaps to the nearest valid mesh point unless snap is false
• preview_snap tells you where a drop would land before you commit
• move_gear and remove_gear only work on gears you placed

VICTORY:
• The board is solved the moment every goal spins the right way
• A solved board accepts no further moves until reset_board
• Use submit_solve to record your time on the leaderboard

STRATEGY:
• Count the meshes between a start and a goal: an odd chain of placed gears
  keeps the start's direction on the goal, an even one reverses it
• Avoid closing loops with an odd number of gears, they lock
• Ask for a hint when stuck`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s (%s)\nCreated: %s\n\n%s",
		session.ID, session.LevelName, session.LevelID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.BoardState))
}

func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var result strings.Builder

	if state.Won {
		result.WriteString("SOLVED!\n")
	}
	fmt.Fprintf(&result, "Level: %s | Actions: %d | Locked: %d\n", state.LevelName, state.TotalActions, state.LockedCount)
	if state.Message != "" {
		result.WriteString(state.Message + "\n")
	}

	result.WriteString("\nGears:\n")
	for _, g := range state.Gears {
		c := engine.Center(g)
		fmt.Fprintf(&result, "  %-10s %-10s %-6s center=(%.0f,%.0f) speed=%+.2f",
			g.ID, g.Role, g.Size, c.X, c.Y, g.RotationSpeed)
		if g.Locked {
			result.WriteString(" LOCKED")
		}
		if len(g.MeshedWith) > 0 {
			fmt.Fprintf(&result, " meshed=[%s]", strings.Join(g.MeshedWith, ","))
		}
		result.WriteString("\n")
	}

	result.WriteString("\nGoals:\n")
	for _, goal := range state.Goals {
		mark := "✗"
		if goal.Satisfied {
			mark = "✓"
		}
		fmt.Fprintf(&result, "  %s %s needs %s: %s\n", mark, goal.GearID, goal.RequiredDirection, goal.Reason)
	}

	result.WriteString("\nInventory:")
	if len(state.Inventory) == 0 {
		result.WriteString(" empty")
	}
	for _, item := range state.Inventory {
		fmt.Fprintf(&result, " %s(%s)", item.ID, item.Size)
	}
	result.WriteString("\n")

	return result.String()
}

func formatActionResult(result *service.ActionResult) string {
	var out strings.Builder
	if result.Success {
		out.WriteString("✓ ")
	} else {
		out.WriteString("✗ ")
	}
	out.WriteString(result.Message + "\n")

	for _, ev := range result.Events {
		switch ev.Type {
		case "locked", "goal_satisfied", "victory":
			fmt.Fprintf(&out, "  [%s] %s\n", ev.Type, ev.Message)
		}
	}

	out.WriteString("\n" + formatBoardState(result.BoardState))
	return out.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Action History (page %d/%d, %d total):\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, a := range history.Actions {
		fmt.Fprintf(&result, "#%d %s %s", a.ActionNumber, a.Action, a.GearID)
		if a.To != nil {
			fmt.Fprintf(&result, " to (%.0f,%.0f)", a.To.X, a.To.Y)
		}
		if a.Snapped {
			fmt.Fprintf(&result, " snapped to %s", a.AnchorID)
		}
		if a.Won {
			result.WriteString(" [solved]")
		}
		result.WriteString("\n")
	}

	return result.String()
}

func formatHint(hint *service.HintResult) string {
	if hint.Next == nil {
		return hint.Message
	}
	return fmt.Sprintf("%s\nplace_gear inventory_id=%s x=%.1f y=%.1f",
		hint.Message, hint.Next.InventoryID, hint.Next.Center.X, hint.Next.Center.Y)
}

func formatLeaderboard(entries []service.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "No solves yet.\n"
	}
	var result strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&result, "%d. %s %.1fs (%d actions)\n", i+1, e.Player, float64(e.TimeMs)/1000, e.Actions)
	}
	return result.String()
}
