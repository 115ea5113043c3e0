package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/wricardo/gearpuzzle/game/engine"
)

func bridgeLevel(gap int) *engine.Level {
	inventory := make([]engine.InventoryItem, 0, gap)
	for i := 0; i < gap; i++ {
		inventory = append(inventory, engine.InventoryItem{ID: "inv-" + string(rune('a'+i)), Size: engine.Medium})
	}
	goalCenter := engine.Position{X: 220 + float64(gap+1)*140, Y: 470}
	return &engine.Level{
		ID:   "bridge",
		Name: "Bridge",
		FixedGears: []engine.FixedGear{
			{ID: "start-1", Role: engine.RoleStart, Size: engine.Medium, Position: engine.Position{X: 150, Y: 400}, RotationSpeed: 0.8},
			{ID: "goal-1", Role: engine.RoleGoal, Size: engine.Medium, Position: engine.TopLeftFromCenter(goalCenter, engine.Medium), RequiredDirection: engine.AnyDirection},
		},
		Inventory: inventory,
	}
}

func TestSolve_DefaultLevel(t *testing.T) {
	result, err := New(Options{}).Solve(context.Background(), engine.DefaultLevel())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved {
		t.Fatal("Expected default level to be solved")
	}
	if len(result.Placements) != 1 || result.Placements[0].InventoryID != "inv-1" {
		t.Errorf("Expected a single placement of inv-1, got %+v", result.Placements)
	}
	if !engine.CheckWin(result.Gears) {
		t.Error("Returned board should be a winning board")
	}
}

func TestSolve_TwoGearBridge(t *testing.T) {
	result, err := New(Options{}).Solve(context.Background(), bridgeLevel(2))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(result.Placements) != 2 {
		t.Errorf("Expected 2 placements, got %d", len(result.Placements))
	}
	if !engine.CheckWin(result.Gears) {
		t.Error("Returned board should be a winning board")
	}
	if result.Nodes < 3 {
		t.Errorf("Expected several nodes to be explored, got %d", result.Nodes)
	}
}

func TestSolve_NoSolution(t *testing.T) {
	level := bridgeLevel(2)
	level.Inventory = level.Inventory[:1]

	result, err := New(Options{}).Solve(context.Background(), level)
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("Expected ErrNoSolution, got %v", err)
	}
	if result.Solved || len(result.Placements) != 0 {
		t.Errorf("Expected empty unsolved result, got %+v", result)
	}
}

func TestSolve_AlreadySolved(t *testing.T) {
	level := bridgeLevel(0)

	result, err := New(Options{}).Solve(context.Background(), level)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved || len(result.Placements) != 0 || result.Nodes != 1 {
		t.Errorf("Expected solved root with no placements, got %+v", result)
	}
}

func TestSolve_NodeLimit(t *testing.T) {
	_, err := New(Options{MaxNodes: 1}).Solve(context.Background(), engine.DefaultLevel())
	if !errors.Is(err, ErrSearchLimit) {
		t.Errorf("Expected ErrSearchLimit, got %v", err)
	}
}

func TestSolve_MaxDepth(t *testing.T) {
	_, err := New(Options{MaxDepth: 1}).Solve(context.Background(), bridgeLevel(2))
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("Expected ErrNoSolution with depth 1, got %v", err)
	}
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Solve(ctx, engine.DefaultLevel())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolve_InvalidLevel(t *testing.T) {
	if _, err := New(Options{}).Solve(context.Background(), &engine.Level{Name: "empty"}); err == nil {
		t.Error("Expected validation error")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{})
	if s.opts.Directions != DefaultDirections || s.opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("Expected defaults, got %+v", s.opts)
	}
}
