package engine

import (
	"math"
	"testing"
)

func TestFindSnapTarget_SmallNearMedium(t *testing.T) {
	gears := []Gear{gearAt("m", RolePositional, Medium, 200, 200, 0)}

	result := FindSnapTarget(Position{X: 320, Y: 200}, Small, "dragged", gears, SnapTolerance)
	if result == nil {
		t.Fatal("Expected a snap target")
	}
	if result.AnchorID != "m" {
		t.Errorf("Expected anchor 'm', got %s", result.AnchorID)
	}
	if !approxEqual(result.Position.X, 315) || !approxEqual(result.Position.Y, 200) {
		t.Errorf("Expected snap at (315,200), got %+v", result.Position)
	}
}

func TestFindSnapTarget_KeepsAngle(t *testing.T) {
	anchor := gearAt("m", RolePositional, Medium, 200, 200, 0)
	offset := 120 / math.Sqrt2
	candidate := Position{X: 200 + offset, Y: 200 + offset}

	result := FindSnapTarget(candidate, Small, "dragged", []Gear{anchor}, SnapTolerance)
	if result == nil {
		t.Fatal("Expected a snap target")
	}

	center := Center(anchor)
	if d := Distance(center, result.Position); !approxEqual(d, 115) {
		t.Errorf("Expected snap 115px from anchor, got %v", d)
	}
	if a := AngleBetween(center, result.Position); !approxEqual(a, math.Pi/4) {
		t.Errorf("Expected angle pi/4, got %v", a)
	}
}

func TestFindSnapTarget_Tolerance(t *testing.T) {
	gears := []Gear{gearAt("m", RolePositional, Medium, 200, 200, 0)}

	tests := []struct {
		name     string
		x        float64
		expected bool
	}{
		{"inside tolerance", 200 + 115 + 39, true},
		{"at tolerance", 200 + 115 + 40, false},
		{"far away", 700, false},
		{"too close inside", 200 + 115 - 39, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := FindSnapTarget(Position{X: test.x, Y: 200}, Small, "dragged", gears, SnapTolerance)
			if (result != nil) != test.expected {
				t.Errorf("Expected snap=%v at x=%v, got %+v", test.expected, test.x, result)
			}
		})
	}
}

func TestFindSnapTarget_ExcludesSelf(t *testing.T) {
	gears := []Gear{gearAt("m", RolePositional, Medium, 200, 200, 0)}

	if result := FindSnapTarget(Position{X: 320, Y: 200}, Medium, "m", gears, SnapTolerance); result != nil {
		t.Errorf("A gear should not snap to itself, got %+v", result)
	}
}

func TestFindSnapTarget_BestFitWins(t *testing.T) {
	gears := []Gear{
		gearAt("loose", RolePositional, Medium, 200, 200, 0),
		gearAt("tight", RolePositional, Medium, 475, 200, 0),
	}

	// 130 from loose (error 10), 145 from tight (error 5)
	result := FindSnapTarget(Position{X: 330, Y: 200}, Medium, "dragged", gears, SnapTolerance)
	if result == nil || result.AnchorID != "tight" {
		t.Fatalf("Expected anchor 'tight', got %+v", result)
	}
	if !approxEqual(result.Position.X, 335) {
		t.Errorf("Expected snap x 335, got %v", result.Position.X)
	}
}

func TestFindSnapTarget_TieGoesToFirst(t *testing.T) {
	gears := []Gear{
		gearAt("left", RoleStart, Medium, 220, 470, 0.8),
		gearAt("right", RoleGoal, Medium, 500, 470, 0),
	}

	result := FindSnapTarget(Position{X: 360, Y: 470}, Medium, "dragged", gears, SnapTolerance)
	if result == nil || result.AnchorID != "left" {
		t.Fatalf("Expected anchor 'left', got %+v", result)
	}
}

func TestFindSnapTarget_BlockedFallsBack(t *testing.T) {
	gears := []Gear{
		gearAt("m", RolePositional, Medium, 200, 200, 0),
		gearAt("blocker", RolePositional, Medium, 315, 300, 0),
	}

	result := FindSnapTarget(Position{X: 320, Y: 200}, Small, "dragged", gears, SnapTolerance)
	if result == nil {
		t.Fatal("Expected the blocker to serve as anchor")
	}
	if result.AnchorID != "blocker" {
		t.Errorf("Expected anchor 'blocker', got %s", result.AnchorID)
	}
	if d := Distance(Center(gears[1]), result.Position); !approxEqual(d, 115) {
		t.Errorf("Expected snap 115px from blocker, got %v", d)
	}
}

func TestFindSnapTarget_BlockedWithoutAlternative(t *testing.T) {
	gears := []Gear{
		gearAt("m", RolePositional, Medium, 200, 200, 0),
		gearAt("blocker", RolePositional, Small, 330, 200, 0),
	}

	if result := FindSnapTarget(Position{X: 320, Y: 200}, Small, "dragged", gears, SnapTolerance); result != nil {
		t.Errorf("Expected no snap when the only mesh point is occupied, got %+v", result)
	}
}

func TestFindSnapTarget_EmptyBoard(t *testing.T) {
	if result := FindSnapTarget(Position{X: 10, Y: 10}, Large, "x", nil, SnapTolerance); result != nil {
		t.Errorf("Expected nil on empty board, got %+v", result)
	}
}
