package engine

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// gearAt builds a gear whose center sits at (cx, cy)
func gearAt(id string, role GearRole, size GearSize, cx, cy, speed float64) Gear {
	return Gear{
		ID:            id,
		Role:          role,
		Size:          size,
		Position:      TopLeftFromCenter(Position{X: cx, Y: cy}, size),
		RotationSpeed: speed,
		MeshedWith:    []string{},
	}
}

func TestDimensionsOf(t *testing.T) {
	tests := []struct {
		size  GearSize
		outer float64
		base  float64
		teeth int
	}{
		{Small, 45, 35, 8},
		{Medium, 70, 55, 12},
		{Large, 95, 75, 16},
		{ExtraLarge, 125, 100, 22},
	}

	for _, test := range tests {
		t.Run(string(test.size), func(t *testing.T) {
			dim := DimensionsOf(test.size)
			if dim.OuterRadius != test.outer {
				t.Errorf("Expected outer radius %v, got %v", test.outer, dim.OuterRadius)
			}
			if dim.BaseRadius != test.base {
				t.Errorf("Expected base radius %v, got %v", test.base, dim.BaseRadius)
			}
			if dim.Teeth != test.teeth {
				t.Errorf("Expected %d teeth, got %d", test.teeth, dim.Teeth)
			}
			if dim.OuterRadius != dim.BaseRadius+dim.ToothDepth {
				t.Errorf("Outer radius should equal base radius plus tooth depth")
			}
		})
	}
}

func TestDimensionsOf_UnknownSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown size")
		}
	}()
	DimensionsOf("huge")
}

func TestValidSize(t *testing.T) {
	for _, size := range AllSizes() {
		if !ValidSize(size) {
			t.Errorf("Expected %s to be valid", size)
		}
	}
	if ValidSize("tiny") {
		t.Error("Expected 'tiny' to be invalid")
	}
}

func TestCenterRoundTrip(t *testing.T) {
	pos := Position{X: 150, Y: 400}
	center := CenterFromTopLeft(pos, Medium)
	if center != (Position{X: 220, Y: 470}) {
		t.Errorf("Expected center (220,470), got %+v", center)
	}
	if back := TopLeftFromCenter(center, Medium); back != pos {
		t.Errorf("Expected top-left %+v, got %+v", pos, back)
	}
}

func TestIdealMeshDistance(t *testing.T) {
	if d := IdealMeshDistance(Medium, Medium); d != 140 {
		t.Errorf("Expected 140, got %v", d)
	}
	if d := IdealMeshDistance(Small, Medium); d != 115 {
		t.Errorf("Expected 115, got %v", d)
	}
	if IdealMeshDistance(Large, Small) != IdealMeshDistance(Small, Large) {
		t.Error("Ideal mesh distance should be symmetric")
	}
}

func TestCanMesh_ToleranceBand(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		expected bool
	}{
		{"exact", 0, true},
		{"slightly far", 5, true},
		{"at tolerance", MeshTolerance, true},
		{"beyond tolerance", MeshTolerance + 0.5, false},
		{"slightly close", -7, true},
		{"too close", -20, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := gearAt("a", RoleStart, Medium, 300, 300, 0.8)
			b := gearAt("b", RolePositional, Medium, 300+140+test.offset, 300, 0)
			if got := CanMesh(a, b); got != test.expected {
				t.Errorf("CanMesh with offset %v: expected %v, got %v", test.offset, test.expected, got)
			}
			if CanMesh(a, b) != CanMesh(b, a) {
				t.Error("CanMesh should be symmetric")
			}
		})
	}
}

func TestAngleBetween(t *testing.T) {
	if a := AngleBetween(Position{X: 0, Y: 0}, Position{X: 0, Y: 10}); !approxEqual(a, math.Pi/2) {
		t.Errorf("Expected pi/2, got %v", a)
	}
}

func TestProjectFrom_CoincidentPoints(t *testing.T) {
	p := projectFrom(Position{X: 10, Y: 10}, Position{X: 10, Y: 10}, 50)
	if !approxEqual(p.X, 60) || !approxEqual(p.Y, 10) {
		t.Errorf("Expected projection along +X to (60,10), got %+v", p)
	}
}
