package engine

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// gearDimensions is read-only after package init; DimensionsOf hands out copies.
var gearDimensions = map[GearSize]GearDimension{
	Small:      {OuterRadius: 45, BaseRadius: 35, Teeth: 8, ToothDepth: 10, ToothWidth: 14},
	Medium:     {OuterRadius: 70, BaseRadius: 55, Teeth: 12, ToothDepth: 15, ToothWidth: 16},
	Large:      {OuterRadius: 95, BaseRadius: 75, Teeth: 16, ToothDepth: 20, ToothWidth: 18},
	ExtraLarge: {OuterRadius: 125, BaseRadius: 100, Teeth: 22, ToothDepth: 25, ToothWidth: 20},
}

// AllSizes lists the gear sizes from smallest to largest
func AllSizes() []GearSize {
	return []GearSize{Small, Medium, Large, ExtraLarge}
}

// ValidSize reports whether size is one of the known gear sizes
func ValidSize(size GearSize) bool {
	_, ok := gearDimensions[size]
	return ok
}

// DimensionsOf returns the dimensions for a gear size.
// It panics on an unknown size; callers validate input with ValidSize first.
func DimensionsOf(size GearSize) GearDimension {
	dim, ok := gearDimensions[size]
	if !ok {
		panic(fmt.Sprintf("engine: unknown gear size %q", size))
	}
	return dim
}

// Coord converts a position to a geom vector
func (p Position) Coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

func positionOf(c geom.Coord) Position {
	return Position{X: c.X, Y: c.Y}
}

// Distance returns the euclidean distance between two positions
func Distance(a, b Position) float64 {
	return a.Coord().DistanceFrom(b.Coord())
}

// AngleBetween returns the angle in radians of the vector from -> to
func AngleBetween(from, to Position) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// CenterFromTopLeft returns the center of a gear of the given size anchored at pos
func CenterFromTopLeft(pos Position, size GearSize) Position {
	r := DimensionsOf(size).OuterRadius
	return Position{X: pos.X + r, Y: pos.Y + r}
}

// TopLeftFromCenter is the inverse of CenterFromTopLeft
func TopLeftFromCenter(center Position, size GearSize) Position {
	r := DimensionsOf(size).OuterRadius
	return Position{X: center.X - r, Y: center.Y - r}
}

// Center returns the center of a placed gear
func Center(g Gear) Position {
	return CenterFromTopLeft(g.Position, g.Size)
}

// IdealMeshDistance is the center-to-center distance at which tooth tips touch
func IdealMeshDistance(a, b GearSize) float64 {
	return DimensionsOf(a).OuterRadius + DimensionsOf(b).OuterRadius
}

// CanMesh checks whether two gears are close enough to their ideal distance to engage
func CanMesh(a, b Gear) bool {
	dist := Distance(Center(a), Center(b))
	return math.Abs(dist-IdealMeshDistance(a.Size, b.Size)) <= MeshTolerance
}

// overlaps reports whether a gear of size centered at c would intrude into other
func overlaps(c Position, size GearSize, other Gear) bool {
	minDist := DimensionsOf(size).OuterRadius + DimensionsOf(other.Size).OuterRadius - MeshTolerance
	return Distance(c, Center(other)) < minDist
}

// projectFrom returns the point at dist from origin in the direction of toward.
// When toward coincides with origin the projection points along +X.
func projectFrom(origin, toward Position, dist float64) Position {
	dir := toward.Coord().Minus(origin.Coord())
	if dir.X == 0 && dir.Y == 0 {
		dir = geom.Coord{X: 1, Y: 0}
	}
	return positionOf(origin.Coord().Plus(dir.Unit().Times(dist)))
}

func finite(p Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Fits reports whether a gear of size centered at c overlaps none of the
// gears, ignoring the one with ignoreID
func Fits(c Position, size GearSize, gears []Gear, ignoreID string) bool {
	for _, other := range gears {
		if other.ID == ignoreID {
			continue
		}
		if overlaps(c, size, other) {
			return false
		}
	}
	return true
}

// OnBoard reports whether a gear of size centered at c lies fully on the board
func OnBoard(c Position, size GearSize) bool {
	r := DimensionsOf(size).OuterRadius
	return c.X-r >= 0 && c.Y-r >= 0 && c.X+r <= BoardWidth && c.Y+r <= BoardHeight
}

// MeshPoint returns the center at which a gear of size meshes ideally with
// anchor, in direction angle (radians)
func MeshPoint(anchor Gear, size GearSize, angle float64) Position {
	dir := geom.Coord{X: math.Cos(angle), Y: math.Sin(angle)}
	return positionOf(Center(anchor).Coord().Plus(dir.Times(IdealMeshDistance(anchor.Size, size))))
}
