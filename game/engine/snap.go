package engine

import "math"

// FindSnapTarget finds where a dragged gear should snap to mesh with a board gear.
//
// candidateCenter is the center of the dragged gear and excludeID its own id.
// Among gears whose mesh distance error is below tolerance the best fit wins,
// ties going to the earliest gear in the slice. A snap point that would
// overlap any third gear is rejected and the next best fit is used instead.
// Returns nil when nothing is close enough.
func FindSnapTarget(candidateCenter Position, size GearSize, excludeID string, gears []Gear, tolerance float64) *SnapResult {
	bestDiff := math.Inf(1)
	var best *SnapResult

	for _, anchor := range gears {
		if anchor.ID == excludeID {
			continue
		}

		anchorCenter := Center(anchor)
		ideal := IdealMeshDistance(anchor.Size, size)
		diff := math.Abs(Distance(anchorCenter, candidateCenter) - ideal)
		if diff >= tolerance || diff >= bestDiff {
			continue
		}

		snapCenter := projectFrom(anchorCenter, candidateCenter, ideal)
		if blockedBy(snapCenter, size, anchor.ID, excludeID, gears) {
			continue
		}

		bestDiff = diff
		best = &SnapResult{Position: snapCenter, AnchorID: anchor.ID}
	}

	return best
}

// blockedBy reports whether a gear centered at c overlaps any gear other than
// the anchor and the dragged gear itself
func blockedBy(c Position, size GearSize, anchorID, excludeID string, gears []Gear) bool {
	for _, other := range gears {
		if other.ID == anchorID || other.ID == excludeID {
			continue
		}
		if overlaps(c, size, other) {
			return true
		}
	}
	return false
}
