package engine

// CheckWin reports whether every goal gear spins as required.
// A board without goal gears is never won.
func CheckWin(gears []Gear) bool {
	goals := 0
	for _, g := range gears {
		if g.Role != RoleGoal {
			continue
		}
		goals++
		if !goalSatisfied(g) {
			return false
		}
	}
	return goals > 0
}

// EvaluateGoals reports the status of each goal gear in board order
func EvaluateGoals(gears []Gear) []GoalStatus {
	statuses := []GoalStatus{}
	for _, g := range gears {
		if g.Role != RoleGoal {
			continue
		}
		dir := g.RequiredDirection
		if dir == "" {
			dir = AnyDirection
		}
		statuses = append(statuses, GoalStatus{
			GearID:            g.ID,
			RequiredDirection: dir,
			RotationSpeed:     g.RotationSpeed,
			Locked:            g.Locked,
			Satisfied:         goalSatisfied(g),
			Reason:            goalReason(g),
		})
	}
	return statuses
}

func goalSatisfied(g Gear) bool {
	switch {
	case g.RotationSpeed == 0:
		return false
	case g.RequiredDirection == "" || g.RequiredDirection == AnyDirection:
		return true
	case g.RequiredDirection == Clockwise:
		return g.RotationSpeed > 0
	case g.RequiredDirection == CounterClockwise:
		return g.RotationSpeed < 0
	}
	return false
}

func goalReason(g Gear) string {
	switch {
	case g.Locked:
		return "locked by conflicting drive"
	case g.RotationSpeed == 0:
		return "not driven"
	case goalSatisfied(g):
		return "spinning " + string(DirectionOf(g.RotationSpeed))
	}
	return "spinning the wrong way"
}

// DirectionOf maps a signed speed to a direction; positive is clockwise.
// A stationary gear reports an empty direction.
func DirectionOf(speed float64) RotationDirection {
	switch sign(speed) {
	case 1:
		return Clockwise
	case -1:
		return CounterClockwise
	}
	return ""
}
