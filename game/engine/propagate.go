package engine

// Propagate recomputes mesh connections, rotation speeds and lock state for
// the whole board and returns a new snapshot; the input slice is not modified.
//
// Motion spreads breadth-first from every start gear with a non-zero speed,
// in input order. Meshed gears turn in opposite directions and speed scales
// with the inverse tooth ratio. A gear reached again with a speed of the
// opposite sign is locked at 0 and stops relaying motion. Start gears are
// motors: they are never driven, never locked, and keep their configured
// speed. Gear ids must be unique.
func Propagate(gears []Gear) []Gear {
	updated := make([]Gear, len(gears))
	index := make(map[string]int, len(gears))
	for i, g := range gears {
		g.MeshedWith = []string{}
		g.Locked = false
		if g.Role != RoleStart {
			g.RotationSpeed = 0
		}
		updated[i] = g
		index[g.ID] = i
	}

	for _, pair := range DetectMeshes(updated) {
		a, b := index[pair.A], index[pair.B]
		updated[a].MeshedWith = append(updated[a].MeshedWith, pair.B)
		updated[b].MeshedWith = append(updated[b].MeshedWith, pair.A)
	}

	// visited and assigned are local to this call so no state leaks between boards
	visited := make(map[string]bool, len(updated))
	assigned := make(map[string]float64, len(updated))
	queue := make([]int, 0, len(updated))

	for i, g := range updated {
		if g.Role == RoleStart && g.RotationSpeed != 0 {
			visited[g.ID] = true
			assigned[g.ID] = g.RotationSpeed
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		current := &updated[queue[0]]
		queue = queue[1:]

		if current.Locked {
			continue
		}

		currentTeeth := float64(DimensionsOf(current.Size).Teeth)
		for _, neighborID := range current.MeshedWith {
			ni := index[neighborID]
			neighbor := &updated[ni]
			ratio := currentTeeth / float64(DimensionsOf(neighbor.Size).Teeth)
			expected := -current.RotationSpeed * ratio

			if visited[neighborID] {
				existing := assigned[neighborID]
				if neighbor.Role != RoleStart && existing != 0 && sign(existing) != sign(expected) {
					neighbor.Locked = true
					neighbor.RotationSpeed = 0
				}
				continue
			}

			// a stopped start gear is not seeded, but it is still a motor
			if neighbor.Role == RoleStart {
				continue
			}

			visited[neighborID] = true
			assigned[neighborID] = expected
			neighbor.RotationSpeed = expected
			queue = append(queue, ni)
		}
	}

	return updated
}

// InitializeStartDefaults gives every start gear with speed 0 the base speed
func InitializeStartDefaults(gears []Gear) []Gear {
	result := make([]Gear, len(gears))
	for i, g := range gears {
		if g.Role == RoleStart && g.RotationSpeed == 0 {
			g.RotationSpeed = BaseRotationSpeed
		}
		g.MeshedWith = append([]string(nil), g.MeshedWith...)
		result[i] = g
	}
	return result
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
