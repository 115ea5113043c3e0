package engine

// CountRole counts the gears with a given role
func CountRole(gears []Gear, role GearRole) int {
	count := 0
	for _, g := range gears {
		if g.Role == role {
			count++
		}
	}
	return count
}

// CountLocked counts the locked gears on the board
func CountLocked(gears []Gear) int {
	count := 0
	for _, g := range gears {
		if g.Locked {
			count++
		}
	}
	return count
}

// FindGear returns the gear with the given id
func FindGear(gears []Gear, id string) (Gear, bool) {
	for _, g := range gears {
		if g.ID == id {
			return g, true
		}
	}
	return Gear{}, false
}

// ConnectedToStart returns the ids of gears reachable from a driven start gear
// through mesh links, including gears that ended up locked
func ConnectedToStart(gears []Gear) map[string]bool {
	adjacency := make(map[string][]string, len(gears))
	var queue []string
	reached := make(map[string]bool)

	for _, g := range gears {
		adjacency[g.ID] = g.MeshedWith
		if g.Role == RoleStart && g.RotationSpeed != 0 {
			reached[g.ID] = true
			queue = append(queue, g.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range adjacency[id] {
			if !reached[n] {
				reached[n] = true
				queue = append(queue, n)
			}
		}
	}

	return reached
}
