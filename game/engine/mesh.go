package engine

// DetectMeshes returns every engaged pair of gears.
// Pairs are reported in input order (i < j), which keeps adjacency lists
// built from them deterministic.
func DetectMeshes(gears []Gear) []MeshPair {
	var pairs []MeshPair
	for i := 0; i < len(gears); i++ {
		for j := i + 1; j < len(gears); j++ {
			if CanMesh(gears[i], gears[j]) {
				pairs = append(pairs, MeshPair{A: gears[i].ID, B: gears[j].ID})
			}
		}
	}
	return pairs
}
