package graph

// danglingNodes returns the ids whose outdegree is exactly zero, ascending.
func danglingNodes(outDegree []int) []int {
	var ids []int
	for id, deg := range outDegree {
		if deg == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
