package geometry

// ChainIndices orders the given representative points by a greedy
// nearest-neighbor walk starting from the point closest to start. The result
// is a permutation of the input indices. This minimizes consecutive travel
// distance, not total tour length.
func ChainIndices(points []Point, start Point) []int {
	out := make([]int, 0, len(points))
	used := make([]bool, len(points))
	cur := start
	for len(out) < len(points) {
		best := -1
		var bestDist float64
		for i, pt := range points {
			if used[i] {
				continue
			}
			d := cur.DistanceTo(pt)
			if best < 0 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		used[best] = true
		out = append(out, best)
		cur = points[best]
	}
	return out
}
