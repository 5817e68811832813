package geometry

import "sort"

// Node is one ring in a containment tree. Children are the rings nested
// exactly one level deeper.
type Node struct {
	Polygon  Polygon
	Children []*Node
}

// NestingTree arranges pairwise non-crossing rings into a forest where each
// node's ring strictly contains its children's rings. The input rings are
// kept verbatim (the kernel's boolean-based tree would re-emit perturbed
// geometry, and the perimeter generator must output the exact loops it
// computed).
func NestingTree(pp Polygons) []*Node {
	idx := make([]int, len(pp))
	areas := make([]float64, len(pp))
	for i, p := range pp {
		idx[i] = i
		a := p.Area()
		if a < 0 {
			a = -a
		}
		areas[i] = a
	}
	// Larger rings first so every parent is placed before its children.
	sort.SliceStable(idx, func(a, b int) bool {
		return areas[idx[a]] > areas[idx[b]]
	})

	var roots []*Node
	for _, i := range idx {
		if len(pp[i]) == 0 {
			continue
		}
		insertNode(&roots, &Node{Polygon: pp[i]})
	}
	return roots
}

func insertNode(nodes *[]*Node, n *Node) {
	for _, cand := range *nodes {
		if cand.Polygon.Contains(n.Polygon[0]) {
			insertNode(&cand.Children, n)
			return
		}
	}
	*nodes = append(*nodes, n)
}
