package layer

import (
	"fmt"
	"sort"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

// weldMargin is the grow-then-shrink distance (scaled) used to weld
// near-coincident facet edges into clean manifold contours.
const weldMargin = geometry.Scale / 1000 // 1 micron

// MakeSlices reconstructs well-formed filled regions from the raw
// cross-section loops. The loops may be incorrectly nested (overlapping
// facets produce concentric loops with the same winding), so instead of a
// fill rule the loops are folded in area order: big loops first, positive
// windings unioned in, negative windings subtracted as holes.
func (lr *LayerRegion) MakeSlices() error {
	areas := make([]float64, len(lr.RawLoops))
	order := make([]int, len(lr.RawLoops))
	for i, p := range lr.RawLoops {
		areas[i] = p.Area()
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return abs(areas[order[a]]) > abs(areas[order[b]])
	})

	var acc geometry.Polygons
	var err error
	for _, i := range order {
		loop := lr.RawLoops[i]
		if areas[i] >= 0 {
			// Prepending makes the union recompute nesting for loops
			// overlapping earlier geometry.
			acc, err = geometry.Union(append(geometry.Polygons{loop}, acc...))
		} else {
			acc, err = geometry.Difference(acc, geometry.Polygons{loop})
		}
		if err != nil {
			return fmt.Errorf("fold slice loops: %v", err)
		}
	}

	// Weld near-coincident edges, then shrink back to original size.
	welded := geometry.Offset2Ex(acc, +weldMargin, -weldMargin)

	lr.Slices = lr.Slices[:0]
	for _, exp := range welded {
		lr.Slices = append(lr.Slices, surface.New(surface.Internal, exp))
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
