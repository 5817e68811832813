package layer

import (
	"fmt"

	"github.com/Cloud-3D-Print/SuperSlicer/extrusion"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

// defaultResolution is the simplification tolerance (mm) used when the
// configuration does not set one.
const defaultResolution = 0.0125

// perimeterGenerator accumulates state across the surfaces of one
// MakePerimeters run: the loop pools shared by all islands, plus the thin
// walls and gaps detected along the way.
type perimeterGenerator struct {
	region    *LayerRegion
	contours  geometry.Polygons
	holes     geometry.Polygons
	thinWalls geometry.ExPolygons
	gaps      geometry.ExPolygons
}

// MakePerimeters insets every reconstructed island into concentric loops,
// classifies extrusion roles, detects thin walls and gaps, and leaves the
// residual fill boundary in FillSurfaces.
func (lr *LayerRegion) MakePerimeters() error {
	lr.Perimeters = nil
	lr.ThinFills = nil
	lr.FillSurfaces = lr.FillSurfaces[:0]

	g := &perimeterGenerator{region: lr}
	for _, s := range lr.Slices {
		if err := g.processSurface(s); err != nil {
			return err
		}
	}
	g.emitLoops()
	if err := g.emitThinWalls(); err != nil {
		return err
	}
	return g.fillGaps()
}

// processSurface runs the inset iteration for one island. Each island is
// processed separately so it can carry its own perimeter count.
func (g *perimeterGenerator) processSurface(s surface.Surface) error {
	lr := g.region
	pw := lr.Flows.Perimeter.ScaledWidth()
	ps := lr.Flows.Perimeter.ScaledSpacing()
	is := lr.Flows.Infill.ScaledSpacing()

	// A region must lose at least a square of perimeter width to count as
	// a thin wall or gap.
	minGapArea := float64(pw) * float64(pw)

	loopCount := lr.Config.Perimeters + s.ExtraPerimeters
	last := s.ExPolygon.Polygons()
	var surfaceGaps geometry.ExPolygons

	for i := 1; i <= loopCount; i++ {
		var offsets geometry.Polygons
		if i == 1 {
			// The first loop sits half a width inside the boundary. The
			// double offset (extra half spacing in, then back out, with a
			// one-unit rounding correction) avoids spikes at concave
			// vertices.
			offsets = geometry.Offset2(last, -(pw/2 + ps/2 - 1), +(ps/2 - 1))
			if lr.Config.ThinWalls {
				// Area the first loop cannot reconstruct is too narrow
				// for any loop at all.
				rebuilt := geometry.Offset(offsets, +pw/2)
				thin, err := geometry.DifferenceEx(last, rebuilt)
				if err != nil {
					return fmt.Errorf("thin wall detection: %v", err)
				}
				for _, t := range thin {
					if t.Area() > minGapArea {
						g.thinWalls = append(g.thinWalls, t)
					}
				}
			}
		} else {
			offsets = geometry.Offset2(last, -(ps + ps/2 - 1), +(ps/2 - 1))
			if lr.Config.GapFillEnabled() {
				// Material between the previous loop's inner edge and
				// this loop's outer edge was skipped by both.
				inner := geometry.Offset(last, -ps/2)
				outer := geometry.Offset(offsets, +ps/2)
				gaps, err := geometry.DifferenceEx(inner, outer)
				if err != nil {
					return fmt.Errorf("gap detection: %v", err)
				}
				for _, gap := range gaps {
					if gap.Area() > minGapArea {
						surfaceGaps = append(surfaceGaps, gap)
					}
				}
			}
		}
		if len(offsets) == 0 {
			// The island was fully consumed by perimeters.
			break
		}
		for _, p := range offsets {
			if p.IsCounterClockwise() {
				g.contours = append(g.contours, p)
			} else {
				g.holes = append(g.holes, p)
			}
		}
		last = offsets
	}

	// The residual fill boundary: drop gap-filled area so it is not
	// covered twice, simplify to the configured resolution, then step from
	// the innermost loop centerline to the infill edge.
	if len(surfaceGaps) > 0 {
		var err error
		last, err = geometry.Difference(last, surfaceGaps.Polygons())
		if err != nil {
			return fmt.Errorf("subtract gaps: %v", err)
		}
		g.gaps = append(g.gaps, surfaceGaps...)
	}
	resolution := lr.Config.Resolution
	if resolution <= 0 {
		resolution = defaultResolution
	}
	last = geometry.Clean(last, float64(geometry.Scaled(resolution)))
	for _, exp := range geometry.Offset2Ex(last, -(ps/2 + is/2), +is/2) {
		fs := surface.New(s.Type, exp)
		lr.FillSurfaces = append(lr.FillSurfaces, fs)
	}
	return nil
}

// emitLoops arranges the pooled loops into containment trees and linearizes
// them into the ordered perimeter sequence.
func (g *perimeterGenerator) emitLoops() {
	lr := g.region
	contourForest := geometry.NestingTree(g.contours)
	holeForest := geometry.NestingTree(g.holes)

	entities := g.traverse(contourForest, &holeForest, 0, true)
	// Stranded hole loops (no contour adopted them, e.g. an island that
	// collapsed to holes only) still have to be printed.
	if len(holeForest) > 0 {
		sub := g.traverse(holeForest, &[]*geometry.Node{}, 0, false)
		entities = append(entities, sub.Reversed()...)
	}

	// Default order is innermost-first; reverse it when the outside must
	// be printed before travel continues inward.
	if lr.Config.ExternalPerimetersFirst || (lr.layer.ID == 0 && lr.Print.BrimWidth > 0) {
		entities = entities.Reversed()
	}
	lr.Perimeters = append(lr.Perimeters, entities...)
}

// traverse walks one forest depth-first. Siblings are visited in
// nearest-neighbor order over their first vertices. While walking contours
// at depth 0, hole-tree roots contained in the contour are detached from the
// hole pool and emitted (innermost-first) before the contour itself.
func (g *perimeterGenerator) traverse(nodes []*geometry.Node, holePool *[]*geometry.Node, depth int, isContour bool) extrusion.Collection {
	firsts := make([]geometry.Point, len(nodes))
	for i, n := range nodes {
		firsts[i] = n.Polygon[0]
	}
	var out extrusion.Collection
	for _, i := range geometry.ChainIndices(firsts, geometry.Point{}) {
		n := nodes[i]
		if isContour && depth == 0 {
			var adopted []*geometry.Node
			remaining := (*holePool)[:0]
			for _, h := range *holePool {
				if n.Polygon.Contains(h.Polygon[0]) {
					adopted = append(adopted, h)
				} else {
					remaining = append(remaining, h)
				}
			}
			*holePool = remaining
			if len(adopted) > 0 {
				sub := g.traverse(adopted, holePool, 0, false)
				// Reversed so each hole's own children precede it.
				out = append(out, sub.Reversed()...)
			}
		}
		children := g.traverse(n.Children, holePool, depth+1, isContour)
		if isContour {
			out = append(out, children...)
			out = append(out, g.loop(n, depth, isContour))
		} else {
			out = append(out, g.loop(n, depth, isContour))
			out = append(out, children...)
		}
	}
	return out
}

// loop builds the extrusion entity for one tree node. Contours keep their
// counter-clockwise winding, holes their clockwise winding, so downstream
// ordering can compute inward travel moves.
func (g *perimeterGenerator) loop(n *geometry.Node, depth int, isContour bool) extrusion.Loop {
	role := extrusion.Perimeter
	switch {
	case isContour && depth == 0:
		role = extrusion.ExternalPerimeter
	case isContour && depth == 1:
		role = extrusion.ContourInternalPerimeter
	case !isContour && len(n.Children) == 0:
		role = extrusion.ExternalPerimeter
	}
	return extrusion.Loop{
		Role:    role,
		Polygon: n.Polygon,
		Hole:    !isContour,
		Flow:    g.region.Flows.Perimeter,
	}
}

// emitThinWalls turns the regions too narrow for a loop into single
// medial-axis strokes.
func (g *perimeterGenerator) emitThinWalls() error {
	if len(g.thinWalls) == 0 {
		return nil
	}
	lr := g.region
	ps := lr.Flows.Perimeter.ScaledSpacing()

	var walls extrusion.Collection
	for _, t := range g.thinWalls {
		paths, err := geometry.MedialAxis(t, ps, 2*ps)
		if err != nil {
			return fmt.Errorf("medial axis: %v", err)
		}
		for _, p := range paths {
			if p.Closed {
				walls = append(walls, extrusion.Loop{
					Role:    extrusion.ExternalPerimeter,
					Polygon: geometry.Polygon(p.Points),
					Flow:    lr.Flows.Perimeter,
				})
			} else {
				walls = append(walls, extrusion.Path{
					Role:     extrusion.ExternalPerimeter,
					Polyline: p.Points,
					Flow:     lr.Flows.Perimeter,
				})
			}
		}
	}

	firsts := make([]geometry.Point, len(walls))
	for i, w := range walls {
		firsts[i] = w.FirstPoint()
	}
	for _, i := range geometry.ChainIndices(firsts, geometry.Point{}) {
		lr.Perimeters = append(lr.Perimeters, walls[i])
	}
	return nil
}
