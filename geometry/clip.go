package geometry

import (
	"fmt"

	clipper "github.com/ctessum/go.clipper"
)

// safetyDelta is the tiny outward offset applied to clip geometry by the
// safety variants so that adjacent coincident edges merge instead of leaving
// zero-width slivers.
const safetyDelta = 10

// miterLimit bounds the spike length produced at sharp convex corners when
// offsetting with miter joins.
const miterLimit = 3

func toClipperPath(p Polygon) clipper.Path {
	out := make(clipper.Path, len(p))
	for i, pt := range p {
		out[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	}
	return out
}

func toClipperPaths(pp Polygons) clipper.Paths {
	out := make(clipper.Paths, len(pp))
	for i, p := range pp {
		out[i] = toClipperPath(p)
	}
	return out
}

func toClipperLine(l Polyline) clipper.Path {
	out := make(clipper.Path, len(l))
	for i, pt := range l {
		out[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	}
	return out
}

func fromClipperPath(cp clipper.Path) Polygon {
	out := make(Polygon, len(cp))
	for i, pt := range cp {
		out[i] = Point{X: int64(pt.X), Y: int64(pt.Y)}
	}
	return out
}

func fromClipperPaths(cps clipper.Paths) Polygons {
	out := make(Polygons, 0, len(cps))
	for _, cp := range cps {
		if len(cp) < 3 {
			continue
		}
		out = append(out, fromClipperPath(cp))
	}
	return out
}

// fromPolyTree converts a clipper nesting tree into ExPolygons, normalizing
// windings: contours counter-clockwise, holes clockwise. Islands nested
// inside holes become their own ExPolygons.
func fromPolyTree(tree *clipper.PolyTree) ExPolygons {
	var out ExPolygons
	var walk func(nodes []*clipper.PolyNode)
	walk = func(nodes []*clipper.PolyNode) {
		for _, n := range nodes {
			contour := fromClipperPath(n.Contour())
			if len(contour) < 3 {
				walk(n.Childs())
				continue
			}
			if !contour.IsCounterClockwise() {
				contour = contour.Reversed()
			}
			exp := ExPolygon{Contour: contour}
			for _, h := range n.Childs() {
				hole := fromClipperPath(h.Contour())
				if len(hole) >= 3 {
					if hole.IsCounterClockwise() {
						hole = hole.Reversed()
					}
					exp.Holes = append(exp.Holes, hole)
				}
				walk(h.Childs())
			}
			out = append(out, exp)
		}
	}
	walk(tree.Childs())
	return out
}

func execute(op clipper.ClipType, subject, clip Polygons) (Polygons, error) {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(subject), clipper.PtSubject, true)
	if clip != nil {
		c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	}
	solution, ok := c.Execute1(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper: boolean operation %v failed", op)
	}
	return fromClipperPaths(solution), nil
}

func executeEx(op clipper.ClipType, subject, clip Polygons) (ExPolygons, error) {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(subject), clipper.PtSubject, true)
	if clip != nil {
		c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	}
	tree, ok := c.Execute2(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper: boolean operation %v failed", op)
	}
	return fromPolyTree(tree), nil
}

// Union merges all rings under the non-zero rule.
func Union(pp Polygons) (Polygons, error) {
	return execute(clipper.CtUnion, pp, nil)
}

// UnionEx merges all rings and reconstructs contour/hole structure.
func UnionEx(pp Polygons) (ExPolygons, error) {
	return executeEx(clipper.CtUnion, pp, nil)
}

// Difference subtracts clip from subject.
func Difference(subject, clip Polygons) (Polygons, error) {
	return execute(clipper.CtDifference, subject, clip)
}

// DifferenceEx subtracts clip from subject and reconstructs regions.
func DifferenceEx(subject, clip Polygons) (ExPolygons, error) {
	return executeEx(clipper.CtDifference, subject, clip)
}

// Intersection keeps the area common to subject and clip.
func Intersection(subject, clip Polygons) (Polygons, error) {
	return execute(clipper.CtIntersection, subject, clip)
}

// IntersectionEx keeps the common area as regions. With safety set, the clip
// set is grown by a sub-micron amount first so that regions meeting along a
// shared edge merge instead of producing zero-width gaps.
func IntersectionEx(subject, clip Polygons, safety bool) (ExPolygons, error) {
	if safety {
		clip = Offset(clip, safetyDelta)
	}
	return executeEx(clipper.CtIntersection, subject, clip)
}

// IntersectionPl clips open polylines against a closed region set, returning
// the portions of each line that lie inside.
func IntersectionPl(lines Polylines, clip Polygons) (Polylines, error) {
	c := clipper.NewClipper(clipper.IoNone)
	for _, l := range lines {
		if len(l) >= 2 {
			c.AddPath(toClipperLine(l), clipper.PtSubject, false)
		}
	}
	c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	tree, ok := c.Execute2(clipper.CtIntersection, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("clipper: polyline clipping failed")
	}
	open := c.OpenPathsFromPolyTree(tree)
	var out Polylines
	for _, p := range open {
		if len(p) >= 2 {
			out = append(out, Polyline(fromClipperPath(p)))
		}
	}
	return out, nil
}

func newOffset(pp Polygons) *clipper.ClipperOffset {
	co := clipper.NewClipperOffset()
	co.MiterLimit = miterLimit
	co.AddPaths(toClipperPaths(pp), clipper.JtMiter, clipper.EtClosedPolygon)
	return co
}

// Offset grows (delta > 0) or shrinks (delta < 0) the region boundary by
// delta scaled units. Rings that collapse simply disappear from the result.
func Offset(pp Polygons, delta int64) Polygons {
	if len(pp) == 0 {
		return nil
	}
	return fromClipperPaths(newOffset(pp).Execute(float64(delta)))
}

// OffsetEx is Offset with contour/hole reconstruction.
func OffsetEx(pp Polygons, delta int64) ExPolygons {
	if len(pp) == 0 {
		return nil
	}
	return fromPolyTree(newOffset(pp).Execute2(float64(delta)))
}

// Offset2 applies two offset passes (delta1 then delta2). Shrinking before
// growing back removes features narrower than the shrink distance without
// producing degenerate geometry; growing before shrinking welds near-touching
// edges. This is the double offset used throughout the perimeter generator.
func Offset2(pp Polygons, delta1, delta2 int64) Polygons {
	return Offset(Offset(pp, delta1), delta2)
}

// Offset2Ex is Offset2 with contour/hole reconstruction of the final result.
func Offset2Ex(pp Polygons, delta1, delta2 int64) ExPolygons {
	return OffsetEx(Offset(pp, delta1), delta2)
}

// Clean removes vertices closer than distance to their neighbors or nearly
// collinear with them, dropping rings that degenerate below three vertices.
func Clean(pp Polygons, distance float64) Polygons {
	if len(pp) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	return fromClipperPaths(c.CleanPolygons(toClipperPaths(pp), distance))
}
