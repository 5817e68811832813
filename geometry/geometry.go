// Package geometry provides the fixed-point 2D primitives used by the
// per-layer slicing pipeline, plus the polygon kernel operations (booleans,
// offsets, nesting trees, path chaining, medial axis) built on top of the
// Clipper library.
//
// All coordinates are in scaled units: 1 mm = 1,000,000 units. Contours are
// counter-clockwise (positive signed area), holes are clockwise (negative
// signed area), everywhere in this module.
package geometry

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// Scale is the number of fixed-point units per millimeter.
const Scale = 1e6

// Epsilon is the smallest scaled distance treated as geometrically
// meaningful (0.1 micron).
const Epsilon = 100

// Scaled converts millimeters to scaled units.
func Scaled(mm float64) int64 {
	return int64(math.Round(mm * Scale))
}

// Unscaled converts scaled units back to millimeters.
func Unscaled(v int64) float64 {
	return float64(v) / Scale
}

// UnscaledArea converts a scaled-units² area to mm².
func UnscaledArea(a float64) float64 {
	return a / (Scale * Scale)
}

// Point is a position in scaled units.
type Point struct {
	X, Y int64
}

// DistanceTo returns the Euclidean distance to q in scaled units.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Polygon is a closed ring of points. The closing edge from the last point
// back to the first is implicit.
type Polygon []Point

// Polygons is a set of rings, possibly mixing contours and holes.
type Polygons []Polygon

// Polyline is an open path.
type Polyline []Point

// Polylines is a set of open paths.
type Polylines []Polyline

// Area returns the signed area of the ring in scaled units². Positive means
// counter-clockwise (a contour), negative means clockwise (a hole).
func (p Polygon) Area() float64 {
	return clipper.Area(toClipperPath(p))
}

// IsCounterClockwise reports whether the ring is a contour.
func (p Polygon) IsCounterClockwise() bool {
	return clipper.Orientation(toClipperPath(p))
}

// Reversed returns a copy of the ring with opposite winding.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Contains reports whether pt lies inside the ring or on its boundary,
// regardless of winding.
func (p Polygon) Contains(pt Point) bool {
	ip := &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	return clipper.PointInPolygon(ip, toClipperPath(p)) != 0
}

// Split opens the ring into a polyline by duplicating the first vertex at
// the end.
func (p Polygon) Split() Polyline {
	if len(p) == 0 {
		return nil
	}
	out := make(Polyline, len(p)+1)
	copy(out, p)
	out[len(p)] = p[0]
	return out
}

// Length returns the ring's perimeter in scaled units.
func (p Polygon) Length() float64 {
	return p.Split().Length()
}

// BoundingBox returns the axis-aligned bounds of the ring.
func (p Polygon) BoundingBox() BoundingBox {
	var bb BoundingBox
	for i, pt := range p {
		bb.extend(pt, i == 0)
	}
	return bb
}

// Area returns the sum of the signed areas of all rings.
func (pp Polygons) Area() float64 {
	var a float64
	for _, p := range pp {
		a += p.Area()
	}
	return a
}

// BoundingBox returns the axis-aligned bounds of all rings.
func (pp Polygons) BoundingBox() BoundingBox {
	var bb BoundingBox
	first := true
	for _, p := range pp {
		for _, pt := range p {
			bb.extend(pt, first)
			first = false
		}
	}
	return bb
}

// Contains reports whether pt lies inside the region described by the rings
// under the non-zero winding rule (inside a contour and outside its holes).
func (pp Polygons) Contains(pt Point) bool {
	for _, p := range pp {
		if p.Contains(pt) {
			return true
		}
	}
	return false
}

// Length returns the polyline length in scaled units.
func (l Polyline) Length() float64 {
	var d float64
	for i := 1; i < len(l); i++ {
		d += l[i-1].DistanceTo(l[i])
	}
	return d
}

// Reversed returns a copy of the polyline walked in the opposite direction.
func (l Polyline) Reversed() Polyline {
	out := make(Polyline, len(l))
	for i, pt := range l {
		out[len(l)-1-i] = pt
	}
	return out
}

// Lines splits the polyline into its individual two-point segments.
func (l Polyline) Lines() Polylines {
	var out Polylines
	for i := 1; i < len(l); i++ {
		out = append(out, Polyline{l[i-1], l[i]})
	}
	return out
}

// MidPoint returns the point halfway along the polyline by arc length.
func (l Polyline) MidPoint() Point {
	if len(l) == 0 {
		return Point{}
	}
	half := l.Length() / 2
	for i := 1; i < len(l); i++ {
		d := l[i-1].DistanceTo(l[i])
		if d >= half && d > 0 {
			t := half / d
			return Point{
				X: l[i-1].X + int64(math.Round(t*float64(l[i].X-l[i-1].X))),
				Y: l[i-1].Y + int64(math.Round(t*float64(l[i].Y-l[i-1].Y))),
			}
		}
		half -= d
	}
	return l[len(l)-1]
}

// Simplified reduces the polyline with the Douglas-Peucker algorithm so that
// no removed point deviates more than tolerance (scaled units) from the
// simplified path. Clipper's polygon cleaning only handles closed rings, so
// open paths carry their own reducer.
func (l Polyline) Simplified(tolerance float64) Polyline {
	if len(l) <= 2 || tolerance <= 0 {
		return l
	}
	keep := make([]bool, len(l))
	keep[0], keep[len(l)-1] = true, true
	dpMark(l, 0, len(l)-1, tolerance, keep)
	out := make(Polyline, 0, len(l))
	for i, k := range keep {
		if k {
			out = append(out, l[i])
		}
	}
	return out
}

func dpMark(l Polyline, first, last int, tolerance float64, keep []bool) {
	var maxDist float64
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		if d := pointSegmentDistance(l[i], l[first], l[last]); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx < 0 || maxDist <= tolerance {
		return
	}
	keep[maxIdx] = true
	dpMark(l, first, maxIdx, tolerance, keep)
	dpMark(l, maxIdx, last, tolerance, keep)
}

func pointSegmentDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.DistanceTo(a)
	}
	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	proj := Point{
		X: a.X + int64(math.Round(t*dx)),
		Y: a.Y + int64(math.Round(t*dy)),
	}
	return p.DistanceTo(proj)
}

// ExPolygon is one outer contour (counter-clockwise) plus the holes
// (clockwise) strictly contained in it.
type ExPolygon struct {
	Contour Polygon
	Holes   Polygons
}

// ExPolygons is a set of disjoint filled regions.
type ExPolygons []ExPolygon

// Polygons flattens the region into its contour and hole rings.
func (e ExPolygon) Polygons() Polygons {
	out := make(Polygons, 0, 1+len(e.Holes))
	out = append(out, e.Contour)
	out = append(out, e.Holes...)
	return out
}

// Area returns the region's enclosed area (contour minus holes) in scaled
// units².
func (e ExPolygon) Area() float64 {
	return e.Polygons().Area()
}

// Contains reports whether pt lies inside the region (inside the contour and
// outside every hole).
func (e ExPolygon) Contains(pt Point) bool {
	if !e.Contour.Contains(pt) {
		return false
	}
	for _, h := range e.Holes {
		ip := &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
		if clipper.PointInPolygon(ip, toClipperPath(h)) == 1 {
			return false
		}
	}
	return true
}

// BoundingBox returns the bounds of the outer contour.
func (e ExPolygon) BoundingBox() BoundingBox {
	return e.Contour.BoundingBox()
}

// Polygons flattens all regions into one ring set.
func (ee ExPolygons) Polygons() Polygons {
	var out Polygons
	for _, e := range ee {
		out = append(out, e.Polygons()...)
	}
	return out
}

// Area returns the total enclosed area of all regions in scaled units².
func (ee ExPolygons) Area() float64 {
	var a float64
	for _, e := range ee {
		a += e.Area()
	}
	return a
}

// BoundingBox is an axis-aligned rectangle in scaled units.
type BoundingBox struct {
	Min, Max Point
}

func (bb *BoundingBox) extend(pt Point, first bool) {
	if first {
		bb.Min, bb.Max = pt, pt
		return
	}
	if pt.X < bb.Min.X {
		bb.Min.X = pt.X
	}
	if pt.X > bb.Max.X {
		bb.Max.X = pt.X
	}
	if pt.Y < bb.Min.Y {
		bb.Min.Y = pt.Y
	}
	if pt.Y > bb.Max.Y {
		bb.Max.Y = pt.Y
	}
}

// Width returns the X extent of the box.
func (bb BoundingBox) Width() int64 { return bb.Max.X - bb.Min.X }

// Height returns the Y extent of the box.
func (bb BoundingBox) Height() int64 { return bb.Max.Y - bb.Min.Y }
