// Package bridge determines the optimal fill direction for unsupported
// (bridged) regions by examining where the region rests on the layer below.
package bridge

import (
	"math"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

// angleStep is the resolution of the directional sweep (5°).
const angleStep = math.Pi / 36

// Detector finds the bridge fill direction for one bottom region.
type Detector struct {
	// Expolygon is the (ungrown) bridge region.
	Expolygon geometry.ExPolygon

	// LowerSlices is the reconstructed solid area of the layer below.
	LowerSlices geometry.ExPolygons

	// ExtrusionWidth is the scaled perimeter width used to grow the bridge
	// when looking for support.
	ExtrusionWidth int64

	// ScanSpacing is the scaled spacing between sweep scan lines, normally
	// the infill flow width.
	ScanSpacing int64
}

// New returns a detector for the given bridge region over the given lower
// layer.
func New(exp geometry.ExPolygon, lowerSlices geometry.ExPolygons, extrusionWidth, scanSpacing int64) *Detector {
	return &Detector{
		Expolygon:      exp,
		LowerSlices:    lowerSlices,
		ExtrusionWidth: extrusionWidth,
		ScanSpacing:    scanSpacing,
	}
}

// Detect returns the bridge fill angle in [0, π) and true, or false when the
// region is fully unsupported and downstream fill should use its default
// direction.
func (d *Detector) Detect() (float64, bool, error) {
	lower := d.LowerSlices.Polygons()
	if len(lower) == 0 {
		return 0, false, nil
	}

	// Anchors: where the grown bridge overlaps solid material below.
	grown := geometry.Offset(d.Expolygon.Polygons(), d.ExtrusionWidth)
	anchors, err := geometry.IntersectionEx(grown, lower, false)
	if err != nil {
		return 0, false, err
	}
	if len(anchors) == 0 {
		return 0, false, nil
	}

	// Anchor edges: the parts of the grown boundary resting on support. The
	// ungrown boundary only touches the support along shared edges, which
	// boundary-coincident clipping cannot extract reliably.
	var boundary geometry.Polylines
	for _, p := range grown {
		boundary = append(boundary, p.Split())
	}
	edges, err := geometry.IntersectionPl(boundary, lower)
	if err != nil {
		return 0, false, err
	}

	switch {
	case len(edges) == 2:
		// The bridge spans cleanly between two supports: fill along the
		// line joining the anchor midpoints.
		a := edges[0].MidPoint()
		b := edges[1].MidPoint()
		return normalizeAngle(angleBetween(a, b)), true, nil
	case len(edges) == 1 && len(edges[0]) > 2:
		// A single support edge: treat the rest as an overhang following
		// it, filling along the edge's endpoint chord.
		e := edges[0]
		return normalizeAngle(angleBetween(e[0], e[len(e)-1])), true, nil
	}

	angle, err := d.sweep(anchors)
	if err != nil {
		return 0, false, err
	}
	return angle, true, nil
}

// sweep scores each candidate direction by the total length of scan lines
// that cross the bridge with both endpoints on an anchor, and returns the
// first angle reaching the maximum in ascending order.
func (d *Detector) sweep(anchors geometry.ExPolygons) (float64, error) {
	// Clip scan lines to the bridge grown by half a line width so that a
	// line ending flush with the bridge boundary still reaches the anchor
	// band around it.
	clipArea := geometry.Offset(d.Expolygon.Polygons(), d.ExtrusionWidth/2)
	anchorPolys := anchors.Polygons()
	spacing := d.ScanSpacing
	if spacing <= 0 {
		spacing = d.ExtrusionWidth
	}

	bestAngle := 0.0
	bestScore := -1.0
	for angle := 0.0; angle < math.Pi; angle += angleStep {
		rotClip := geometry.RotatePolygons(clipArea, -angle)
		rotAnchors := geometry.RotatePolygons(anchorPolys, -angle)
		bb := rotAnchors.BoundingBox()

		var lines geometry.Polylines
		for y := bb.Min.Y + spacing/2; y <= bb.Max.Y; y += spacing {
			lines = append(lines, geometry.Polyline{
				{X: bb.Min.X - spacing, Y: y},
				{X: bb.Max.X + spacing, Y: y},
			})
		}
		segs, err := geometry.IntersectionPl(lines, rotClip)
		if err != nil {
			return 0, err
		}

		var score float64
		for _, s := range segs {
			if len(s) < 2 {
				continue
			}
			// Only count lines bridged end to end.
			if rotAnchors.Contains(s[0]) && rotAnchors.Contains(s[len(s)-1]) {
				score += s.Length()
			}
		}
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}
	return bestAngle, nil
}

func angleBetween(a, b geometry.Point) float64 {
	return math.Atan2(float64(b.Y-a.Y), float64(b.X-a.X))
}

// normalizeAngle maps a direction into [0, π); fill direction has no sign.
func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += math.Pi
	}
	for a >= math.Pi {
		a -= math.Pi
	}
	return a
}
