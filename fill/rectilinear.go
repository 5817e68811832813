// Package fill generates infill path patterns over region boundaries.
package fill

import (
	"math"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

// Rectilinear fills a region with parallel lines, zig-zag connected where
// consecutive lines end close together.
type Rectilinear struct {
	// Angle is the line direction in radians.
	Angle float64

	// Spacing is the line spacing (mm) at full density.
	Spacing float64

	// Density is the fill density in (0, 1].
	Density float64
}

// Fill covers the boundary with the pattern and returns the resulting open
// paths. An empty or sub-line-width boundary yields no paths.
func (r *Rectilinear) Fill(boundary geometry.ExPolygon) (geometry.Polylines, error) {
	if r.Density <= 0 || len(boundary.Contour) < 3 {
		return nil, nil
	}
	lineSpacing := geometry.Scaled(r.Spacing / r.Density)
	if lineSpacing <= 0 {
		return nil, nil
	}

	// Work in a frame where the fill direction is horizontal.
	polys := geometry.RotatePolygons(boundary.Polygons(), -r.Angle)
	bb := polys.BoundingBox()

	var lines geometry.Polylines
	for y := bb.Min.Y + lineSpacing/2; y <= bb.Max.Y; y += lineSpacing {
		lines = append(lines, geometry.Polyline{
			{X: bb.Min.X - lineSpacing, Y: y},
			{X: bb.Max.X + lineSpacing, Y: y},
		})
	}
	segs, err := geometry.IntersectionPl(lines, polys)
	if err != nil {
		return nil, err
	}
	paths := connect(sortSegments(segs), lineSpacing)

	out := make(geometry.Polylines, len(paths))
	for i, p := range paths {
		out[i] = geometry.RotatePolyline(p, r.Angle)
	}
	return out, nil
}

// sortSegments orders the clipped segments bottom-to-top, left-to-right, and
// normalizes each to run left-to-right.
func sortSegments(segs geometry.Polylines) geometry.Polylines {
	out := make(geometry.Polylines, 0, len(segs))
	for _, s := range segs {
		if len(s) < 2 {
			continue
		}
		if s[0].X > s[len(s)-1].X {
			s = s.Reversed()
		}
		out = append(out, s)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if a[0].Y < b[0].Y || (a[0].Y == b[0].Y && a[0].X <= b[0].X) {
				break
			}
			out[j-1], out[j] = b, a
		}
	}
	return out
}

// connect joins consecutive segments into zig-zag paths when the travel
// between them is short, alternating direction row by row.
func connect(segs geometry.Polylines, lineSpacing int64) geometry.Polylines {
	maxLink := math.Hypot(float64(lineSpacing), float64(lineSpacing)) * 1.5

	var out geometry.Polylines
	var cur geometry.Polyline
	rightward := true
	var lastY int64
	for i, s := range segs {
		if i == 0 {
			lastY = s[0].Y
		} else if s[0].Y != lastY {
			rightward = !rightward
			lastY = s[0].Y
		}
		if !rightward {
			s = s.Reversed()
		}
		if len(cur) == 0 {
			cur = append(geometry.Polyline{}, s...)
			continue
		}
		tip := cur[len(cur)-1]
		if s[0].Y-tip.Y == lineSpacing && tip.DistanceTo(s[0]) <= maxLink {
			cur = append(cur, s...)
			continue
		}
		out = append(out, cur)
		cur = append(geometry.Polyline{}, s...)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
