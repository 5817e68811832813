package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotatePoint rotates p around the origin by angle radians.
func RotatePoint(p Point, angle float64) Point {
	v := mgl64.Rotate2D(angle).Mul2x1(mgl64.Vec2{float64(p.X), float64(p.Y)})
	return Point{X: int64(math.Round(v.X())), Y: int64(math.Round(v.Y()))}
}

// RotatePolygon rotates every vertex of the ring around the origin.
func RotatePolygon(p Polygon, angle float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = RotatePoint(pt, angle)
	}
	return out
}

// RotatePolygons rotates every ring around the origin.
func RotatePolygons(pp Polygons, angle float64) Polygons {
	out := make(Polygons, len(pp))
	for i, p := range pp {
		out[i] = RotatePolygon(p, angle)
	}
	return out
}

// RotatePolyline rotates every vertex of the path around the origin.
func RotatePolyline(l Polyline, angle float64) Polyline {
	out := make(Polyline, len(l))
	for i, pt := range l {
		out[i] = RotatePoint(pt, angle)
	}
	return out
}
