// Package extrusion defines the path and loop entities produced by the
// perimeter and fill stages, tagged with the semantic role consumed by
// downstream path ordering and motion control.
package extrusion

import (
	"github.com/Cloud-3D-Print/SuperSlicer/flow"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

// Role tags what an extrusion entity is for.
type Role int

const (
	// Perimeter is an inner concentric loop.
	Perimeter Role = iota
	// ExternalPerimeter is a loop on the outside of the part.
	ExternalPerimeter
	// ContourInternalPerimeter is the loop one level inside an external
	// contour.
	ContourInternalPerimeter
	// GapFill is a short zig-zag filling a gap between perimeters.
	GapFill
	// SolidFill is dense infill.
	SolidFill
)

func (r Role) String() string {
	switch r {
	case Perimeter:
		return "perimeter"
	case ExternalPerimeter:
		return "external-perimeter"
	case ContourInternalPerimeter:
		return "contour-internal-perimeter"
	case GapFill:
		return "gap-fill"
	case SolidFill:
		return "solid-fill"
	}
	return "unknown"
}

// Entity is either a Loop or a Path in an ordered extrusion sequence.
type Entity interface {
	ExtrusionRole() Role
	Length() float64
	FirstPoint() geometry.Point
}

// Path is an open extrusion move.
type Path struct {
	Role     Role
	Polyline geometry.Polyline
	Flow     flow.Flow
}

// Loop is a closed extrusion move. Hole loops wind clockwise, contour loops
// counter-clockwise, so the consumer can compute inward travel moves.
type Loop struct {
	Role    Role
	Polygon geometry.Polygon
	Hole    bool
	Flow    flow.Flow
}

// ExtrusionRole implements Entity.
func (p Path) ExtrusionRole() Role { return p.Role }

// Length implements Entity.
func (p Path) Length() float64 { return p.Polyline.Length() }

// FirstPoint implements Entity.
func (p Path) FirstPoint() geometry.Point {
	if len(p.Polyline) == 0 {
		return geometry.Point{}
	}
	return p.Polyline[0]
}

// ExtrusionRole implements Entity.
func (l Loop) ExtrusionRole() Role { return l.Role }

// Length implements Entity.
func (l Loop) Length() float64 { return l.Polygon.Length() }

// FirstPoint implements Entity.
func (l Loop) FirstPoint() geometry.Point {
	if len(l.Polygon) == 0 {
		return geometry.Point{}
	}
	return l.Polygon[0]
}

// Collection is an ordered sequence of extrusion entities.
type Collection []Entity

// Reversed returns the collection in opposite order.
func (c Collection) Reversed() Collection {
	out := make(Collection, len(c))
	for i, e := range c {
		out[len(c)-1-i] = e
	}
	return out
}
