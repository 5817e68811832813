// Package surface defines the typed filled regions flowing between the
// stages of the layer pipeline.
package surface

import "github.com/Cloud-3D-Print/SuperSlicer/geometry"

// Type classifies what a region of a layer faces.
type Type int

const (
	// Internal regions are surrounded by material above and below.
	Internal Type = iota
	// InternalSolid regions are internal but printed solid.
	InternalSolid
	// InternalBridge regions are internal but unsupported below.
	InternalBridge
	// Top regions face air above.
	Top
	// Bottom regions face air (or the bed) below.
	Bottom
)

func (t Type) String() string {
	switch t {
	case Internal:
		return "internal"
	case InternalSolid:
		return "internal-solid"
	case InternalBridge:
		return "internal-bridge"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// NoBridgeAngle marks a surface with no detected bridge direction.
const NoBridgeAngle = -1.0

// Surface is a typed filled region.
type Surface struct {
	Type      Type
	ExPolygon geometry.ExPolygon

	// ExtraPerimeters adds loops beyond the configured count for this
	// region only.
	ExtraPerimeters int

	// BridgeAngle is the detected bridge fill direction in radians, or
	// NoBridgeAngle.
	BridgeAngle float64

	// Thickness is the accumulated shell thickness (mm) over
	// ThicknessLayers layers.
	Thickness       float64
	ThicknessLayers int
}

// New returns a surface of the given type with no bridge angle.
func New(t Type, exp geometry.ExPolygon) Surface {
	return Surface{Type: t, ExPolygon: exp, BridgeAngle: NoBridgeAngle}
}

// Collection is an ordered set of surfaces.
type Collection []Surface

// FilterByType returns the surfaces of the given type.
func (c Collection) FilterByType(t Type) Collection {
	var out Collection
	for _, s := range c {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// ExcludeType returns the surfaces not of the given types.
func (c Collection) ExcludeType(types ...Type) Collection {
	var out Collection
	for _, s := range c {
		skip := false
		for _, t := range types {
			if s.Type == t {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, s)
		}
	}
	return out
}

// Polygons flattens all surfaces into one ring set.
func (c Collection) Polygons() geometry.Polygons {
	var out geometry.Polygons
	for _, s := range c {
		out = append(out, s.ExPolygon.Polygons()...)
	}
	return out
}

// Area returns the total enclosed area in scaled units².
func (c Collection) Area() float64 {
	var a float64
	for _, s := range c {
		a += s.ExPolygon.Area()
	}
	return a
}
