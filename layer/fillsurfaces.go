package layer

import (
	"fmt"

	"github.com/Cloud-3D-Print/SuperSlicer/bridge"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

// externalInfillMargin is how far (mm) top and bottom shells grow over the
// neighboring infill so they stay anchored.
const externalInfillMargin = 3.0

// DetectSurfacesType relabels the residual fill surfaces by comparing the
// layer with its neighbors: area not covered by the layer above faces air
// and becomes top, area not supported by the layer below becomes bottom,
// the rest keeps its type. Where a region is both (a one-layer plate),
// bottom wins.
func (lr *LayerRegion) DetectSurfacesType() error {
	var out surface.Collection
	for _, s := range lr.FillSurfaces {
		polys := s.ExPolygon.Polygons()

		bottom := geometry.ExPolygons{s.ExPolygon}
		if lower := lr.layer.Lower; lower != nil {
			var err error
			bottom, err = geometry.DifferenceEx(polys, lower.Slices().Polygons())
			if err != nil {
				return fmt.Errorf("bottom detection: %v", err)
			}
		}

		top := geometry.ExPolygons{s.ExPolygon}
		if upper := lr.layer.Upper; upper != nil {
			var err error
			top, err = geometry.DifferenceEx(polys, upper.Slices().Polygons())
			if err != nil {
				return fmt.Errorf("top detection: %v", err)
			}
		}
		if len(bottom) > 0 && len(top) > 0 {
			var err error
			top, err = geometry.DifferenceEx(top.Polygons(), bottom.Polygons())
			if err != nil {
				return fmt.Errorf("top/bottom overlap: %v", err)
			}
		}

		covered := append(append(geometry.Polygons{}, bottom.Polygons()...), top.Polygons()...)
		rest, err := geometry.DifferenceEx(polys, covered)
		if err != nil {
			return fmt.Errorf("internal detection: %v", err)
		}

		for _, exp := range bottom {
			out = append(out, surface.New(surface.Bottom, exp))
		}
		for _, exp := range top {
			out = append(out, surface.New(surface.Top, exp))
		}
		for _, exp := range rest {
			out = append(out, surface.New(s.Type, exp))
		}
	}
	lr.FillSurfaces = out
	return nil
}

// PrepareFillSurfaces reassigns fill-surface types from the configuration:
// shells nobody asked for become sparse infill, and small sparse regions
// become solid.
func (lr *LayerRegion) PrepareFillSurfaces() {
	cfg := lr.Config
	for i := range lr.FillSurfaces {
		s := &lr.FillSurfaces[i]
		if s.Type == surface.Top && cfg.TopSolidLayers == 0 {
			s.Type = surface.Internal
		}
		if s.Type == surface.Bottom && cfg.BottomSolidLayers == 0 {
			s.Type = surface.Internal
		}
	}
	if cfg.FillDensity > 0 && cfg.SolidInfillBelowArea > 0 {
		// The threshold is an area, so it scales twice.
		threshold := cfg.SolidInfillBelowArea * geometry.Scale * geometry.Scale
		for i := range lr.FillSurfaces {
			s := &lr.FillSurfaces[i]
			if s.Type == surface.Internal && s.ExPolygon.Area() <= threshold {
				s.Type = surface.InternalSolid
			}
		}
	}
}

// ProcessExternalSurfaces grows top and bottom shells over the neighboring
// infill, detects bridge directions for bottom shells, and re-partitions the
// fill surfaces so the collection still tiles exactly the same area.
func (lr *LayerRegion) ProcessExternalSurfaces() error {
	margin := geometry.Scaled(externalInfillMargin)

	// Bottom shells grow first and take priority. The bridge angle is
	// detected on the ungrown region so two adjacent bridges that need
	// different angles do not merge.
	var grownBottom surface.Collection
	for _, s := range lr.FillSurfaces.FilterByType(surface.Bottom) {
		angle := surface.NoBridgeAngle
		if lower := lr.layer.Lower; lower != nil {
			d := bridge.New(s.ExPolygon, lower.Slices(),
				lr.Flows.Perimeter.ScaledWidth(), lr.Flows.Infill.ScaledWidth())
			a, ok, err := d.Detect()
			if err != nil {
				return fmt.Errorf("bridge detection: %v", err)
			}
			if ok {
				angle = a
			}
		}
		for _, exp := range geometry.OffsetEx(s.ExPolygon.Polygons(), margin) {
			grown := surface.New(surface.Bottom, exp)
			grown.BridgeAngle = angle
			grownBottom = append(grownBottom, grown)
		}
	}

	var grownTop surface.Collection
	bottomPolys := grownBottom.Polygons()
	for _, s := range lr.FillSurfaces.FilterByType(surface.Top) {
		grown, err := geometry.DifferenceEx(
			geometry.Offset(s.ExPolygon.Polygons(), margin), bottomPolys)
		if err != nil {
			return fmt.Errorf("grow top: %v", err)
		}
		for _, exp := range grown {
			grownTop = append(grownTop, surface.New(surface.Top, exp))
		}
	}

	// Shells may only grow over area that will actually hold material: with
	// sparse infill disabled, internal regions are hollow and cannot anchor
	// anything.
	var boundary geometry.Polygons
	if lr.Config.FillDensity > 0 {
		boundary = lr.FillSurfaces.Polygons()
	} else {
		boundary = lr.FillSurfaces.ExcludeType(surface.Internal).Polygons()
	}

	// Clip the grown shells to the boundary and claim area in order,
	// keeping the collection disjoint.
	var out surface.Collection
	var claimed geometry.Polygons
	for _, s := range append(grownBottom, grownTop...) {
		clipped, err := geometry.IntersectionEx(s.ExPolygon.Polygons(), boundary, true)
		if err != nil {
			return fmt.Errorf("clip shell growth: %v", err)
		}
		pieces, err := geometry.DifferenceEx(clipped.Polygons(), claimed)
		if err != nil {
			return fmt.Errorf("resolve shell overlap: %v", err)
		}
		for _, exp := range pieces {
			shell := surface.New(s.Type, exp)
			shell.BridgeAngle = s.BridgeAngle
			out = append(out, shell)
			claimed = append(claimed, exp.Polygons()...)
		}
	}

	// Whatever the shells claimed comes out of the remaining surfaces.
	for _, s := range lr.FillSurfaces.ExcludeType(surface.Top, surface.Bottom) {
		rest, err := geometry.DifferenceEx(s.ExPolygon.Polygons(), claimed)
		if err != nil {
			return fmt.Errorf("trim remaining surfaces: %v", err)
		}
		for _, exp := range rest {
			trimmed := surface.New(s.Type, exp)
			trimmed.BridgeAngle = s.BridgeAngle
			out = append(out, trimmed)
		}
	}
	lr.FillSurfaces = out
	return nil
}
