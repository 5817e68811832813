package layer

import (
	"fmt"
	"math"
	"testing"

	"github.com/Cloud-3D-Print/SuperSlicer/config"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

func TestDetectSurfacesType(t *testing.T) {
	// Lower layer covers the left half, upper layer the bottom half, so the
	// middle layer splits into bottom (right), top (upper left), and
	// internal (lower left) quarters. Bottom wins the overlap.
	l0 := NewLayer(0, 0.15, 0.3, nil)
	l0.AddRegion(config.Region{}, config.Print{}, testFlows(),
		geometry.Polygons{rect(0, 0, 10, 20, true)})

	l1 := NewLayer(1, 0.45, 0.6, l0)
	lr := l1.AddRegion(config.Region{}, config.Print{}, testFlows(), nil)
	lr.FillSurfaces = surface.Collection{
		surface.New(surface.Internal, geometry.ExPolygon{Contour: rect(0, 0, 20, 20, true)}),
	}

	l2 := NewLayer(2, 0.75, 0.9, l1)
	l2.AddRegion(config.Region{}, config.Print{}, testFlows(),
		geometry.Polygons{rect(0, 0, 20, 10, true)})

	for _, neighbor := range []*Layer{l0, l2} {
		if err := neighbor.Regions[0].MakeSlices(); err != nil {
			t.Fatalf("MakeSlices: %v", err)
		}
	}
	if err := lr.DetectSurfacesType(); err != nil {
		t.Fatalf("DetectSurfacesType: %v", err)
	}

	tests := []struct {
		typ  surface.Type
		want float64
	}{
		{surface.Bottom, 200},
		{surface.Top, 100},
		{surface.Internal, 100},
	}
	for _, tt := range tests {
		got := surfacesAreaMM(lr.FillSurfaces.FilterByType(tt.typ))
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("%v area = %v mm², want %v", tt.typ, got, tt.want)
		}
	}
}

func TestPrepareFillSurfaces(t *testing.T) {
	square := func(side float64) geometry.ExPolygon {
		return geometry.ExPolygon{Contour: rect(0, 0, side, side, true)}
	}
	tests := []struct {
		cfg  config.Region
		in   surface.Surface
		want surface.Type
	}{
		// Shells nobody asked for become sparse infill.
		{config.Region{TopSolidLayers: 0, BottomSolidLayers: 3},
			surface.New(surface.Top, square(20)), surface.Internal},
		{config.Region{TopSolidLayers: 3, BottomSolidLayers: 0},
			surface.New(surface.Bottom, square(20)), surface.Internal},
		{config.Region{TopSolidLayers: 3, BottomSolidLayers: 3},
			surface.New(surface.Top, square(20)), surface.Top},
		// Small sparse regions become solid.
		{config.Region{FillDensity: 0.5, SolidInfillBelowArea: 50},
			surface.New(surface.Internal, square(4)), surface.InternalSolid},
		{config.Region{FillDensity: 0.5, SolidInfillBelowArea: 50},
			surface.New(surface.Internal, square(30)), surface.Internal},
		// The demotion cascades into the solid promotion.
		{config.Region{TopSolidLayers: 0, BottomSolidLayers: 0, FillDensity: 0.5, SolidInfillBelowArea: 50},
			surface.New(surface.Bottom, square(4)), surface.InternalSolid},
		// Without sparse infill there is no solid promotion.
		{config.Region{FillDensity: 0, SolidInfillBelowArea: 50},
			surface.New(surface.Internal, square(4)), surface.Internal},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v", i), func(t *testing.T) {
			lr := newTestRegion(nil, tt.cfg)
			lr.FillSurfaces = surface.Collection{tt.in}
			lr.PrepareFillSurfaces()
			if got := lr.FillSurfaces[0].Type; got != tt.want {
				t.Errorf("type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessExternalSurfaces(t *testing.T) {
	l0 := NewLayer(0, 0.15, 0.3, nil)
	l0.AddRegion(config.Region{}, config.Print{}, testFlows(),
		geometry.Polygons{rect(0, 0, 40, 40, true)})
	if err := l0.Regions[0].MakeSlices(); err != nil {
		t.Fatalf("MakeSlices: %v", err)
	}

	l1 := NewLayer(1, 0.45, 0.6, l0)
	lr := l1.AddRegion(config.Region{FillDensity: 0.2}, config.Print{}, testFlows(), nil)

	bottom := rect(15, 15, 25, 25, true)
	internal, err := geometry.DifferenceEx(
		geometry.Polygons{rect(0, 0, 40, 40, true)}, geometry.Polygons{bottom})
	if err != nil {
		t.Fatalf("DifferenceEx: %v", err)
	}
	lr.FillSurfaces = surface.Collection{
		surface.New(surface.Bottom, geometry.ExPolygon{Contour: bottom}),
	}
	for _, exp := range internal {
		lr.FillSurfaces = append(lr.FillSurfaces, surface.New(surface.Internal, exp))
	}

	before := surfacesAreaMM(lr.FillSurfaces)
	if err := lr.ProcessExternalSurfaces(); err != nil {
		t.Fatalf("ProcessExternalSurfaces: %v", err)
	}

	// The shell grows by the external infill margin on each side.
	gotBottom := surfacesAreaMM(lr.FillSurfaces.FilterByType(surface.Bottom))
	if want := 16.0 * 16.0; math.Abs(gotBottom-want) > 0.5 {
		t.Errorf("bottom area = %v mm², want %v", gotBottom, want)
	}

	// Growth claims area from the neighbors; the total is conserved.
	after := surfacesAreaMM(lr.FillSurfaces)
	if math.Abs(after-before) > 0.5 {
		t.Errorf("total area changed: %v -> %v mm²", before, after)
	}

	// And the collection stays disjoint.
	union, err := geometry.UnionEx(lr.FillSurfaces.Polygons())
	if err != nil {
		t.Fatalf("UnionEx: %v", err)
	}
	var unionArea float64
	for _, exp := range union {
		unionArea += exp.Area()
	}
	if diff := geometry.UnscaledArea(math.Abs(unionArea - lr.FillSurfaces.Area())); diff > 0.01 {
		t.Errorf("fill surfaces overlap by %v mm²", diff)
	}
}
