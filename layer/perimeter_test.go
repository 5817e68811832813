package layer

import (
	"fmt"
	"math"
	"testing"

	"github.com/Cloud-3D-Print/SuperSlicer/config"
	"github.com/Cloud-3D-Print/SuperSlicer/extrusion"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

func makePerimeters(t *testing.T, lr *LayerRegion) {
	t.Helper()
	if err := lr.MakeSlices(); err != nil {
		t.Fatalf("MakeSlices: %v", err)
	}
	if err := lr.MakePerimeters(); err != nil {
		t.Fatalf("MakePerimeters: %v", err)
	}
}

func entityRoles(c extrusion.Collection) []extrusion.Role {
	out := make([]extrusion.Role, len(c))
	for i, e := range c {
		out[i] = e.ExtrusionRole()
	}
	return out
}

func TestMakePerimetersSquare(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{rect(0, 0, 20, 20, true)}, config.Region{
		Perimeters:   3,
		ThinWalls:    true,
		GapFillSpeed: 20,
		FillDensity:  0.4,
	})
	makePerimeters(t, lr)

	if len(lr.Perimeters) != 3 {
		t.Fatalf("got %v perimeter entities, want 3: %v", len(lr.Perimeters), entityRoles(lr.Perimeters))
	}
	wantRoles := []extrusion.Role{
		extrusion.Perimeter,
		extrusion.ContourInternalPerimeter,
		extrusion.ExternalPerimeter,
	}
	for i, want := range wantRoles {
		loop, ok := lr.Perimeters[i].(extrusion.Loop)
		if !ok {
			t.Fatalf("entity %v is %T, want Loop", i, lr.Perimeters[i])
		}
		if loop.Role != want {
			t.Errorf("entity %v role = %v, want %v", i, loop.Role, want)
		}
		if loop.Hole {
			t.Errorf("entity %v marked as hole", i)
		}
		if !loop.Polygon.IsCounterClockwise() {
			t.Errorf("entity %v contour is clockwise", i)
		}
	}
	if len(lr.ThinFills) != 0 {
		t.Errorf("square produced %v gap fills, want 0", len(lr.ThinFills))
	}

	// The external loop sits half a width inside the boundary.
	ext := lr.Perimeters[2].(extrusion.Loop)
	bb := geometry.Polygons{ext.Polygon}.BoundingBox()
	if w := geometry.Unscaled(bb.Width()); math.Abs(w-19.4) > 0.01 {
		t.Errorf("external loop width = %v mm, want 19.4", w)
	}

	// The fill boundary steps from the innermost loop centerline to the
	// infill edge.
	f := lr.Flows.Perimeter
	side := 20 - 2*(f.Width/2+2*f.Spacing+f.Spacing/2)
	if got, want := surfacesAreaMM(lr.FillSurfaces), side*side; math.Abs(got-want) > 0.05 {
		t.Errorf("fill area = %v mm², want %v", got, want)
	}
}

func TestMakePerimetersHole(t *testing.T) {
	loops := geometry.Polygons{
		rect(0, 0, 20, 20, true),
		rect(6, 6, 14, 14, false),
	}
	lr := newTestRegion(loops, config.Region{Perimeters: 3, FillDensity: 0.4})
	makePerimeters(t, lr)

	if len(lr.Perimeters) != 6 {
		t.Fatalf("got %v perimeter entities, want 6: %v", len(lr.Perimeters), entityRoles(lr.Perimeters))
	}

	// Hole loops print first, innermost (closest to the hole edge) first,
	// then the contour stack, again innermost first.
	wantRoles := []extrusion.Role{
		extrusion.ExternalPerimeter,
		extrusion.Perimeter,
		extrusion.Perimeter,
		extrusion.Perimeter,
		extrusion.ContourInternalPerimeter,
		extrusion.ExternalPerimeter,
	}
	wantHole := []bool{true, true, true, false, false, false}
	for i := range wantRoles {
		loop := lr.Perimeters[i].(extrusion.Loop)
		if loop.Role != wantRoles[i] {
			t.Errorf("entity %v role = %v, want %v", i, loop.Role, wantRoles[i])
		}
		if loop.Hole != wantHole[i] {
			t.Errorf("entity %v hole = %v, want %v", i, loop.Hole, wantHole[i])
		}
		if loop.Polygon.IsCounterClockwise() != !wantHole[i] {
			t.Errorf("entity %v winding does not match its hole flag", i)
		}
	}

	// The first hole loop hugs the hole: half a width outside it.
	first := lr.Perimeters[0].(extrusion.Loop)
	bb := geometry.Polygons{first.Polygon}.BoundingBox()
	if w := geometry.Unscaled(bb.Width()); math.Abs(w-8.6) > 0.01 {
		t.Errorf("first hole loop width = %v mm, want 8.6", w)
	}
}

func TestMakePerimetersExternalFirst(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{rect(0, 0, 20, 20, true)}, config.Region{
		Perimeters:              3,
		ExternalPerimetersFirst: true,
	})
	makePerimeters(t, lr)

	if len(lr.Perimeters) != 3 {
		t.Fatalf("got %v perimeter entities, want 3", len(lr.Perimeters))
	}
	if got := lr.Perimeters[0].ExtrusionRole(); got != extrusion.ExternalPerimeter {
		t.Errorf("first entity role = %v, want %v", got, extrusion.ExternalPerimeter)
	}
}

// A region too narrow for even one loop becomes a single medial-axis stroke.
func TestMakePerimetersThinWall(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{rect(0, 0, 15, 1, true)}, config.Region{
		Perimeters:  2,
		ThinWalls:   true,
		FillDensity: 0.4,
	})
	makePerimeters(t, lr)

	if len(lr.Perimeters) == 0 {
		t.Fatalf("thin region produced no perimeter entities")
	}
	var total float64
	for i, e := range lr.Perimeters {
		if got := e.ExtrusionRole(); got != extrusion.ExternalPerimeter {
			t.Errorf("entity %v role = %v, want %v", i, got, extrusion.ExternalPerimeter)
		}
		total += e.Length()
	}
	if mm := total / geometry.Scale; mm < 10 {
		t.Errorf("thin wall length = %v mm, want >= 10", mm)
	}
	if len(lr.FillSurfaces) != 0 {
		t.Errorf("thin region still has %v fill surfaces", len(lr.FillSurfaces))
	}
}

func TestMakePerimetersGapFill(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{rect(0, 0, 5, 1.8, true)}, config.Region{
		Perimeters:   2,
		GapFillSpeed: 20,
		FillDensity:  0.3,
	})
	makePerimeters(t, lr)

	// Only the first loop fits; the second leaves a gap down the middle.
	if len(lr.Perimeters) != 1 {
		t.Fatalf("got %v perimeter entities, want 1: %v", len(lr.Perimeters), entityRoles(lr.Perimeters))
	}
	if got := lr.Perimeters[0].ExtrusionRole(); got != extrusion.ExternalPerimeter {
		t.Errorf("loop role = %v, want %v", got, extrusion.ExternalPerimeter)
	}
	if len(lr.ThinFills) == 0 {
		t.Fatalf("no gap fill emitted")
	}
	for i, e := range lr.ThinFills {
		if got := e.ExtrusionRole(); got != extrusion.GapFill {
			t.Errorf("gap fill %v role = %v, want %v", i, got, extrusion.GapFill)
		}
	}
	if len(lr.FillSurfaces) != 0 {
		t.Errorf("gap region still has %v fill surfaces", len(lr.FillSurfaces))
	}
}

func TestMakePerimetersGapFillDisabled(t *testing.T) {
	tests := []config.Region{
		{Perimeters: 2, GapFillSpeed: 0, FillDensity: 0.3},
		{Perimeters: 2, GapFillSpeed: 20, FillDensity: 0},
	}
	for i, cfg := range tests {
		t.Run(fmt.Sprintf("test #%v", i), func(t *testing.T) {
			lr := newTestRegion(geometry.Polygons{rect(0, 0, 5, 1.8, true)}, cfg)
			makePerimeters(t, lr)
			if len(lr.ThinFills) != 0 {
				t.Errorf("gap fill emitted with gap filling disabled")
			}
		})
	}
}
