package layer

import (
	"math"
	"testing"

	"github.com/Cloud-3D-Print/SuperSlicer/config"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

func TestMakeSlicesHole(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{
		rect(0, 0, 40, 40, true),
		rect(12, 12, 28, 28, false),
	}, config.Region{})

	if err := lr.MakeSlices(); err != nil {
		t.Fatalf("MakeSlices: %v", err)
	}
	if len(lr.Slices) != 1 {
		t.Fatalf("got %v slices, want 1", len(lr.Slices))
	}
	if holes := len(lr.Slices[0].ExPolygon.Holes); holes != 1 {
		t.Errorf("got %v holes, want 1", holes)
	}
	if area := surfacesAreaMM(lr.Slices); math.Abs(area-1344) > 0.1 {
		t.Errorf("area = %v mm², want 1344", area)
	}
}

// Overlapping facets can emit two concentric loops with the same winding; the
// area-ordered fold must union them instead of treating the inner one as a
// hole.
func TestMakeSlicesSameWinding(t *testing.T) {
	lr := newTestRegion(geometry.Polygons{
		rect(12, 12, 28, 28, true), // inner listed first on purpose
		rect(0, 0, 40, 40, true),
	}, config.Region{})

	if err := lr.MakeSlices(); err != nil {
		t.Fatalf("MakeSlices: %v", err)
	}
	if len(lr.Slices) != 1 {
		t.Fatalf("got %v slices, want 1", len(lr.Slices))
	}
	if holes := len(lr.Slices[0].ExPolygon.Holes); holes != 0 {
		t.Errorf("got %v holes, want 0", holes)
	}
	if area := surfacesAreaMM(lr.Slices); math.Abs(area-1600) > 0.1 {
		t.Errorf("area = %v mm², want 1600", area)
	}
}

func TestMakeSlicesEmpty(t *testing.T) {
	lr := newTestRegion(nil, config.Region{})
	if err := lr.MakeSlices(); err != nil {
		t.Fatalf("MakeSlices: %v", err)
	}
	if len(lr.Slices) != 0 {
		t.Errorf("got %v slices from no loops", len(lr.Slices))
	}
}
