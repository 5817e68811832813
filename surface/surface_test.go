package surface

import (
	"testing"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

func square(side float64) geometry.ExPolygon {
	s := geometry.Scaled(side)
	return geometry.ExPolygon{Contour: geometry.Polygon{
		{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s},
	}}
}

func TestCollectionFilters(t *testing.T) {
	c := Collection{
		New(Top, square(1)),
		New(Internal, square(2)),
		New(Bottom, square(3)),
		New(Internal, square(4)),
	}

	if got := c.FilterByType(Internal); len(got) != 2 {
		t.Errorf("FilterByType(Internal) kept %v surfaces, want 2", len(got))
	}
	if got := c.ExcludeType(Top, Bottom); len(got) != 2 {
		t.Errorf("ExcludeType(Top, Bottom) kept %v surfaces, want 2", len(got))
	}
	if got := len(c.Polygons()); got != 4 {
		t.Errorf("Polygons flattened to %v rings, want 4", got)
	}

	want := geometry.Scaled(1) * geometry.Scaled(1) * (1 + 4 + 9 + 16)
	if got := c.Area(); got != float64(want) {
		t.Errorf("Area = %v, want %v", got, want)
	}
}

func TestNewHasNoBridgeAngle(t *testing.T) {
	s := New(Bottom, square(1))
	if s.BridgeAngle != NoBridgeAngle {
		t.Errorf("BridgeAngle = %v, want %v", s.BridgeAngle, NoBridgeAngle)
	}
}
