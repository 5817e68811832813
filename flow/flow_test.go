package flow

import (
	"math"
	"testing"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

func TestNewSpacing(t *testing.T) {
	f := New(0.6, 0.3)
	want := 0.6 - 0.3*(1-math.Pi/4)
	if math.Abs(f.Spacing-want) > 1e-9 {
		t.Errorf("Spacing = %v, want %v", f.Spacing, want)
	}
	if f.Bridge {
		t.Errorf("New returned a bridge flow")
	}
	if got := f.ScaledWidth(); got != geometry.Scaled(0.6) {
		t.Errorf("ScaledWidth = %v, want %v", got, geometry.Scaled(0.6))
	}
}

func TestNewBridgeSpacing(t *testing.T) {
	f := NewBridge(0.6)
	if math.Abs(f.Spacing-0.65) > 1e-9 {
		t.Errorf("bridge Spacing = %v, want 0.65", f.Spacing)
	}
	if !f.Bridge {
		t.Errorf("NewBridge did not mark the flow as bridging")
	}
}
