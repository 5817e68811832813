// Package flow models extrusion flow: the width of a deposited line of
// material and the center-to-center spacing between adjacent lines.
package flow

import (
	"math"

	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

// bridgeExtraSpacing is the extra gap (mm) left between adjacent bridged
// lines, which are round rather than squashed.
const bridgeExtraSpacing = 0.05

// Flow describes one extrusion line class. Width and Spacing are in
// millimeters.
type Flow struct {
	Width       float64
	Spacing     float64
	LayerHeight float64
	Bridge      bool
}

// New returns the flow for a line of the given width squashed to the given
// layer height. Adjacent lines overlap by the area lost to the rounded line
// ends, giving the standard spacing formula.
func New(width, layerHeight float64) Flow {
	return Flow{
		Width:       width,
		Spacing:     width - layerHeight*(1-math.Pi/4),
		LayerHeight: layerHeight,
	}
}

// NewBridge returns the flow for an unsupported (bridged) line, which keeps
// its round cross-section.
func NewBridge(width float64) Flow {
	return Flow{
		Width:   width,
		Spacing: width + bridgeExtraSpacing,
		Bridge:  true,
	}
}

// ScaledWidth returns the line width in scaled units.
func (f Flow) ScaledWidth() int64 {
	return geometry.Scaled(f.Width)
}

// ScaledSpacing returns the line spacing in scaled units.
func (f Flow) ScaledSpacing() int64 {
	return geometry.Scaled(f.Spacing)
}
