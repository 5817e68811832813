// Package config carries the read-only settings consumed by the layer
// pipeline. Values are passed explicitly into each stage; there is no
// process-wide state.
package config

// Region holds the per-region (material/extruder) settings.
type Region struct {
	// Perimeters is the number of concentric perimeter loops per island.
	Perimeters int

	// ThinWalls enables single-pass medial-axis paths for features too
	// narrow to hold a full loop.
	ThinWalls bool

	// GapFillSpeed enables gap filling when positive.
	GapFillSpeed float64

	// FillDensity is the sparse infill density in [0, 1].
	FillDensity float64

	// TopSolidLayers and BottomSolidLayers are the solid shell counts.
	TopSolidLayers    int
	BottomSolidLayers int

	// SolidInfillBelowArea forces solid infill on internal regions smaller
	// than this area (mm²).
	SolidInfillBelowArea float64

	// ExternalPerimetersFirst prints loops outermost-first.
	ExternalPerimetersFirst bool

	// Resolution is the simplification tolerance (mm) for generated
	// geometry.
	Resolution float64
}

// Print holds the print-wide settings the pipeline reads.
type Print struct {
	// BrimWidth is the first-layer brim width (mm); a positive value makes
	// the first layer print perimeters outermost-first.
	BrimWidth float64
}

// GapFillEnabled reports whether leftover gaps between perimeters should be
// filled.
func (r Region) GapFillEnabled() bool {
	return r.GapFillSpeed > 0 && r.FillDensity > 0
}
