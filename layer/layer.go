// Package layer implements the per-layer, per-region geometry pipeline of
// the slicer: surface reconstruction, perimeter generation, thin walls, gap
// fill, fill-surface classification, and external-surface processing.
package layer

import (
	"fmt"
	"sync"

	"github.com/Cloud-3D-Print/SuperSlicer/config"
	"github.com/Cloud-3D-Print/SuperSlicer/extrusion"
	"github.com/Cloud-3D-Print/SuperSlicer/flow"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

// Flows bundles the per-purpose extrusion flows of one region.
type Flows struct {
	Perimeter   flow.Flow
	Infill      flow.Flow
	SolidInfill flow.Flow
	TopInfill   flow.Flow
}

// Layer is one print height of the object. Lower and Upper are non-owning
// references used for bridge detection and surface typing; the layer owns
// its regions.
type Layer struct {
	ID     int
	SliceZ float64 // mid-layer slicing height (mm)
	PrintZ float64 // top of the layer (mm)

	Lower *Layer
	Upper *Layer

	Regions []*LayerRegion
}

// NewLayer returns a layer linked below to lower (which gets its Upper set).
func NewLayer(id int, sliceZ, printZ float64, lower *Layer) *Layer {
	l := &Layer{ID: id, SliceZ: sliceZ, PrintZ: printZ, Lower: lower}
	if lower != nil {
		lower.Upper = l
	}
	return l
}

// AddRegion creates a region on this layer with the given settings, flows,
// and raw slice loops.
func (l *Layer) AddRegion(cfg config.Region, print config.Print, flows Flows, rawLoops geometry.Polygons) *LayerRegion {
	lr := &LayerRegion{
		layer:    l,
		Config:   cfg,
		Print:    print,
		Flows:    flows,
		RawLoops: rawLoops,
	}
	l.Regions = append(l.Regions, lr)
	return lr
}

// Slices returns the reconstructed solid cross-section of the whole layer
// (all regions).
func (l *Layer) Slices() geometry.ExPolygons {
	var out geometry.ExPolygons
	for _, lr := range l.Regions {
		for _, s := range lr.Slices {
			out = append(out, s.ExPolygon)
		}
	}
	return out
}

// LayerRegion owns the surface and path collections of one (layer, region)
// pair and carries a non-owning reference to its layer.
type LayerRegion struct {
	layer *Layer

	Config config.Region
	Print  config.Print
	Flows  Flows

	// RawLoops are the raw cross-section loops from the mesh slicer.
	RawLoops geometry.Polygons

	// Slices is the reconstructed, well-formed solid area.
	Slices surface.Collection

	// FillSurfaces is the residual area to be filled after perimeters.
	FillSurfaces surface.Collection

	// Perimeters is the ordered perimeter loop/path sequence.
	Perimeters extrusion.Collection

	// ThinFills holds gap-fill segments.
	ThinFills extrusion.Collection
}

// Layer returns the owning layer.
func (lr *LayerRegion) Layer() *Layer { return lr.layer }

// Process runs all pipeline stages for this region in order. The lower
// layer's slices must already be reconstructed.
func (lr *LayerRegion) Process() error {
	if err := lr.MakePerimeters(); err != nil {
		return fmt.Errorf("make perimeters: %v", err)
	}
	if err := lr.DetectSurfacesType(); err != nil {
		return fmt.Errorf("detect surfaces type: %v", err)
	}
	lr.PrepareFillSurfaces()
	if err := lr.ProcessExternalSurfaces(); err != nil {
		return fmt.Errorf("process external surfaces: %v", err)
	}
	return nil
}

// ProcessAll runs the pipeline over all layers. Surface reconstruction runs
// first for every region (in parallel), because perimeter generation and
// bridge detection on layer N read the reconstructed slices of layers N−1
// and N+1. The remaining stages then run in parallel per region.
func ProcessAll(layers []*Layer) error {
	if err := forEachRegion(layers, func(lr *LayerRegion) error {
		return lr.MakeSlices()
	}); err != nil {
		return err
	}
	return forEachRegion(layers, func(lr *LayerRegion) error {
		return lr.Process()
	})
}

func forEachRegion(layers []*Layer, fn func(*LayerRegion) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for _, l := range layers {
		for _, lr := range l.Regions {
			wg.Add(1)
			go func(l *Layer, lr *LayerRegion) {
				defer wg.Done()
				if err := fn(lr); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("layer %d: %v", l.ID, err)
					}
					mu.Unlock()
				}
			}(l, lr)
		}
	}
	wg.Wait()
	return firstErr
}
