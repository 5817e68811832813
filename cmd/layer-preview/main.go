// layer-preview runs the per-layer geometry pipeline over a built-in demo
// object (a plate with a square hole that gets bridged over) and writes one
// SVG per layer so the perimeters, fill surfaces, thin walls, and bridge
// regions can be inspected.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Cloud-3D-Print/SuperSlicer/config"
	"github.com/Cloud-3D-Print/SuperSlicer/export"
	"github.com/Cloud-3D-Print/SuperSlicer/flow"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/layer"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

var (
	perimeters  = flag.Int("perimeters", 3, "Number of concentric perimeter loops")
	fillDensity = flag.Float64("density", 0.2, "Sparse infill density (0..1)")
	numLayers   = flag.Int("layers", 4, "Number of layers in the demo object")
	layerHeight = flag.Float64("layer-height", 0.3, "Layer height in mm")
	width       = flag.Float64("width", 0.6, "Extrusion width in mm")
	outPrefix   = flag.String("o", "layer", "Output SVG filename prefix")
)

func main() {
	flag.Parse()

	cfg := config.Region{
		Perimeters:        *perimeters,
		ThinWalls:         true,
		GapFillSpeed:      20,
		FillDensity:       *fillDensity,
		TopSolidLayers:    3,
		BottomSolidLayers: 3,
	}
	printCfg := config.Print{}
	flows := layer.Flows{
		Perimeter:   flow.New(*width, *layerHeight),
		Infill:      flow.New(*width, *layerHeight),
		SolidInfill: flow.New(*width, *layerHeight),
		TopInfill:   flow.New(*width, *layerHeight),
	}

	var layers []*layer.Layer
	var lower *layer.Layer
	for i := 0; i < *numLayers; i++ {
		z := float64(i+1) * *layerHeight
		l := layer.NewLayer(i, z-*layerHeight/2, z, lower)
		l.AddRegion(cfg, printCfg, flows, demoLoops(i, *numLayers))
		layers = append(layers, l)
		lower = l
	}

	log.Printf("Processing %v layers...", len(layers))
	check("process: %v", layer.ProcessAll(layers))

	for _, l := range layers {
		for _, lr := range l.Regions {
			log.Printf("layer %v: %v slices, %v perimeter entities, %v gap fills, %v fill surfaces",
				l.ID, len(lr.Slices), len(lr.Perimeters), len(lr.ThinFills), len(lr.FillSurfaces))
			for _, s := range lr.FillSurfaces {
				if s.Type == surface.Bottom && s.BridgeAngle != surface.NoBridgeAngle {
					log.Printf("layer %v: bridge at %.1f deg", l.ID, s.BridgeAngle*180/3.14159265)
				}
			}
		}

		filename := fmt.Sprintf("%v-%02d.svg", *outPrefix, l.ID)
		f, err := os.Create(filename)
		check("Create: %v", err)
		check("LayerSVG: %v", export.LayerSVG(f, l))
		check("Close: %v", f.Close())
		log.Printf("Wrote %v", filename)
	}

	log.Println("Done.")
}

// demoLoops returns the raw slice loops for one layer of the demo object:
// a 40×40 plate with a 16×16 hole and a thin rib, where the last two layers
// close the hole so they bridge over it.
func demoLoops(layerNum, numLayers int) geometry.Polygons {
	loops := geometry.Polygons{rect(0, 0, 40, 40, true)}
	if layerNum < numLayers-2 {
		loops = append(loops, rect(12, 12, 28, 28, false))     // hole
		loops = append(loops, rect(19.6, 12, 20.4, 28, true)) // thin rib across it
	}
	return loops
}

// rect builds an axis-aligned rectangle in mm, counter-clockwise for
// contours, clockwise for holes.
func rect(x0, y0, x1, y1 float64, ccw bool) geometry.Polygon {
	p := geometry.Polygon{
		{X: geometry.Scaled(x0), Y: geometry.Scaled(y0)},
		{X: geometry.Scaled(x1), Y: geometry.Scaled(y0)},
		{X: geometry.Scaled(x1), Y: geometry.Scaled(y1)},
		{X: geometry.Scaled(x0), Y: geometry.Scaled(y1)},
	}
	if !ccw {
		p = p.Reversed()
	}
	return p
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
