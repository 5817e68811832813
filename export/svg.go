// Package export writes debug renderings of processed layers.
package export

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/Cloud-3D-Print/SuperSlicer/extrusion"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
	"github.com/Cloud-3D-Print/SuperSlicer/layer"
	"github.com/Cloud-3D-Print/SuperSlicer/surface"
)

const pixelsPerMM = 20

// LayerSVG renders one processed layer: slices in grey, fill surfaces
// tinted by type, perimeters and gap fills as strokes.
func LayerSVG(w io.Writer, l *layer.Layer) error {
	var all geometry.Polygons
	for _, lr := range l.Regions {
		all = append(all, lr.Slices.Polygons()...)
	}
	bb := all.BoundingBox()
	margin := geometry.Scaled(2)
	bb.Min.X -= margin
	bb.Min.Y -= margin
	bb.Max.X += margin
	bb.Max.Y += margin

	px := func(p geometry.Point) (int, int) {
		x := geometry.Unscaled(p.X-bb.Min.X) * pixelsPerMM
		// SVG y grows downward.
		y := geometry.Unscaled(bb.Max.Y-p.Y) * pixelsPerMM
		return int(x), int(y)
	}
	ring := func(p geometry.Polygon) ([]int, []int) {
		xs := make([]int, len(p))
		ys := make([]int, len(p))
		for i, pt := range p {
			xs[i], ys[i] = px(pt)
		}
		return xs, ys
	}

	canvas := svg.New(w)
	canvas.Start(int(geometry.Unscaled(bb.Width())*pixelsPerMM),
		int(geometry.Unscaled(bb.Height())*pixelsPerMM))

	for _, lr := range l.Regions {
		for _, s := range lr.Slices {
			xs, ys := ring(s.ExPolygon.Contour)
			canvas.Polygon(xs, ys, "fill:#e0e0e0")
			for _, h := range s.ExPolygon.Holes {
				xs, ys := ring(h)
				canvas.Polygon(xs, ys, "fill:#ffffff")
			}
		}
		for _, s := range lr.FillSurfaces {
			xs, ys := ring(s.ExPolygon.Contour)
			canvas.Polygon(xs, ys, "fill:"+fillColor(s.Type)+";fill-opacity:0.6")
			for _, h := range s.ExPolygon.Holes {
				xs, ys := ring(h)
				canvas.Polygon(xs, ys, "fill:#ffffff")
			}
		}
		drawEntities(canvas, lr.Perimeters, ring, "#205080")
		drawEntities(canvas, lr.ThinFills, ring, "#c03020")
	}

	canvas.End()
	return nil
}

func drawEntities(canvas *svg.SVG, entities extrusion.Collection, ring func(geometry.Polygon) ([]int, []int), color string) {
	style := "fill:none;stroke:" + color + ";stroke-width:2"
	for _, e := range entities {
		switch v := e.(type) {
		case extrusion.Loop:
			xs, ys := ring(v.Polygon)
			canvas.Polygon(xs, ys, style)
		case extrusion.Path:
			xs, ys := ring(geometry.Polygon(v.Polyline))
			canvas.Polyline(xs, ys, style)
		}
	}
}

func fillColor(t surface.Type) string {
	switch t {
	case surface.Top:
		return "#d04030"
	case surface.Bottom:
		return "#3050c0"
	case surface.InternalSolid:
		return "#b090e0"
	case surface.InternalBridge:
		return "#30a0a0"
	}
	return "#a0c090"
}
