package layer

import (
	"fmt"
	"math"

	"github.com/Cloud-3D-Print/SuperSlicer/extrusion"
	"github.com/Cloud-3D-Print/SuperSlicer/fill"
	"github.com/Cloud-3D-Print/SuperSlicer/flow"
	"github.com/Cloud-3D-Print/SuperSlicer/geometry"
)

// fillGaps covers the gap regions recorded during perimeter generation with
// short zig-zag strokes. Two candidate widths are tried, widest first; the
// area a width covers is subtracted before the next pass, and whatever
// remains after both is abandoned.
func (g *perimeterGenerator) fillGaps() error {
	if len(g.gaps) == 0 {
		return nil
	}
	lr := g.region
	pf := lr.Flows.Perimeter

	remaining := g.gaps.Polygons()
	for _, width := range []float64{pf.Width, 0.4 * pf.Width} {
		if len(remaining) == 0 {
			break
		}
		trial := flow.New(width, pf.LayerHeight)
		half := trial.ScaledWidth() / 2

		// Shrinking by half the trial width drops every region this width
		// cannot cover; growing back restores the ones it can.
		covered := geometry.Offset2Ex(remaining, -half, +half)
		if len(covered) == 0 {
			continue
		}
		if err := g.fillGapsWithFlow(covered, trial); err != nil {
			return err
		}
		var err error
		remaining, err = geometry.Difference(remaining, covered.Polygons())
		if err != nil {
			return fmt.Errorf("shrink gap set: %v", err)
		}
	}
	return nil
}

func (g *perimeterGenerator) fillGapsWithFlow(regions geometry.ExPolygons, trial flow.Flow) error {
	lr := g.region
	simplifyTol := float64(trial.ScaledWidth()) / 3

	for _, exp := range regions {
		pattern := &fill.Rectilinear{
			Angle:   gapAngle(exp),
			Spacing: trial.Spacing,
			Density: 1.0,
		}
		paths, err := pattern.Fill(exp)
		if err != nil {
			return fmt.Errorf("fill gap: %v", err)
		}
		for _, p := range paths {
			// Individual segments cost extra travel moves but give the
			// downstream path ordering full freedom.
			for _, seg := range p.Lines() {
				lr.ThinFills = append(lr.ThinFills, extrusion.Path{
					Role:     extrusion.GapFill,
					Polyline: seg.Simplified(simplifyTol),
					Flow:     trial,
				})
			}
		}
	}
	return nil
}

// gapAngle orients the zig-zag across the gap's short axis.
func gapAngle(exp geometry.ExPolygon) float64 {
	bb := exp.BoundingBox()
	if bb.Width() >= bb.Height() {
		return 0
	}
	return math.Pi / 2
}
