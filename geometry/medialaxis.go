package geometry

import (
	"math"
	"sort"
)

// ThinPath is one skeletal path extracted from a thin region: a closed loop
// when the skeleton forms a cycle, an open path otherwise.
type ThinPath struct {
	Closed bool
	Points Polyline
}

// MedialAxis approximates the centerline skeleton of a region assumed to be
// nowhere wider than maxWidth. The region is rotated so its dominant edge
// direction is horizontal, sampled with vertical scan columns, and the
// midpoints of the clipped column segments are chained into paths. Paths
// shorter than minLength are discarded as noise. All values are in scaled
// units.
func MedialAxis(exp ExPolygon, maxWidth, minLength int64) ([]ThinPath, error) {
	if len(exp.Contour) < 3 {
		return nil, nil
	}
	angle := dominantAngle(exp.Contour)
	polys := RotatePolygons(exp.Polygons(), -angle)
	bb := polys.BoundingBox()

	step := maxWidth / 2
	if step < Epsilon {
		step = Epsilon
	}
	var lines Polylines
	for x := bb.Min.X + step/2; x <= bb.Max.X; x += step {
		lines = append(lines, Polyline{
			{X: x, Y: bb.Min.Y - maxWidth},
			{X: x, Y: bb.Max.Y + maxWidth},
		})
	}
	segs, err := IntersectionPl(lines, polys)
	if err != nil {
		return nil, err
	}

	mids := make([]Point, 0, len(segs))
	for _, s := range segs {
		if len(s) < 2 {
			continue
		}
		mids = append(mids, Point{X: s[0].X, Y: (s[0].Y + s[len(s)-1].Y) / 2})
	}
	sort.Slice(mids, func(a, b int) bool {
		if mids[a].X != mids[b].X {
			return mids[a].X < mids[b].X
		}
		return mids[a].Y < mids[b].Y
	})

	chains := chainMidpoints(mids, step, maxWidth)
	chains = mergeChains(chains, float64(2*step))

	var out []ThinPath
	for _, c := range chains {
		if len(c) < 2 || c.Length() < float64(minLength) {
			continue
		}
		closed := len(c) >= 3 && c[0].DistanceTo(c[len(c)-1]) <= float64(2*step)
		out = append(out, ThinPath{
			Closed: closed,
			Points: RotatePolyline(c, angle),
		})
	}
	return out, nil
}

// dominantAngle returns the direction of the ring's longest edge, the axis a
// thin feature most plausibly runs along.
func dominantAngle(p Polygon) float64 {
	var best float64
	var bestLen float64
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		if l := a.DistanceTo(b); l > bestLen {
			bestLen = l
			best = math.Atan2(float64(b.Y-a.Y), float64(b.X-a.X))
		}
	}
	return best
}

// chainMidpoints links column midpoints into polylines, attaching each point
// to the chain whose tip is in the neighboring column and vertically nearby.
func chainMidpoints(mids []Point, step, maxWidth int64) []Polyline {
	var chains []Polyline
	for _, m := range mids {
		best := -1
		var bestDist float64
		for i, c := range chains {
			tip := c[len(c)-1]
			dx := m.X - tip.X
			if dx <= 0 || dx > step*3/2 {
				continue
			}
			dy := m.Y - tip.Y
			if dy < 0 {
				dy = -dy
			}
			if dy > maxWidth {
				continue
			}
			if d := tip.DistanceTo(m); best < 0 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best >= 0 {
			chains[best] = append(chains[best], m)
		} else {
			chains = append(chains, Polyline{m})
		}
	}
	return chains
}

// mergeChains repeatedly joins chains whose endpoints nearly touch, so that
// a skeleton split across branches (an annular thin wall, a bent slot) comes
// back as one path.
func mergeChains(chains []Polyline, tol float64) []Polyline {
	for {
		merged := false
		for i := 0; i < len(chains) && !merged; i++ {
			for j := i + 1; j < len(chains) && !merged; j++ {
				a, b := chains[i], chains[j]
				var joined Polyline
				switch {
				case a[len(a)-1].DistanceTo(b[0]) <= tol:
					joined = append(a, b...)
				case a[len(a)-1].DistanceTo(b[len(b)-1]) <= tol:
					joined = append(a, b.Reversed()...)
				case a[0].DistanceTo(b[len(b)-1]) <= tol:
					joined = append(b, a...)
				case a[0].DistanceTo(b[0]) <= tol:
					joined = append(b.Reversed(), a...)
				default:
					continue
				}
				chains[i] = joined
				chains = append(chains[:j], chains[j+1:]...)
				merged = true
			}
		}
		if !merged {
			return chains
		}
	}
}
