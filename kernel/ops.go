package kernel

import (
	"sort"

	"github.com/ardnew/cadl/render"
)

// Union concatenates the inputs. Overlapping volume is retained twice;
// downstream consumers tolerate internal faces.
func (k *Approx) Union(gs []render.Geometry) (render.Geometry, error) {
	return render.Merge(gs...), nil
}

// Difference approximates subtraction by dropping base faces whose
// centroid falls inside any modifier's bounding box.
func (k *Approx) Difference(
	base render.Geometry,
	modifiers []render.Geometry,
) (render.Geometry, error) {
	boxes := make([]render.Bounds, len(modifiers))
	for i, m := range modifiers {
		boxes[i] = m.Bounds()
	}

	inAny := func(p render.Vec3) bool {
		for _, b := range boxes {
			if b.Contains(p) {
				return true
			}
		}

		return false
	}

	return filter(base, func(p render.Vec3) bool { return !inAny(p) }), nil
}

// Intersection approximates by keeping faces of the first input whose
// centroid falls inside every other input's bounding box.
func (k *Approx) Intersection(
	gs []render.Geometry,
) (render.Geometry, error) {
	base := gs[0]

	boxes := make([]render.Bounds, len(gs)-1)
	for i, g := range gs[1:] {
		boxes[i] = g.Bounds()
	}

	inAll := func(p render.Vec3) bool {
		for _, b := range boxes {
			if !b.Contains(p) {
				return false
			}
		}

		return true
	}

	return filter(base, inAll), nil
}

// filter keeps the shapes of g whose centroid satisfies keep.
func filter(g render.Geometry, keep func(render.Vec3) bool) render.Geometry {
	out := render.Geometry{Kind: g.Kind}

	for _, poly := range g.Polygons {
		var cx, cy float64

		for _, p := range poly.Points {
			cx += p.X
			cy += p.Y
		}

		n := float64(len(poly.Points))
		if n > 0 && keep(render.Vec3{X: cx / n, Y: cy / n}) {
			out.Polygons = append(out.Polygons, poly)
		}
	}

	for _, tri := range g.Triangles {
		if keep(tri.Centroid()) {
			out.Triangles = append(out.Triangles, tri)
		}
	}

	if out.Empty() {
		out.Kind = render.OutputNone
	}

	return out
}

// Hull computes the convex hull of all inputs: an exact monotone-chain
// hull for 2D, the bounding box for 3D.
func (k *Approx) Hull(gs []render.Geometry) (render.Geometry, error) {
	merged := render.Merge(gs...)

	switch merged.Kind {
	case render.Output2D:
		var pts []render.Vec2
		for _, poly := range merged.Polygons {
			pts = append(pts, poly.Points...)
		}

		return render.Geometry{
			Kind:     render.Output2D,
			Polygons: []render.Polygon{{Points: hull2D(pts)}},
		}, nil

	case render.Output3D:
		b := merged.Bounds()

		return render.Geometry{
			Kind:      render.Output3D,
			Triangles: boxMesh(b.Min, b.Max),
		}, nil

	default:
		return merged, nil
	}
}

// hull2D computes the convex hull with the monotone chain algorithm.
// The result winds counterclockwise without repeating the first point.
func hull2D(pts []render.Vec2) []render.Vec2 {
	if len(pts) < 3 {
		return pts
	}

	sorted := make([]render.Vec2, len(pts))
	copy(sorted, pts)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}

		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b render.Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []render.Vec2

	for _, p := range sorted {
		for len(lower) >= 2 &&
			cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}

		lower = append(lower, p)
	}

	var upper []render.Vec2

	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]

		for len(upper) >= 2 &&
			cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}

		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
