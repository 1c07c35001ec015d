// Package render materializes model trees into concrete geometry through
// a kernel, caching pure subtrees by content hash.
package render

import (
	"math"

	"github.com/ardnew/cadl/value"
)

// OutputKind classifies the dimensionality of rendered geometry.
type OutputKind int

const (
	// OutputNone is the empty output of a model with no geometry.
	OutputNone OutputKind = iota

	// Output2D is planar geometry: polygons.
	Output2D

	// Output3D is solid geometry: a triangle mesh.
	Output3D

	// OutputInvalid marks geometry that could not be produced, for
	// example when 2D and 3D siblings are combined.
	OutputInvalid
)

// String returns the lowercase name of the output kind.
func (k OutputKind) String() string {
	switch k {
	case OutputNone:
		return "none"
	case Output2D:
		return "2d"
	case Output3D:
		return "3d"
	case OutputInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Vec2 is a point in the plane. Coordinates are millimeters.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a point in space. Coordinates are millimeters.
type Vec3 struct {
	X, Y, Z float64
}

// Polygon is a closed outline, wound counterclockwise.
type Polygon struct {
	Points []Vec2
}

// Triangle is one face of a mesh.
type Triangle struct {
	A, B, C Vec3
}

// Centroid returns the triangle's barycenter.
func (t Triangle) Centroid() Vec3 {
	return Vec3{
		X: (t.A.X + t.B.X + t.C.X) / 3,
		Y: (t.A.Y + t.B.Y + t.C.Y) / 3,
		Z: (t.A.Z + t.B.Z + t.C.Z) / 3,
	}
}

// Geometry holds rendered output. Polygons are set for Output2D,
// Triangles for Output3D.
type Geometry struct {
	Kind      OutputKind
	Polygons  []Polygon
	Triangles []Triangle
}

// Empty reports whether the geometry holds no shapes.
func (g Geometry) Empty() bool {
	return len(g.Polygons) == 0 && len(g.Triangles) == 0
}

// Bounds is an axis-aligned bounding box. For 2D geometry the Z extent
// is zero.
type Bounds struct {
	Min, Max Vec3
}

// Contains reports whether p lies inside the box, boundary inclusive.
func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Bounds computes the axis-aligned bounding box of the geometry. Empty
// geometry yields a zero box.
func (g Geometry) Bounds() Bounds {
	b := Bounds{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}

	grow := func(p Vec3) {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}

	for _, poly := range g.Polygons {
		for _, p := range poly.Points {
			grow(Vec3{X: p.X, Y: p.Y})
		}
	}

	for _, tri := range g.Triangles {
		grow(tri.A)
		grow(tri.B)
		grow(tri.C)
	}

	if g.Empty() {
		return Bounds{}
	}

	return b
}

// ApplyMatrix returns a copy of the geometry with every point
// transformed. Planar geometry transforms in the XY plane.
func (g Geometry) ApplyMatrix(m *value.Matrix) Geometry {
	out := Geometry{Kind: g.Kind}

	if len(g.Polygons) > 0 {
		out.Polygons = make([]Polygon, len(g.Polygons))

		for i, poly := range g.Polygons {
			pts := make([]Vec2, len(poly.Points))

			for j, p := range poly.Points {
				x, y, _ := m.Apply(p.X, p.Y, 0)
				pts[j] = Vec2{X: x, Y: y}
			}

			out.Polygons[i] = Polygon{Points: pts}
		}
	}

	if len(g.Triangles) > 0 {
		out.Triangles = make([]Triangle, len(g.Triangles))

		for i, tri := range g.Triangles {
			out.Triangles[i] = Triangle{
				A: applyVec3(m, tri.A),
				B: applyVec3(m, tri.B),
				C: applyVec3(m, tri.C),
			}
		}
	}

	return out
}

func applyVec3(m *value.Matrix, p Vec3) Vec3 {
	x, y, z := m.Apply(p.X, p.Y, p.Z)

	return Vec3{X: x, Y: y, Z: z}
}

// Merge concatenates geometries of one dimensionality. Mixing 2D and 3D
// yields OutputInvalid.
func Merge(gs ...Geometry) Geometry {
	out := Geometry{Kind: OutputNone}

	for _, g := range gs {
		switch g.Kind {
		case OutputNone:
			continue

		case OutputInvalid:
			return Geometry{Kind: OutputInvalid}

		default:
			if out.Kind == OutputNone {
				out.Kind = g.Kind
			} else if out.Kind != g.Kind {
				return Geometry{Kind: OutputInvalid}
			}
		}

		out.Polygons = append(out.Polygons, g.Polygons...)
		out.Triangles = append(out.Triangles, g.Triangles...)
	}

	return out
}
