package render

import "github.com/ardnew/cadl/value"

// Kernel realizes primitives and combines geometry. Implementations may
// be approximate; the renderer treats results as opaque.
type Kernel interface {
	// Primitive tessellates the named primitive from its argument tuple
	// at the given resolution.
	Primitive(name string, args *value.Tuple, resolution int) (Geometry, error)

	// Union combines geometries additively. The input order is the
	// model's child order.
	Union(gs []Geometry) (Geometry, error)

	// Difference removes each modifier from the base.
	Difference(base Geometry, modifiers []Geometry) (Geometry, error)

	// Intersection keeps only the region common to all inputs.
	Intersection(gs []Geometry) (Geometry, error)

	// Hull computes the convex hull of all inputs.
	Hull(gs []Geometry) (Geometry, error)
}
