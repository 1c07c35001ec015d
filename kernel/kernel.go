// Package kernel provides an approximate geometry kernel. Primitives
// tessellate exactly; boolean operations approximate membership with
// bounding-box tests, which is sufficient for previews, measurement
// estimates, and exercising the render pipeline.
package kernel

import (
	"log/slog"
	"math"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/render"
	"github.com/ardnew/cadl/value"
)

// ErrUnknownPrimitive indicates a primitive name the kernel does not
// tessellate.
var ErrUnknownPrimitive = diag.NewError("unknown primitive")

// minResolution keeps curved primitives from degenerating.
const minResolution = 6

// Approx is the approximate kernel. The zero value is ready to use.
type Approx struct{}

// New creates an approximate kernel.
func New() *Approx { return &Approx{} }

// Primitive tessellates a named primitive from its argument tuple.
func (k *Approx) Primitive(
	name string,
	args *value.Tuple,
	resolution int,
) (render.Geometry, error) {
	if resolution < minResolution {
		resolution = minResolution
	}

	switch name {
	case "rect":
		return rect(
			field(args, "width"),
			field(args, "height"),
			field(args, "x"),
			field(args, "y"),
		), nil

	case "circle":
		return circle(
			field(args, "radius"),
			field(args, "x"),
			field(args, "y"),
			resolution,
		), nil

	case "cube":
		size := field(args, "size")

		return render.Geometry{
			Kind: render.Output3D,
			Triangles: boxMesh(
				render.Vec3{},
				render.Vec3{X: size, Y: size, Z: size},
			),
		}, nil

	case "sphere":
		return sphere(field(args, "radius"), resolution), nil

	case "cylinder":
		return cylinder(
			field(args, "radius"),
			field(args, "height"),
			resolution,
		), nil

	default:
		return render.Geometry{}, ErrUnknownPrimitive.With(
			slog.String("primitive", name),
		)
	}
}

// field reads a numeric argument magnitude, zero when absent.
func field(args *value.Tuple, name string) float64 {
	v, ok := args.Get(name)
	if !ok {
		return 0
	}

	mag, _ := v.Magnitude()

	return mag
}

func rect(width, height, x, y float64) render.Geometry {
	return render.Geometry{
		Kind: render.Output2D,
		Polygons: []render.Polygon{{
			Points: []render.Vec2{
				{X: x, Y: y},
				{X: x + width, Y: y},
				{X: x + width, Y: y + height},
				{X: x, Y: y + height},
			},
		}},
	}
}

func circle(radius, x, y float64, resolution int) render.Geometry {
	pts := make([]render.Vec2, resolution)

	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(resolution)
		pts[i] = render.Vec2{
			X: x + radius*math.Cos(a),
			Y: y + radius*math.Sin(a),
		}
	}

	return render.Geometry{
		Kind:     render.Output2D,
		Polygons: []render.Polygon{{Points: pts}},
	}
}

// boxMesh builds the 12 triangles of an axis-aligned box. Faces wind
// outward.
func boxMesh(min, max render.Vec3) []render.Triangle {
	v := [8]render.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}

	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{2, 3, 7, 6}, // back
		{1, 2, 6, 5}, // right
		{3, 0, 4, 7}, // left
	}

	tris := make([]render.Triangle, 0, 12)

	for _, q := range quads {
		tris = append(tris,
			render.Triangle{A: v[q[0]], B: v[q[1]], C: v[q[2]]},
			render.Triangle{A: v[q[0]], B: v[q[2]], C: v[q[3]]},
		)
	}

	return tris
}

func sphere(radius float64, resolution int) render.Geometry {
	stacks := resolution / 2
	slices := resolution

	at := func(stack, slice int) render.Vec3 {
		phi := math.Pi * float64(stack) / float64(stacks)
		theta := 2 * math.Pi * float64(slice) / float64(slices)

		return render.Vec3{
			X: radius * math.Sin(phi) * math.Cos(theta),
			Y: radius * math.Sin(phi) * math.Sin(theta),
			Z: radius * math.Cos(phi),
		}
	}

	var tris []render.Triangle

	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			a := at(stack, slice)
			b := at(stack+1, slice)
			c := at(stack+1, slice+1)
			d := at(stack, slice+1)

			if stack > 0 {
				tris = append(tris, render.Triangle{A: a, B: b, C: d})
			}

			if stack < stacks-1 {
				tris = append(tris, render.Triangle{A: b, B: c, C: d})
			}
		}
	}

	return render.Geometry{Kind: render.Output3D, Triangles: tris}
}

func cylinder(radius, height float64, resolution int) render.Geometry {
	var tris []render.Triangle

	bottom := render.Vec3{}
	top := render.Vec3{Z: height}

	rim := func(i int, z float64) render.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(resolution)

		return render.Vec3{
			X: radius * math.Cos(a),
			Y: radius * math.Sin(a),
			Z: z,
		}
	}

	for i := 0; i < resolution; i++ {
		b0 := rim(i, 0)
		b1 := rim(i+1, 0)
		t0 := rim(i, height)
		t1 := rim(i+1, height)

		// caps
		tris = append(tris,
			render.Triangle{A: bottom, B: b1, C: b0},
			render.Triangle{A: top, B: t0, C: t1},
		)

		// side
		tris = append(tris,
			render.Triangle{A: b0, B: b1, C: t1},
			render.Triangle{A: b0, B: t1, C: t0},
		)
	}

	return render.Geometry{Kind: render.Output3D, Triangles: tris}
}
