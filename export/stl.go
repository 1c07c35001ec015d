package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/ardnew/cadl/pkg"
	"github.com/ardnew/cadl/render"
)

// STL writes ASCII STL. Solids only.
type STL struct{}

// Format returns "stl".
func (STL) Format() string { return "stl" }

// Export writes the mesh as an ASCII STL solid.
func (STL) Export(w io.Writer, g render.Geometry) error {
	if err := check(g, "stl", render.Output3D); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", pkg.Name)

	for _, tri := range g.Triangles {
		n := normal(tri)

		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")

		for _, v := range []render.Vec3{tri.A, tri.B, tri.C} {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}

		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}

	fmt.Fprintf(bw, "endsolid %s\n", pkg.Name)

	return bw.Flush()
}

// normal computes the unit face normal, zero for degenerate faces.
func normal(t render.Triangle) render.Vec3 {
	ux, uy, uz := t.B.X-t.A.X, t.B.Y-t.A.Y, t.B.Z-t.A.Z
	vx, vy, vz := t.C.X-t.A.X, t.C.Y-t.A.Y, t.C.Z-t.A.Z

	n := render.Vec3{
		X: uy*vz - uz*vy,
		Y: uz*vx - ux*vz,
		Z: ux*vy - uy*vx,
	}

	mag := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if mag == 0 {
		return render.Vec3{}
	}

	return render.Vec3{X: n.X / mag, Y: n.Y / mag, Z: n.Z / mag}
}
