package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ardnew/cadl/render"
)

// PLY writes ASCII PLY meshes with shared vertices.
type PLY struct{}

// Format returns "ply".
func (PLY) Format() string { return "ply" }

// Export writes the mesh in ASCII PLY, deduplicating shared vertices.
func (PLY) Export(w io.Writer, g render.Geometry) error {
	if err := check(g, "ply", render.Output3D); err != nil {
		return err
	}

	index := make(map[render.Vec3]int)

	var verts []render.Vec3

	intern := func(v render.Vec3) int {
		if i, ok := index[v]; ok {
			return i
		}

		i := len(verts)
		index[v] = i
		verts = append(verts, v)

		return i
	}

	faces := make([][3]int, len(g.Triangles))
	for i, tri := range g.Triangles {
		faces[i] = [3]int{intern(tri.A), intern(tri.B), intern(tri.C)}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintf(bw, "element vertex %d\n", len(verts))
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "element face %d\n", len(faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	for _, v := range verts {
		fmt.Fprintf(bw, "%g %g %g\n", v.X, v.Y, v.Z)
	}

	for _, f := range faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}

	return bw.Flush()
}
