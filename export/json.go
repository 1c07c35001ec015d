package export

import (
	"encoding/json"
	"io"

	"github.com/ardnew/cadl/render"
)

// JSON writes geometry of either dimensionality as a JSON document.
type JSON struct{}

// Format returns "json".
func (JSON) Format() string { return "json" }

type jsonDoc struct {
	Kind     string        `json:"kind"`
	Polygons [][][2]float64 `json:"polygons,omitempty"`
	Vertices [][3]float64  `json:"vertices,omitempty"`
	Faces    [][3]int      `json:"faces,omitempty"`
}

// Export writes the geometry as JSON. Meshes share vertices through an
// index table, matching the PLY layout.
func (JSON) Export(w io.Writer, g render.Geometry) error {
	if g.Kind == render.OutputInvalid {
		return ErrInvalidGeometry
	}

	doc := jsonDoc{Kind: g.Kind.String()}

	for _, poly := range g.Polygons {
		pts := make([][2]float64, len(poly.Points))
		for i, p := range poly.Points {
			pts[i] = [2]float64{p.X, p.Y}
		}

		doc.Polygons = append(doc.Polygons, pts)
	}

	if len(g.Triangles) > 0 {
		index := make(map[render.Vec3]int)

		intern := func(v render.Vec3) int {
			if i, ok := index[v]; ok {
				return i
			}

			i := len(doc.Vertices)
			index[v] = i
			doc.Vertices = append(doc.Vertices, [3]float64{v.X, v.Y, v.Z})

			return i
		}

		for _, tri := range g.Triangles {
			doc.Faces = append(doc.Faces,
				[3]int{intern(tri.A), intern(tri.B), intern(tri.C)})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
