package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/cadl/render"
)

func mesh() render.Geometry {
	return render.Geometry{
		Kind: render.Output3D,
		Triangles: []render.Triangle{
			{
				A: render.Vec3{},
				B: render.Vec3{X: 1},
				C: render.Vec3{Y: 1},
			},
			{
				A: render.Vec3{},
				B: render.Vec3{Y: 1},
				C: render.Vec3{Z: 1},
			},
		},
	}
}

func plane() render.Geometry {
	return render.Geometry{
		Kind: render.Output2D,
		Polygons: []render.Polygon{{
			Points: []render.Vec2{{}, {X: 2}, {X: 2, Y: 1}, {Y: 1}},
		}},
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"out.stl", "stl"},
		{"out.SVG", "svg"},
		{"dir/model.ply", "ply"},
		{"model.json", "json"},
	}

	for _, tt := range tests {
		e, err := ForPath(tt.path)
		if err != nil {
			t.Errorf("ForPath(%q) failed: %v", tt.path, err)

			continue
		}

		if e.Format() != tt.format {
			t.Errorf("ForPath(%q): expected %s, got %s",
				tt.path, tt.format, e.Format())
		}
	}

	if _, err := ForPath("model.step"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSTL(t *testing.T) {
	var buf bytes.Buffer

	if err := (STL{}).Export(&buf, mesh()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	if !strings.HasPrefix(out, "solid ") {
		t.Error("missing solid header")
	}

	if got := strings.Count(out, "facet normal"); got != 2 {
		t.Errorf("expected 2 facets, got %d", got)
	}

	if got := strings.Count(out, "vertex"); got != 6 {
		t.Errorf("expected 6 vertices, got %d", got)
	}
}

func TestSTLRejects2D(t *testing.T) {
	var buf bytes.Buffer

	err := (STL{}).Export(&buf, plane())
	if !errors.Is(err, ErrWrongDimension) {
		t.Fatalf("expected ErrWrongDimension, got %v", err)
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer

	if err := (SVG{}).Export(&buf, plane()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	if !strings.Contains(out, `viewBox="0 -1 2 1"`) {
		t.Errorf("unexpected viewBox in:\n%s", out)
	}

	if !strings.Contains(out, "<polygon") {
		t.Error("missing polygon element")
	}
}

func TestPLYSharesVertices(t *testing.T) {
	var buf bytes.Buffer

	if err := (PLY{}).Export(&buf, mesh()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	// Two triangles share an edge: 4 unique vertices, not 6.
	if !strings.Contains(out, "element vertex 4") {
		t.Errorf("expected 4 shared vertices in:\n%s", out)
	}

	if !strings.Contains(out, "element face 2") {
		t.Errorf("expected 2 faces in:\n%s", out)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	if err := (JSON{}).Export(&buf, mesh()); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Kind     string       `json:"kind"`
		Vertices [][3]float64 `json:"vertices"`
		Faces    [][3]int     `json:"faces"`
	}

	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Kind != "3d" || len(doc.Vertices) != 4 || len(doc.Faces) != 2 {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestExportInvalid(t *testing.T) {
	var buf bytes.Buffer

	bad := render.Geometry{Kind: render.OutputInvalid}

	if err := (JSON{}).Export(&buf, bad); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}
