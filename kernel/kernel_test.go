package kernel

import (
	"math"
	"testing"

	"github.com/ardnew/cadl/render"
	"github.com/ardnew/cadl/value"
)

func args(fields ...value.Field) *value.Tuple {
	return &value.Tuple{Fields: fields}
}

func lengthField(name string, mag float64) value.Field {
	return value.Field{Name: name, Value: value.Scalar(mag, value.Length)}
}

func TestRect(t *testing.T) {
	k := New()

	g, err := k.Primitive("rect", args(
		lengthField("width", 10),
		lengthField("height", 5),
		lengthField("x", 0),
		lengthField("y", 0),
	), 32)
	if err != nil {
		t.Fatal(err)
	}

	if g.Kind != render.Output2D || len(g.Polygons) != 1 {
		t.Fatalf("unexpected geometry %+v", g)
	}

	b := g.Bounds()
	if b.Max.X != 10 || b.Max.Y != 5 {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestCircleResolution(t *testing.T) {
	k := New()

	g, err := k.Primitive("circle", args(
		lengthField("radius", 2),
		lengthField("x", 0),
		lengthField("y", 0),
	), 16)
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Polygons[0].Points) != 16 {
		t.Errorf("expected 16 segments, got %d", len(g.Polygons[0].Points))
	}

	for _, p := range g.Polygons[0].Points {
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-2) > 1e-9 {
			t.Fatalf("point %+v not on radius 2", p)
		}
	}
}

func TestCubeMesh(t *testing.T) {
	k := New()

	g, err := k.Primitive("cube", args(lengthField("size", 3)), 32)
	if err != nil {
		t.Fatal(err)
	}

	if g.Kind != render.Output3D || len(g.Triangles) != 12 {
		t.Fatalf("expected 12 triangles, got %d", len(g.Triangles))
	}

	b := g.Bounds()
	if b.Min != (render.Vec3{}) || b.Max != (render.Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestSphereBounds(t *testing.T) {
	k := New()

	g, err := k.Primitive("sphere", args(lengthField("radius", 2)), 24)
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Triangles) == 0 {
		t.Fatal("sphere produced no faces")
	}

	b := g.Bounds()
	for _, extent := range []float64{b.Max.X, b.Max.Y, b.Max.Z} {
		if extent > 2+1e-9 {
			t.Errorf("sphere exceeds radius: %v", extent)
		}
	}
}

func TestCylinderHeight(t *testing.T) {
	k := New()

	g, err := k.Primitive("cylinder", args(
		lengthField("radius", 1),
		lengthField("height", 4),
	), 12)
	if err != nil {
		t.Fatal(err)
	}

	b := g.Bounds()
	if b.Min.Z != 0 || b.Max.Z != 4 {
		t.Errorf("unexpected height bounds %+v", b)
	}
}

func TestUnknownPrimitive(t *testing.T) {
	k := New()

	if _, err := k.Primitive("torus", args(), 32); err == nil {
		t.Fatal("expected unknown primitive error")
	}
}

func TestDifferenceShrinksBase(t *testing.T) {
	k := New()

	base, _ := k.Primitive("cube", args(lengthField("size", 4)), 32)
	bite, _ := k.Primitive("cube", args(lengthField("size", 2)), 32)

	g, err := k.Difference(base, []render.Geometry{bite})
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Triangles) >= len(base.Triangles) {
		t.Errorf("difference removed nothing: %d >= %d",
			len(g.Triangles), len(base.Triangles))
	}

	// Result stays within the base footprint.
	bb := base.Bounds()
	gb := g.Bounds()

	if gb.Min.X < bb.Min.X || gb.Max.X > bb.Max.X ||
		gb.Min.Y < bb.Min.Y || gb.Max.Y > bb.Max.Y ||
		gb.Min.Z < bb.Min.Z || gb.Max.Z > bb.Max.Z {
		t.Errorf("difference escaped base bounds: %+v vs %+v", gb, bb)
	}
}

func TestIntersectionStaysInsideAll(t *testing.T) {
	k := New()

	a, _ := k.Primitive("cube", args(lengthField("size", 4)), 32)

	shifted := a.ApplyMatrix(value.Translate(2, 2, 2))

	g, err := k.Intersection([]render.Geometry{a, shifted})
	if err != nil {
		t.Fatal(err)
	}

	sb := shifted.Bounds()

	for _, tri := range g.Triangles {
		if !sb.Contains(tri.Centroid()) {
			t.Fatalf("face escaped intersection region: %+v", tri)
		}
	}
}

func TestHull2D(t *testing.T) {
	k := New()

	a, _ := k.Primitive("rect", args(
		lengthField("width", 1),
		lengthField("height", 1),
		lengthField("x", 0),
		lengthField("y", 0),
	), 32)

	b, _ := k.Primitive("rect", args(
		lengthField("width", 1),
		lengthField("height", 1),
		lengthField("x", 5),
		lengthField("y", 5),
	), 32)

	g, err := k.Hull([]render.Geometry{a, b})
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Polygons) != 1 {
		t.Fatalf("expected single hull polygon, got %d", len(g.Polygons))
	}

	bounds := g.Bounds()
	if bounds.Max.X != 6 || bounds.Max.Y != 6 {
		t.Errorf("hull must span both inputs: %+v", bounds)
	}

	// Convexity: the hull of two unit squares has 6 extreme points.
	if n := len(g.Polygons[0].Points); n != 6 {
		t.Errorf("expected 6 hull vertices, got %d", n)
	}
}

func TestHull3DBoundingBox(t *testing.T) {
	k := New()

	a, _ := k.Primitive("cube", args(lengthField("size", 1)), 32)

	shifted := a.ApplyMatrix(value.Translate(4, 0, 0))

	g, err := k.Hull([]render.Geometry{a, shifted})
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Triangles) != 12 {
		t.Fatalf("expected box hull, got %d triangles", len(g.Triangles))
	}

	if b := g.Bounds(); b.Max.X != 5 {
		t.Errorf("hull must span both cubes: %+v", b)
	}
}
