package builtin

import (
	"errors"
	"math"
	"testing"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/value"
)

func TestStdRegistry(t *testing.T) {
	root := Std()

	tests := []struct {
		path  []string
		class string
	}{
		{[]string{"std", "geo2d", "rect"}, "primitive"},
		{[]string{"std", "geo2d", "circle"}, "primitive"},
		{[]string{"std", "geo3d", "cube"}, "primitive"},
		{[]string{"std", "geo3d", "sphere"}, "primitive"},
		{[]string{"std", "geo3d", "cylinder"}, "primitive"},
		{[]string{"std", "transform", "translate"}, "transform"},
		{[]string{"std", "transform", "rotate"}, "transform"},
		{[]string{"std", "transform", "scale"}, "transform"},
		{[]string{"std", "ops", "union"}, "operation"},
		{[]string{"std", "ops", "difference"}, "operation"},
		{[]string{"std", "ops", "hull"}, "operation"},
		{[]string{"std", "math", "abs"}, "function"},
		{[]string{"std", "math", "min"}, "function"},
	}

	for _, tt := range tests {
		s, err := root.Navigate(tt.path)
		if err != nil {
			t.Errorf("Navigate(%v) failed: %v", tt.path, err)

			continue
		}

		if s.Kind != sym.BuiltinSym {
			t.Errorf("%v: expected builtin, got %v", tt.path, s.Kind)

			continue
		}

		if got := s.Builtin.Class(); got != tt.class {
			t.Errorf("%v: expected class %s, got %s", tt.path, tt.class, got)
		}
	}
}

func TestDimensionality(t *testing.T) {
	root := Std()

	rect, err := root.Navigate([]string{"std", "geo2d", "rect"})
	if err != nil {
		t.Fatal(err)
	}

	if rect.Builtin.Dim != sym.Dim2 {
		t.Errorf("rect: expected 2d, got %v", rect.Builtin.Dim)
	}

	cube, err := root.Navigate([]string{"std", "geo3d", "cube"})
	if err != nil {
		t.Fatal(err)
	}

	if cube.Builtin.Dim != sym.Dim3 {
		t.Errorf("cube: expected 3d, got %v", cube.Builtin.Dim)
	}
}

func TestMathPreservesQuantity(t *testing.T) {
	root := Std()

	abs, err := root.Navigate([]string{"std", "math", "abs"})
	if err != nil {
		t.Fatal(err)
	}

	args := value.NewTuple(value.Field{
		Name:  "x",
		Value: value.Scalar(-3, value.Length),
	})

	v, err := abs.Builtin.Fn(args.Tuple)
	if err != nil {
		t.Fatal(err)
	}

	if v.Num != 3 || v.Quantity != value.Length {
		t.Errorf("abs(-3mm): expected 3mm, got %v", v)
	}
}

func TestMinQuantityMismatch(t *testing.T) {
	root := Std()

	min, err := root.Navigate([]string{"std", "math", "min"})
	if err != nil {
		t.Fatal(err)
	}

	args := value.NewTuple(
		value.Field{Name: "a", Value: value.Scalar(1, value.Length)},
		value.Field{Name: "b", Value: value.Scalar(2, value.Angle)},
	)

	_, err = min.Builtin.Fn(args.Tuple)
	if !errors.Is(err, value.ErrQuantityMismatch) {
		t.Fatalf("expected quantity mismatch, got %v", err)
	}

	// The error names the failing function for diagnostics.
	de := &diag.Error{}
	if !errors.As(err, &de) {
		t.Fatalf("expected diag error, got %T", err)
	}

	named := false

	for _, attr := range de.Attrs() {
		if attr.Key == "function" && attr.Value.String() == "min" {
			named = true
		}
	}

	if !named {
		t.Errorf("error does not name the function: %v", de.Attrs())
	}
}

func TestRandImpure(t *testing.T) {
	root := Std()

	r, err := root.Navigate([]string{"std", "math", "rand"})
	if err != nil {
		t.Fatal(err)
	}

	if r.Builtin.Pure {
		t.Error("rand must be impure")
	}
}

func TestPiConstant(t *testing.T) {
	root := Std()

	pi, err := root.Navigate([]string{"std", "math", "pi"})
	if err != nil {
		t.Fatal(err)
	}

	if pi.Kind != sym.Constant || pi.Expr == nil {
		t.Fatalf("expected constant with initializer, got %+v", pi)
	}

	if pi.Expr.Num != math.Pi {
		t.Errorf("unexpected pi initializer %v", pi.Expr.Num)
	}
}

func TestTranslateMatrix(t *testing.T) {
	root := Std()

	tr, err := root.Navigate([]string{"std", "transform", "translate"})
	if err != nil {
		t.Fatal(err)
	}

	args := value.NewTuple(
		value.Field{Name: "x", Value: value.Scalar(2, value.Length)},
		value.Field{Name: "y", Value: value.Scalar(3, value.Length)},
		value.Field{Name: "z", Value: value.Scalar(0, value.Length)},
	)

	m, err := tr.Builtin.Transform(args.Tuple)
	if err != nil {
		t.Fatal(err)
	}

	x, y, z := m.Apply(1, 1, 1)
	if x != 3 || y != 4 || z != 1 {
		t.Errorf("translate(2,3,0) applied to (1,1,1): got (%v,%v,%v)", x, y, z)
	}
}
