package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/cadl/builtin"
	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/syntax"
	"github.com/ardnew/cadl/value"
)

func setup(t *testing.T, src string) (*Context, *syntax.SourceFile) {
	t.Helper()

	file, err := syntax.ParseString(context.Background(), "test.cadl", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	c := New(builtin.Std())
	c.Load(file)
	c.Bind()

	if c.Sink().HasErrors() {
		t.Fatalf("load produced %d errors",
			c.Sink().Count(diag.SeverityError))
	}

	return c, file
}

func evalAll(t *testing.T, src string) (*Context, model.Models) {
	t.Helper()

	c, file := setup(t, src)

	models, err := c.EvalFile(context.Background(), file)
	if err != nil {
		t.Fatalf("EvalFile failed: %v", err)
	}

	return c, models
}

func scalarArg(t *testing.T, m *model.Model, name string) float64 {
	t.Helper()

	v, ok := m.Origin.Args.Get(name)
	if !ok {
		t.Fatalf("argument %q not bound", name)
	}

	mag, ok := v.Magnitude()
	if !ok {
		t.Fatalf("argument %q is not numeric: %v", name, v)
	}

	return mag
}

func TestEndToEndRect(t *testing.T) {
	c, models := evalAll(t, `
		use std::geo2d::rect;
		rect(width = 10, height = 5);
	`)

	if c.Sink().HasErrors() {
		t.Fatalf("unexpected errors: %d", c.Sink().Count(diag.SeverityError))
	}

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	m := models[0]
	if m.Origin.Kind != model.OriginPrimitive || m.Origin.Primitive != "rect" {
		t.Fatalf("unexpected origin %+v", m.Origin)
	}

	want := map[string]float64{"width": 10, "height": 5, "x": 0, "y": 0}
	for name, mag := range want {
		if got := scalarArg(t, m, name); got != mag {
			t.Errorf("arg %s: expected %v, got %v", name, mag, got)
		}
	}

	// Unitless numerics adopt the declared parameter quantity.
	width, _ := m.Origin.Args.Get("width")
	if width.Quantity != value.Length {
		t.Errorf("width quantity: expected Length, got %v", width.Quantity)
	}
}

func TestMultiplicityRowMajor(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo2d::rect;
		sketch f(x, y) {
			rect(width = x, height = y);
		}
		f(x = [1, 2], y = [10, 20]);
	`)

	if len(models) != 4 {
		t.Fatalf("expected 4 models, got %d", len(models))
	}

	want := [][2]float64{{1, 10}, {1, 20}, {2, 10}, {2, 20}}

	for i, m := range models {
		x := scalarArg(t, m, "x")
		y := scalarArg(t, m, "y")

		if x != want[i][0] || y != want[i][1] {
			t.Errorf("model %d: expected (%v,%v), got (%v,%v)",
				i, want[i][0], want[i][1], x, y)
		}
	}
}

func TestMultiplicityListParamUntouched(t *testing.T) {
	_, models := evalAll(t, `
		sketch f(n) {}
		f(n = 7);
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
}

func TestUnitBundling(t *testing.T) {
	c, _ := evalAll(t, `
		use std::geo2d::rect;
		sketch plate(p) {
			rect(width = 1, height = 1);
		}
		plate(p = (x = 1, y = 2)mm);
	`)

	if c.Sink().HasErrors() {
		t.Fatalf("unexpected errors")
	}
}

func TestUnitBundlingConflict(t *testing.T) {
	c, _ := evalAll(t, `
		const p = (x = 1mm, y = 2)mm;
	`)

	if !c.Sink().HasErrors() {
		t.Fatal("expected bundled unit conflict error")
	}
}

func TestBundledTupleFieldValues(t *testing.T) {
	c, _ := setup(t, "")

	file, err := syntax.ParseString(
		context.Background(), "t.cadl", "const p = (x = 1, y = 2)mm;")
	if err != nil {
		t.Fatal(err)
	}

	c.Load(file)

	if _, err := c.EvalFile(context.Background(), file); err != nil {
		t.Fatal(err)
	}

	p, err := c.Root().Navigate([]string{"p"})
	if err != nil {
		t.Fatal(err)
	}

	v, err := c.constValue(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}

	x, _ := v.Tuple.Get("x")
	if x.Kind != value.KindScalar || x.Quantity != value.Length || x.Num != 1 {
		t.Errorf("expected x = 1mm, got %v", x)
	}
}

func TestLexicalShadowing(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d::cube;
		use std::ops::union;
		a = 1mm;
		union() {
			a = 2mm;
			cube(size = a);
		}
		cube(size = a);
	`)

	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}

	inner := models[0].Children[0]
	if got := scalarArg(t, inner, "size"); got != 2 {
		t.Errorf("shadowed binding: expected 2, got %v", got)
	}

	if got := scalarArg(t, models[1], "size"); got != 1 {
		t.Errorf("outer binding: expected 1, got %v", got)
	}
}

func TestConstantsAndArithmetic(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo2d::rect;
		const base = 3mm;
		rect(width = base * 2, height = base + 1mm);
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	if got := scalarArg(t, models[0], "width"); got != 6 {
		t.Errorf("width: expected 6, got %v", got)
	}

	if got := scalarArg(t, models[0], "height"); got != 4 {
		t.Errorf("height: expected 4, got %v", got)
	}
}

func TestQuantityAlgebra(t *testing.T) {
	c, _ := setup(t, "const area = 2mm * 3mm;")

	area, err := c.Root().Navigate([]string{"area"})
	if err != nil {
		t.Fatal(err)
	}

	v, err := c.constValue(context.Background(), area)
	if err != nil {
		t.Fatal(err)
	}

	if v.Quantity != value.Area || v.Num != 6 {
		t.Errorf("expected 6 area units, got %v", v)
	}
}

func TestConstCycle(t *testing.T) {
	c, _ := setup(t, `
		const a = b;
		const b = a;
	`)

	a, err := c.Root().Navigate([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}

	c.push(frameFile, c.Root())
	defer c.pop()

	_, err = c.constValue(context.Background(), a)
	if !errors.Is(err, ErrConstCycle) {
		t.Fatalf("expected ErrConstCycle, got %v", err)
	}
}

func TestUseAlias(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d as solids;
		solids::cube(size = 2mm);
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	if models[0].Origin.Primitive != "cube" {
		t.Errorf("unexpected primitive %q", models[0].Origin.Primitive)
	}
}

func TestOpChildrenSplice(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d::cube;
		use std::transform::translate;
		op lifted(dz) {
			translate(z = dz) {
				@children
			}
		}
		lifted(dz = 5mm) {
			cube(size = 1mm);
			cube(size = 2mm);
		}
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	wb := models[0]
	if wb.Origin.Kind != model.OriginWorkbench {
		t.Fatalf("expected workbench root, got %v", wb.Origin.Kind)
	}

	tr := wb.Children[0]
	if tr.Origin.Kind != model.OriginTransform {
		t.Fatalf("expected transform child, got %v", tr.Origin.Kind)
	}

	if len(tr.Children) != 2 {
		t.Fatalf("expected 2 spliced children, got %d", len(tr.Children))
	}

	if got := scalarArg(t, tr.Children[1], "size"); got != 2 {
		t.Errorf("second spliced child: expected size 2, got %v", got)
	}
}

func TestChildrenOutsideOp(t *testing.T) {
	c, _ := evalAll(t, `
		sketch bad() {
			@children
		}
		bad();
	`)

	if !c.Sink().HasErrors() {
		t.Fatal("expected @children outside op error")
	}
}

func TestArgumentErrorsReportedTogether(t *testing.T) {
	c, _ := evalAll(t, `
		sketch f(width, height) {}
		f(w = 1, 1, 2, 3);
	`)

	if c.Sink().Count(diag.SeverityError) < 2 {
		t.Fatalf("expected unknown-argument and arity errors together, got %d",
			c.Sink().Count(diag.SeverityError))
	}
}

func TestMissingArgument(t *testing.T) {
	c, _ := evalAll(t, `
		use std::geo3d::cube;
		cube();
	`)

	if !c.Sink().HasErrors() {
		t.Fatal("expected missing argument error")
	}
}

func TestDefaultReferencesCallerScope(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d::cube;
		const k = 3mm;
		part f(size = k) {
			cube(size = size);
		}
		f();
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	if got := scalarArg(t, models[0].Children[0], "size"); got != 3 {
		t.Errorf("default from caller scope: expected 3, got %v", got)
	}
}

func TestImpureCallTaintsModel(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d::cube;
		use std::math::rand;
		part jitter() {
			cube(size = rand(min = 1mm, max = 2mm));
		}
		jitter();
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	if models[0].Pure {
		t.Error("model built from rand must be impure")
	}
}

func TestRecursionLimit(t *testing.T) {
	c, _ := evalAll(t, `
		part loop() {
			loop();
		}
		loop();
	`)

	found := false

	for d := range c.Sink().All() {
		if errors.Is(d.Err, ErrRecursionLimit) {
			found = true
		}
	}

	if !found {
		t.Fatal("expected recursion limit diagnostic")
	}
}

func TestResolutionAttribute(t *testing.T) {
	_, models := evalAll(t, `
		use std::geo3d::sphere;
		#[resolution = 64]
		sphere(radius = 1mm);
	`)

	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	if models[0].Resolution != 64 {
		t.Errorf("expected resolution 64, got %d", models[0].Resolution)
	}
}

func TestCallByName(t *testing.T) {
	c, _ := setup(t, `
		use std::geo2d::rect;
		sketch plate(width, height) {
			rect(width = width, height = height);
		}
	`)

	models, err := c.Call(context.Background(), []string{"plate"},
		map[string]value.Value{
			"width":  value.Scalar(4, value.Length),
			"height": value.NewList(
				value.Scalar(1, value.Length),
				value.Scalar(2, value.Length),
			),
		})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("expected 2 models from list expansion, got %d", len(models))
	}

	if got := scalarArg(t, models[1], "height"); got != 2 {
		t.Errorf("second expansion: expected height 2, got %v", got)
	}
}

func TestNotCallable(t *testing.T) {
	c, _ := evalAll(t, `
		const k = 1;
		k();
	`)

	found := false

	for d := range c.Sink().All() {
		if errors.Is(d.Err, ErrNotCallable) {
			found = true
		}
	}

	if !found {
		t.Fatal("expected not-callable diagnostic")
	}
}

func TestUnresolvedNameSuggestion(t *testing.T) {
	c, _ := evalAll(t, `
		use std::geo3d;
		geo3d::cubee(size = 1mm);
	`)

	found := false

	for d := range c.Sink().All() {
		if errors.Is(d.Err, sym.ErrUnresolvedName) {
			found = true
		}
	}

	if !found {
		t.Fatal("expected unresolved name diagnostic")
	}
}

func TestWorkbenchScopeOpaque(t *testing.T) {
	c, _ := evalAll(t, `
		use std::geo3d::cube;
		part f() {
			cube(size = leak);
		}
		leak = 1mm;
		f();
	`)

	if !c.Sink().HasErrors() {
		t.Fatal("workbench body must not see caller's local bindings")
	}
}

func TestAttributeEvalHonorsCancellation(t *testing.T) {
	c, file := setup(t, `
use std::geo3d::cube;

part marker(size: Length = 1mm) {
	cube(size = size);
}

#[tag = marker()] cube(size = 1mm);
`)

	var attrs []*syntax.Attribute

	for _, st := range file.Statements {
		if len(st.Attributes) > 0 {
			attrs = st.Attributes
		}
	}

	if attrs == nil {
		t.Fatal("no attributed statement parsed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.push(frameFile, c.root)
	defer c.pop()

	m := model.NewGroup()
	c.applyAttributes(ctx, model.Models{m}, attrs)

	canceled := false

	for d := range c.Sink().All() {
		if errors.Is(d.Err, context.Canceled) {
			canceled = true
		}
	}

	if !canceled {
		t.Error("attribute evaluation ignored the canceled context")
	}

	if _, ok := m.Attributes["tag"]; ok {
		t.Error("attribute applied despite cancellation")
	}
}

func TestBuiltinCallFailureWrapped(t *testing.T) {
	c, file := setup(t, `
		use std::math::min;
		min(1mm, 2deg);
	`)

	if _, err := c.EvalFile(context.Background(), file); err != nil {
		t.Fatalf("EvalFile failed: %v", err)
	}

	found := false

	for d := range c.Sink().All() {
		if !errors.Is(d.Err, value.ErrQuantityMismatch) {
			continue
		}

		found = true

		if !strings.Contains(d.Message, "builtin call failed") {
			t.Errorf("diagnostic lost the call context: %q", d.Message)
		}
	}

	if !found {
		t.Error("quantity mismatch from min was not recorded")
	}
}
