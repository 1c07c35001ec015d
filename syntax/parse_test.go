package syntax

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *SourceFile {
	t.Helper()

	file, err := ParseString(context.Background(), "test.cadl", src)
	if err != nil {
		t.Fatalf("ParseString(%q) failed: %v", src, err)
	}

	return file
}

func TestParseWorkbench(t *testing.T) {
	src := `
		sketch rect(width: Length, height: Length, x = 0, y = 0) {
			poly(width, height);
		}
	`

	file := mustParse(t, src)

	if len(file.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Statements))
	}

	st := file.Statements[0]
	if st.Kind != StmtWorkbench {
		t.Fatalf("expected workbench statement, got %v", st.Kind)
	}

	wb := st.Workbench
	if wb.Kind != Sketch {
		t.Errorf("expected sketch, got %v", wb.Kind)
	}

	if wb.Name != "rect" {
		t.Errorf("expected name rect, got %q", wb.Name)
	}

	if len(wb.Params) != 4 {
		t.Fatalf("expected 4 params, got %d", len(wb.Params))
	}

	if wb.Params[0].Type != "Length" {
		t.Errorf("expected type Length, got %q", wb.Params[0].Type)
	}

	if wb.Params[2].Default == nil {
		t.Error("expected default for x")
	}

	if len(wb.Body) != 1 || wb.Body[0].Kind != StmtExpr {
		t.Fatalf("expected 1 expression statement in body")
	}
}

func TestParseUse(t *testing.T) {
	file := mustParse(t, "use std::geo2d as g2;\nuse std::ops;")

	if len(file.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Statements))
	}

	first := file.Statements[0].Use
	if QualifiedName(first.Path) != "std::geo2d" {
		t.Errorf("expected std::geo2d, got %q", QualifiedName(first.Path))
	}

	if first.Alias != "g2" {
		t.Errorf("expected alias g2, got %q", first.Alias)
	}

	if file.Statements[1].Use.Alias != "" {
		t.Errorf("expected no alias, got %q", file.Statements[1].Use.Alias)
	}
}

func TestParseModuleNesting(t *testing.T) {
	src := `
		mod outer {
			const scale = 2;
			mod inner {
				part brick(size = 1mm) {}
			}
		}
	`

	file := mustParse(t, src)

	outer := file.Statements[0]
	if outer.Kind != StmtModule || outer.Module.Name != "outer" {
		t.Fatalf("expected mod outer, got %+v", outer)
	}

	if len(outer.Module.Body) != 2 {
		t.Fatalf("expected 2 nested statements, got %d", len(outer.Module.Body))
	}

	inner := outer.Module.Body[1]
	if inner.Kind != StmtModule || inner.Module.Name != "inner" {
		t.Fatalf("expected mod inner, got %+v", inner)
	}

	wb := inner.Module.Body[0].Workbench
	if wb == nil || wb.Kind != Part || wb.Name != "brick" {
		t.Fatalf("expected part brick, got %+v", inner.Module.Body[0])
	}
}

func TestParseNumberUnits(t *testing.T) {
	tests := []struct {
		src   string
		num   float64
		unit  string
		isInt bool
	}{
		{"10", 10, "", true},
		{"10mm", 10, "mm", false},
		{"2.5in", 2.5, "in", false},
		{"90deg", 90, "deg", false},
		{"50%", 50, "%", false},
		{"3mm2", 3, "mm2", false},
		{"1.5e2", 150, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			file := mustParse(t, tt.src+";")

			expr := file.Statements[0].Expr
			if expr.Kind != ExprNumber {
				t.Fatalf("expected number, got %v", expr.Kind)
			}

			if expr.Num != tt.num {
				t.Errorf("expected %v, got %v", tt.num, expr.Num)
			}

			if expr.Unit != tt.unit {
				t.Errorf("expected unit %q, got %q", tt.unit, expr.Unit)
			}

			if expr.IsInt != tt.isInt {
				t.Errorf("expected isInt=%v, got %v", tt.isInt, expr.IsInt)
			}
		})
	}
}

func TestParseTupleBundledUnit(t *testing.T) {
	file := mustParse(t, "(x = 1, y = 2)mm;")

	expr := file.Statements[0].Expr
	if expr.Kind != ExprTuple {
		t.Fatalf("expected tuple, got %v", expr.Kind)
	}

	if expr.TupleUnit != "mm" {
		t.Errorf("expected bundled unit mm, got %q", expr.TupleUnit)
	}

	if len(expr.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(expr.Fields))
	}

	if expr.Fields[0].Name != "x" || expr.Fields[1].Name != "y" {
		t.Errorf("unexpected field names %q, %q",
			expr.Fields[0].Name, expr.Fields[1].Name)
	}
}

func TestParseParenGrouping(t *testing.T) {
	file := mustParse(t, "(1 + 2) * 3;")

	expr := file.Statements[0].Expr
	if expr.Kind != ExprBinary || expr.Op != '*' {
		t.Fatalf("expected binary *, got %+v", expr)
	}

	if expr.X.Kind != ExprBinary || expr.X.Op != '+' {
		t.Fatalf("expected grouped + on left, got %+v", expr.X)
	}
}

func TestParsePrecedence(t *testing.T) {
	file := mustParse(t, "1 + 2 * 3;")

	expr := file.Statements[0].Expr
	if expr.Kind != ExprBinary || expr.Op != '+' {
		t.Fatalf("expected + at root, got %+v", expr)
	}

	if expr.Y.Kind != ExprBinary || expr.Y.Op != '*' {
		t.Fatalf("expected * bound tighter, got %+v", expr.Y)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	file := mustParse(t, "-5mm;")

	expr := file.Statements[0].Expr
	if expr.Kind != ExprUnary || expr.Op != '-' {
		t.Fatalf("expected unary -, got %+v", expr)
	}

	if expr.X.Kind != ExprNumber || expr.X.Unit != "mm" {
		t.Fatalf("expected 5mm operand, got %+v", expr.X)
	}
}

func TestParseCallArgs(t *testing.T) {
	file := mustParse(t, "std::geo2d::rect(width = 10mm, 5mm);")

	expr := file.Statements[0].Expr
	if expr.Kind != ExprCall {
		t.Fatalf("expected call, got %v", expr.Kind)
	}

	call := expr.Call
	if QualifiedName(call.Name) != "std::geo2d::rect" {
		t.Errorf("unexpected callee %q", QualifiedName(call.Name))
	}

	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}

	if call.Args[0].Name != "width" {
		t.Errorf("expected named arg width, got %q", call.Args[0].Name)
	}

	if call.Args[1].Name != "" {
		t.Errorf("expected positional arg, got name %q", call.Args[1].Name)
	}
}

func TestParseCallBody(t *testing.T) {
	src := `
		union() {
			cube(size = 1);
			sphere(radius = 2);
		}
	`

	file := mustParse(t, src)

	st := file.Statements[0]
	if st.Kind != StmtExpr || st.Expr.Kind != ExprCall {
		t.Fatalf("expected call statement, got %+v", st)
	}

	if len(st.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(st.Body))
	}
}

func TestParseList(t *testing.T) {
	file := mustParse(t, "x = [1, 2, 3];")

	st := file.Statements[0]
	if st.Kind != StmtAssign || st.Assign.Name != "x" {
		t.Fatalf("expected assignment to x, got %+v", st)
	}

	if st.Assign.Value.Kind != ExprList {
		t.Fatalf("expected list, got %v", st.Assign.Value.Kind)
	}

	if len(st.Assign.Value.List) != 3 {
		t.Errorf("expected 3 items, got %d", len(st.Assign.Value.List))
	}
}

func TestParseAttributes(t *testing.T) {
	src := `
		#[render, resolution = 32]
		part wheel(radius = 10mm) {}
	`

	file := mustParse(t, src)

	st := file.Statements[0]
	if len(st.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(st.Attributes))
	}

	if st.Attributes[0].Name != "render" || st.Attributes[0].Value != nil {
		t.Errorf("expected bare render attribute, got %+v", st.Attributes[0])
	}

	if st.Attributes[1].Name != "resolution" || st.Attributes[1].Value == nil {
		t.Errorf("expected resolution attribute with value, got %+v",
			st.Attributes[1])
	}
}

func TestParseChildrenMarker(t *testing.T) {
	src := `
		op rounded() {
			@children
		}
	`

	file := mustParse(t, src)

	body := file.Statements[0].Workbench.Body
	if len(body) != 1 || body[0].Kind != StmtChildren {
		t.Fatalf("expected @children statement, got %+v", body)
	}
}

func TestParseComments(t *testing.T) {
	src := `
		// line comment
		const a = 1; /* block
		comment */ const b = 2;
	`

	file := mustParse(t, src)

	if len(file.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Statements))
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString(context.Background(), "bad.cadl", "const x = ;")
	if err == nil {
		t.Fatal("expected parse error")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	if perr.Src.Path != "bad.cadl" || perr.Src.Line != 1 {
		t.Errorf("unexpected location %v", perr.Src)
	}

	if !strings.Contains(perr.Error(), "^") {
		t.Errorf("expected caret in error output:\n%s", perr.Error())
	}
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := ParseString(context.Background(), "bad.cadl", `name = "oops;`)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseHashStable(t *testing.T) {
	a := mustParse(t, "const x = 1;")
	b := mustParse(t, "const x = 1;")
	c := mustParse(t, "const x = 2;")

	if a.Hash != b.Hash {
		t.Error("identical sources must hash equal")
	}

	if a.Hash == c.Hash {
		t.Error("distinct sources must hash differently")
	}
}

func TestFormatExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"hi";`, `"hi"`},
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"-width;", "-width"},
		{"rect(width = 10mm, 5);", "rect(width = 10mm, 5)"},
		{"(x = 1, y = 2)cm;", "(x = 1, y = 2)cm"},
		{"[1, 2, 3];", "[1, 2, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			file := mustParse(t, tt.src)

			if got := FormatExpr(file.Statements[0].Expr); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if got := FormatExpr(nil); got != "" {
		t.Errorf("nil expression renders %q", got)
	}

	// The string literal case must stay distinct from the kind constant.
	file := mustParse(t, `"hi";`)
	if file.Statements[0].Expr.Kind != ExprString {
		t.Errorf("expected string kind, got %v", file.Statements[0].Expr.Kind)
	}
}
