package value

import (
	"math"
	"testing"
)

func TestScalarFromLiteralUnits(t *testing.T) {
	tests := []struct {
		suffix   string
		quantity Quantity
		want     float64
	}{
		{"mm", Length, 2},
		{"cm", Length, 20},
		{"m", Length, 2000},
		{"in", Length, 50.8},
		{"rad", Angle, 2},
		{"g", Weight, 2},
		{"%", Dimensionless, 0.02},
	}

	for _, tt := range tests {
		v, err := ScalarFromLiteral(2, tt.suffix)
		if err != nil {
			t.Errorf("suffix %q: %v", tt.suffix, err)

			continue
		}

		if v.Quantity != tt.quantity {
			t.Errorf("suffix %q: expected quantity %v, got %v",
				tt.suffix, tt.quantity, v.Quantity)
		}

		if math.Abs(v.Num-tt.want) > 1e-9 {
			t.Errorf("suffix %q: expected %v, got %v",
				tt.suffix, tt.want, v.Num)
		}
	}

	if _, err := ScalarFromLiteral(1, "furlong"); err == nil {
		t.Error("expected unknown unit error")
	}
}

func TestQuantityArithmetic(t *testing.T) {
	a := Scalar(2, Length)
	b := Scalar(3, Length)

	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Num != 5 || sum.Quantity != Length {
		t.Errorf("2mm + 3mm: got %v", sum)
	}

	area, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}

	if area.Num != 6 || area.Quantity != Area {
		t.Errorf("2mm * 3mm: got %v", area)
	}

	side, err := Div(area, a)
	if err != nil {
		t.Fatal(err)
	}

	if side.Num != 3 || side.Quantity != Length {
		t.Errorf("area / length: got %v", side)
	}

	if _, err := Add(a, Scalar(1, Angle)); err == nil {
		t.Error("expected length + angle to fail")
	}
}

func TestIntegerWidening(t *testing.T) {
	// Integers are dimensionless, so scaling a length is fine but adding
	// one to a length is a quantity mismatch.
	scaled, err := Mul(NewInt(2), Scalar(3, Length))
	if err != nil {
		t.Fatal(err)
	}

	if scaled.Kind != KindScalar || scaled.Num != 6 ||
		scaled.Quantity != Length {
		t.Errorf("2 * 3mm: got %v", scaled)
	}

	if _, err := Add(NewInt(2), Scalar(3, Length)); err == nil {
		t.Error("expected 2 + 3mm to fail")
	}

	// Pure integer arithmetic stays integral.
	prod, err := Mul(NewInt(4), NewInt(5))
	if err != nil {
		t.Fatal(err)
	}

	if prod.Kind != KindInteger || prod.Int != 20 {
		t.Errorf("4 * 5: got %v", prod)
	}
}

func TestCoerce(t *testing.T) {
	length, _ := ParseType("Length")

	v, ok := Coerce(Scalar(10, Dimensionless), length)
	if !ok || v.Quantity != Length || v.Num != 10 {
		t.Errorf("dimensionless to Length: got %v, ok %v", v, ok)
	}

	v, ok = Coerce(NewInt(10), length)
	if !ok || v.Kind != KindScalar || v.Quantity != Length {
		t.Errorf("integer to Length: got %v, ok %v", v, ok)
	}

	if _, ok := Coerce(Scalar(1, Angle), length); ok {
		t.Error("angle must not coerce to Length")
	}

	if _, ok := Coerce(NewString("x"), length); ok {
		t.Error("string must not coerce to Length")
	}

	if _, ok := Coerce(NewString("x"), Any); !ok {
		t.Error("everything coerces to Any")
	}
}

func TestNegPreservesQuantity(t *testing.T) {
	v, err := Neg(Scalar(2, Angle))
	if err != nil {
		t.Fatal(err)
	}

	if v.Num != -2 || v.Quantity != Angle {
		t.Errorf("got %v", v)
	}
}

func TestEqualTolerance(t *testing.T) {
	a := Scalar(0.1+0.2, Length)
	b := Scalar(0.3, Length)

	if !Equal(a, b) {
		t.Error("expected near-equal scalars to compare equal")
	}

	if Equal(Scalar(1, Length), Scalar(1, Angle)) {
		t.Error("different quantities must not compare equal")
	}

	if !Equal(
		NewList(NewInt(1), NewInt(2)),
		NewList(NewInt(1), NewInt(2)),
	) {
		t.Error("expected equal lists")
	}
}

func TestMatrixTransforms(t *testing.T) {
	x, y, z := Translate(1, 2, 3).Apply(10, 10, 10)
	if x != 11 || y != 12 || z != 13 {
		t.Errorf("translate: got (%v, %v, %v)", x, y, z)
	}

	x, y, z = Scale(2, 3, 4).Apply(1, 1, 1)
	if x != 2 || y != 3 || z != 4 {
		t.Errorf("scale: got (%v, %v, %v)", x, y, z)
	}

	// Quarter turn about z maps +x to +y.
	x, y, _ = Rotate(math.Pi/2, "z").Apply(1, 0, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("rotate z: got (%v, %v)", x, y)
	}

	composed := Translate(5, 0, 0).Mul(Scale(2, 2, 2))

	x, _, _ = composed.Apply(1, 0, 0)
	if x != 7 {
		t.Errorf("translate after scale: got %v", x)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Scalar(2.5, Length), "2.5mm"},
		{Scalar(6, Area), "6mm2"},
		{NewInt(42), "42"},
		{NewBool(true), "true"},
		{NewString("hi"), `"hi"`},
		{NewList(NewInt(1), NewInt(2)), "[1, 2]"},
		{None(), "none"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
