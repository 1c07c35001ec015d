package value

import (
	"log/slog"

	"github.com/ardnew/cadl/diag"
)

// Typed arithmetic errors. Invalid quantity combinations never panic; the
// evaluator records these as diagnostics and substitutes None.
var (
	ErrQuantityMismatch = newError("quantity mismatch")
	ErrInvalidOperands  = newError("invalid operands")
	ErrDivideByZero     = newError("division by zero")
)

func operandErr(op string, a, b Value) *diag.Error {
	return ErrInvalidOperands.With(
		slog.String("op", op),
		slog.String("lhs", a.Kind.String()),
		slog.String("rhs", b.Kind.String()),
	)
}

// Add returns a + b. Integers stay integral; mixed numerics become scalars
// and both sides must agree on quantity (integers count as dimensionless).
// Strings concatenate; lists concatenate.
func Add(a, b Value) (Value, error) {
	switch {
	case a.Kind == KindInteger && b.Kind == KindInteger:
		return NewInt(a.Int + b.Int), nil

	case isNumeric(a) && isNumeric(b):
		qa, qb := numericQuantity(a), numericQuantity(b)
		if qa != qb {
			return None(), ErrQuantityMismatch.With(
				slog.String("op", "+"),
				slog.String("lhs", qa.String()),
				slog.String("rhs", qb.String()),
			)
		}

		ma, _ := a.Magnitude()
		mb, _ := b.Magnitude()

		return Scalar(ma+mb, qa), nil

	case a.Kind == KindString && b.Kind == KindString:
		return NewString(a.Str + b.Str), nil

	case a.Kind == KindList && b.Kind == KindList:
		merged := make([]Value, 0, len(a.List)+len(b.List))
		merged = append(merged, a.List...)
		merged = append(merged, b.List...)

		return NewList(merged...), nil

	default:
		return None(), operandErr("+", a, b)
	}
}

// Sub returns a - b under the same quantity rules as Add.
func Sub(a, b Value) (Value, error) {
	switch {
	case a.Kind == KindInteger && b.Kind == KindInteger:
		return NewInt(a.Int - b.Int), nil

	case isNumeric(a) && isNumeric(b):
		qa, qb := numericQuantity(a), numericQuantity(b)
		if qa != qb {
			return None(), ErrQuantityMismatch.With(
				slog.String("op", "-"),
				slog.String("lhs", qa.String()),
				slog.String("rhs", qb.String()),
			)
		}

		ma, _ := a.Magnitude()
		mb, _ := b.Magnitude()

		return Scalar(ma-mb, qa), nil

	default:
		return None(), operandErr("-", a, b)
	}
}

// Mul returns a * b using the quantity product algebra
// (length·length = area, length·area = volume, density·volume = weight,
// dimensionless·x = x).
func Mul(a, b Value) (Value, error) {
	switch {
	case a.Kind == KindInteger && b.Kind == KindInteger:
		return NewInt(a.Int * b.Int), nil

	case isNumeric(a) && isNumeric(b):
		qa, qb := numericQuantity(a), numericQuantity(b)

		q, ok := mulQuantity(qa, qb)
		if !ok {
			return None(), ErrQuantityMismatch.With(
				slog.String("op", "*"),
				slog.String("lhs", qa.String()),
				slog.String("rhs", qb.String()),
			)
		}

		ma, _ := a.Magnitude()
		mb, _ := b.Magnitude()

		return Scalar(ma*mb, q), nil

	default:
		return None(), operandErr("*", a, b)
	}
}

// Div returns a / b using the quantity ratio algebra (x/x = dimensionless,
// area/length = length, volume/area = length, weight/volume = density).
// Division always yields a scalar, never an integer.
func Div(a, b Value) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return None(), operandErr("/", a, b)
	}

	mb, _ := b.Magnitude()
	if mb == 0 {
		return None(), ErrDivideByZero
	}

	qa, qb := numericQuantity(a), numericQuantity(b)

	q, ok := divQuantity(qa, qb)
	if !ok {
		return None(), ErrQuantityMismatch.With(
			slog.String("op", "/"),
			slog.String("lhs", qa.String()),
			slog.String("rhs", qb.String()),
		)
	}

	ma, _ := a.Magnitude()

	return Scalar(ma/mb, q), nil
}

// Neg returns -a for numeric values.
func Neg(a Value) (Value, error) {
	switch a.Kind {
	case KindInteger:
		return NewInt(-a.Int), nil
	case KindScalar:
		return Scalar(-a.Num, a.Quantity), nil
	default:
		return None(), ErrInvalidOperands.With(
			slog.String("op", "-"),
			slog.String("operand", a.Kind.String()),
		)
	}
}

func isNumeric(v Value) bool {
	return v.Kind == KindInteger || v.Kind == KindScalar
}

// numericQuantity returns the quantity of a numeric value; integers are
// dimensionless.
func numericQuantity(v Value) Quantity {
	if v.Kind == KindScalar {
		return v.Quantity
	}

	return Dimensionless
}
