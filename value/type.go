package value

import "log/slog"

// Type is the static description of a value used for parameter checking.
// Scalar types carry a quantity; aggregate kinds describe structure only.
type Type struct {
	Kind     Kind
	Quantity Quantity
}

// Any is the unconstrained type: every value is assignable to it.
//
//nolint:gochecknoglobals
var Any = Type{Kind: KindNone}

// ErrUnknownType is returned when a parameter declares an unrecognized type
// name.
var ErrUnknownType = newError("unknown type name")

// ParseType resolves a declared type name from source text.
func ParseType(name string) (Type, error) {
	switch name {
	case "", "Any":
		return Any, nil
	case "Bool":
		return Type{Kind: KindBool}, nil
	case "Integer":
		return Type{Kind: KindInteger}, nil
	case "Scalar":
		return Type{Kind: KindScalar, Quantity: Dimensionless}, nil
	case "Length":
		return Type{Kind: KindScalar, Quantity: Length}, nil
	case "Area":
		return Type{Kind: KindScalar, Quantity: Area}, nil
	case "Volume":
		return Type{Kind: KindScalar, Quantity: Volume}, nil
	case "Angle":
		return Type{Kind: KindScalar, Quantity: Angle}, nil
	case "Weight":
		return Type{Kind: KindScalar, Quantity: Weight}, nil
	case "Density":
		return Type{Kind: KindScalar, Quantity: Density}, nil
	case "String":
		return Type{Kind: KindString}, nil
	case "Tuple":
		return Type{Kind: KindTuple}, nil
	case "Matrix":
		return Type{Kind: KindMatrix}, nil
	default:
		return Any, ErrUnknownType.With(slog.String("name", name))
	}
}

// String returns the declared name of the type.
func (t Type) String() string {
	if t == Any {
		return "Any"
	}

	if t.Kind == KindScalar {
		switch t.Quantity {
		case Length:
			return "Length"
		case Area:
			return "Area"
		case Volume:
			return "Volume"
		case Angle:
			return "Angle"
		case Weight:
			return "Weight"
		case Density:
			return "Density"
		default:
			return "Scalar"
		}
	}

	switch t.Kind {
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindString:
		return "String"
	case KindTuple:
		return "Tuple"
	case KindMatrix:
		return "Matrix"
	default:
		return t.Kind.String()
	}
}

// TypeOf returns the static type of a runtime value.
func TypeOf(v Value) Type {
	if v.Kind == KindScalar {
		return Type{Kind: KindScalar, Quantity: v.Quantity}
	}

	return Type{Kind: v.Kind}
}

// Coerce adapts v to the declared type t, returning the adapted value and
// whether the assignment is valid:
//
//   - every value is assignable to Any;
//   - a dimensionless numeric literal adopts the declared quantity in base
//     units, so rect(width = 10) type-checks against a Length parameter;
//   - an integer widens to a dimensionless scalar;
//   - a scalar carrying a different quantity does not coerce.
func Coerce(v Value, t Type) (Value, bool) {
	if t == Any {
		return v, true
	}

	if t.Kind == KindScalar {
		switch v.Kind {
		case KindInteger:
			return Scalar(float64(v.Int), t.Quantity), true
		case KindScalar:
			if v.Quantity == t.Quantity {
				return v, true
			}

			if v.Quantity == Dimensionless {
				return Scalar(v.Num, t.Quantity), true
			}

			return v, false
		default:
			return v, false
		}
	}

	if v.Kind == t.Kind {
		return v, true
	}

	return v, false
}
