// Package builtin registers the std namespace: primitive workbenches,
// transforms, model operations, and math functions provided by the
// runtime.
package builtin

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/syntax"
	"github.com/ardnew/cadl/value"
)

// Parameter types used across the registry.
var (
	lengthT = value.Type{Kind: value.KindScalar, Quantity: value.Length}
	angleT  = value.Type{Kind: value.KindScalar, Quantity: value.Angle}
	scalarT = value.Type{Kind: value.KindScalar}
	stringT = value.Type{Kind: value.KindString}
)

// Std returns a fresh symbol tree root with the standard namespace
// registered under "std".
func Std() *sym.Symbol {
	root := sym.NewRoot()

	std := namespace(root, "std")

	registerGeo2D(namespace(std, "geo2d"))
	registerGeo3D(namespace(std, "geo3d"))
	registerTransform(namespace(std, "transform"))
	registerOps(namespace(std, "ops"))
	registerMath(namespace(std, "math"))

	return root
}

func namespace(parent *sym.Symbol, name string) *sym.Symbol {
	s, err := parent.New(sym.Namespace, name)
	if err != nil {
		panic(fmt.Sprintf("builtin: namespace %s: %v", name, err))
	}

	return s
}

func register(parent *sym.Symbol, name string, b *sym.Builtin) {
	err := parent.Add(&sym.Symbol{
		Kind:    sym.BuiltinSym,
		Name:    name,
		Builtin: b,
	})
	if err != nil {
		panic(fmt.Sprintf("builtin: register %s: %v", name, err))
	}
}

// param declares a required parameter.
func param(name string, t value.Type) sym.Param {
	return sym.Param{Name: name, Type: t}
}

// optional declares a parameter with a pre-computed default.
func optional(name string, t value.Type, def value.Value) sym.Param {
	return sym.Param{Name: name, Type: t, Value: def, HasValue: true}
}

func registerGeo2D(ns *sym.Symbol) {
	zero := value.Scalar(0, value.Length)

	register(ns, "rect", &sym.Builtin{
		Params: []sym.Param{
			param("width", lengthT),
			param("height", lengthT),
			optional("x", lengthT, zero),
			optional("y", lengthT, zero),
		},
		Primitive: "rect",
		Dim:       sym.Dim2,
		Pure:      true,
	})

	register(ns, "circle", &sym.Builtin{
		Params: []sym.Param{
			param("radius", lengthT),
			optional("x", lengthT, zero),
			optional("y", lengthT, zero),
		},
		Primitive: "circle",
		Dim:       sym.Dim2,
		Pure:      true,
	})
}

func registerGeo3D(ns *sym.Symbol) {
	register(ns, "cube", &sym.Builtin{
		Params: []sym.Param{
			param("size", lengthT),
		},
		Primitive: "cube",
		Dim:       sym.Dim3,
		Pure:      true,
	})

	register(ns, "sphere", &sym.Builtin{
		Params: []sym.Param{
			param("radius", lengthT),
		},
		Primitive: "sphere",
		Dim:       sym.Dim3,
		Pure:      true,
	})

	register(ns, "cylinder", &sym.Builtin{
		Params: []sym.Param{
			param("radius", lengthT),
			param("height", lengthT),
		},
		Primitive: "cylinder",
		Dim:       sym.Dim3,
		Pure:      true,
	})
}

func registerTransform(ns *sym.Symbol) {
	zero := value.Scalar(0, value.Length)
	one := value.Scalar(1, value.Dimensionless)

	register(ns, "translate", &sym.Builtin{
		Params: []sym.Param{
			optional("x", lengthT, zero),
			optional("y", lengthT, zero),
			optional("z", lengthT, zero),
		},
		Transform: func(args *value.Tuple) (*value.Matrix, error) {
			return value.Translate(
				scalarField(args, "x"),
				scalarField(args, "y"),
				scalarField(args, "z"),
			), nil
		},
		Pure: true,
	})

	register(ns, "rotate", &sym.Builtin{
		Params: []sym.Param{
			param("angle", angleT),
			optional("axis", stringT, value.NewString("z")),
		},
		Transform: func(args *value.Tuple) (*value.Matrix, error) {
			axis, _ := args.Get("axis")

			return value.Rotate(scalarField(args, "angle"), axis.Str), nil
		},
		Pure: true,
	})

	register(ns, "scale", &sym.Builtin{
		Params: []sym.Param{
			optional("x", scalarT, one),
			optional("y", scalarT, one),
			optional("z", scalarT, one),
		},
		Transform: func(args *value.Tuple) (*value.Matrix, error) {
			return value.Scale(
				scalarField(args, "x"),
				scalarField(args, "y"),
				scalarField(args, "z"),
			), nil
		},
		Pure: true,
	})
}

func registerOps(ns *sym.Symbol) {
	for _, op := range []string{
		"union",
		"difference",
		"intersection",
		"complement",
		"hull",
	} {
		register(ns, op, &sym.Builtin{
			Operation: op,
			Pure:      true,
		})
	}
}

func registerMath(ns *sym.Symbol) {
	mustAdd := func(s *sym.Symbol) {
		if err := ns.Add(s); err != nil {
			panic(fmt.Sprintf("builtin: register %s: %v", s.Name, err))
		}
	}

	// Constants carry synthetic initializers so they evaluate through
	// the same path as source-defined constants.
	mustAdd(&sym.Symbol{
		Kind: sym.Constant,
		Name: "pi",
		Expr: &syntax.Expr{Kind: syntax.ExprNumber, Num: math.Pi},
	})

	mustAdd(&sym.Symbol{
		Kind: sym.Constant,
		Name: "tau",
		Expr: &syntax.Expr{Kind: syntax.ExprNumber, Num: 2 * math.Pi},
	})

	register(ns, "abs", unary("abs", math.Abs))
	register(ns, "sqrt", unary("sqrt", math.Sqrt))
	register(ns, "floor", unary("floor", math.Floor))
	register(ns, "ceil", unary("ceil", math.Ceil))
	register(ns, "sin", unary("sin", math.Sin))
	register(ns, "cos", unary("cos", math.Cos))

	register(ns, "min", binary("min", math.Min))
	register(ns, "max", binary("max", math.Max))

	// rand is the one impure entry: models built from its results are
	// re-evaluated on every render instead of served from cache.
	register(ns, "rand", &sym.Builtin{
		Params: []sym.Param{
			optional("min", value.Any, value.Scalar(0, value.Dimensionless)),
			optional("max", value.Any, value.Scalar(1, value.Dimensionless)),
		},
		Fn: func(args *value.Tuple) (value.Value, error) {
			lo, _ := args.Get("min")
			hi, _ := args.Get("max")

			if lo.Quantity != hi.Quantity {
				return value.None(), value.ErrQuantityMismatch
			}

			lom, _ := lo.Magnitude()
			him, _ := hi.Magnitude()

			return value.Scalar(lom+rand.Float64()*(him-lom), lo.Quantity), nil
		},
	})
}

// unary wraps a float function as a pure builtin preserving the
// argument's quantity.
func unary(name string, fn func(float64) float64) *sym.Builtin {
	return &sym.Builtin{
		Params: []sym.Param{param("x", value.Any)},
		Fn: func(args *value.Tuple) (value.Value, error) {
			x, _ := args.Get("x")

			mag, ok := x.Magnitude()
			if !ok {
				return value.None(), value.ErrInvalidOperands.With(
					slog.String("function", name),
				)
			}

			return value.Scalar(fn(mag), x.Quantity), nil
		},
		Pure: true,
	}
}

// binary wraps a float function of two arguments, requiring both to
// share one quantity.
func binary(name string, fn func(float64, float64) float64) *sym.Builtin {
	return &sym.Builtin{
		Params: []sym.Param{param("a", value.Any), param("b", value.Any)},
		Fn: func(args *value.Tuple) (value.Value, error) {
			a, _ := args.Get("a")
			b, _ := args.Get("b")

			if a.Quantity != b.Quantity {
				return value.None(), value.ErrQuantityMismatch.With(
					slog.String("function", name),
				)
			}

			am, aok := a.Magnitude()
			bm, bok := b.Magnitude()

			if !aok || !bok {
				return value.None(), value.ErrInvalidOperands.With(
					slog.String("function", name),
				)
			}

			return value.Scalar(fn(am, bm), a.Quantity), nil
		},
		Pure: true,
	}
}

// scalarField reads a numeric field's magnitude, zero when absent.
func scalarField(t *value.Tuple, name string) float64 {
	v, ok := t.Get(name)
	if !ok {
		return 0
	}

	mag, _ := v.Magnitude()

	return mag
}
