package sym

import "github.com/ardnew/cadl/value"

// Dim describes the dimensionality of a builtin's geometric output.
type Dim int

const (
	DimNone Dim = iota
	Dim2
	Dim3
)

// String returns the name of the dimensionality.
func (d Dim) String() string {
	switch d {
	case Dim2:
		return "2d"
	case Dim3:
		return "3d"
	default:
		return "none"
	}
}

// Builtin describes a callable provided by the runtime rather than by
// source text. Exactly one of Fn, Primitive, Transform, or Operation is
// set, and it determines how a call dispatches:
//
//   - Fn computes a value immediately during evaluation.
//   - Primitive produces a model node naming a kernel primitive.
//   - Transform produces a model node carrying a matrix applied to its
//     children.
//   - Operation produces a model node combining its children.
type Builtin struct {
	Params []Param

	Fn        func(args *value.Tuple) (value.Value, error)
	Primitive string
	Transform func(args *value.Tuple) (*value.Matrix, error)
	Operation string

	// Dim is the output dimensionality of Primitive builtins.
	Dim Dim

	// Pure reports whether repeated calls with equal arguments yield
	// equal results. Impure builtins disable render caching for any
	// model subtree they produce.
	Pure bool
}

// Class returns a short label for the dispatch variant, for diagnostics.
func (b *Builtin) Class() string {
	switch {
	case b.Fn != nil:
		return "function"
	case b.Primitive != "":
		return "primitive"
	case b.Transform != nil:
		return "transform"
	case b.Operation != "":
		return "operation"
	default:
		return "unknown"
	}
}
