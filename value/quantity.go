package value

import (
	"log/slog"
	"math"
)

// Quantity is the physical-quantity classification carried by a numeric
// value. Arithmetic between scalars consults the quantity algebra below;
// invalid combinations fail with a typed error rather than panicking.
type Quantity uint8

const (
	// Dimensionless marks a plain number with no physical unit.
	Dimensionless Quantity = iota
	Length
	Area
	Volume
	Angle
	Weight
	Density
)

// String returns the lowercase name of the quantity.
func (q Quantity) String() string {
	switch q {
	case Dimensionless:
		return "scalar"
	case Length:
		return "length"
	case Area:
		return "area"
	case Volume:
		return "volume"
	case Angle:
		return "angle"
	case Weight:
		return "weight"
	case Density:
		return "density"
	default:
		return "unknown"
	}
}

// Base units: millimeter, square millimeter, cubic millimeter, radian, gram,
// gram per cubic millimeter. Every scalar stores its magnitude in the base
// unit of its quantity; unit suffixes only scale literals on the way in and
// format values on the way out.

// Unit describes a recognized unit suffix.
type Unit struct {
	Symbol   string
	Quantity Quantity
	// Factor converts a literal tagged with this unit into base units.
	Factor float64
}

//nolint:gochecknoglobals
var units = []Unit{
	// length (base mm)
	{"mm", Length, 1},
	{"cm", Length, 10},
	{"m", Length, 1000},
	{"µm", Length, 0.001},
	{"um", Length, 0.001},
	{"in", Length, 25.4},

	// area (base mm²)
	{"mm2", Area, 1},
	{"cm2", Area, 100},
	{"m2", Area, 1e6},
	{"in2", Area, 645.16},

	// volume (base mm³)
	{"mm3", Volume, 1},
	{"cm3", Volume, 1e3},
	{"ml", Volume, 1e3},
	{"l", Volume, 1e6},
	{"m3", Volume, 1e9},

	// angle (base rad)
	{"rad", Angle, 1},
	{"deg", Angle, math.Pi / 180},
	{"grad", Angle, math.Pi / 200},
	{"turn", Angle, 2 * math.Pi},

	// weight (base g)
	{"g", Weight, 1},
	{"kg", Weight, 1000},
	{"lb", Weight, 453.59237},

	// dimensionless
	{"%", Dimensionless, 0.01},
}

//nolint:gochecknoglobals
var unitIndex = func() map[string]Unit {
	m := make(map[string]Unit, len(units))
	for _, u := range units {
		m[u.Symbol] = u
	}

	return m
}()

// LookupUnit returns the unit for a suffix symbol.
func LookupUnit(symbol string) (Unit, bool) {
	u, ok := unitIndex[symbol]

	return u, ok
}

// ErrUnknownUnit is returned when a literal carries an unrecognized suffix.
var ErrUnknownUnit = newError("unknown unit suffix")

// ScalarFromLiteral builds a Scalar value from a literal magnitude and an
// optional unit suffix. An empty suffix yields a dimensionless scalar.
func ScalarFromLiteral(magnitude float64, suffix string) (Value, error) {
	if suffix == "" {
		return Scalar(magnitude, Dimensionless), nil
	}

	u, ok := LookupUnit(suffix)
	if !ok {
		return None(), ErrUnknownUnit.With(slog.String("suffix", suffix))
	}

	return Scalar(magnitude*u.Factor, u.Quantity), nil
}

// mulQuantity returns the quantity of a product, or false when the two
// quantities cannot be multiplied.
func mulQuantity(a, b Quantity) (Quantity, bool) {
	switch {
	case a == Dimensionless:
		return b, true
	case b == Dimensionless:
		return a, true
	case a == Length && b == Length:
		return Area, true
	case (a == Length && b == Area) || (a == Area && b == Length):
		return Volume, true
	case (a == Density && b == Volume) || (a == Volume && b == Density):
		return Weight, true
	default:
		return Dimensionless, false
	}
}

// divQuantity returns the quantity of a ratio, or false when the two
// quantities cannot be divided.
func divQuantity(a, b Quantity) (Quantity, bool) {
	switch {
	case a == b:
		return Dimensionless, true
	case b == Dimensionless:
		return a, true
	case a == Area && b == Length:
		return Length, true
	case a == Volume && b == Length:
		return Area, true
	case a == Volume && b == Area:
		return Length, true
	case a == Weight && b == Volume:
		return Density, true
	case a == Weight && b == Density:
		return Volume, true
	default:
		return Dimensionless, false
	}
}
