// Package value implements the tagged-union runtime value of the modeling
// language: numbers with physical-quantity tags, strings, booleans, lists,
// maps, named tuples, matrices, and symbol references, together with the
// unit algebra used by arithmetic and the static type descriptions used for
// parameter checking.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/cadl/diag"
)

// newError builds a package sentinel error.
func newError(msg string) *diag.Error { return diag.NewError(msg) }

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindScalar
	KindString
	KindList
	KindMap
	KindTuple
	KindMatrix
	KindSymbol
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindMatrix:
		return "matrix"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Value is the runtime value tagged union. Exactly one payload field is
// meaningful based on Kind; the zero value is None.
type Value struct {
	Kind Kind

	Bool     bool
	Int      int64
	Num      float64  // Scalar magnitude, in base units
	Quantity Quantity // Scalar quantity tag
	Str      string
	List     []Value
	Map      *Map
	Tuple    *Tuple
	Matrix   *Matrix
	Symbol   string // qualified symbol name, e.g. "std::geo2d::rect"
}

// None returns the empty value.
func None() Value { return Value{} }

// NewBool builds a boolean value.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewInt builds an integer value.
func NewInt(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Scalar builds a quantity-tagged scalar from a magnitude in base units.
func Scalar(magnitude float64, q Quantity) Value {
	return Value{Kind: KindScalar, Num: magnitude, Quantity: q}
}

// NewString builds a string value.
func NewString(s string) Value { return Value{Kind: KindString, Str: s} }

// NewList builds a list value. Lists are ordered and homogeneous; the
// evaluator enforces homogeneity when constructing list literals.
func NewList(items ...Value) Value { return Value{Kind: KindList, List: items} }

// NewSymbol builds a symbol-reference value from a qualified name.
func NewSymbol(qualified string) Value {
	return Value{Kind: KindSymbol, Symbol: qualified}
}

// NewTuple builds a tuple value from fields.
func NewTuple(fields ...Field) Value {
	return Value{Kind: KindTuple, Tuple: &Tuple{Fields: fields}}
}

// NewMatrix wraps a matrix into a value.
func NewMatrix(m *Matrix) Value { return Value{Kind: KindMatrix, Matrix: m} }

// IsNone reports whether the value is the empty value.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// Magnitude returns the numeric magnitude of an Integer or Scalar value.
func (v Value) Magnitude() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindScalar:
		return v.Num, true
	default:
		return 0, false
	}
}

// Field is one tuple field. Name may be empty for positional fields.
type Field struct {
	Name  string
	Value Value
}

// Tuple is an ordered collection of optionally named fields.
type Tuple struct {
	Fields []Field
}

// Get returns the value of the named field.
func (t *Tuple) Get(name string) (Value, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return None(), false
}

// Set replaces the named field or appends it if absent.
func (t *Tuple) Set(name string, v Value) {
	for i, f := range t.Fields {
		if f.Name == name {
			t.Fields[i].Value = v

			return
		}
	}

	t.Fields = append(t.Fields, Field{Name: name, Value: v})
}

// Len returns the number of fields.
func (t *Tuple) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Fields)
}

// MapKey is a map key restricted to integer, bool, and string kinds.
// The struct is comparable so it can key a Go map directly.
type MapKey struct {
	Kind Kind
	Int  int64
	Bool bool
	Str  string
}

// ErrInvalidMapKey is returned when a value of a non-key kind is used as a
// map key.
var ErrInvalidMapKey = newError("invalid map key kind")

// KeyOf converts a value into a map key.
func KeyOf(v Value) (MapKey, error) {
	switch v.Kind {
	case KindInteger:
		return MapKey{Kind: KindInteger, Int: v.Int}, nil
	case KindBool:
		return MapKey{Kind: KindBool, Bool: v.Bool}, nil
	case KindString:
		return MapKey{Kind: KindString, Str: v.Str}, nil
	default:
		return MapKey{}, ErrInvalidMapKey
	}
}

// String formats a map key as its literal representation.
func (k MapKey) String() string {
	switch k.Kind {
	case KindInteger:
		return strconv.FormatInt(k.Int, 10)
	case KindBool:
		return strconv.FormatBool(k.Bool)
	case KindString:
		return strconv.Quote(k.Str)
	default:
		return "<invalid>"
	}
}

// Map is an insertion-ordered mapping from restricted keys to values.
type Map struct {
	keys    []MapKey
	entries map[MapKey]Value
}

// NewMap creates an empty map value.
func NewMap() Value {
	return Value{Kind: KindMap, Map: &Map{entries: make(map[MapKey]Value)}}
}

// Put inserts or replaces an entry.
func (m *Map) Put(k MapKey, v Value) {
	if _, ok := m.entries[k]; !ok {
		m.keys = append(m.keys, k)
	}

	m.entries[k] = v
}

// Get returns the value stored under k.
func (m *Map) Get(k MapKey) (Value, bool) {
	v, ok := m.entries[k]

	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []MapKey { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Equal reports deep structural equality. Scalars compare equal when their
// quantity tags match and magnitudes are equal within a small relative
// epsilon, so unit round trips (in → mm → in) stay equal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindNone:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindInteger:
		return a.Int == b.Int
	case KindScalar:
		return a.Quantity == b.Quantity && nearlyEqual(a.Num, b.Num)
	case KindString:
		return a.Str == b.Str
	case KindSymbol:
		return a.Symbol == b.Symbol
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}

		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}

		return true
	case KindTuple:
		if a.Tuple.Len() != b.Tuple.Len() {
			return false
		}

		for i, f := range a.Tuple.Fields {
			g := b.Tuple.Fields[i]
			if f.Name != g.Name || !Equal(f.Value, g.Value) {
				return false
			}
		}

		return true
	case KindMap:
		if a.Map.Len() != b.Map.Len() {
			return false
		}

		for _, k := range a.Map.keys {
			av, _ := a.Map.Get(k)

			bv, ok := b.Map.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}

		return true
	case KindMatrix:
		return a.Matrix.Equal(b.Matrix)
	default:
		return false
	}
}

const epsilon = 1e-9

func nearlyEqual(a, b float64) bool {
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))

	return diff <= epsilon*math.Max(scale, 1)
}

// String formats the value as source-like text. Scalars print in their base
// unit with the quantity's canonical suffix.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindScalar:
		return formatScalar(v.Num, v.Quantity)
	case KindString:
		return strconv.Quote(v.Str)
	case KindSymbol:
		return v.Symbol
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, 0, v.Tuple.Len())

		for _, f := range v.Tuple.Fields {
			if f.Name != "" {
				parts = append(parts, f.Name+" = "+f.Value.String())
			} else {
				parts = append(parts, f.Value.String())
			}
		}

		return "(" + strings.Join(parts, ", ") + ")"
	case KindMap:
		parts := make([]string, 0, v.Map.Len())

		for _, k := range v.Map.Keys() {
			mv, _ := v.Map.Get(k)
			parts = append(parts, k.String()+": "+mv.String())
		}

		return "{" + strings.Join(parts, ", ") + "}"
	case KindMatrix:
		return v.Matrix.String()
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

// formatScalar prints a magnitude with the canonical suffix of its quantity.
func formatScalar(mag float64, q Quantity) string {
	s := strconv.FormatFloat(mag, 'f', -1, 64)

	switch q {
	case Length:
		return s + "mm"
	case Area:
		return s + "mm2"
	case Volume:
		return s + "mm3"
	case Angle:
		return s + "rad"
	case Weight:
		return s + "g"
	case Density:
		return s + "g/mm3"
	default:
		return s
	}
}
