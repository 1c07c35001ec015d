// Package model defines the tree of geometric instances produced by
// evaluation. A model records which definition produced it, the arguments
// it was produced with, and its child models. Geometry is not computed
// here; the render package materializes model trees on demand.
package model

import (
	"iter"

	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/value"
)

// OriginKind discriminates what produced a model node.
type OriginKind int

const (
	// OriginGroup is a bare grouping node with no geometry of its own.
	OriginGroup OriginKind = iota

	// OriginWorkbench is an instantiated source-defined workbench.
	OriginWorkbench

	// OriginPrimitive is a builtin primitive realized by the kernel.
	OriginPrimitive

	// OriginTransform applies a matrix to its children.
	OriginTransform

	// OriginOperation combines its children with a boolean operation.
	OriginOperation

	// OriginChildren marks where caller-supplied children splice into an
	// operator workbench body. It never survives into a finished tree.
	OriginChildren
)

// String returns the lowercase name of the origin kind.
func (k OriginKind) String() string {
	switch k {
	case OriginGroup:
		return "group"
	case OriginWorkbench:
		return "workbench"
	case OriginPrimitive:
		return "primitive"
	case OriginTransform:
		return "transform"
	case OriginOperation:
		return "operation"
	case OriginChildren:
		return "children"
	default:
		return "unknown"
	}
}

// Origin records the provenance of a model node.
type Origin struct {
	Kind OriginKind

	// Symbol is the definition that produced this node, nil for groups.
	Symbol *sym.Symbol

	// Args holds the bound arguments the definition was called with, in
	// parameter declaration order.
	Args *value.Tuple

	// Primitive names the kernel primitive for OriginPrimitive nodes.
	Primitive string

	// Matrix is the transform for OriginTransform nodes.
	Matrix *value.Matrix

	// Operation names the combinator for OriginOperation nodes.
	Operation string
}

// Model is one node of an evaluated model tree. Nodes do not point at
// their parents; trees are walked top down and subtrees are shareable.
type Model struct {
	Origin     Origin
	Attributes map[string]value.Value
	Children   []*Model

	// Resolution is the tessellation quality for this subtree. Zero
	// inherits the renderer default.
	Resolution int

	// Pure is false when this node or any definition on its path calls
	// an impure builtin. Impure subtrees bypass the render cache.
	Pure bool
}

// NewGroup creates a grouping node over the given children.
func NewGroup(children ...*Model) *Model {
	return &Model{
		Origin:   Origin{Kind: OriginGroup},
		Children: children,
		Pure:     pureAll(children),
	}
}

// NewWorkbench creates a node for an instantiated workbench definition.
func NewWorkbench(s *sym.Symbol, args *value.Tuple, children []*Model) *Model {
	return &Model{
		Origin:   Origin{Kind: OriginWorkbench, Symbol: s, Args: args},
		Children: children,
		Pure:     pureAll(children),
	}
}

// NewPrimitive creates a node naming a kernel primitive.
func NewPrimitive(s *sym.Symbol, primitive string, args *value.Tuple) *Model {
	pure := true
	if s != nil && s.Builtin != nil {
		pure = s.Builtin.Pure
	}

	return &Model{
		Origin: Origin{
			Kind:      OriginPrimitive,
			Symbol:    s,
			Args:      args,
			Primitive: primitive,
		},
		Pure: pure,
	}
}

// NewTransform creates a node applying a matrix to children.
func NewTransform(
	s *sym.Symbol,
	args *value.Tuple,
	m *value.Matrix,
	children []*Model,
) *Model {
	return &Model{
		Origin: Origin{
			Kind:   OriginTransform,
			Symbol: s,
			Args:   args,
			Matrix: m,
		},
		Children: children,
		Pure:     pureAll(children),
	}
}

// NewOperation creates a node combining children with the named
// operation.
func NewOperation(
	s *sym.Symbol,
	args *value.Tuple,
	operation string,
	children []*Model,
) *Model {
	return &Model{
		Origin: Origin{
			Kind:      OriginOperation,
			Symbol:    s,
			Args:      args,
			Operation: operation,
		},
		Children: children,
		Pure:     pureAll(children),
	}
}

// NewChildrenMarker creates the splice placeholder used inside operator
// workbench bodies.
func NewChildrenMarker() *Model {
	return &Model{Origin: Origin{Kind: OriginChildren}, Pure: true}
}

func pureAll(children []*Model) bool {
	for _, c := range children {
		if !c.Pure {
			return false
		}
	}

	return true
}

// Name returns the full name of the producing definition, or the origin
// kind for anonymous nodes.
func (m *Model) Name() string {
	if m.Origin.Symbol != nil {
		return m.Origin.Symbol.FullName()
	}

	return m.Origin.Kind.String()
}

// Walk visits m and every descendant depth first in child order. The
// visitor returns false to prune a subtree.
func (m *Model) Walk(visit func(*Model, int) bool) {
	m.walk(visit, 0)
}

func (m *Model) walk(visit func(*Model, int) bool, depth int) {
	if !visit(m, depth) {
		return
	}

	for _, c := range m.Children {
		c.walk(visit, depth+1)
	}
}

// Count returns the number of nodes in the tree rooted at m.
func (m *Model) Count() int {
	n := 0

	m.Walk(func(*Model, int) bool {
		n++

		return true
	})

	return n
}

// SubstituteChildren returns a copy of the tree rooted at m with every
// children marker replaced by the given models. Subtrees containing no
// marker are shared, not copied.
func (m *Model) SubstituteChildren(children []*Model) []*Model {
	if m.Origin.Kind == OriginChildren {
		return children
	}

	if !m.containsMarker() {
		return []*Model{m}
	}

	clone := *m
	clone.Children = nil

	for _, c := range m.Children {
		clone.Children = append(clone.Children, c.SubstituteChildren(children)...)
	}

	clone.Pure = clone.Pure && pureAll(clone.Children)

	return []*Model{&clone}
}

func (m *Model) containsMarker() bool {
	found := false

	m.Walk(func(node *Model, _ int) bool {
		if node.Origin.Kind == OriginChildren {
			found = true
		}

		return !found
	})

	return found
}

// Models is an ordered collection of model trees, as produced by one
// evaluation. Multiplicity expansion yields one entry per argument
// combination, in row-major order over the expanded arguments.
type Models []*Model

// All iterates the collection in order.
func (ms Models) All() iter.Seq2[int, *Model] {
	return func(yield func(int, *Model) bool) {
		for i, m := range ms {
			if !yield(i, m) {
				return
			}
		}
	}
}
