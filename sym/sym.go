// Package sym implements the symbol table: a tree of named scopes built
// from source declarations and the builtin registry, navigated by
// qualified names.
package sym

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/syntax"
	"github.com/ardnew/cadl/value"
)

// Kind discriminates what a symbol names.
type Kind int

const (
	Namespace Kind = iota
	Module
	Workbench
	BuiltinSym
	Constant
	Alias
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Namespace:
		return "namespace"
	case Module:
		return "module"
	case Workbench:
		return "workbench"
	case BuiltinSym:
		return "builtin"
	case Constant:
		return "constant"
	case Alias:
		return "alias"
	default:
		return "unknown"
	}
}

var (
	// ErrDuplicateSymbol indicates a name was declared twice in one scope.
	ErrDuplicateSymbol = diag.NewError("duplicate symbol")

	// ErrUnresolvedName indicates a qualified name did not resolve.
	ErrUnresolvedName = diag.NewError("unresolved name")

	// ErrNotNamespace indicates path navigation descended into a symbol
	// that has no children.
	ErrNotNamespace = diag.NewError("not a namespace")
)

// Symbol is a node in the symbol tree. Children are held in declaration
// order so listings and builtin parameter matching are deterministic.
type Symbol struct {
	Kind Kind
	Name string
	Src  diag.SrcRef

	// Workbench holds the definition for Workbench symbols.
	Workbench *syntax.WorkbenchDef

	// Builtin holds the descriptor for BuiltinSym symbols.
	Builtin *Builtin

	// Expr holds the unevaluated initializer for Constant symbols.
	Expr *syntax.Expr

	// Target is the aliased symbol for Alias symbols.
	Target *Symbol

	parent   *Symbol
	children map[string]*Symbol
	order    []string
}

// NewRoot creates an unnamed root namespace.
func NewRoot() *Symbol {
	return &Symbol{Kind: Namespace}
}

// New creates a child symbol of the given kind under s and returns it.
// It fails with ErrDuplicateSymbol when the name is already declared in s.
func (s *Symbol) New(kind Kind, name string) (*Symbol, error) {
	child := &Symbol{Kind: kind, Name: name}
	if err := s.Add(child); err != nil {
		return nil, err
	}

	return child, nil
}

// Add inserts child into s. The child's parent is set to s.
func (s *Symbol) Add(child *Symbol) error {
	if s.children == nil {
		s.children = make(map[string]*Symbol)
	}

	if prev, ok := s.children[child.Name]; ok {
		return ErrDuplicateSymbol.With(
			slog.String("name", child.Name),
			slog.String("kind", child.Kind.String()),
			slog.String("previous", prev.Kind.String()),
		)
	}

	child.parent = s
	s.children[child.Name] = child
	s.order = append(s.order, child.Name)

	return nil
}

// Lookup finds a direct child by name.
func (s *Symbol) Lookup(name string) (*Symbol, bool) {
	child, ok := s.children[name]

	return child, ok
}

// Resolve finds name in s or the nearest enclosing scope that declares it.
func (s *Symbol) Resolve(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if child, ok := scope.children[name]; ok {
			return child, true
		}
	}

	return nil, false
}

// Navigate follows a qualified name path starting from s. The first
// segment resolves lexically; the rest descend through children. Alias
// symbols are transparent. The error names the failing segment and offers
// nearby spellings.
func (s *Symbol) Navigate(path []string) (*Symbol, error) {
	if len(path) == 0 {
		return s, nil
	}

	cur, ok := s.Resolve(path[0])
	if !ok {
		return nil, unresolved(s, path[0], path, true)
	}

	cur = cur.Deref()

	for _, seg := range path[1:] {
		next, ok := cur.Lookup(seg)
		if !ok {
			if len(cur.children) == 0 {
				return nil, ErrNotNamespace.With(
					slog.String("name", cur.FullName()),
					slog.String("kind", cur.Kind.String()),
				)
			}

			return nil, unresolved(cur, seg, path, false)
		}

		cur = next.Deref()
	}

	return cur, nil
}

func unresolved(scope *Symbol, seg string, path []string, lexical bool) error {
	attrs := []slog.Attr{
		slog.String("name", syntax.QualifiedName(path)),
		slog.String("segment", seg),
	}

	if hints := Suggest(scope, seg, lexical); len(hints) > 0 {
		attrs = append(attrs,
			slog.String("did_you_mean", strings.Join(hints, ", ")),
		)
	}

	return ErrUnresolvedName.With(attrs...)
}

// Deref follows alias links to the underlying symbol.
func (s *Symbol) Deref() *Symbol {
	for s.Kind == Alias && s.Target != nil {
		s = s.Target
	}

	return s
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Symbol) Parent() *Symbol { return s.parent }

// Len returns the number of direct children.
func (s *Symbol) Len() int { return len(s.order) }

// Children iterates direct children in declaration order.
func (s *Symbol) Children() iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		for _, name := range s.order {
			if !yield(s.children[name]) {
				return
			}
		}
	}
}

// FullName returns the '::'-joined path from the root to s. The root
// itself contributes nothing.
func (s *Symbol) FullName() string {
	var path []string

	for cur := s; cur != nil && cur.Name != ""; cur = cur.parent {
		path = append(path, cur.Name)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return strings.Join(path, "::")
}

// Param describes one workbench or builtin parameter.
type Param struct {
	Name string
	Type value.Type

	// Default is the unevaluated default expression for source-defined
	// workbenches.
	Default *syntax.Expr

	// Value is the pre-computed default for builtins. HasValue
	// distinguishes a deliberate zero default from no default.
	Value    value.Value
	HasValue bool
}

// Required reports whether a call must bind this parameter.
func (p Param) Required() bool {
	return p.Default == nil && !p.HasValue
}
