package model

import (
	"testing"

	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/value"
)

func primitive(name string, pure bool) *Model {
	s := &sym.Symbol{
		Kind:    sym.BuiltinSym,
		Name:    name,
		Builtin: &sym.Builtin{Primitive: name, Dim: sym.Dim3, Pure: pure},
	}

	return NewPrimitive(s, name, value.NewTuple().Tuple)
}

func TestWalkOrder(t *testing.T) {
	tree := NewGroup(
		NewOperation(nil, nil, "union", []*Model{
			primitive("cube", true),
			primitive("sphere", true),
		}),
		primitive("cylinder", true),
	)

	var names []string

	tree.Walk(func(m *Model, _ int) bool {
		names = append(names, m.Origin.Kind.String())

		return true
	})

	want := []string{
		"group", "operation", "primitive", "primitive", "primitive",
	}

	if len(names) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(names))
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("node %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	if tree.Count() != 5 {
		t.Errorf("expected Count 5, got %d", tree.Count())
	}
}

func TestWalkPrune(t *testing.T) {
	tree := NewGroup(
		NewOperation(nil, nil, "union", []*Model{primitive("cube", true)}),
	)

	n := 0

	tree.Walk(func(m *Model, depth int) bool {
		n++

		return depth < 1
	})

	if n != 2 {
		t.Errorf("expected pruned walk to visit 2 nodes, got %d", n)
	}
}

func TestPurityPropagates(t *testing.T) {
	impure := primitive("noise", false)

	tree := NewGroup(NewOperation(nil, nil, "union", []*Model{
		primitive("cube", true),
		impure,
	}))

	if tree.Pure {
		t.Error("impure descendant must mark the tree impure")
	}

	clean := NewGroup(primitive("cube", true))
	if !clean.Pure {
		t.Error("tree of pure nodes must be pure")
	}
}

func TestSubstituteChildren(t *testing.T) {
	body := NewTransform(nil, nil, value.Translate(1, 0, 0), []*Model{
		NewChildrenMarker(),
	})

	caller := []*Model{primitive("cube", true), primitive("sphere", true)}

	result := body.SubstituteChildren(caller)
	if len(result) != 1 {
		t.Fatalf("expected 1 root, got %d", len(result))
	}

	if len(result[0].Children) != 2 {
		t.Fatalf("expected 2 spliced children, got %d",
			len(result[0].Children))
	}

	if result[0].Children[0].Origin.Primitive != "cube" {
		t.Errorf("unexpected first child %q",
			result[0].Children[0].Origin.Primitive)
	}

	// Original template keeps its marker for reuse by later calls.
	if body.Children[0].Origin.Kind != OriginChildren {
		t.Error("substitution must not mutate the template")
	}
}

func TestSubstituteSharesMarkerFreeSubtrees(t *testing.T) {
	static := primitive("cube", true)

	body := NewGroup(static, NewChildrenMarker())

	result := body.SubstituteChildren([]*Model{primitive("sphere", true)})
	if len(result) != 1 {
		t.Fatalf("expected 1 root, got %d", len(result))
	}

	if result[0].Children[0] != static {
		t.Error("marker-free subtree should be shared, not copied")
	}
}
