package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/cadl/builtin"
	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/eval"
	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/sym"
)

// Resolve declares and binds source files and prints the resulting symbol
// graph.
type Resolve struct {
	Builtins bool `help:"Include the std namespace in the listing" short:"b"`

	Source []string `arg:"" default:"-" help:"Model source file(s) or '-' for stdin" name:"source" optional:""`
}

var (
	styleSymName = lipgloss.NewStyle().Bold(true)
	styleSymKind = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	files, err := loadSources(ctx, r.Source, searchPathFrom(ctx))
	if err != nil {
		return err
	}

	sink := diag.NewSink()

	ectx := eval.New(builtin.Std(),
		eval.WithSink(sink),
		eval.WithLogger(log.Default()),
	)

	for _, file := range files {
		ectx.Load(file)
	}

	ectx.Bind()

	root := tree.Root(".")

	for child := range ectx.Root().Children() {
		if child.Name == "std" && !r.Builtins {
			continue
		}

		root.Child(symbolTree(child))
	}

	fmt.Println(root)

	if err := sink.Print(os.Stderr, diag.SeverityWarning); err != nil {
		return err
	}

	if sink.HasErrors() {
		return ErrDiagnostics
	}

	return nil
}

func symbolTree(s *sym.Symbol) *tree.Tree {
	t := tree.Root(symbolLabel(s))

	for child := range s.Children() {
		t.Child(symbolTree(child))
	}

	return t
}

func symbolLabel(s *sym.Symbol) string {
	return styleSymName.Render(s.Name) + " " +
		styleSymKind.Render(symbolDetail(s))
}

// symbolDetail describes what a symbol names beyond its kind: workbench
// flavor and parameters, alias targets, and builtin classes.
func symbolDetail(s *sym.Symbol) string {
	switch s.Kind {
	case sym.Workbench:
		params := make([]string, len(s.Workbench.Params))
		for i, p := range s.Workbench.Params {
			params[i] = p.Name
			if p.Type != "" {
				params[i] += ": " + p.Type
			}
		}

		return s.Workbench.Kind.String() +
			"(" + strings.Join(params, ", ") + ")"

	case sym.Alias:
		return "use " + s.Target.FullName()

	case sym.BuiltinSym:
		return "builtin " + s.Builtin.Class()

	default:
		return s.Kind.String()
	}
}
